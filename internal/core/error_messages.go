package core

// error_messages.go maps technical errors to user-facing messages with codes
// support staff can look up.
//
// # Error Codes Reference
//
// Report errors (REP001-REP099)
//
//	REP001 - Report not found
//	         Patterns: "report not found"
//	REP002 - Report is empty: no columns were submitted
//	         Patterns: "report has no columns"
//	REP003 - Report too large
//	         Patterns: "report too large", "request body too large"
//
// Validation errors (VAL001-VAL099)
//
//	VAL001 - Payload does not match the report schema
//	         Patterns: "jsonschema validation failed"
//	VAL002 - Invalid field in the report payload
//	         Patterns: "invalid report field"
//	VAL003 - Malformed JSON
//	         Patterns: "invalid json", "unexpected end of json"
//
// Location errors (LOC001-LOC099)
//
//	LOC001 - Invalid column label
//	         Patterns: "invalid column label"
//	LOC002 - Invalid coordinate in a query
//	         Patterns: "invalid coordinate"
//	LOC003 - Invalid filter expression
//	         Patterns: "invalid filter expression"
//
// Workbook errors (XLS001-XLS099)
//
//	XLS001 - Malformed cell address in a workbook
//	         Patterns: "malformed cell address"
//	XLS002 - Workbook could not be styled
//	         Patterns: "register", "style workbook"
//
// Export errors (EXP001-EXP099)
//
//	EXP001 - Too many exports in progress
//	         Patterns: "too many concurrent exports"
//	EXP002 - Export timed out
//	         Patterns: "export timed out"
//
// Database errors (DB001-DB099)
//
//	DB001 - Duplicate report id          Patterns: "duplicate key"
//	DB002 - Connection refused           Patterns: "connection refused"
//	DB003 - Connection reset             Patterns: "connection reset"
//	DB004 - Timeout                      Patterns: "timeout"
//
// Request errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled           Patterns: "context canceled"
//	REQ002 - Request timeout             Patterns: "context deadline exceeded"
//
// Rate limiting and auth
//
//	RATE001 - Too many requests          Patterns: "rate limit"
//	AUTH001 - Missing or invalid API key Patterns: "api key"
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones. Anything else
// maps to ERR000.

import (
	"fmt"
	"strings"
)

// UserMessage is a user-friendly description of an error.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Reports
	{"report not found", UserMessage{"Report not found", "It may have expired. Submit the report again", "REP001"}},
	{"report has no columns", UserMessage{"The report has no columns", "Include at least one column name", "REP002"}},
	{"report too large", UserMessage{"The report is too large", "Split the samples into smaller reports", "REP003"}},
	{"request body too large", UserMessage{"The report is too large", "Split the samples into smaller reports", "REP003"}},

	// Payload validation
	{"jsonschema validation failed", UserMessage{"The report does not match the expected format", "Check the field names and types in your payload", "VAL001"}},
	{"invalid report field", UserMessage{"The report contains invalid values", "Review the listed fields and resubmit", "VAL002"}},
	{"invalid json", UserMessage{"The request body is not valid JSON", "Check the payload syntax", "VAL003"}},
	{"unexpected end of json", UserMessage{"The request body is not valid JSON", "Check the payload syntax", "VAL003"}},

	// Locations
	{"invalid column label", UserMessage{"Invalid column label", "Use letters only, for example A, Z or AA", "LOC001"}},
	{"invalid coordinate", UserMessage{"Invalid cell coordinate", "Use non-negative column and row indexes", "LOC002"}},
	{"invalid filter expression", UserMessage{"Invalid search expression", "Check the regular expression syntax", "LOC003"}},

	// Workbooks
	{"malformed cell address", UserMessage{"The workbook contains an unreadable cell address", "Re-save the workbook and try again", "XLS001"}},
	{"style workbook", UserMessage{"The workbook could not be styled", "Check that the file is a valid .xlsx workbook", "XLS002"}},
	{"register", UserMessage{"The workbook could not be styled", "Check that the file is a valid .xlsx workbook", "XLS002"}},

	// Exports
	{"too many concurrent exports", UserMessage{"The server is busy with other exports", "Please wait a moment and try again", "EXP001"}},
	{"export timed out", UserMessage{"The export took too long", "Try again, or export a smaller report", "EXP002"}},

	// Database
	{"duplicate key", UserMessage{"A report with this ID already exists", "Submit the report again", "DB001"}},
	{"connection refused", UserMessage{"Unable to connect to database", "Please try again in a few moments", "DB002"}},
	{"connection reset", UserMessage{"Database connection was interrupted", "Please try again", "DB003"}},

	// Requests; before the generic "timeout" pattern below.
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "REQ001"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Please try again", "REQ002"}},
	{"timeout", UserMessage{"Operation timed out", "Please try again later", "DB004"}},

	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
	{"api key", UserMessage{"Missing or invalid API key", "Send a valid key in the X-API-Key header", "AUTH001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. It returns
// the zero UserMessage for nil and ERR000 when no pattern matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message. Error returns the
// user message; Unwrap returns the technical error for logging.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. It returns nil for nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
