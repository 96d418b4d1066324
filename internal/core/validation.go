package core

// validation.go checks submitted reports in two passes. The payload is first
// validated against the embedded JSON schema, which catches type and shape
// problems. The decoded report is then checked for cross-field consistency,
// collecting every offending field instead of stopping at the first.

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed report.schema.json
var reportSchemaJSON []byte

const reportSchemaURL = "https://errgrid.local/report.schema.json"

var reportSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(reportSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("parse report schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(reportSchemaURL, doc); err != nil {
		panic(fmt.Sprintf("add report schema: %v", err))
	}
	schema, err := c.Compile(reportSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("compile report schema: %v", err))
	}
	return schema
}

// DecodeReport parses and validates a raw report payload.
func DecodeReport(raw []byte, limits Limits) (*ReportInput, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if err := reportSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("report payload: %w", err)
	}

	var in ReportInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if err := in.Validate(limits); err != nil {
		return nil, err
	}
	return &in, nil
}

// Validate checks the report's internal consistency.
func (in *ReportInput) Validate(limits Limits) error {
	if len(in.Columns) == 0 {
		return fmt.Errorf("invalid report field: %w", criterio.NewFieldErrors("columns", errors.New("report has no columns")))
	}

	var errs criterio.FieldErrorsBuilder

	if limits.MaxRows > 0 && len(in.Rows) > limits.MaxRows {
		errs = errs.Append("rows", fmt.Errorf("report too large: %d rows, limit is %d", len(in.Rows), limits.MaxRows))
	}
	if limits.MaxErrors > 0 && len(in.Errors) > limits.MaxErrors {
		errs = errs.Append("errors", fmt.Errorf("report too large: %d errors, limit is %d", len(in.Errors), limits.MaxErrors))
	}

	seen := make(map[string]int, len(in.Columns))
	for i, name := range in.Columns {
		if j, dup := seen[name]; dup && name != "" {
			errs = errs.Append(fmt.Sprintf("columns[%d]", i), fmt.Errorf("duplicate of columns[%d] %q", j, name))
			continue
		}
		seen[name] = i
	}

	for i, row := range in.Rows {
		if len(row) > len(in.Columns) {
			errs = errs.Append(fmt.Sprintf("rows[%d]", i), fmt.Errorf("has %d values but the report has %d columns", len(row), len(in.Columns)))
		}
	}

	if in.Positions != nil {
		if len(in.Positions) != len(in.Rows) {
			errs = errs.Append("positions", fmt.Errorf("has %d entries for %d rows", len(in.Positions), len(in.Rows)))
		}
		for i := 1; i < len(in.Positions); i++ {
			if in.Positions[i] <= in.Positions[i-1] {
				errs = errs.Append(fmt.Sprintf("positions[%d]", i), fmt.Errorf("%d does not follow %d; positions must increase", in.Positions[i], in.Positions[i-1]))
			}
		}
		// Gaps become blank display rows, so the display table spans the
		// largest position plus one.
		if limits.MaxRows > 0 {
			for i, pos := range in.Positions {
				if pos >= limits.MaxRows {
					errs = errs.Append(fmt.Sprintf("positions[%d]", i), fmt.Errorf("report too large: position %d, limit is %d rows", pos, limits.MaxRows))
					break
				}
			}
		}
	}

	for i, rec := range in.Errors {
		field := fmt.Sprintf("errors[%d]", i)
		if !rec.Severity.Valid() {
			errs = errs.Append(field+".severity", fmt.Errorf("unknown severity %q", rec.Severity))
		}
		if rec.Column != nil && *rec.Column >= len(in.Columns) {
			errs = errs.Append(field+".column", fmt.Errorf("column %d is outside the %d report columns", *rec.Column, len(in.Columns)))
		}
	}

	if err := errs.ToError(); err != nil {
		return fmt.Errorf("invalid report field: %w", err)
	}
	return nil
}
