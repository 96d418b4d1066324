// Package core provides errgrid's report operations, independent of any
// transport. It can be used by the web handlers, the CLI or tests without
// modification.
//
// # Reports
//
// A report bundles a table sample (column names, rows and their positions in
// the original table) with the validation errors found in it. Reports are
// created with [Service.CreateReport], which validates the payload against
// an embedded JSON schema and then checks cross-field consistency, reporting
// every offending field at once.
//
// # Highlighting
//
// Each loaded report keeps a location index of its errors. The grid view
// ([Service.Grid]) marks cells with independent cell, row and column markers;
// exports ([Service.Export]) resolve one style per cell and write a styled
// workbook. [Service.Highlight] exposes both resolutions for one location.
//
// # Storage
//
// Reports are kept by a [ReportStore]: [PGStore] for PostgreSQL through pgx,
// or [MemoryStore] when no database is configured. Old reports are purged by
// [Service.StartRetentionScheduler].
//
// # Error Handling
//
// Technical errors are mapped to coded user messages with [MapError]; see
// error_messages.go for the code reference.
package core
