// Package derive generates new line-list columns from existing ones.
//
// A derived variable is defined by a VariableConfig: a snake_case name,
// display label, and one of four methods - categorize (bucket a source
// column through labelled rules), copy (pass a source column through),
// formula (arithmetic over other columns) and blank (manual-entry
// placeholder). ValidateConfig gates a definition before anything is
// generated; GenerateValues then produces one value per record,
// index-aligned with the input.
//
// Formulas are evaluated by a sandboxed arithmetic parser limited to
// + - * / ( ) and numeric literals. See formula.go.
package derive
