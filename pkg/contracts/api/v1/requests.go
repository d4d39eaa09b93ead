// Package api contains API contract definitions for the line-list
// quality service. Version v1 represents the current stable API version.
package api

import (
	"epiqc/pkg/contracts/domain"
)

// Quality API Requests

// RunChecksRequest carries a dataset and its quality configuration.
type RunChecksRequest struct {
	Columns []domain.DataColumn      `json:"columns" validate:"required,min=1,dive"`
	Records []domain.CaseRecord      `json:"records" validate:"required"`
	Config  domain.DataQualityConfig `json:"config"`
}

// SummaryRequest carries issues to be aggregated into counts.
type SummaryRequest struct {
	Issues []domain.DataQualityIssue `json:"issues" validate:"required"`
}

// Variable API Requests

// ValidateVariableRequest asks whether a derived-variable definition is
// usable against the given existing field names.
type ValidateVariableRequest struct {
	Variable       domain.VariableConfig `json:"variable" validate:"required"`
	ExistingFields []string              `json:"existing_fields"`
}

// GenerateVariableRequest computes derived values for every record.
type GenerateVariableRequest struct {
	Variable domain.VariableConfig `json:"variable" validate:"required"`
	Columns  []domain.DataColumn   `json:"columns" validate:"required,min=1,dive"`
	Records  []domain.CaseRecord   `json:"records" validate:"required"`
}

// Quality API Responses

// RunChecksResponse returns the issues found by a run together with
// its aggregate counts.
type RunChecksResponse struct {
	Issues    []domain.DataQualityIssue `json:"issues"`
	Summary   SummaryResponse           `json:"summary"`
	RunID     string                    `json:"run_id"`
	CheckedAt string                    `json:"checked_at"`
}

// SummaryResponse mirrors the aggregate view shown by review UIs.
type SummaryResponse struct {
	Total      int                  `json:"total"`
	Errors     int                  `json:"errors"`
	Warnings   int                  `json:"warnings"`
	Dismissed  int                  `json:"dismissed"`
	Categories map[string]CatCounts `json:"categories"`
}

// CatCounts holds per-category severity counts.
type CatCounts struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Variable API Responses

// ValidateVariableResponse reports validation outcome for a definition.
type ValidateVariableResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// GenerateVariableResponse returns derived values aligned with the
// request's record order.
type GenerateVariableResponse struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}
