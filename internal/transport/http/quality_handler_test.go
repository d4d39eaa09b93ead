package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epiqc/internal/config"
	apierrors "epiqc/internal/errors"
	"epiqc/internal/quality"
)

func newTestQualityHandler(maxRecords int) *QualityHandler {
	logger := slog.Default()
	return NewQualityHandler(
		quality.NewEngine(logger),
		nil, nil,
		config.QualityConfig{
			DefaultTextThreshold: 0.85,
			MaxRecordsPerRequest: maxRecords,
		},
		logger,
		apierrors.NewErrorHandler(logger, false),
	)
}

func TestQualityHandler_RunChecks(t *testing.T) {
	handler := newTestQualityHandler(0)

	body := `{
		"columns": [
			{"key": "name", "label": "Name", "type": "text"},
			{"key": "onset", "label": "Onset Date", "type": "date"},
			{"key": "report", "label": "Report Date", "type": "date"}
		],
		"records": [
			{"id": "r1", "fields": {"name": "jon smith", "onset": "2024-02-10", "report": "2024-02-01"}},
			{"id": "r2", "fields": {"name": "jane doe", "onset": "2024-01-01", "report": "2024-01-05"}}
		],
		"config": {
			"enabled_checks": ["date_order", "missing_values"],
			"date_order_rules": [{"first_date_field": "onset", "second_date_field": "report"}],
			"missing_value_fields": ["name"]
		}
	}`

	req := httptest.NewRequest(http.MethodPost, "/checks", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Status string `json:"status"`
		Data   struct {
			Issues []struct {
				CheckType string   `json:"check_type"`
				Severity  string   `json:"severity"`
				RecordIDs []string `json:"record_ids"`
			} `json:"issues"`
			Summary struct {
				Total  int `json:"total"`
				Errors int `json:"errors"`
			} `json:"summary"`
			RunID string `json:"run_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	assert.Equal(t, "success", envelope.Status)
	assert.NotEmpty(t, envelope.Data.RunID)
	require.Len(t, envelope.Data.Issues, 1)
	assert.Equal(t, "date_order", envelope.Data.Issues[0].CheckType)
	assert.Equal(t, []string{"r1"}, envelope.Data.Issues[0].RecordIDs)
	assert.Equal(t, 1, envelope.Data.Summary.Total)
	assert.Equal(t, 1, envelope.Data.Summary.Errors)
}

func TestQualityHandler_RunChecksAppliesDefaultFuzzyThreshold(t *testing.T) {
	handler := newTestQualityHandler(0)

	// Fuzzy matching enabled with no threshold: the service default of
	// 0.85 must apply, grouping the near-identical names while keeping
	// the unrelated record out. A literal zero threshold would have
	// grouped all three.
	body := `{
		"columns": [{"key": "name", "label": "Name", "type": "text"}],
		"records": [
			{"id": "r1", "fields": {"name": "jon smith"}},
			{"id": "r2", "fields": {"name": "john smith"}},
			{"id": "r3", "fields": {"name": "zzz qqq"}}
		],
		"config": {
			"enabled_checks": ["duplicate"],
			"duplicate_fields": ["name"],
			"fuzzy_matching": {"enabled": true}
		}
	}`

	req := httptest.NewRequest(http.MethodPost, "/checks", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Issues []struct {
				CheckType string   `json:"check_type"`
				RecordIDs []string `json:"record_ids"`
			} `json:"issues"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	require.Len(t, envelope.Data.Issues, 1)
	assert.Equal(t, "duplicate", envelope.Data.Issues[0].CheckType)
	assert.Equal(t, []string{"r1", "r2"}, envelope.Data.Issues[0].RecordIDs)
}

func TestQualityHandler_RunChecksRejectsOversizedDataset(t *testing.T) {
	handler := newTestQualityHandler(1)

	body := `{
		"columns": [{"key": "name", "label": "Name", "type": "text"}],
		"records": [
			{"id": "r1", "fields": {"name": "a"}},
			{"id": "r2", "fields": {"name": "b"}}
		],
		"config": {}
	}`

	req := httptest.NewRequest(http.MethodPost, "/checks", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestQualityHandler_RunChecksRejectsMissingColumns(t *testing.T) {
	handler := newTestQualityHandler(0)

	req := httptest.NewRequest(http.MethodPost, "/checks", strings.NewReader(`{"records": [], "config": {}}`))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQualityHandler_SummaryExcludesDismissed(t *testing.T) {
	handler := newTestQualityHandler(0)

	body := `{
		"issues": [
			{"id": "1", "check_type": "date_order", "category": "temporal", "severity": "error", "record_ids": ["r1"], "field": "onset", "message": "m"},
			{"id": "2", "check_type": "missing_values", "category": "completeness", "severity": "warning", "record_ids": ["r2"], "field": "name", "message": "m", "dismissed": true}
		]
	}`

	req := httptest.NewRequest(http.MethodPost, "/summary", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			Total      int                       `json:"total"`
			Errors     int                       `json:"errors"`
			Warnings   int                       `json:"warnings"`
			Dismissed  int                       `json:"dismissed"`
			Categories map[string]map[string]int `json:"categories"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	assert.Equal(t, 1, envelope.Data.Total)
	assert.Equal(t, 1, envelope.Data.Errors)
	assert.Equal(t, 0, envelope.Data.Warnings)
	assert.Equal(t, 1, envelope.Data.Dismissed)
	assert.Contains(t, envelope.Data.Categories, "duplicate")
	assert.Contains(t, envelope.Data.Categories, "temporal")
	assert.Contains(t, envelope.Data.Categories, "range")
	assert.Contains(t, envelope.Data.Categories, "completeness")
}
