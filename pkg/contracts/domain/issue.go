package domain

import (
	"sort"
	"strings"
)

// IssueCategory is the fixed taxonomy issues are grouped under.
type IssueCategory string

const (
	CategoryDuplicate    IssueCategory = "duplicate"
	CategoryTemporal     IssueCategory = "temporal"
	CategoryRange        IssueCategory = "range"
	CategoryCompleteness IssueCategory = "completeness"
)

// AllIssueCategories lists the taxonomy in display order.
var AllIssueCategories = []IssueCategory{
	CategoryDuplicate,
	CategoryTemporal,
	CategoryRange,
	CategoryCompleteness,
}

// Severity ranks how strongly an issue indicates bad data.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// DataQualityIssue is one finding produced by a quality check. Issues are
// regenerated wholesale on every run; IDs are fresh each time, so callers
// that track dismissal across runs must key it on Fingerprint, not ID.
// The engine never sets or reads Dismissed.
type DataQualityIssue struct {
	ID        string        `json:"id"`
	CheckType CheckType     `json:"check_type"`
	Category  IssueCategory `json:"category"`
	Severity  Severity      `json:"severity"`
	RecordIDs []string      `json:"record_ids"`
	Field     string        `json:"field,omitempty"`
	Message   string        `json:"message"`
	Details   string        `json:"details,omitempty"`
	Dismissed bool          `json:"dismissed"`
}

// Fingerprint returns a stable content key for the issue: check type,
// field and sorted record ids. Two runs over unchanged data produce
// issues with equal fingerprints even though their IDs differ.
func (i DataQualityIssue) Fingerprint() string {
	ids := append([]string(nil), i.RecordIDs...)
	sort.Strings(ids)
	return string(i.CheckType) + "|" + i.Field + "|" + strings.Join(ids, ",")
}
