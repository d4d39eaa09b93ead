package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"epiqc/pkg/contracts/domain"
)

func sampleIssues() []domain.DataQualityIssue {
	return []domain.DataQualityIssue{
		{ID: "1", Category: domain.CategoryDuplicate, Severity: domain.SeverityWarning},
		{ID: "2", Category: domain.CategoryTemporal, Severity: domain.SeverityError},
		{ID: "3", Category: domain.CategoryTemporal, Severity: domain.SeverityError, Dismissed: true},
		{ID: "4", Category: domain.CategoryRange, Severity: domain.SeverityWarning},
	}
}

func TestActive(t *testing.T) {
	active := Active(sampleIssues())
	assert.Len(t, active, 3)
	for _, issue := range active {
		assert.False(t, issue.Dismissed)
	}
	// Arrival order preserved.
	assert.Equal(t, "1", active[0].ID)
	assert.Equal(t, "2", active[1].ID)
	assert.Equal(t, "4", active[2].ID)
}

func TestGroupByCategory(t *testing.T) {
	groups := GroupByCategory(sampleIssues())

	// The full taxonomy is present even when empty.
	assert.Len(t, groups, len(domain.AllIssueCategories))
	assert.Empty(t, groups[domain.CategoryCompleteness])

	assert.Len(t, groups[domain.CategoryTemporal], 2)
	assert.Equal(t, "2", groups[domain.CategoryTemporal][0].ID)
	assert.Equal(t, "3", groups[domain.CategoryTemporal][1].ID)
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleIssues())

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Errors)
	assert.Equal(t, 2, summary.Warnings)

	assert.Equal(t, CategoryCount{Total: 2, Errors: 2}, summary.ByCategory[domain.CategoryTemporal])
	assert.Equal(t, CategoryCount{Total: 1, Warnings: 1}, summary.ByCategory[domain.CategoryDuplicate])
	assert.Equal(t, CategoryCount{}, summary.ByCategory[domain.CategoryCompleteness])
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.Total)
	assert.Len(t, summary.ByCategory, len(domain.AllIssueCategories))
}
