package quality

import (
	"epiqc/pkg/contracts/domain"
)

// CategoryCount tallies issues of one category by severity.
type CategoryCount struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Summary aggregates an issue list into overall and per-category counts.
type Summary struct {
	Total      int                                    `json:"total"`
	Errors     int                                    `json:"errors"`
	Warnings   int                                    `json:"warnings"`
	ByCategory map[domain.IssueCategory]CategoryCount `json:"by_category"`
}

// Active returns the issues not marked dismissed by the caller, in
// arrival order. Dismissal is a caller-owned overlay; nothing is deleted.
func Active(issues []domain.DataQualityIssue) []domain.DataQualityIssue {
	active := []domain.DataQualityIssue{}
	for _, issue := range issues {
		if !issue.Dismissed {
			active = append(active, issue)
		}
	}
	return active
}

// GroupByCategory splits issues into the fixed category taxonomy,
// preserving arrival order within each category. Every category key is
// present even when empty.
func GroupByCategory(issues []domain.DataQualityIssue) map[domain.IssueCategory][]domain.DataQualityIssue {
	groups := make(map[domain.IssueCategory][]domain.DataQualityIssue, len(domain.AllIssueCategories))
	for _, category := range domain.AllIssueCategories {
		groups[category] = []domain.DataQualityIssue{}
	}
	for _, issue := range issues {
		groups[issue.Category] = append(groups[issue.Category], issue)
	}
	return groups
}

// Summarize counts errors and warnings overall and per category. Every
// category appears in the result even with zero issues.
func Summarize(issues []domain.DataQualityIssue) Summary {
	summary := Summary{
		ByCategory: make(map[domain.IssueCategory]CategoryCount, len(domain.AllIssueCategories)),
	}
	for _, category := range domain.AllIssueCategories {
		summary.ByCategory[category] = CategoryCount{}
	}

	for _, issue := range issues {
		summary.Total++
		count := summary.ByCategory[issue.Category]
		count.Total++
		if issue.Severity == domain.SeverityError {
			summary.Errors++
			count.Errors++
		} else {
			summary.Warnings++
			count.Warnings++
		}
		summary.ByCategory[issue.Category] = count
	}

	return summary
}
