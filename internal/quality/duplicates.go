package quality

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"epiqc/pkg/contracts/domain"
)

// GroupDuplicates clusters records into duplicate groups with greedy
// single-link clustering in original record order: each unassigned record
// with at least one non-missing checked field seeds a group, and every
// later unassigned candidate whose record similarity meets the threshold
// joins it. One issue is emitted per group of two or more records.
//
// Group membership is order-dependent: a chained group's first and last
// members may not themselves exceed the threshold. That matches how
// investigators review candidate groups today; switching to verified
// equivalence classes (union-find) is a product decision, not a bug fix.
//
// Cost is O(n^2) record comparisons, acceptable for line-listing scale
// (thousands of rows), not for streaming use.
func GroupDuplicates(records []domain.CaseRecord, cfg domain.DataQualityConfig, columns *domain.ColumnSet) []domain.DataQualityIssue {
	issues := []domain.DataQualityIssue{}
	if len(cfg.DuplicateFields) == 0 {
		return issues
	}

	threshold := cfg.EffectiveThreshold()
	severity := domain.SeverityError
	if cfg.FuzzyMatching.Enabled && threshold < 1.0 {
		severity = domain.SeverityWarning
	}

	assigned := make([]bool, len(records))

	for i, seed := range records {
		if assigned[i] || !seed.HasAny(cfg.DuplicateFields) {
			continue
		}
		assigned[i] = true
		group := []string{seed.ID}

		for j := i + 1; j < len(records); j++ {
			candidate := records[j]
			if assigned[j] || !candidate.HasAny(cfg.DuplicateFields) {
				continue
			}
			sim := RecordSimilarity(seed, candidate, cfg.DuplicateFields, columns, cfg.FuzzyMatching)
			if sim >= threshold {
				assigned[j] = true
				group = append(group, candidate.ID)
			}
		}

		if len(group) < 2 {
			continue
		}

		issues = append(issues, domain.DataQualityIssue{
			ID:        uuid.New().String(),
			CheckType: domain.CheckDuplicates,
			Category:  domain.CategoryDuplicate,
			Severity:  severity,
			RecordIDs: group,
			Message:   duplicateMessage(len(group), threshold),
			Details:   fmt.Sprintf("matched on: %s", strings.Join(fieldLabels(cfg.DuplicateFields, columns), ", ")),
		})
	}

	return issues
}

func duplicateMessage(size int, threshold float64) string {
	if threshold >= 1.0 {
		return fmt.Sprintf("%d records have identical values in the checked fields", size)
	}
	return fmt.Sprintf("%d records look like the same case (similarity >= %.0f%%)", size, threshold*100)
}

func fieldLabels(fields []string, columns *domain.ColumnSet) []string {
	labels := make([]string, len(fields))
	for i, f := range fields {
		labels[i] = columns.Label(f)
	}
	return labels
}
