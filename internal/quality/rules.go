package quality

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"epiqc/pkg/contracts/domain"
)

// CheckDateOrder flags records where a rule's first date falls after its
// second date. Records where either field is missing or unparseable make
// no assertion and are skipped.
func CheckDateOrder(records []domain.CaseRecord, rules []domain.DateOrderRule) []domain.DataQualityIssue {
	issues := []domain.DataQualityIssue{}

	for _, rule := range rules {
		firstLabel := rule.FirstDateLabel
		if firstLabel == "" {
			firstLabel = rule.FirstDateField
		}
		secondLabel := rule.SecondDateLabel
		if secondLabel == "" {
			secondLabel = rule.SecondDateField
		}

		for _, record := range records {
			first, okFirst := record.Get(rule.FirstDateField).Date()
			second, okSecond := record.Get(rule.SecondDateField).Date()
			if !okFirst || !okSecond {
				continue
			}
			if !first.After(second) {
				continue
			}
			issues = append(issues, domain.DataQualityIssue{
				ID:        uuid.New().String(),
				CheckType: domain.CheckDateOrder,
				Category:  domain.CategoryTemporal,
				Severity:  domain.SeverityError,
				RecordIDs: []string{record.ID},
				Field:     rule.SecondDateField,
				Message:   fmt.Sprintf("%s (%s) is before %s (%s)", secondLabel, second.Format("2006-01-02"), firstLabel, first.Format("2006-01-02")),
			})
		}
	}

	return issues
}

// checkFutureDates flags every parseable date cell that lies beyond the
// end of the current day. Unparseable cells make no assertion. Date cells
// parse as UTC midnight, so the day boundary is computed from the UTC
// reading of now regardless of the host timezone.
func checkFutureDates(records []domain.CaseRecord, columns *domain.ColumnSet, now time.Time) []domain.DataQualityIssue {
	issues := []domain.DataQualityIssue{}

	now = now.UTC()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, time.UTC)

	for _, column := range columns.Ordered() {
		if column.Type != domain.ColumnDate {
			continue
		}
		for _, record := range records {
			date, ok := record.Get(column.Key).Date()
			if !ok || !date.After(endOfDay) {
				continue
			}
			issues = append(issues, domain.DataQualityIssue{
				ID:        uuid.New().String(),
				CheckType: domain.CheckFutureDates,
				Category:  domain.CategoryTemporal,
				Severity:  domain.SeverityError,
				RecordIDs: []string{record.ID},
				Field:     column.Key,
				Message:   fmt.Sprintf("%s (%s) is in the future", columns.Label(column.Key), date.Format("2006-01-02")),
			})
		}
	}

	return issues
}

// CheckNumericRanges flags values outside a rule's inclusive [min, max]
// range. Negative out-of-range values are errors (physically impossible
// readings like a negative age); high outliers are warnings. Missing and
// non-numeric values make no assertion.
func CheckNumericRanges(records []domain.CaseRecord, rules []domain.NumericRangeRule) []domain.DataQualityIssue {
	issues := []domain.DataQualityIssue{}

	for _, rule := range rules {
		label := rule.Label
		if label == "" {
			label = rule.Field
		}

		for _, record := range records {
			value := record.Get(rule.Field)
			if value.IsMissing() {
				continue
			}
			num, ok := value.Number()
			if !ok || math.IsNaN(num) {
				continue
			}
			if num >= rule.Min && num <= rule.Max {
				continue
			}

			severity := domain.SeverityWarning
			if num < 0 {
				severity = domain.SeverityError
			}
			issues = append(issues, domain.DataQualityIssue{
				ID:        uuid.New().String(),
				CheckType: domain.CheckNumericRanges,
				Category:  domain.CategoryRange,
				Severity:  severity,
				RecordIDs: []string{record.ID},
				Field:     rule.Field,
				Message:   fmt.Sprintf("%s value %s is outside the expected range %g-%g", label, value.Text(), rule.Min, rule.Max),
			})
		}
	}

	return issues
}

// CheckMissingValues emits one warning per checked field that has at
// least one missing value, listing every affected record and the share
// of the dataset affected.
func CheckMissingValues(records []domain.CaseRecord, fields []string, columns *domain.ColumnSet) []domain.DataQualityIssue {
	issues := []domain.DataQualityIssue{}
	if len(records) == 0 {
		return issues
	}

	for _, field := range fields {
		var affected []string
		for _, record := range records {
			if record.Get(field).IsMissing() {
				affected = append(affected, record.ID)
			}
		}
		if len(affected) == 0 {
			continue
		}

		percent := int(math.Round(float64(len(affected)) / float64(len(records)) * 100))
		issues = append(issues, domain.DataQualityIssue{
			ID:        uuid.New().String(),
			CheckType: domain.CheckMissingValues,
			Category:  domain.CategoryCompleteness,
			Severity:  domain.SeverityWarning,
			RecordIDs: affected,
			Field:     field,
			Message:   fmt.Sprintf("%s is missing in %d of %d records", columns.Label(field), len(affected), len(records)),
			Details:   fmt.Sprintf("%d%% of records affected", percent),
		})
	}

	return issues
}
