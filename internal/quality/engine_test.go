package quality

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epiqc/pkg/contracts/domain"
)

func engineFixture() ([]domain.CaseRecord, []domain.DataColumn, domain.DataQualityConfig) {
	columns := []domain.DataColumn{
		{Key: "name", Label: "Patient Name", Type: domain.ColumnText},
		{Key: "age", Label: "Age", Type: domain.ColumnNumber},
		{Key: "onset_date", Label: "Onset Date", Type: domain.ColumnDate},
		{Key: "report_date", Label: "Report Date", Type: domain.ColumnDate},
	}

	records := []domain.CaseRecord{
		record("r1", map[string]domain.Value{
			"name":        domain.TextValue("Jon Smith"),
			"age":         domain.NumberValue(34),
			"onset_date":  domain.TextValue("2024-05-10"),
			"report_date": domain.TextValue("2024-05-01"),
		}),
		record("r2", map[string]domain.Value{
			"name": domain.TextValue("John Smith"),
			"age":  domain.NumberValue(34),
		}),
		record("r3", map[string]domain.Value{
			"name": domain.TextValue("Fatima Hussein"),
			"age":  domain.NumberValue(-5),
		}),
	}

	cfg := domain.DefaultDataQualityConfig()
	cfg.DuplicateFields = []string{"name", "age"}
	cfg.DateOrderRules = []domain.DateOrderRule{{
		FirstDateField:  "onset_date",
		SecondDateField: "report_date",
	}}
	cfg.NumericRangeRules = []domain.NumericRangeRule{{Field: "age", Min: 0, Max: 120}}
	cfg.MissingValueFields = []string{"onset_date"}

	return records, columns, cfg
}

func TestEngineRunChecks(t *testing.T) {
	records, columns, cfg := engineFixture()
	engine := NewEngine(nil)
	engine.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	issues := engine.RunChecks(context.Background(), records, columns, cfg)

	byCheck := map[domain.CheckType]int{}
	for _, issue := range issues {
		byCheck[issue.CheckType]++
	}

	assert.Equal(t, 1, byCheck[domain.CheckDuplicates], "jon/john should group")
	assert.Equal(t, 1, byCheck[domain.CheckDateOrder], "r1 reported before onset")
	assert.Equal(t, 1, byCheck[domain.CheckNumericRanges], "r3 has a negative age")
	assert.Equal(t, 1, byCheck[domain.CheckMissingValues], "onset_date missing in r2 and r3")
	assert.Zero(t, byCheck[domain.CheckFutureDates])

	// Fixed arrival order: duplicates, then temporal, then range, then
	// completeness.
	require.Len(t, issues, 4)
	assert.Equal(t, domain.CheckDuplicates, issues[0].CheckType)
	assert.Equal(t, domain.CheckDateOrder, issues[1].CheckType)
	assert.Equal(t, domain.CheckNumericRanges, issues[2].CheckType)
	assert.Equal(t, domain.CheckMissingValues, issues[3].CheckType)
}

func TestEngineRunChecksDeterministic(t *testing.T) {
	records, columns, cfg := engineFixture()
	engine := NewEngine(nil)
	engine.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	first := engine.RunChecks(context.Background(), records, columns, cfg)
	second := engine.RunChecks(context.Background(), records, columns, cfg)

	require.Equal(t, len(first), len(second))
	for i := range first {
		// IDs are regenerated on every run; content is identical.
		assert.NotEqual(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Fingerprint(), second[i].Fingerprint())
		assert.Equal(t, first[i].Message, second[i].Message)
		assert.Equal(t, first[i].Severity, second[i].Severity)
	}
}

func TestEngineRunChecksRespectsEnabledChecks(t *testing.T) {
	records, columns, cfg := engineFixture()
	cfg.EnabledChecks = []domain.CheckType{domain.CheckNumericRanges}

	engine := NewEngine(nil)
	issues := engine.RunChecks(context.Background(), records, columns, cfg)

	require.Len(t, issues, 1)
	assert.Equal(t, domain.CheckNumericRanges, issues[0].CheckType)
}

func TestEngineRunChecksEmptyConfigIsNoop(t *testing.T) {
	records, columns, _ := engineFixture()
	cfg := domain.DefaultDataQualityConfig()
	cfg.CheckFutureDates = false

	engine := NewEngine(nil)
	issues := engine.RunChecks(context.Background(), records, columns, cfg)
	assert.Empty(t, issues)
}
