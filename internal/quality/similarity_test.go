package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"epiqc/pkg/contracts/domain"
)

func TestJaroWinkler(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical strings", a: "martha", b: "martha", want: 1},
		{name: "identical empty strings", a: "", b: "", want: 1},
		{name: "one empty string", a: "martha", b: "", want: 0},
		{name: "classic martha marhta", a: "martha", b: "marhta", want: 0.9611},
		{name: "classic dwayne duane", a: "dwayne", b: "duane", want: 0.84},
		{name: "classic dixon dicksonx", a: "dixon", b: "dicksonx", want: 0.8133},
		{name: "completely different", a: "abc", b: "xyz", want: 0},
		{name: "near duplicate name", a: "jon smith", b: "john smith", want: 0.9733},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, JaroWinkler(tt.a, tt.b), 0.001)
		})
	}
}

func TestJaroWinklerSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"martha", "marhta"},
		{"dixon", "dicksonx"},
		{"jon smith", "john smith"},
		{"", "abc"},
		{"al", "al"},
	}

	for _, pair := range pairs {
		assert.Equal(t, JaroWinkler(pair[0], pair[1]), JaroWinkler(pair[1], pair[0]),
			"similarity must be symmetric for %q / %q", pair[0], pair[1])
	}
}

func TestFieldSimilarity(t *testing.T) {
	fuzzyOff := domain.FuzzyMatchConfig{}
	fuzzyTolerant := domain.FuzzyMatchConfig{Enabled: true, TextThreshold: 0.85, DateToleranceDays: 3}

	tests := []struct {
		name       string
		a          domain.Value
		b          domain.Value
		colType    domain.ColumnType
		fuzzy      domain.FuzzyMatchConfig
		want       float64
		comparable bool
	}{
		{
			name: "both missing match", a: domain.NullValue(), b: domain.TextValue("  "),
			colType: domain.ColumnText, fuzzy: fuzzyOff, want: 1, comparable: true,
		},
		{
			name: "one missing mismatch", a: domain.TextValue("amina"), b: domain.NullValue(),
			colType: domain.ColumnText, fuzzy: fuzzyOff, want: 0, comparable: true,
		},
		{
			name: "text case and whitespace insensitive", a: domain.TextValue("  Amina  "), b: domain.TextValue("amina"),
			colType: domain.ColumnText, fuzzy: fuzzyOff, want: 1, comparable: true,
		},
		{
			name: "equal numbers", a: domain.NumberValue(34), b: domain.TextValue("34"),
			colType: domain.ColumnNumber, fuzzy: fuzzyOff, want: 1, comparable: true,
		},
		{
			name: "different numbers", a: domain.NumberValue(34), b: domain.NumberValue(35),
			colType: domain.ColumnNumber, fuzzy: fuzzyOff, want: 0, comparable: true,
		},
		{
			name: "unparseable number incomparable", a: domain.TextValue("thirty"), b: domain.NumberValue(30),
			colType: domain.ColumnNumber, fuzzy: fuzzyOff, comparable: false,
		},
		{
			name: "boolean coercion", a: domain.TextValue("yes"), b: domain.BoolValue(true),
			colType: domain.ColumnBoolean, fuzzy: fuzzyOff, want: 1, comparable: true,
		},
		{
			name: "boolean garbage incomparable", a: domain.TextValue("maybe"), b: domain.BoolValue(true),
			colType: domain.ColumnBoolean, fuzzy: fuzzyOff, comparable: false,
		},
		{
			name: "exact date match with zero tolerance", a: domain.TextValue("2024-05-10"), b: domain.TextValue("2024-05-10"),
			colType: domain.ColumnDate, fuzzy: fuzzyOff, want: 1, comparable: true,
		},
		{
			name: "different dates with zero tolerance", a: domain.TextValue("2024-05-10"), b: domain.TextValue("2024-05-11"),
			colType: domain.ColumnDate, fuzzy: fuzzyOff, want: 0, comparable: true,
		},
		{
			name: "date within tolerance", a: domain.TextValue("2024-05-10"), b: domain.TextValue("2024-05-12"),
			colType: domain.ColumnDate, fuzzy: fuzzyTolerant, want: 1, comparable: true,
		},
		{
			name: "date outside tolerance", a: domain.TextValue("2024-05-10"), b: domain.TextValue("2024-05-20"),
			colType: domain.ColumnDate, fuzzy: fuzzyTolerant, want: 0, comparable: true,
		},
		{
			name: "unparseable date incomparable", a: domain.TextValue("next tuesday"), b: domain.TextValue("2024-05-10"),
			colType: domain.ColumnDate, fuzzy: fuzzyOff, comparable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FieldSimilarity(tt.a, tt.b, tt.colType, tt.fuzzy)
			assert.Equal(t, tt.comparable, ok)
			if tt.comparable {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestRecordSimilarity(t *testing.T) {
	columns := domain.NewColumnSet([]domain.DataColumn{
		{Key: "name", Label: "Name", Type: domain.ColumnText},
		{Key: "age", Label: "Age", Type: domain.ColumnNumber},
	})
	fuzzy := domain.FuzzyMatchConfig{Enabled: true, TextThreshold: 0.85}

	a := domain.CaseRecord{ID: "a", Fields: map[string]domain.Value{
		"name": domain.TextValue("Jon Smith"),
		"age":  domain.NumberValue(34),
	}}
	b := domain.CaseRecord{ID: "b", Fields: map[string]domain.Value{
		"name": domain.TextValue("John Smith"),
		"age":  domain.NumberValue(34),
	}}

	got := RecordSimilarity(a, b, []string{"name", "age"}, columns, fuzzy)
	assert.InDelta(t, 0.9867, got, 0.001)

	// An incomparable field is skipped, not averaged in as zero.
	c := domain.CaseRecord{ID: "c", Fields: map[string]domain.Value{
		"name": domain.TextValue("Jon Smith"),
		"age":  domain.TextValue("unknown"),
	}}
	got = RecordSimilarity(a, c, []string{"name", "age"}, columns, fuzzy)
	assert.InDelta(t, 1.0, got, 0.001) // identical name, age skipped

	// No comparable fields at all scores zero.
	d := domain.CaseRecord{ID: "d", Fields: map[string]domain.Value{
		"age": domain.TextValue("unknown"),
	}}
	e := domain.CaseRecord{ID: "e", Fields: map[string]domain.Value{
		"age": domain.TextValue("also unknown"),
	}}
	assert.Zero(t, RecordSimilarity(d, e, []string{"age"}, columns, fuzzy))
}
