package quality

import (
	"math"
	"strings"

	"epiqc/pkg/contracts/domain"
)

// FieldSimilarity scores two field values in [0, 1] according to the
// declared column type. The second return is false when the pair is
// incomparable (one or both values fail to parse as the declared type);
// incomparable fields are skipped by record-level scoring.
//
// Two missing values count as a full match; exactly one missing counts
// as a full mismatch.
func FieldSimilarity(a, b domain.Value, colType domain.ColumnType, fuzzy domain.FuzzyMatchConfig) (float64, bool) {
	aMissing, bMissing := a.IsMissing(), b.IsMissing()
	if aMissing && bMissing {
		return 1, true
	}
	if aMissing || bMissing {
		return 0, true
	}

	switch colType {
	case domain.ColumnDate:
		return dateSimilarity(a, b, fuzzy)
	case domain.ColumnNumber:
		fa, okA := a.Number()
		fb, okB := b.Number()
		if !okA || !okB {
			return 0, false
		}
		if fa == fb {
			return 1, true
		}
		return 0, true
	case domain.ColumnBoolean:
		ba, okA := a.Bool()
		bb, okB := b.Bool()
		if !okA || !okB {
			return 0, false
		}
		if ba == bb {
			return 1, true
		}
		return 0, true
	default:
		return textSimilarity(a.Text(), b.Text()), true
	}
}

// textSimilarity compares lower-cased, trimmed strings with Jaro-Winkler.
func textSimilarity(a, b string) float64 {
	return JaroWinkler(
		strings.ToLower(strings.TrimSpace(a)),
		strings.ToLower(strings.TrimSpace(b)),
	)
}

// dateSimilarity compares parsed dates. With zero tolerance the instants
// must match exactly; otherwise dates within the tolerance window score 1.
func dateSimilarity(a, b domain.Value, fuzzy domain.FuzzyMatchConfig) (float64, bool) {
	ta, okA := a.Date()
	tb, okB := b.Date()
	if !okA || !okB {
		return 0, false
	}

	tolerance := 0
	if fuzzy.Enabled {
		tolerance = fuzzy.DateToleranceDays
	}
	if tolerance == 0 {
		if ta.Equal(tb) {
			return 1, true
		}
		return 0, true
	}

	diff := math.Abs(ta.Sub(tb).Hours()) / 24
	if diff <= float64(tolerance) {
		return 1, true
	}
	return 0, true
}

// RecordSimilarity averages the comparable field similarities between two
// records over the given field list. When no field is comparable the
// records score 0.
func RecordSimilarity(a, b domain.CaseRecord, fields []string, columns *domain.ColumnSet, fuzzy domain.FuzzyMatchConfig) float64 {
	total := 0.0
	comparable := 0

	for _, field := range fields {
		score, ok := FieldSimilarity(a.Get(field), b.Get(field), columns.TypeOf(field), fuzzy)
		if !ok {
			continue
		}
		total += score
		comparable++
	}

	if comparable == 0 {
		return 0
	}
	return total / float64(comparable)
}

// JaroWinkler computes the Jaro-Winkler similarity between two strings,
// a metric in [0, 1] that favours strings sharing a common prefix. The
// prefix bonus considers at most the first four characters.
func JaroWinkler(a, b string) float64 {
	jaro := Jaro(a, b)
	if jaro == 0 {
		return 0
	}

	prefix := 0
	for prefix < len(a) && prefix < len(b) && prefix < 4 && a[prefix] == b[prefix] {
		prefix++
	}

	return jaro + float64(prefix)*0.1*(1-jaro)
}

// Jaro computes the Jaro similarity between two strings: the mean of the
// match ratios of both strings and the transposition-adjusted match ratio.
// Characters match when equal and within a window of
// floor(max(len1,len2)/2) - 1 positions.
func Jaro(a, b string) float64 {
	if a == b {
		if a == "" {
			return 1
		}
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	window := len(a)
	if len(b) > window {
		window = len(b)
	}
	window = window/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, len(a))
	bMatched := make([]bool, len(b))
	matches := 0

	for i := 0; i < len(a); i++ {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window + 1
		if hi > len(b) {
			hi = len(b)
		}
		for j := lo; j < hi; j++ {
			if bMatched[j] || a[i] != b[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	// Count transpositions among matched positions in original order.
	transpositions := 0
	j := 0
	for i := 0; i < len(a); i++ {
		if !aMatched[i] {
			continue
		}
		for !bMatched[j] {
			j++
		}
		if a[i] != b[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}
