package domain

// CheckType identifies one independently configurable quality check.
type CheckType string

const (
	CheckDuplicates    CheckType = "duplicate"
	CheckDateOrder     CheckType = "date_order"
	CheckFutureDates   CheckType = "future_date"
	CheckNumericRanges CheckType = "numeric_range"
	CheckMissingValues CheckType = "missing_values"
)

// AllCheckTypes lists every check in evaluation order.
var AllCheckTypes = []CheckType{
	CheckDuplicates,
	CheckDateOrder,
	CheckFutureDates,
	CheckNumericRanges,
	CheckMissingValues,
}

// FuzzyMatchConfig controls approximate matching during duplicate
// detection. With Enabled false, duplicate grouping requires exact
// matches (threshold 1.0, zero date tolerance).
type FuzzyMatchConfig struct {
	Enabled           bool    `json:"enabled" yaml:"enabled"`
	TextThreshold     float64 `json:"text_threshold" yaml:"text_threshold" validate:"min=0,max=1"`
	DateToleranceDays int     `json:"date_tolerance_days" yaml:"date_tolerance_days" validate:"min=0"`
}

// DateOrderRule asserts that the first date is not after the second
// whenever both are present and parseable.
type DateOrderRule struct {
	FirstDateField  string `json:"first_date_field" yaml:"first_date_field" validate:"required"`
	SecondDateField string `json:"second_date_field" yaml:"second_date_field" validate:"required"`
	FirstDateLabel  string `json:"first_date_label,omitempty" yaml:"first_date_label"`
	SecondDateLabel string `json:"second_date_label,omitempty" yaml:"second_date_label"`
}

// NumericRangeRule bounds the plausible values of a numeric field,
// inclusive at both ends.
type NumericRangeRule struct {
	Field string  `json:"field" yaml:"field" validate:"required"`
	Label string  `json:"label,omitempty" yaml:"label"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
}

// DataQualityConfig is the complete, explicit configuration for one check
// run. All collections are always present; an empty rule list makes the
// corresponding check a no-op rather than an error.
type DataQualityConfig struct {
	DuplicateFields    []string           `json:"duplicate_fields" yaml:"duplicate_fields"`
	FuzzyMatching      FuzzyMatchConfig   `json:"fuzzy_matching" yaml:"fuzzy_matching"`
	DateOrderRules     []DateOrderRule    `json:"date_order_rules" yaml:"date_order_rules"`
	CheckFutureDates   bool               `json:"check_future_dates" yaml:"check_future_dates"`
	NumericRangeRules  []NumericRangeRule `json:"numeric_range_rules" yaml:"numeric_range_rules"`
	MissingValueFields []string           `json:"missing_value_fields" yaml:"missing_value_fields"`
	EnabledChecks      []CheckType        `json:"enabled_checks" yaml:"enabled_checks"`
}

// CheckEnabled reports whether the given check participates in a run.
func (c DataQualityConfig) CheckEnabled(check CheckType) bool {
	for _, enabled := range c.EnabledChecks {
		if enabled == check {
			return true
		}
	}
	return false
}

// EffectiveThreshold returns the similarity bar duplicate grouping uses:
// the configured text threshold under fuzzy matching, exact match otherwise.
func (c DataQualityConfig) EffectiveThreshold() float64 {
	if c.FuzzyMatching.Enabled {
		return c.FuzzyMatching.TextThreshold
	}
	return 1.0
}

// DefaultDataQualityConfig returns a configuration with every check
// enabled and fuzzy matching at the conventional 0.85 text threshold.
func DefaultDataQualityConfig() DataQualityConfig {
	return DataQualityConfig{
		DuplicateFields: []string{},
		FuzzyMatching: FuzzyMatchConfig{
			Enabled:           true,
			TextThreshold:     0.85,
			DateToleranceDays: 0,
		},
		DateOrderRules:     []DateOrderRule{},
		CheckFutureDates:   true,
		NumericRangeRules:  []NumericRangeRule{},
		MissingValueFields: []string{},
		EnabledChecks:      append([]CheckType(nil), AllCheckTypes...),
	}
}
