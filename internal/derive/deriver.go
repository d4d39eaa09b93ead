package derive

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"epiqc/pkg/contracts/domain"
)

// OtherLabel is returned by categorize when no category matches a
// non-missing source value.
const OtherLabel = "Other"

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateConfig checks a variable definition before generation and
// before commit. It returns a descriptive error on the first failed
// requirement and nil when the definition is acceptable. Validation has
// no side effects on generation.
func ValidateConfig(cfg domain.VariableConfig, existing []domain.DataColumn) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("variable name is required")
	}
	for _, column := range existing {
		if column.Key == cfg.Name {
			return fmt.Errorf("a column named %q already exists", cfg.Name)
		}
	}
	if !namePattern.MatchString(cfg.Name) {
		return fmt.Errorf("variable name must start with a lowercase letter and contain only lowercase letters, digits and underscores")
	}
	if strings.TrimSpace(cfg.Label) == "" {
		return fmt.Errorf("variable label is required")
	}

	switch cfg.Method {
	case domain.MethodCategorize:
		if cfg.SourceColumn == "" {
			return fmt.Errorf("categorize requires a source column")
		}
		if len(cfg.Categories) == 0 {
			return fmt.Errorf("categorize requires at least one category")
		}
		for _, category := range cfg.Categories {
			if strings.TrimSpace(category.Label) == "" {
				return fmt.Errorf("every category needs a label")
			}
		}
	case domain.MethodCopy:
		if cfg.SourceColumn == "" {
			return fmt.Errorf("copy requires a source column")
		}
	case domain.MethodFormula:
		if strings.TrimSpace(cfg.Formula) == "" {
			return fmt.Errorf("formula method requires a formula")
		}
	}

	return nil
}

// GenerateValues produces one derived value per record, index-aligned
// with the input. Generation never fails: records that cannot produce a
// value yield the empty string.
func GenerateValues(records []domain.CaseRecord, cfg domain.VariableConfig, sourceType domain.ColumnType) []string {
	values := make([]string, len(records))

	for i, record := range records {
		switch cfg.Method {
		case domain.MethodCategorize:
			values[i] = categorize(record.Get(cfg.SourceColumn), cfg.Categories, sourceType)
		case domain.MethodCopy:
			values[i] = record.Get(cfg.SourceColumn).Text()
		case domain.MethodFormula:
			values[i] = EvaluateFormula(cfg.Formula, record)
		default:
			values[i] = ""
		}
	}

	return values
}

// categorize buckets one source value. Numeric sources match the first
// category whose inclusive [min, max] range contains the value, with
// unset bounds open towards infinity. Other sources match a category's
// value set case-insensitively after trimming. A non-missing value with
// no matching category falls into OtherLabel; a missing or unparseable
// source yields the empty string.
func categorize(source domain.Value, categories []domain.CategoryRule, sourceType domain.ColumnType) string {
	if source.IsMissing() {
		return ""
	}

	if sourceType == domain.ColumnNumber {
		num, ok := source.Number()
		if !ok {
			return ""
		}
		for _, category := range categories {
			min := math.Inf(-1)
			if category.Min != nil {
				min = *category.Min
			}
			max := math.Inf(1)
			if category.Max != nil {
				max = *category.Max
			}
			if num >= min && num <= max {
				return category.Label
			}
		}
		return OtherLabel
	}

	needle := strings.ToLower(strings.TrimSpace(source.Text()))
	for _, category := range categories {
		for _, candidate := range category.Values {
			if strings.ToLower(strings.TrimSpace(candidate)) == needle {
				return category.Label
			}
		}
	}
	return OtherLabel
}
