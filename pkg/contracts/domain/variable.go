package domain

// DeriveMethod selects how a derived variable's values are produced.
type DeriveMethod string

const (
	MethodCategorize DeriveMethod = "categorize"
	MethodCopy       DeriveMethod = "copy"
	MethodFormula    DeriveMethod = "formula"
	MethodBlank      DeriveMethod = "blank"
)

// CategoryRule maps source values into one labelled bucket. Numeric
// sources use the inclusive [Min, Max] range, with unset bounds open
// towards infinity; other sources match against Values case-insensitively
// after trimming.
type CategoryRule struct {
	Label  string   `json:"label" yaml:"label"`
	Min    *float64 `json:"min,omitempty" yaml:"min"`
	Max    *float64 `json:"max,omitempty" yaml:"max"`
	Values []string `json:"values,omitempty" yaml:"values"`
}

// VariableConfig describes one derived column. Name must be a snake_case
// identifier not already used by an existing column.
type VariableConfig struct {
	Name         string         `json:"name" yaml:"name"`
	Label        string         `json:"label" yaml:"label"`
	Type         ColumnType     `json:"type" yaml:"type"`
	Method       DeriveMethod   `json:"method" yaml:"method" validate:"required,oneof=categorize copy formula blank"`
	SourceColumn string         `json:"source_column,omitempty" yaml:"source_column"`
	Categories   []CategoryRule `json:"categories,omitempty" yaml:"categories"`
	Formula      string         `json:"formula,omitempty" yaml:"formula"`
}
