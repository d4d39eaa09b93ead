package domain

// ColumnType declares how a column's values are interpreted by
// comparators and range/format rules.
type ColumnType string

const (
	ColumnText        ColumnType = "text"
	ColumnNumber      ColumnType = "number"
	ColumnDate        ColumnType = "date"
	ColumnBoolean     ColumnType = "boolean"
	ColumnCategorical ColumnType = "categorical"
)

// DataColumn describes one column of a line-list dataset.
type DataColumn struct {
	Key   string     `json:"key" validate:"required"`
	Label string     `json:"label" validate:"required"`
	Type  ColumnType `json:"type" validate:"required,oneof=text number date boolean categorical"`
}

// ColumnSet provides keyed lookup over an ordered column list.
type ColumnSet struct {
	ordered []DataColumn
	byKey   map[string]DataColumn
}

// NewColumnSet builds a lookup over the given columns. Later duplicates of
// a key are ignored so the first declaration wins.
func NewColumnSet(columns []DataColumn) *ColumnSet {
	cs := &ColumnSet{
		ordered: columns,
		byKey:   make(map[string]DataColumn, len(columns)),
	}
	for _, c := range columns {
		if _, exists := cs.byKey[c.Key]; !exists {
			cs.byKey[c.Key] = c
		}
	}
	return cs
}

// Get returns the column declared under key.
func (cs *ColumnSet) Get(key string) (DataColumn, bool) {
	c, ok := cs.byKey[key]
	return c, ok
}

// TypeOf returns the declared type for key, defaulting to text for
// undeclared columns.
func (cs *ColumnSet) TypeOf(key string) ColumnType {
	if c, ok := cs.byKey[key]; ok {
		return c.Type
	}
	return ColumnText
}

// Label returns the display label for key, falling back to the key itself.
func (cs *ColumnSet) Label(key string) string {
	if c, ok := cs.byKey[key]; ok && c.Label != "" {
		return c.Label
	}
	return key
}

// Ordered returns the columns in declaration order.
func (cs *ColumnSet) Ordered() []DataColumn {
	return cs.ordered
}
