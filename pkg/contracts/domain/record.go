package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValueKind identifies the underlying scalar type carried by a Value.
type ValueKind string

const (
	KindNull    ValueKind = "null"
	KindText    ValueKind = "text"
	KindNumber  ValueKind = "number"
	KindBoolean ValueKind = "boolean"
)

// Value is a tagged scalar for a single record field. Fields arrive as
// loosely-typed cells (JSON scalars, spreadsheet cells); a Value keeps the
// raw shape and resolves against the declared column type at read time.
// Null, undefined and empty/whitespace-only text are all treated as missing.
type Value struct {
	kind ValueKind
	text string
	num  float64
	flag bool
}

// NullValue returns the missing value.
func NullValue() Value {
	return Value{kind: KindNull}
}

// TextValue wraps a string cell.
func TextValue(s string) Value {
	return Value{kind: KindText, text: s}
}

// NumberValue wraps a numeric cell.
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// BoolValue wraps a boolean cell.
func BoolValue(b bool) Value {
	return Value{kind: KindBoolean, flag: b}
}

// Kind returns the scalar tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsMissing reports whether the value carries no usable content.
func (v Value) IsMissing() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindText:
		return strings.TrimSpace(v.text) == ""
	default:
		return false
	}
}

// Text renders the value as a display string. Numbers render in decimal
// notation without a fixed precision, booleans as "true"/"false".
func (v Value) Text() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// Number coerces the value to a float64. Text is parsed after trimming;
// the second return is false when no numeric reading exists.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Bool coerces the value to a boolean. Text accepts true/yes/1 and
// false/no/0 case-insensitively; anything else is not coercible.
func (v Value) Bool() (bool, bool) {
	switch v.kind {
	case KindBoolean:
		return v.flag, true
	case KindNumber:
		if v.num == 1 {
			return true, true
		}
		if v.num == 0 {
			return false, true
		}
		return false, false
	case KindText:
		switch strings.ToLower(strings.TrimSpace(v.text)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}

// dateLayouts are the formats accepted for date cells. Locale-aware
// disambiguation happens at import time, before records reach the engine.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// Date parses the value as a calendar date. The second return is false
// when the value is missing or does not match a supported layout.
func (v Value) Date() (time.Time, bool) {
	if v.kind != KindText || v.IsMissing() {
		return time.Time{}, false
	}
	s := strings.TrimSpace(v.text)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MarshalJSON renders the value as the corresponding JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBoolean:
		return json.Marshal(v.flag)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts any JSON scalar and tags it by shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*v = NullValue()
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("unsupported field value %s: %w", string(data), err)
		}
		*v = NumberValue(f)
	}
	return nil
}

// CaseRecord is one row of line-listing data: a stable identifier plus an
// open mapping from column key to cell value. Records are immutable
// snapshots; the engine never mutates them.
type CaseRecord struct {
	ID     string           `json:"id" validate:"required"`
	Fields map[string]Value `json:"fields"`
}

// Get returns the value stored under key, or the missing value when the
// key is absent.
func (r CaseRecord) Get(key string) Value {
	if v, ok := r.Fields[key]; ok {
		return v
	}
	return NullValue()
}

// HasAny reports whether at least one of the given fields carries a
// non-missing value.
func (r CaseRecord) HasAny(fields []string) bool {
	for _, f := range fields {
		if !r.Get(f).IsMissing() {
			return true
		}
	}
	return false
}
