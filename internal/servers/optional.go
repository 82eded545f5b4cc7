package servers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Int is an optional integer. Directory entries send numbers either as JSON
// numbers or as numeric strings; anything else decodes as absent.
type Int struct {
	Value int64
	Valid bool
}

// Float is an optional floating point value.
type Float struct {
	Value float64
	Valid bool
}

// String is an optional string. Numbers are accepted and kept in their
// shortest decimal form.
type String struct {
	Value string
	Valid bool
}

// Bool is an optional boolean. Accepts true/false, 0/1 and their string forms.
type Bool struct {
	Value bool
	Valid bool
}

// Names is a list of display names. Only JSON arrays are honoured and
// elements that are neither strings nor numbers are dropped.
type Names []string

// IntOf returns a present Int.
func IntOf(v int64) Int { return Int{Value: v, Valid: true} }

// FloatOf returns a present Float.
func FloatOf(v float64) Float { return Float{Value: v, Valid: true} }

// StringOf returns a present String.
func StringOf(v string) String { return String{Value: v, Valid: true} }

func (i *Int) UnmarshalJSON(b []byte) error {
	*i = Int{}
	if f, ok := parseNumber(b); ok {
		*i = IntOf(int64(f))
	}
	return nil
}

func (f *Float) UnmarshalJSON(b []byte) error {
	*f = Float{}
	if v, ok := parseNumber(b); ok {
		*f = FloatOf(v)
	}
	return nil
}

func (s *String) UnmarshalJSON(b []byte) error {
	*s = String{}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		*s = StringOf(t)
	case float64:
		*s = StringOf(strconv.FormatFloat(t, 'f', -1, 64))
	}
	return nil
}

func (bv *Bool) UnmarshalJSON(b []byte) error {
	*bv = Bool{}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case bool:
		*bv = Bool{Value: t, Valid: true}
	case float64:
		*bv = Bool{Value: t != 0, Valid: true}
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			*bv = Bool{Value: parsed, Valid: true}
		}
	}
	return nil
}

func (n *Names) UnmarshalJSON(b []byte) error {
	*n = nil
	var items []any
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	names := make(Names, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			names = append(names, t)
		case float64:
			names = append(names, strconv.FormatFloat(t, 'f', -1, 64))
		}
	}
	*n = names
	return nil
}

// True reports whether the flag is present and set.
func (bv Bool) True() bool {
	return bv.Valid && bv.Value
}

func (i Int) positive() Int {
	if !i.Valid || i.Value <= 0 {
		return Int{}
	}
	return i
}

func (i Int) nonNegative() Int {
	if !i.Valid || i.Value < 0 {
		return Int{}
	}
	return i
}

func (f Float) nonNegative() Float {
	if !f.Valid || f.Value < 0 {
		return Float{}
	}
	return f
}

func parseNumber(b []byte) (float64, bool) {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return 0, false
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
