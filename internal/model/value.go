package model

import (
	"strconv"
	"time"
)

// ValueKind discriminates the scalar types a tabular cell can hold.
type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindFloat
	KindDate
)

// Value is a typed scalar read from a tabular source. Rendering is stable
// and locale-independent: integers never grow a trailing ".0", dates are
// ISO-8601.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Date  time.Time
}

// StringValue wraps a plain string cell.
func StringValue(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// IntValue wraps an integer cell.
func IntValue(i int64) Value {
	return Value{Kind: KindInt, Int: i}
}

// FloatValue wraps a floating-point cell.
func FloatValue(f float64) Value {
	return Value{Kind: KindFloat, Float: f}
}

// DateValue wraps a date cell.
func DateValue(t time.Time) Value {
	return Value{Kind: KindDate, Date: t}
}

// String renders the value for identifier templates and literals.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindDate:
		return v.Date.Format("2006-01-02")
	default:
		return v.Str
	}
}

// Row maps column names to typed cell values for one record of a tabular
// source. Rows are ephemeral: the source reader creates one, the engine
// consumes it, nothing retains it.
type Row map[string]Value
