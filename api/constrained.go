package api

import (
	"math"
	"unicode/utf8"
)

// ConstrainedString is a string whose length has been checked against bounds.
type ConstrainedString struct {
	value string
	name  string
	min   int
	max   int
}

// NewConstrainedString checks that value is at most max characters long.
func NewConstrainedString(value, name string, max int) (ConstrainedString, error) {
	return NewBoundedString(value, name, 0, max)
}

// NewBoundedString checks that value is between min and max characters long.
// Length counts Unicode code points.
func NewBoundedString(value, name string, min, max int) (ConstrainedString, error) {
	n := utf8.RuneCountInString(value)
	if n > max {
		return ConstrainedString{}, &ConstraintError{
			Name: name, Bound: boundMaximum, Limit: int64(max), Value: value, Unit: "length",
		}
	}
	if n < min {
		return ConstrainedString{}, &ConstraintError{
			Name: name, Bound: boundMinimum, Limit: int64(min), Value: value, Unit: "length",
		}
	}
	return ConstrainedString{value: value, name: name, min: min, max: max}, nil
}

func (s ConstrainedString) String() string { return s.value }
func (s ConstrainedString) Name() string   { return s.name }
func (s ConstrainedString) Max() int       { return s.max }
func (s ConstrainedString) Min() int       { return s.min }

func (s ConstrainedString) Serialise() any {
	return s.value
}

// ConstrainedInteger is an integer that has been checked against bounds.
type ConstrainedInteger struct {
	value int64
	name  string
	min   int64
	max   int64
}

// NewConstrainedInteger checks that value is at most max.
func NewConstrainedInteger(value int64, name string, max int64) (ConstrainedInteger, error) {
	return NewBoundedInteger(value, name, math.MinInt64, max)
}

// NewBoundedInteger checks that min <= value <= max.
func NewBoundedInteger(value int64, name string, min, max int64) (ConstrainedInteger, error) {
	if value > max {
		return ConstrainedInteger{}, &ConstraintError{
			Name: name, Bound: boundMaximum, Limit: max, Value: value, Unit: "value",
		}
	}
	if value < min {
		return ConstrainedInteger{}, &ConstraintError{
			Name: name, Bound: boundMinimum, Limit: min, Value: value, Unit: "value",
		}
	}
	return ConstrainedInteger{value: value, name: name, min: min, max: max}, nil
}

func (i ConstrainedInteger) Int64() int64 { return i.value }
func (i ConstrainedInteger) Name() string { return i.name }

func (i ConstrainedInteger) Serialise() any {
	return i.value
}
