package amatino

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// AMType is one of the five fundamental account types.
type AMType int

const (
	Asset     AMType = 1
	Liability AMType = 2
	Equity    AMType = 3
	Income    AMType = 4
	Expense   AMType = 5
)

var amTypeNames = map[AMType]string{
	Asset:     "asset",
	Liability: "liability",
	Equity:    "equity",
	Income:    "income",
	Expense:   "expense",
}

// ParseAMType accepts an account type name in any case
func ParseAMType(s string) (AMType, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for t, name := range amTypeNames {
		if name == want {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: account type %q", ErrInvalidArgument, s)
}

func (t AMType) Valid() bool {
	_, ok := amTypeNames[t]
	return ok
}

func (t AMType) String() string {
	if name, ok := amTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("AMType(%d)", int(t))
}

func (t *AMType) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if !AMType(v).Valid() {
		return fmt.Errorf("unknown account type %d", v)
	}
	*t = AMType(v)
	return nil
}

// Side is debit or credit.
type Side int

const (
	Debit  Side = 0
	Credit Side = 1
)

func (s Side) String() string {
	switch s {
	case Debit:
		return "debit"
	case Credit:
		return "credit"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

func (s Side) Valid() bool {
	return s == Debit || s == Credit
}

func (s *Side) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if !Side(v).Valid() {
		return fmt.Errorf("unknown side %d", v)
	}
	*s = Side(v)
	return nil
}

// State filters list requests by lifecycle.
type State string

const (
	StateAll     State = "all"
	StateActive  State = "active"
	StateDeleted State = "deleted"
)

// Color is a six digit hex colour without a leading '#'.
type Color string

var colorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// ParseColor accepts "ff0000" or "#ff0000".
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if !colorPattern.MatchString(s) {
		return "", fmt.Errorf("%w: colour %q is not a six digit hex value", ErrInvalidArgument, s)
	}
	return Color(strings.ToLower(s)), nil
}

// serialise returns nil for no colour.
func (c Color) serialise() any {
	if c == "" {
		return nil
	}
	return string(c)
}

func (s State) Valid() bool {
	return s == StateAll || s == StateActive || s == StateDeleted
}
