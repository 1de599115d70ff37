package api

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary quantity. The API sends amounts as strings that may
// contain thousands separators and use parentheses for negatives.
type Amount struct {
	decimal.Decimal
}

// ParseAmount reads "1,234.50" or "(1,234.50)".
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	negate := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		raw = raw[1 : len(raw)-1]
		negate = true
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q: %w", ErrInvalidResponse, s, err)
	}
	if negate {
		d = d.Neg()
	}
	return d, nil
}

// FormatAmount renders d as a plain decimal string for request bodies.
func FormatAmount(d decimal.Decimal) string {
	return d.String()
}

func (a Amount) Serialise() any {
	return FormatAmount(a.Decimal)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatAmount(a.Decimal))
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	switch jsonKind(data) {
	case kindNull:
		return nil
	case kindNumber:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("%w: amount %s: %w", ErrInvalidResponse, data, err)
		}
		a.Decimal = d
		return nil
	case kindString:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
		d, err := ParseAmount(s)
		if err != nil {
			return err
		}
		a.Decimal = d
		return nil
	}
	return &UnexpectedResponseTypeError{Expected: kindString, Actual: jsonKind(data)}
}
