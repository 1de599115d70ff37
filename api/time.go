package api

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// TimeLayout is the wire format for timestamps, always UTC.
	TimeLayout = "2006-01-02_15:04:05.000000"
	// fractional digits are optional when parsing
	timeParseLayout = "2006-01-02_15:04:05"
)

// Time is a timestamp in the API's wire format.
type Time struct {
	time.Time
}

// NewTime converts t to UTC.
func NewTime(t time.Time) Time {
	return Time{Time: t.UTC()}
}

// FormatTime renders t in the wire format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a wire format timestamp as UTC.
func ParseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeParseLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q: %w", ErrInvalidResponse, s, err)
	}
	return t, nil
}

func (t Time) Serialise() any {
	return FormatTime(t.Time)
}

func (t Time) String() string {
	return FormatTime(t.Time)
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatTime(t.Time))
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if jsonKind(data) == kindNull {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &UnexpectedResponseTypeError{Expected: kindString, Actual: jsonKind(data)}
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// OptionalTime serialises a nil time as JSON null.
func OptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTime(*t)
}
