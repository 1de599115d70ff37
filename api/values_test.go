package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime(t *testing.T) {
	ts := time.Date(2018, 6, 1, 13, 5, 9, 123456000, time.FixedZone("AEST", 10*3600))

	assert.Equal(t, "2018-06-01_03:05:09.123456", FormatTime(ts))
	assert.Equal(t, "2018-06-01_03:05:09.123456", NewTime(ts).Serialise())

	parsed, err := ParseTime("2018-06-01_03:05:09.123456")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
	assert.Equal(t, time.UTC, parsed.Location())

	short, err := ParseTime("2018-06-01_03:05:09.5")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, time.Duration(short.Nanosecond()))

	_, err = ParseTime("2018-06-01T03:05:09")
	assert.ErrorIs(t, err, ErrInvalidResponse)

	var decoded struct {
		At  Time `json:"at"`
		Nil Time `json:"nil"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2018-06-01_03:05:09.123456","nil":null}`), &decoded))
	assert.True(t, decoded.At.Equal(ts))
	assert.True(t, decoded.Nil.IsZero())

	out, err := json.Marshal(decoded.At)
	require.NoError(t, err)
	assert.Equal(t, `"2018-06-01_03:05:09.123456"`, string(out))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0", want: "0"},
		{in: "10.50", want: "10.5"},
		{in: "1,234.50", want: "1234.5"},
		{in: "(1,234.50)", want: "-1234.5"},
		{in: "-3.25", want: "-3.25"},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestAmountJSON(t *testing.T) {
	var v struct {
		A Amount  `json:"a"`
		B *Amount `json:"b"`
		C Amount  `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"(2.00)","b":null,"c":4.5}`), &v))
	assert.True(t, v.A.Equal(decimal.NewFromInt(-2)))
	assert.Nil(t, v.B)
	assert.True(t, v.C.Equal(decimal.RequireFromString("4.5")))

	out, err := json.Marshal(Amount{Decimal: decimal.RequireFromString("12.30")})
	require.NoError(t, err)
	assert.Equal(t, `"12.3"`, string(out))
}
