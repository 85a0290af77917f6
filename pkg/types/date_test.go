package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "date only", input: "2025-02-01", want: "2025-02-01"},
		{name: "backend timestamp", input: "2025-02-01T00:00:00", want: "2025-02-01"},
		{name: "space separated", input: "2025-02-01 10:00:00", want: "2025-02-01"},
		{name: "invalid day", input: "2025-02-30", wantErr: true},
		{name: "garbage", input: "01/02/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := MustDate("2024-02-28")
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2024-01-31", DateOf(2024, time.February, 0).String())
	assert.Equal(t, time.Wednesday, d.Weekday())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
}

func TestDate_NewDateIgnoresClock(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	a := NewDate(time.Date(2025, 5, 1, 0, 30, 0, 0, loc))
	b := NewDate(time.Date(2025, 5, 1, 23, 30, 0, 0, time.UTC))
	assert.Equal(t, a, b)
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		Date Date `json:"date"`
	}

	data, err := json.Marshal(wrapper{Date: MustDate("2025-02-01")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-02-01"}`, string(data))

	var decoded wrapper
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, MustDate("2025-02-01"), decoded.Date)

	require.NoError(t, json.Unmarshal([]byte(`{"date":null}`), &decoded))
	assert.True(t, decoded.Date.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"date":"tomorrow"}`), &decoded))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-03-09", d.String())

	require.NoError(t, d.Scan([]byte("2025-03-10")))
	assert.Equal(t, "2025-03-10", d.String())

	assert.Error(t, d.Scan(42))
}
