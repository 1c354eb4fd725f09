package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrice_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected Price
	}{
		{"JSON number", `{"price": 1500.5}`, "1500.5"},
		{"JSON integer", `{"price": 100}`, "100"},
		{"JSON string", `{"price": "250"}`, "250"},
		{"Null price", `{"price": null}`, ""},
		{"Non-numeric string", `{"price": "free"}`, "free"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var listing Listing
			err := json.Unmarshal([]byte(tt.payload), &listing)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, listing.Price)
		})
	}
}

func TestPrice_Float(t *testing.T) {
	v, ok := Price("99.95").Float()
	assert.True(t, ok)
	assert.Equal(t, 99.95, v)

	v, ok = Price(" 40 ").Float()
	assert.True(t, ok)
	assert.Equal(t, 40.0, v)

	_, ok = Price("free").Float()
	assert.False(t, ok)

	_, ok = Price("").Float()
	assert.False(t, ok)

	// Non-finite spellings are not valid prices.
	for _, s := range []string{"NaN", "nan", "Inf", "-Inf", "Infinity"} {
		_, ok = Price(s).Float()
		assert.False(t, ok, "price %q should not parse", s)
	}
}

func TestPrice_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Listing{Price: "120"})
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"price":"120"`)
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		at       time.Time
		expected string
	}{
		{"Just now", now, "just now"},
		{"Seconds", now.Add(-30 * time.Second), "30 seconds ago"},
		{"One minute", now.Add(-90 * time.Second), "1 minute ago"},
		{"Hours", now.Add(-5 * time.Hour), "5 hours ago"},
		{"One day", now.Add(-25 * time.Hour), "1 day ago"},
		{"Months", now.Add(-65 * 24 * time.Hour), "2 months ago"},
		{"Years", now.Add(-800 * 24 * time.Hour), "2 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RelativeTime(tt.at, now))
		})
	}
}
