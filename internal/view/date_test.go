package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatJalali(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		day   int
		want  string
	}{
		{2023, time.March, 21, "۱۴۰۲/۰۱/۰۱"},
		{2024, time.March, 20, "۱۴۰۳/۰۱/۰۱"},
		{2024, time.December, 31, "۱۴۰۳/۱۰/۱۱"},
		{2024, time.March, 19, "۱۴۰۲/۱۲/۲۹"},
	}

	for _, tt := range tests {
		got := FormatJalali(time.Date(tt.year, tt.month, tt.day, 12, 0, 0, 0, time.UTC))
		assert.Equal(t, tt.want, got, "gregorian %d-%02d-%02d", tt.year, tt.month, tt.day)
	}
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "۱۴۰۳/۰۱/۰۱", DisplayDate("2024-03-20T08:30:00.000Z"))
	assert.Equal(t, "", DisplayDate("yesterday"))
}

func TestDisplayDateUsesLocalDay(t *testing.T) {
	// 22:30 UTC on the last day of 1402 is already Nowruz in Tehran
	assert.Equal(t, "۱۴۰۳/۰۱/۰۱", DisplayDateIn("2024-03-19T22:30:00.000Z", Tehran))
	assert.Equal(t, "۱۴۰۲/۱۲/۲۹", DisplayDateIn("2024-03-19T22:30:00.000Z", time.UTC))
	assert.Equal(t, "۱۴۰۳/۰۱/۰۱", DisplayDate("2024-03-19T22:30:00.000Z"))
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, Tehran, loc)

	loc, err = LoadLocation("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = LoadLocation("Nowhere/Atlantis")
	assert.Error(t, err)
}
