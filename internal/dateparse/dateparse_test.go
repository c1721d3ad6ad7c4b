package dateparse

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDatePatterns(t *testing.T) {
	testCases := []struct {
		name    string
		text    string
		wantISO string
		wantSrc string
	}{
		{"separator year first", "2025-08-29_Haven_001.jpg", "2025-08-29", "YYYY-MM-DD"},
		{"underscore year first", "2025_08_29_Haven.jpg", "2025-08-29", "YYYY-MM-DD"},
		{"solid eight digit", "IMG_20250829.jpg", "2025-08-29", "YYYYMMDD"},
		{"two digit year separator", "25-08-29_set.jpg", "2025-08-29", "YY-MM-DD"},
		{"solid six digit prefix", "250829_Haven_001.jpg", "2025-08-29", "YYMMDD"},
		{"day first four digit year", "29-08-2025_gig.jpg", "2025-08-29", "DD-MM-YYYY"},
		{"day first solid eight digit", "29082025_gig.jpg", "2025-08-29", "DDMMYYYY"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectDate(tc.text)
			require.NotNil(t, got, "expected a date from %q", tc.text)
			assert.Equal(t, tc.wantISO, got.ISO)
			assert.Equal(t, tc.wantSrc, got.Source)
		})
	}
}

// The solid six-digit encodings YYMMDD and DDMMYY are textually identical.
// Trial order alone decides: YYMMDD must win whenever both readings would
// validate. "250829" reads as 2025-08-29, never as 29 August 2025 via the
// day-first branch.
func TestSixDigitAmbiguityTrialOrder(t *testing.T) {
	got := DetectDate("250829")
	require.NotNil(t, got)
	assert.Equal(t, 2025, got.Year)
	assert.Equal(t, 8, got.Month)
	assert.Equal(t, 29, got.Day)
	assert.Equal(t, "YYMMDD", got.Source)
}

// A day-first name is only read correctly when the year-first interpretation
// fails validation: "310825" as YYMMDD would be year 2031, outside the
// accepted range, so the matcher falls through to DDMMYY.
func TestSixDigitFallthroughToDayFirst(t *testing.T) {
	got := DetectDate("310825_Haven_001.jpg")
	require.NotNil(t, got)
	assert.Equal(t, "DDMMYY", got.Source)
	assert.Equal(t, "2025-08-31", got.ISO)
}

func TestDetectDateRejectsInvalidCalendarDates(t *testing.T) {
	testCases := []string{
		"20241332_x.jpg", // month 13
		"20240230_x.jpg", // Feb 30
		"20240132_x.jpg", // day 32
		"19800515_x.jpg", // year below range
		"20310515_x.jpg", // year above range
		"Haven_promo.jpg",
		"",
	}
	for _, text := range testCases {
		t.Run(text, func(t *testing.T) {
			assert.Nil(t, DetectDate(text), "expected no date from %q", text)
		})
	}
}

// YYMMDD is anchored to the string start; a six-digit run in the middle of a
// name must not be read year-first.
func TestYYMMDDAnchoredAtStart(t *testing.T) {
	got := DetectDate("Haven_250829.jpg")
	require.NotNil(t, got)
	assert.NotEqual(t, "YYMMDD", got.Source)
	// Mid-string it falls to the DDMMYY branch, which fails validation
	// (month 08, day 25 is valid, so it actually reads day-first).
	assert.Equal(t, "DDMMYY", got.Source)
	assert.Equal(t, "2029-08-25", got.ISO)
}

func TestSolidEightDigitDoesNotEatExtraDigits(t *testing.T) {
	// Nine digits in a row: the 8-digit pattern must not match a window.
	assert.Nil(t, DetectDate("202508291_x.jpg"))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(2024, 2, 29), "leap day")
	assert.False(t, Valid(2023, 2, 29), "non-leap Feb 29")
	assert.False(t, Valid(2024, 13, 1))
	assert.False(t, Valid(2024, 0, 1))
	assert.False(t, Valid(2024, 6, 31))
	assert.False(t, Valid(1989, 6, 1))
	assert.False(t, Valid(2031, 6, 1))
}

func TestNewPopulatesDerivedFields(t *testing.T) {
	d, err := New(2024, 12, 13, SourceManualOverride, ConfidenceHigh)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-13", d.ISO)
	assert.Equal(t, "December", d.MonthName)
	assert.Equal(t, "December 13, 2024", d.Display)

	_, err = New(2024, 2, 30, SourceManualOverride, ConfidenceHigh)
	assert.Error(t, err)
}

func TestParseISO(t *testing.T) {
	d, err := ParseISO("2024-12-13", SourceManualOverride, ConfidenceHigh)
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year)
	assert.Equal(t, 12, d.Month)
	assert.Equal(t, 13, d.Day)

	_, err = ParseISO("13/12/2024", SourceManualOverride, ConfidenceHigh)
	assert.Error(t, err)
}

func TestParseMonthYear(t *testing.T) {
	d := ParseMonthYear("August 2025")
	require.NotNil(t, d)
	assert.Equal(t, "2025-08-01", d.ISO)
	assert.Equal(t, "August 2025", d.Display)
	assert.Equal(t, SourceFolderName, d.Source)

	assert.NotNil(t, ParseMonthYear("december 2024"), "case-insensitive")
	assert.Nil(t, ParseMonthYear("Backstage"))
	assert.Nil(t, ParseMonthYear("August"))
	assert.Nil(t, ParseMonthYear("August 1980"), "outside year range")
}

func TestFallback(t *testing.T) {
	d := Fallback()
	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("%04d-01-01", year), d.ISO)
	assert.Equal(t, SourceFallback, d.Source)
	assert.Equal(t, ConfidenceLow, d.Confidence)
}
