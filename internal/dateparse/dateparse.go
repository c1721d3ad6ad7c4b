// Package dateparse infers calendar dates from filenames and folder names.
//
// Collections are dated by trying an ordered list of encodings against the
// raw string. Order is load-bearing: the solid six-digit YYMMDD and DDMMYY
// encodings are textually identical, and the business naming convention is
// year-first, so YYMMDD must be tried before DDMMYY. A DDMMYY-encoded name
// is only read correctly when the YYMMDD interpretation fails calendar
// validation. Do not reorder patterns or add format guessing.
package dateparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date confidence levels. Manual overrides are trusted more than inference.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Well-known date sources beyond pattern names.
const (
	SourceFallback       = "fallback"
	SourceManualOverride = "manual:override"
	SourceExif           = "exif"
	SourceFolderName     = "folder:month-year"
	SourceStoredManifest = "manifest:stored"
)

// Valid year range for inferred dates. Anything outside is treated as a
// false positive match and rejected.
const (
	MinYear = 1990
	MaxYear = 2030
)

// DateInfo is an inferred calendar date with provenance metadata.
type DateInfo struct {
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Day        int    `json:"day"`
	MonthName  string `json:"monthName"`
	ISO        string `json:"iso"`
	Source     string `json:"source"`
	Confidence string `json:"confidence"`
	Display    string `json:"display,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// pattern is one date encoding: a regexp plus a deterministic field
// extraction. Go's RE2 has no lookahead, so the solid-digit patterns carry
// explicit non-digit boundary groups instead of the negative lookahead the
// original scripts used.
type pattern struct {
	name       string
	re         *regexp.Regexp
	confidence string
	// extract maps the three captured digit groups to (year, month, day).
	extract func(a, b, c int) (year, month, day int)
}

var yearFirst4 = func(a, b, c int) (int, int, int) { return a, b, c }
var yearFirst2 = func(a, b, c int) (int, int, int) { return 2000 + a, b, c }
var dayFirst2 = func(a, b, c int) (int, int, int) { return 2000 + c, b, a }
var dayFirst4 = func(a, b, c int) (int, int, int) { return c, b, a }

// patterns in fixed trial priority order.
var patterns = []pattern{
	{
		name:       "YYYY-MM-DD",
		re:         regexp.MustCompile(`(?:^|\D)(\d{4})[-_](\d{2})[-_](\d{2})`),
		confidence: ConfidenceHigh,
		extract:    yearFirst4,
	},
	{
		name:       "YYYYMMDD",
		re:         regexp.MustCompile(`(?:^|\D)(\d{4})(\d{2})(\d{2})(?:\D|$)`),
		confidence: ConfidenceHigh,
		extract:    yearFirst4,
	},
	{
		name:       "YY-MM-DD",
		re:         regexp.MustCompile(`(?:^|\D)(\d{2})[-_](\d{2})[-_](\d{2})(?:\D|$)`),
		confidence: ConfidenceMedium,
		extract:    yearFirst2,
	},
	{
		// Anchored at string start: the dominant convention is a leading
		// YYMMDD_ prefix on image filenames.
		name:       "YYMMDD",
		re:         regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})(?:\D|$)`),
		confidence: ConfidenceMedium,
		extract:    yearFirst2,
	},
	{
		name:       "DD-MM-YY",
		re:         regexp.MustCompile(`(?:^|\D)(\d{2})[-_](\d{2})[-_](\d{2})(?:\D|$)`),
		confidence: ConfidenceMedium,
		extract:    dayFirst2,
	},
	{
		name:       "DDMMYY",
		re:         regexp.MustCompile(`(?:^|\D)(\d{2})(\d{2})(\d{2})(?:\D|$)`),
		confidence: ConfidenceMedium,
		extract:    dayFirst2,
	},
	{
		name:       "DD-MM-YYYY",
		re:         regexp.MustCompile(`(?:^|\D)(\d{2})[-_](\d{2})[-_](\d{4})(?:\D|$)`),
		confidence: ConfidenceHigh,
		extract:    dayFirst4,
	},
	{
		name:       "DDMMYYYY",
		re:         regexp.MustCompile(`(?:^|\D)(\d{2})(\d{2})(\d{4})(?:\D|$)`),
		confidence: ConfidenceHigh,
		extract:    dayFirst4,
	},
}

// DetectDate tries each date encoding in priority order against text and
// returns the first match that passes calendar validation, or nil when no
// pattern yields a valid date.
func DetectDate(text string) *DateInfo {
	for i := range patterns {
		p := &patterns[i]
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		c, _ := strconv.Atoi(m[3])
		year, month, day := p.extract(a, b, c)
		if !Valid(year, month, day) {
			continue
		}
		return newDate(year, month, day, p.name, p.confidence)
	}
	return nil
}

// Valid reports whether (year, month, day) is a real calendar date inside
// the accepted year range. Construction round-trip catches Feb 30, month 13
// and day 32 style artifacts of a wrong pattern reading.
func Valid(year, month, day int) bool {
	if year < MinYear || year > MaxYear {
		return false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// New constructs a DateInfo from explicit fields, enforcing calendar
// validity. Used by the override resolver and the stored-manifest reader so
// every DateInfo in the system has passed the same check.
func New(year, month, day int, source, confidence string) (*DateInfo, error) {
	if !Valid(year, month, day) {
		return nil, fmt.Errorf("invalid calendar date %04d-%02d-%02d", year, month, day)
	}
	return newDate(year, month, day, source, confidence), nil
}

// ParseISO constructs a DateInfo from a YYYY-MM-DD string.
func ParseISO(iso, source, confidence string) (*DateInfo, error) {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return nil, fmt.Errorf("invalid ISO date %q: %w", iso, err)
	}
	return New(t.Year(), int(t.Month()), t.Day(), source, confidence)
}

var monthYearRe = regexp.MustCompile(`(?i)^(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4})$`)

// ParseMonthYear matches folder names like "August 2025" and returns a
// DateInfo pinned to the first of the month, or nil when the name is not a
// month-year literal.
func ParseMonthYear(name string) *DateInfo {
	m := monthYearRe.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	var month int
	for i := 1; i <= 12; i++ {
		if strings.EqualFold(time.Month(i).String(), m[1]) {
			month = i
			break
		}
	}
	year, _ := strconv.Atoi(m[2])
	if !Valid(year, month, 1) {
		return nil
	}
	d := newDate(year, month, 1, SourceFolderName, ConfidenceMedium)
	d.Display = fmt.Sprintf("%s %d", d.MonthName, year)
	return d
}

// Fallback returns the January 1 current-year date used when every
// inference source comes up empty. Callers are expected to log a warning.
func Fallback() *DateInfo {
	year := time.Now().Year()
	d := newDate(year, 1, 1, SourceFallback, ConfidenceLow)
	d.Display = fmt.Sprintf("%d", year)
	return d
}

// CurrentYear returns a low-noise current-year date for portfolio types
// that do not date their collections at all.
func CurrentYear(source string) *DateInfo {
	year := time.Now().Year()
	d := newDate(year, 1, 1, source, ConfidenceLow)
	d.Display = fmt.Sprintf("%d", year)
	return d
}

func newDate(year, month, day int, source, confidence string) *DateInfo {
	monthName := time.Month(month).String()
	return &DateInfo{
		Year:       year,
		Month:      month,
		Day:        day,
		MonthName:  monthName,
		ISO:        fmt.Sprintf("%04d-%02d-%02d", year, month, day),
		Source:     source,
		Confidence: confidence,
		Display:    fmt.Sprintf("%s %d, %d", monthName, day, year),
	}
}
