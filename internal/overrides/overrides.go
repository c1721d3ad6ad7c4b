// Package overrides resolves manually curated date corrections.
//
// The override table is a single JSON object keyed by folder-path-like
// strings. It is the escape hatch for collections whose filename encoding is
// misread by the pattern matcher (the YYMMDD/DDMMYY ambiguity): the fix is an
// override entry, never a change to pattern order.
package overrides

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sharpframe/portfolio-manifest/internal/dateparse"
	"github.com/sharpframe/portfolio-manifest/internal/errors"
)

// Entry is one raw override record as authored in the JSON file. Either
// DateISO or Year+Month(+Day) must be present; Day defaults to 1.
type Entry struct {
	DateISO        string `json:"dateISO,omitempty"`
	Year           int    `json:"year,omitempty"`
	Month          int    `json:"month,omitempty"`
	Day            int    `json:"day,omitempty"`
	DateDisplay    string `json:"dateDisplay,omitempty"`
	DateSource     string `json:"dateSource,omitempty"`
	DateConfidence string `json:"dateConfidence,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// Resolved is a successfully normalized override.
type Resolved struct {
	Date  *dateparse.DateInfo
	Key   string // which candidate key matched
	Notes string
}

// Resolver looks up override entries by prioritized candidate keys. The
// table is loaded lazily and memoized in the injected cache for the process
// lifetime; scripts are one-shot, so there is no invalidation.
type Resolver struct {
	path  string
	cache *gocache.Cache
	log   *slog.Logger
}

// NewResolver creates a resolver for the override file at path. A nil cache
// gets a private non-expiring one; tests inject a fresh cache per case.
func NewResolver(path string, cache *gocache.Cache) *Resolver {
	if cache == nil {
		cache = gocache.New(gocache.NoExpiration, 0)
	}
	return &Resolver{
		path:  path,
		cache: cache,
		log:   slog.Default().With("service", "overrides"),
	}
}

// Resolve tries each candidate key in priority order and returns the first
// entry that normalizes to a valid date, or nil when none does. Entries with
// unparseable dates are skipped with a warning, never treated as an error.
func (r *Resolver) Resolve(keys ...string) *Resolved {
	table := r.load()
	if len(table) == 0 {
		return nil
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		norm := filepath.ToSlash(key)
		entry, ok := table[norm]
		if !ok {
			continue
		}
		date, err := normalizeEntry(&entry)
		if err != nil {
			r.log.Warn("⚠️ override entry has an invalid date, ignoring",
				"key", norm, "error", err)
			continue
		}
		return &Resolved{Date: date, Key: norm, Notes: entry.Notes}
	}
	return nil
}

// load returns the memoized table, reading the file on first use. A missing
// or unreadable file is an empty table, not a failure.
func (r *Resolver) load() map[string]Entry {
	if cached, found := r.cache.Get(r.path); found {
		return cached.(map[string]Entry)
	}

	table := make(map[string]Entry)
	data, err := os.ReadFile(r.path)
	switch {
	case err == nil:
		var raw map[string]Entry
		if jsonErr := json.Unmarshal(data, &raw); jsonErr != nil {
			r.log.Warn("⚠️ override file is not valid JSON, ignoring",
				"path", r.path, "error", jsonErr)
		} else {
			// Normalize keys to forward slashes so lookups are
			// platform-independent.
			for k, v := range raw {
				table[filepath.ToSlash(k)] = v
			}
			r.log.Debug("loaded date overrides", "path", r.path, "entries", len(table))
		}
	case os.IsNotExist(err):
		r.log.Debug("no override file present", "path", r.path)
	default:
		r.log.Warn("⚠️ could not read override file, ignoring", "path", r.path, "error", err)
	}

	r.cache.Set(r.path, table, gocache.NoExpiration)
	return table
}

// normalizeEntry converts a raw entry to a validated DateInfo. Overrides are
// human-authored and trusted, so confidence defaults to high.
func normalizeEntry(e *Entry) (*dateparse.DateInfo, error) {
	source := e.DateSource
	if source == "" {
		source = dateparse.SourceManualOverride
	}
	confidence := e.DateConfidence
	if confidence == "" {
		confidence = dateparse.ConfidenceHigh
	}

	var date *dateparse.DateInfo
	var err error
	switch {
	case e.DateISO != "":
		date, err = dateparse.ParseISO(e.DateISO, source, confidence)
	case e.Year != 0 && e.Month != 0:
		day := e.Day
		if day == 0 {
			day = 1
		}
		date, err = dateparse.New(e.Year, e.Month, day, source, confidence)
	default:
		err = errors.Newf("override entry has neither dateISO nor year+month").
			Category(errors.CategoryValidation).
			Component("overrides").
			Build()
	}
	if err != nil {
		return nil, err
	}
	if e.DateDisplay != "" {
		date.Display = e.DateDisplay
	}
	if e.Notes != "" {
		date.Notes = e.Notes
	}
	return date, nil
}
