package manifest

import (
	"fmt"
	"sort"
	"time"

	"github.com/sharpframe/portfolio-manifest/internal/errors"
)

// Build wraps scanned collections into the manifest variant for ptype.
// Collections are sorted by date descending; ISO dates sort lexically, so
// string comparison is enough. The sort is stable: equal-date collections
// keep insertion order, which is the documented (accepted) tie-break.
func Build(ptype, version string, generated time.Time, collections []Collection) (PortfolioManifest, error) {
	if collections == nil {
		// An empty portfolio still yields a minimal valid manifest with an
		// empty array, not null.
		collections = []Collection{}
	}
	sort.SliceStable(collections, func(i, j int) bool {
		return collections[i].Date.ISO > collections[j].Date.ISO
	})

	// Date precision, not datetime: a finer timestamp would defeat the
	// idempotent write by changing the bytes on every run.
	header := Header{
		Version:   version,
		Generated: generated.UTC().Format("2006-01-02"),
	}

	switch ptype {
	case TypeConcert:
		return &ConcertManifest{
			Header:     header,
			TotalBands: len(collections),
			Bands:      collections,
		}, nil
	case TypeEvents:
		return &EventsManifest{
			Header:      header,
			TotalEvents: len(collections),
			Categories:  uniqueCategories(collections),
			Events:      collections,
		}, nil
	case TypeJournalism:
		return &JournalismManifest{
			Header:           header,
			TotalCollections: len(collections),
			Collections:      collections,
		}, nil
	case TypeNature:
		return &NatureManifest{
			Header:           header,
			TotalCollections: len(collections),
			Categories:       uniqueCategories(collections),
			Tags:             uniqueTags(collections),
			Collections:      collections,
		}, nil
	case TypePortrait:
		return &PortraitManifest{
			Header:           header,
			TotalCollections: len(collections),
			Tags:             uniqueTags(collections),
			Collections:      collections,
		}, nil
	default:
		return nil, errors.Newf("unknown portfolio type %q", ptype).
			Category(errors.CategoryValidation).
			Component("manifest").
			Build()
	}
}

// FileName returns the aggregate manifest filename for a portfolio type,
// e.g. concert-manifest.json.
func FileName(ptype string) string {
	return fmt.Sprintf("%s-manifest.json", ptype)
}

func uniqueCategories(collections []Collection) []string {
	seen := make(map[string]bool)
	for i := range collections {
		if c := collections[i].Category; c != "" {
			seen[c] = true
		}
	}
	return sortedKeys(seen)
}

func uniqueTags(collections []Collection) []string {
	seen := make(map[string]bool)
	for i := range collections {
		for _, tag := range collections[i].Tags {
			seen[tag] = true
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
