// Package featured builds the cross-portfolio featured manifest from the
// already-generated per-type manifests. The per-type manifests use
// differently named array fields; all shape sniffing is confined to
// Normalize, and the rest of the pipeline works on one item model.
package featured

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sharpframe/portfolio-manifest/internal/dateparse"
	"github.com/sharpframe/portfolio-manifest/internal/errors"
	"github.com/sharpframe/portfolio-manifest/internal/manifest"
)

// Item is the common shape every per-type manifest entry is normalized to.
type Item struct {
	Name        string              `json:"name"`
	Type        string              `json:"type"`
	Category    string              `json:"category,omitempty"`
	FolderPath  string              `json:"folderPath"`
	DateDisplay string              `json:"dateDisplay,omitempty"`
	Date        *dateparse.DateInfo `json:"date"`
	Images      []string            `json:"images"`
}

// Manifest is the featured artifact.
type Manifest struct {
	manifest.Header
	TotalItems int    `json:"totalItems"`
	Items      []Item `json:"items"`
}

// FileName is the featured manifest filename under the portfolio root.
const FileName = "featured-manifest.json"

// Selector normalizes and selects featured items.
type Selector struct {
	log *slog.Logger
}

// NewSelector creates a Selector.
func NewSelector() *Selector {
	return &Selector{log: slog.Default().With("service", "featured")}
}

// rawItem tolerates every per-type entry shape. Unknown fields are ignored;
// missing optional fields stay zero.
type rawItem struct {
	Name        string              `json:"name"`
	FolderPath  string              `json:"folderPath"`
	DateDisplay string              `json:"dateDisplay"`
	Date        *dateparse.DateInfo `json:"date"`
	Images      []string            `json:"images"`
	Category    string              `json:"category"`
}

// rawManifest sniffs whichever array field the source manifest carries.
type rawManifest struct {
	Bands       []rawItem `json:"bands"`
	Events      []rawItem `json:"events"`
	Collections []rawItem `json:"collections"`
	Items       []rawItem `json:"items"`
}

// Normalize maps one per-type manifest's entries into the common item
// shape. Items lacking a usable date get one detected from their image
// filenames, or the synthetic current-year fallback with a warning;
// degraded, not an error. A single bad item is skipped, not fatal.
func (s *Selector) Normalize(ptype string, data []byte) ([]Item, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Newf("parsing %s manifest: %w", ptype, err).
			Category(errors.CategoryFileParsing).
			Component("featured").
			Build()
	}

	entries := raw.Bands
	if entries == nil {
		entries = raw.Events
	}
	if entries == nil {
		entries = raw.Collections
	}
	if entries == nil {
		entries = raw.Items
	}

	items := make([]Item, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.Name == "" || len(e.Images) == 0 {
			s.log.Warn("⚠️ skipping unusable manifest entry", "type", ptype, "name", e.Name)
			continue
		}

		date := e.Date
		if date == nil || date.ISO == "" {
			for _, img := range e.Images {
				if d := dateparse.DetectDate(img); d != nil {
					date = d
					break
				}
			}
		}
		if date == nil || date.ISO == "" {
			s.log.Warn("⚠️ no usable date for featured item, assigning fallback",
				"type", ptype, "name", e.Name)
			date = dateparse.Fallback()
		}

		items = append(items, Item{
			Name:        e.Name,
			Type:        ptype,
			Category:    e.Category,
			FolderPath:  e.FolderPath,
			DateDisplay: e.DateDisplay,
			Date:        date,
			Images:      e.Images,
		})
	}
	return items, nil
}

// Select groups items by source type, takes the newest itemsPerCategory
// from each group, merges, re-sorts newest first, and truncates to
// totalLimit. Sorts are stable, so equal dates keep insertion order.
func (s *Selector) Select(groups map[string][]Item, itemsPerCategory, totalLimit int, version string, generated time.Time) *Manifest {
	// Deterministic group traversal: generation order of the known types,
	// then anything else sorted by name.
	order := make([]string, 0, len(groups))
	for _, t := range manifest.Types {
		if _, ok := groups[t]; ok {
			order = append(order, t)
		}
	}
	var extra []string
	for t := range groups {
		if _, known := DescriptorIndex[t]; !known {
			extra = append(extra, t)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	var combined []Item
	for _, t := range order {
		group := append([]Item(nil), groups[t]...)
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.ISO > group[j].Date.ISO
		})
		if len(group) > itemsPerCategory {
			group = group[:itemsPerCategory]
		}
		combined = append(combined, group...)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Date.ISO > combined[j].Date.ISO
	})
	if len(combined) > totalLimit {
		combined = combined[:totalLimit]
	}
	if combined == nil {
		combined = []Item{}
	}

	return &Manifest{
		// Date precision keeps re-runs byte-identical for the idempotent
		// write, same as the per-type manifests.
		Header: manifest.Header{
			Version:   version,
			Generated: generated.UTC().Format("2006-01-02"),
		},
		TotalItems: len(combined),
		Items:      combined,
	}
}

// DescriptorIndex marks the known portfolio types for group ordering.
var DescriptorIndex = func() map[string]bool {
	idx := make(map[string]bool, len(manifest.Types))
	for _, t := range manifest.Types {
		idx[t] = true
	}
	return idx
}()

// LoadGroups reads each per-type manifest under root and normalizes it. A
// missing manifest file is skipped with a warning (that type simply is not
// represented); a malformed one is skipped too.
func (s *Selector) LoadGroups(root string, types []string) map[string][]Item {
	groups := make(map[string][]Item)
	for _, t := range types {
		path := filepath.Join(root, manifest.FileName(t))
		data, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("⚠️ per-type manifest missing, skipping", "type", t, "path", path)
			continue
		}
		items, err := s.Normalize(t, data)
		if err != nil {
			s.log.Warn("⚠️ per-type manifest unreadable, skipping", "type", t, "error", err)
			continue
		}
		groups[t] = items
	}
	return groups
}
