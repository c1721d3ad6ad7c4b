// Package manifest defines the aggregate JSON artifacts consumed by the
// site widgets, and the idempotent write that produces them.
package manifest

import (
	"github.com/sharpframe/portfolio-manifest/internal/dateparse"
)

// Portfolio type names. Each has its own on-disk folder shape and its own
// manifest variant.
const (
	TypeConcert    = "concert"
	TypeEvents     = "events"
	TypeJournalism = "journalism"
	TypeNature     = "nature"
	TypePortrait   = "portrait"
)

// Types lists every portfolio type in generation order.
var Types = []string{TypeConcert, TypeEvents, TypeJournalism, TypeNature, TypePortrait}

// Collection is one organizational unit (a band's concert, an event, a
// species, a portrait series) with one resolved date. Collections with zero
// images are never emitted.
type Collection struct {
	Name        string              `json:"name"`
	FolderPath  string              `json:"folderPath"`
	DateDisplay string              `json:"dateDisplay,omitempty"`
	Date        *dateparse.DateInfo `json:"date"`
	TotalImages int                 `json:"totalImages"`
	Images      []string            `json:"images"`
	Tags        []string            `json:"tags,omitempty"`
	Category    string              `json:"category,omitempty"`
	// Publication metadata, journalism only.
	Outlet     string `json:"outlet,omitempty"`
	ArticleURL string `json:"articleUrl,omitempty"`
}

// Header carries the envelope fields shared by every manifest variant.
type Header struct {
	Version   string `json:"version"`
	Generated string `json:"generated"`
}

// PortfolioManifest is the tagged union over the per-type manifest shapes.
// The array field name differs per type in the published JSON contract
// (bands/events/collections), so each variant is its own concrete struct;
// downstream shape-sniffing happens only in the featured package's
// normalization seam.
type PortfolioManifest interface {
	ManifestType() string
	Items() []Collection
}

// ConcertManifest lists bands, newest first.
type ConcertManifest struct {
	Header
	TotalBands int          `json:"totalBands"`
	Bands      []Collection `json:"bands"`
}

func (m *ConcertManifest) ManifestType() string { return TypeConcert }
func (m *ConcertManifest) Items() []Collection  { return m.Bands }

// EventsManifest lists events, newest first, with a derived category index.
type EventsManifest struct {
	Header
	TotalEvents int          `json:"totalEvents"`
	Categories  []string     `json:"categories,omitempty"`
	Events      []Collection `json:"events"`
}

func (m *EventsManifest) ManifestType() string { return TypeEvents }
func (m *EventsManifest) Items() []Collection  { return m.Events }

// JournalismManifest lists photo stories, newest first.
type JournalismManifest struct {
	Header
	TotalCollections int          `json:"totalCollections"`
	Collections      []Collection `json:"collections"`
}

func (m *JournalismManifest) ManifestType() string { return TypeJournalism }
func (m *JournalismManifest) Items() []Collection  { return m.Collections }

// NatureManifest lists species/location collections with derived category
// and tag indices.
type NatureManifest struct {
	Header
	TotalCollections int          `json:"totalCollections"`
	Categories       []string     `json:"categories,omitempty"`
	Tags             []string     `json:"tags,omitempty"`
	Collections      []Collection `json:"collections"`
}

func (m *NatureManifest) ManifestType() string { return TypeNature }
func (m *NatureManifest) Items() []Collection  { return m.Collections }

// PortraitManifest lists portrait series with derived tag index.
type PortraitManifest struct {
	Header
	TotalCollections int          `json:"totalCollections"`
	Tags             []string     `json:"tags,omitempty"`
	Collections      []Collection `json:"collections"`
}

func (m *PortraitManifest) ManifestType() string { return TypePortrait }
func (m *PortraitManifest) Items() []Collection  { return m.Collections }
