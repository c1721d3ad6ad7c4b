package scanner

import (
	"github.com/sharpframe/portfolio-manifest/internal/manifest"
)

// Shape selects the on-disk folder layout a portfolio type uses.
type Shape int

const (
	// ShapeFlat is entity folders under the portfolio root, with images
	// either directly inside or inside one layer of date-named subfolders
	// (Concert, Events, Journalism).
	ShapeFlat Shape = iota
	// ShapeCategory is category folders containing named leaf folders, one
	// collection per leaf (Nature, Portrait).
	ShapeCategory
)

// Descriptor parameterizes the generic scanner for one portfolio type. The
// five generator variants differ only in this data.
type Descriptor struct {
	Type          string // manifest type name
	Dir           string // folder under the portfolio root
	Shape         Shape
	InferDates    bool // false: skip inference, default to current year
	TagRules      []TagRule
	CategoryRules []CategoryRule
}

var descriptors = []Descriptor{
	{
		Type:       manifest.TypeConcert,
		Dir:        "Concert",
		Shape:      ShapeFlat,
		InferDates: true,
	},
	{
		Type:          manifest.TypeEvents,
		Dir:           "Events",
		Shape:         ShapeFlat,
		InferDates:    true,
		CategoryRules: eventCategoryRules,
	},
	{
		Type:       manifest.TypeJournalism,
		Dir:        "Journalism",
		Shape:      ShapeFlat,
		InferDates: true,
	},
	{
		Type:       manifest.TypeNature,
		Dir:        "Nature",
		Shape:      ShapeCategory,
		InferDates: true,
		TagRules:   natureTagRules,
	},
	{
		Type:       manifest.TypePortrait,
		Dir:        "Portrait",
		Shape:      ShapeCategory,
		InferDates: false,
		TagRules:   portraitTagRules,
	},
}

// Descriptors returns every portfolio descriptor in generation order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// DescriptorFor looks up a portfolio descriptor by type name.
func DescriptorFor(ptype string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Type == ptype {
			return d, true
		}
	}
	return Descriptor{}, false
}
