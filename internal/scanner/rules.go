package scanner

import (
	"sort"
	"strings"
)

// TagRule maps name substrings to tags. Rules are data so the keyword sets
// stay testable and editable in one place; every matching rule contributes
// its tags (union).
type TagRule struct {
	Substrings []string
	Tags       []string
}

// CategoryRule maps name substrings to a category. Rules are evaluated in
// order and the first match wins.
type CategoryRule struct {
	Substrings []string
	Category   string
}

var portraitTagRules = []TagRule{
	{Substrings: []string{"character", "study"}, Tags: []string{"character", "black-and-white"}},
	{Substrings: []string{"family"}, Tags: []string{"family"}},
	{Substrings: []string{"headshot", "business"}, Tags: []string{"headshot"}},
	{Substrings: []string{"outdoor", "location"}, Tags: []string{"on-location"}},
}

var natureTagRules = []TagRule{
	{Substrings: []string{"heron", "owl", "kestrel", "bird"}, Tags: []string{"birds"}},
	{Substrings: []string{"fox", "deer", "squirrel"}, Tags: []string{"mammals"}},
	{Substrings: []string{"macro", "insect", "butterfly"}, Tags: []string{"macro"}},
	{Substrings: []string{"coast", "forest", "lake"}, Tags: []string{"landscape"}},
}

var eventCategoryRules = []CategoryRule{
	{Substrings: []string{"festival", "fest"}, Category: "festival"},
	{Substrings: []string{"wedding"}, Category: "wedding"},
	{Substrings: []string{"conference", "corporate", "expo"}, Category: "corporate"},
	{Substrings: []string{"charity", "fundraiser"}, Category: "community"},
}

// deriveTags returns the sorted union of tags from every rule whose
// substring matches name (case-insensitive).
func deriveTags(name string, rules []TagRule) []string {
	lower := strings.ToLower(name)
	seen := make(map[string]bool)
	for _, rule := range rules {
		for _, sub := range rule.Substrings {
			if strings.Contains(lower, sub) {
				for _, tag := range rule.Tags {
					seen[tag] = true
				}
				break
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// deriveCategory returns the first matching rule's category, or fallback
// when no rule matches.
func deriveCategory(name string, rules []CategoryRule, fallback string) string {
	lower := strings.ToLower(name)
	for _, rule := range rules {
		for _, sub := range rule.Substrings {
			if strings.Contains(lower, sub) {
				return rule.Category
			}
		}
	}
	return fallback
}
