// Package tagquery normalizes include/exclude tag sets into a small boolean
// plan that storage adapters render into their native query language.
package tagquery

import (
	"sort"
	"strings"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
)

// Query is a normalized include/exclude tag request.
type Query struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// Normalize trims tags, drops blanks and removes case-insensitive duplicates.
// The first spelling seen wins and input order is preserved.
func Normalize(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := fold(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// NewQuery normalizes both sets. A tag cannot be required and forbidden at
// once, so excludes that also appear in includes are dropped.
func NewQuery(include, exclude []string) Query {
	inc := Normalize(include)
	incSet := foldSet(inc)

	exc := make([]string, 0, len(exclude))
	for _, t := range Normalize(exclude) {
		if _, ok := incSet[fold(t)]; ok {
			continue
		}
		exc = append(exc, t)
	}
	return Query{Include: inc, Exclude: exc}
}

// SplitList expands comma separated entries, e.g. ["a,b", "c"] -> ["a","b","c"].
func SplitList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

// HasAll matches photos carrying every listed tag. Empty means no constraint.
type HasAll struct {
	Tags []string
}

// NotAny matches photos carrying none of the listed tags. Empty means no constraint.
type NotAny struct {
	Tags []string
}

// Plan is the boolean form of a query: Include AND Exclude.
type Plan struct {
	Include HasAll
	Exclude NotAny
}

// Plan lowers the query into its boolean form with case-folded tags.
func (q Query) Plan() Plan {
	return Plan{
		Include: HasAll{Tags: foldAll(q.Include)},
		Exclude: NotAny{Tags: foldAll(q.Exclude)},
	}
}

// Matches reports whether a photo with the given tags qualifies.
// A photo without any tag never qualifies.
func (p Plan) Matches(tags []string) bool {
	if len(tags) == 0 {
		return false
	}
	have := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		have[fold(strings.TrimSpace(t))] = struct{}{}
	}
	for _, t := range p.Include.Tags {
		if _, ok := have[t]; !ok {
			return false
		}
	}
	for _, t := range p.Exclude.Tags {
		if _, ok := have[t]; ok {
			return false
		}
	}
	return true
}

// BestTag picks the tag surfaced for a photo: included tags first, then
// higher score, then lexical order. ok is false for an empty list.
func BestTag(tags []model.PhotoTag, include []string) (model.PhotoTag, bool) {
	if len(tags) == 0 {
		return model.PhotoTag{}, false
	}
	incSet := foldSet(include)
	ranked := make([]model.PhotoTag, len(tags))
	copy(ranked, tags)
	sort.SliceStable(ranked, func(i, j int) bool {
		_, ii := incSet[fold(ranked[i].Tag)]
		_, ij := incSet[fold(ranked[j].Tag)]
		if ii != ij {
			return ii
		}
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Tag < ranked[j].Tag
	})
	return ranked[0], true
}

func fold(s string) string { return strings.ToLower(s) }

// Key is the stored match key of a tag. Adapters persist it next to the tag so
// that SQL compares values folded by the same function as Plan.
func Key(tag string) string { return fold(strings.TrimSpace(tag)) }

func foldAll(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = fold(t)
	}
	return out
}

func foldSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[fold(strings.TrimSpace(t))] = struct{}{}
	}
	return set
}
