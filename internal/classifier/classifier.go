package classifier

import (
	"strings"
)

// ThemeLexicon tags text with every keyword it contains.
type ThemeLexicon struct {
	keywords []string
}

// NewThemeLexicon normalizes keywords to lower case and drops blanks and
// duplicates. Keyword order is kept: it decides ranking ties downstream.
func NewThemeLexicon(keywords []string) *ThemeLexicon {
	return &ThemeLexicon{keywords: normalize(keywords)}
}

func (l *ThemeLexicon) Keywords() []string {
	return append([]string(nil), l.keywords...)
}

// Match returns the keywords contained in text, in lexicon order. Matching
// is case-insensitive substring containment, so overlapping keywords such
// as "abuse" and "domestic abuse" both match.
func (l *ThemeLexicon) Match(text string) []string {
	if l == nil || text == "" {
		return nil
	}
	text = strings.ToLower(text)

	var matched []string
	for _, keyword := range l.keywords {
		if strings.Contains(text, keyword) {
			matched = append(matched, keyword)
		}
	}
	return matched
}

// SourceBucket is a named group of citation title keywords.
type SourceBucket struct {
	Name     string   `mapstructure:"name" json:"name"`
	Keywords []string `mapstructure:"keywords" json:"keywords"`
}

// SourceLexicon assigns a citation title to the first bucket, in priority
// order, with a matching keyword.
type SourceLexicon struct {
	buckets  []SourceBucket
	fallback string
}

func NewSourceLexicon(buckets []SourceBucket, fallback string) *SourceLexicon {
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultFallbackSource
	}

	normalized := make([]SourceBucket, 0, len(buckets))
	for _, b := range buckets {
		name := strings.TrimSpace(b.Name)
		keywords := normalize(b.Keywords)
		if name == "" || len(keywords) == 0 {
			continue
		}
		normalized = append(normalized, SourceBucket{Name: name, Keywords: keywords})
	}

	return &SourceLexicon{buckets: normalized, fallback: fallback}
}

// Buckets returns the bucket names in priority order, fallback last.
func (l *SourceLexicon) Buckets() []string {
	names := make([]string, 0, len(l.buckets)+1)
	for _, b := range l.buckets {
		names = append(names, b.Name)
	}
	return append(names, l.fallback)
}

func (l *SourceLexicon) Fallback() string {
	return l.fallback
}

// Classify returns the bucket for a citation title and whether a keyword
// matched. Unmatched titles land in the fallback bucket.
func (l *SourceLexicon) Classify(title string) (string, bool) {
	title = strings.ToLower(title)
	for _, b := range l.buckets {
		for _, keyword := range b.Keywords {
			if strings.Contains(title, keyword) {
				return b.Name, true
			}
		}
	}
	return l.fallback, false
}

func normalize(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
