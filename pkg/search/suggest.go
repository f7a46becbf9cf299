package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/clipmemo/pkg/core"
)

// MaxSuggestions caps the list returned by Suggest.
const MaxSuggestions = 5

// MinQueryLength is the trimmed query length (in runes) below which the
// ranker stays inactive.
const MinQueryLength = 2

// SuggestionKind tells where a suggestion was matched.
type SuggestionKind string

const (
	KindTitle   SuggestionKind = "title"
	KindContent SuggestionKind = "content"
)

// Match priorities. Title hits always outrank content hits; within each
// source, tighter matches rank higher.
const (
	priorityTitlePrefix    = 100
	priorityTitleSubstring = 90
	priorityContentExact   = 30
	priorityContentPrefix  = 20
	priorityContentSub     = 10
)

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Text     string         `json:"text"`
	Kind     SuggestionKind `json:"kind"`
	Priority int            `json:"-"`
}

// Suggest ranks titles and content tokens matching the partial query.
//
// Scoring:
//   - lowercased title containing the query: 100 if it is a prefix match,
//     90 otherwise;
//   - content tokens (split on whitespace/punctuation, tokens shorter than
//     2 runes dropped): 30 exact, 20 prefix, 10 substring.
//
// Candidates are deduplicated by lowercased matched text, keeping the best
// priority. Ordering: priority desc, then title hits before content hits,
// then shorter matched text first. At most MaxSuggestions survive.
func Suggest(items []core.Memo, query string) []Suggestion {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < MinQueryLength {
		return nil
	}
	needle := strings.ToLower(trimmed)

	best := make(map[string]Suggestion)
	consider := func(cand Suggestion) {
		key := strings.ToLower(cand.Text)
		prev, seen := best[key]
		if !seen || betterThan(cand, prev) {
			best[key] = cand
		}
	}

	for _, item := range items {
		title := strings.ToLower(item.Title)
		if strings.Contains(title, needle) {
			priority := priorityTitleSubstring
			if strings.HasPrefix(title, needle) {
				priority = priorityTitlePrefix
			}
			consider(Suggestion{Text: item.Title, Kind: KindTitle, Priority: priority})
		}

		for _, token := range tokenize(item.Content) {
			lower := strings.ToLower(token)
			if !strings.Contains(lower, needle) {
				continue
			}
			priority := priorityContentSub
			switch {
			case lower == needle:
				priority = priorityContentExact
			case strings.HasPrefix(lower, needle):
				priority = priorityContentPrefix
			}
			consider(Suggestion{Text: token, Kind: KindContent, Priority: priority})
		}
	}

	out := make([]Suggestion, 0, len(best))
	for _, cand := range best {
		out = append(out, cand)
	}
	sort.Slice(out, func(i, j int) bool {
		return betterThan(out[i], out[j])
	})

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}

// betterThan is the total order used for both dedup and final ranking.
func betterThan(a, b Suggestion) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.Kind != b.Kind {
		return a.Kind == KindTitle
	}
	la, lb := utf8.RuneCountInString(a.Text), utf8.RuneCountInString(b.Text)
	if la != lb {
		return la < lb
	}
	return a.Text < b.Text
}

// tokenize splits content on whitespace and punctuation, dropping tokens
// shorter than 2 runes.
func tokenize(content string) []string {
	fields := strings.FieldsFunc(content, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})

	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= 2 {
			out = append(out, f)
		}
	}
	return out
}
