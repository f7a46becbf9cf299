// Package search implements the synchronous memo filter and the autocomplete
// suggestion ranker. Both are pure functions over an in-memory snapshot; the
// debouncer bounds how often the ranker reruns while the user is typing.
package search

import (
	"strings"

	"github.com/aretw0/clipmemo/pkg/core"
)

// Filter returns the memos visible under the active category tab and query.
//
// A memo is included iff the category gate passes (the virtual "all" tab
// passes everything, otherwise exact category match) and the query gate
// passes (empty query, or a case-insensitive substring of title or content).
// Pure and stable: output preserves input order.
func Filter(items []core.Memo, activeCategory, query string) []core.Memo {
	needle := strings.ToLower(query)

	out := make([]core.Memo, 0, len(items))
	for _, item := range items {
		if activeCategory != core.CategoryAll && item.Category != activeCategory {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(item.Title), needle) &&
			!strings.Contains(strings.ToLower(item.Content), needle) {
			continue
		}
		out = append(out, item)
	}
	return out
}
