package search_test

import (
	"reflect"
	"testing"

	"github.com/aretw0/clipmemo/pkg/core"
	"github.com/aretw0/clipmemo/pkg/search"
)

func sampleItems() []core.Memo {
	return []core.Memo{
		{ID: "1", Title: "Groceries", Content: "milk and eggs", Category: core.CategoryDefault},
		{ID: "2", Title: "Meeting notes", Content: "quarterly planning", Category: "work"},
		{ID: "3", Title: "메모", Content: "한국어 내용", Category: "work"},
		{ID: "4", Title: "Ideas", Content: "Milk frother startup", Category: core.CategoryDefault},
	}
}

func ids(items []core.Memo) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	items := sampleItems()

	t.Run("Identity When Unfiltered", func(t *testing.T) {
		got := search.Filter(items, core.CategoryAll, "")
		if !reflect.DeepEqual(ids(got), ids(items)) {
			t.Errorf("expected identity, got %v", ids(got))
		}
	})

	t.Run("Category Gate Is Exact", func(t *testing.T) {
		got := search.Filter(items, "work", "")
		if !reflect.DeepEqual(ids(got), []string{"2", "3"}) {
			t.Errorf("unexpected result: %v", ids(got))
		}
		for _, item := range got {
			if item.Category != "work" {
				t.Errorf("leaked item from category %q", item.Category)
			}
		}
	})

	t.Run("Query Is Case Insensitive Substring", func(t *testing.T) {
		got := search.Filter(items, core.CategoryAll, "MILK")
		if !reflect.DeepEqual(ids(got), []string{"1", "4"}) {
			t.Errorf("unexpected result: %v", ids(got))
		}
	})

	t.Run("Query Matches Title Or Content", func(t *testing.T) {
		got := search.Filter(items, core.CategoryAll, "메모")
		if !reflect.DeepEqual(ids(got), []string{"3"}) {
			t.Errorf("unexpected result: %v", ids(got))
		}
	})

	t.Run("Gates Compose", func(t *testing.T) {
		got := search.Filter(items, core.CategoryDefault, "milk")
		if !reflect.DeepEqual(ids(got), []string{"1", "4"}) {
			t.Errorf("unexpected result: %v", ids(got))
		}
	})

	t.Run("Empty Input", func(t *testing.T) {
		if got := search.Filter(nil, core.CategoryAll, ""); len(got) != 0 {
			t.Errorf("expected empty, got %v", got)
		}
	})
}
