package clipmemo_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/clipmemo"
	"github.com/aretw0/clipmemo/pkg/core"
	"github.com/aretw0/clipmemo/pkg/search"
)

// Example_basic demonstrates how to open a vault, add a memo, and read it back.
func Example_basic() {
	// Create a temporary directory for the example
	tmpDir, err := os.MkdirTemp("", "clipmemo-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	// Open the vault. WithAutoInit(true) creates the directory layout.
	vault, err := clipmemo.New(tmpDir, clipmemo.WithAutoInit(true))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// 1. Add a memo. Title and category default when omitted.
	memo, err := vault.AddMemo(ctx, core.Memo{Content: "Buy more coffee beans"})
	if err != nil {
		log.Fatal(err)
	}

	// 2. Read it back
	got, err := vault.GetMemo(memo.ID)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Category: %s\n", got.Category)
	fmt.Printf("Title: %s\n", got.Title)
	// Output:
	// Category: 기본
	// Title: 제목 없음
}

// Example_search demonstrates combined category and text filtering.
func Example_search() {
	tmpDir, err := os.MkdirTemp("", "clipmemo-search-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	vault, err := clipmemo.New(tmpDir, clipmemo.WithAutoInit(true))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := vault.AddCategory(ctx, "work"); err != nil {
		log.Fatal(err)
	}
	if _, err := vault.AddMemo(ctx, core.Memo{Content: "standup notes", Category: "work"}); err != nil {
		log.Fatal(err)
	}
	if _, err := vault.AddMemo(ctx, core.Memo{Content: "grocery notes"}); err != nil {
		log.Fatal(err)
	}

	// Category gate and query must both hold.
	hits := search.Filter(vault.Memos(), "work", "notes")
	fmt.Printf("Matches: %d\n", len(hits))
	fmt.Printf("Content: %s\n", hits[0].Content)
	// Output:
	// Matches: 1
	// Content: standup notes
}
