package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/clipmemo/pkg/core"
	"github.com/aretw0/clipmemo/pkg/search"
)

var (
	searchCategory string
	searchSuggest  bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search memos",
	Long: `Find memos whose title or content contains the query, optionally
within one category. With --suggest, print ranked autocomplete
suggestions instead of full matches.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openVault()
		query := args[0]

		if searchSuggest {
			for _, s := range search.Suggest(svc.Memos(), query) {
				fmt.Printf("%-8s %s\n", s.Kind, s.Text)
			}
			return
		}

		category := searchCategory
		if category == "" {
			category = core.CategoryAll
		}
		for _, memo := range search.Filter(svc.Memos(), category, query) {
			fmt.Printf("%s  [%s]  %s\n", memo.ID, memo.Category, memo.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "Restrict to one category")
	searchCmd.Flags().BoolVar(&searchSuggest, "suggest", false, "Print autocomplete suggestions")
}
