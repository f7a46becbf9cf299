package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/clipmemo/pkg/core"
	"github.com/aretw0/clipmemo/pkg/search"
)

var (
	listJSON     bool
	listCategory string
	listQuery    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List memos in the vault",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openVault()

		category := listCategory
		if category == "" {
			category = core.CategoryAll
		}
		memos := search.Filter(svc.Memos(), category, listQuery)

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(memos); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, memo := range memos {
			fmt.Printf("%s  [%s]  %s\n", memo.ID, memo.Category, memo.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Filter by substring match on title or content")
}
