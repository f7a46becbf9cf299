package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/clipmemo/pkg/core"
)

var (
	addTitle    string
	addCategory string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [content]",
	Short: "Add a memo",
	Long: `Add a memo with the given content. Title and category default when
omitted. Content longer than 10000 characters is rejected.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openVault()

		memo, err := svc.AddMemo(context.Background(), core.Memo{
			Title:    addTitle,
			Content:  strings.Join(args, " "),
			Category: addCategory,
		})
		if err != nil {
			fatal("Failed to add memo", err)
		}

		fmt.Printf("Added memo %s [%s] %s\n", memo.ID, memo.Category, memo.Title)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Memo title")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category name")
}
