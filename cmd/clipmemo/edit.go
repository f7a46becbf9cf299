package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	editTitle    string
	editContent  string
	editCategory string
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a memo",
	Long:  `Update the title, content or category of an existing memo.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openVault()

		memo, err := svc.GetMemo(args[0])
		if err != nil {
			fatal("Failed to load memo", err)
		}

		if cmd.Flags().Changed("title") {
			memo.Title = editTitle
		}
		if cmd.Flags().Changed("content") {
			memo.Content = editContent
		}
		if cmd.Flags().Changed("category") {
			memo.Category = editCategory
		}

		if err := svc.EditMemo(context.Background(), memo); err != nil {
			fatal("Failed to edit memo", err)
		}

		fmt.Printf("Updated memo %s\n", memo.ID)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVar(&editContent, "content", "", "New content")
	editCmd.Flags().StringVarP(&editCategory, "category", "c", "", "New category")
}
