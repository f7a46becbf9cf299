package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openVault()
		for _, name := range svc.Categories() {
			fmt.Println(name)
		}
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openVault()
		if err := svc.AddCategory(context.Background(), args[0]); err != nil {
			fatal("Failed to add category", err)
		}
		fmt.Printf("Added category %s\n", args[0])
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a category",
	Long:  `Rename a category. Memos in it follow the new name.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openVault()
		if err := svc.RenameCategory(context.Background(), args[0], args[1]); err != nil {
			fatal("Failed to rename category", err)
		}
		fmt.Printf("Renamed category %s to %s\n", args[0], args[1])
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a category",
	Long:  `Delete a category. Its memos move to the default category.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openVault()
		if err := svc.DeleteCategory(context.Background(), args[0]); err != nil {
			fatal("Failed to delete category", err)
		}
		fmt.Printf("Deleted category %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryRenameCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
}
