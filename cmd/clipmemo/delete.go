package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a memo",
	Long:  `Remove a memo from the vault. Deleting an unknown ID is a no-op.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openVault()

		if err := svc.DeleteMemo(context.Background(), args[0]); err != nil {
			fatal("Failed to delete memo", err)
		}

		fmt.Printf("Deleted memo %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
