package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// dupCmd represents the dup command
var dupCmd = &cobra.Command{
	Use:   "dup <id>",
	Short: "Duplicate a memo",
	Long:  `Create a copy of a memo with a fresh ID and " (copy)" appended to the title.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openVault()

		memo, err := svc.DuplicateMemo(context.Background(), args[0])
		if err != nil {
			fatal("Failed to duplicate memo", err)
		}

		fmt.Printf("Created %s  %s\n", memo.ID, memo.Title)
	},
}

func init() {
	rootCmd.AddCommand(dupCmd)
}
