package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/clipmemo/pkg/clipboard"
)

// copyCmd represents the copy command
var copyCmd = &cobra.Command{
	Use:   "copy <id>",
	Short: "Copy a memo's content to the system clipboard",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openVault()

		memo, err := svc.GetMemo(args[0])
		if err != nil {
			fatal("Failed to load memo", err)
		}

		note := clipboard.Copy(memo.Content, svc.Settings().Language)
		fmt.Println(note.Message)
		if !note.OK {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)
}
