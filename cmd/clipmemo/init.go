package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/clipmemo"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a memo vault",
	Long:  `Create the vault layout in the current directory (or --vault).`,
	Run: func(cmd *cobra.Command, args []string) {
		path := vaultPath
		if path == "" {
			cwd, err := os.Getwd()
			if err != nil {
				fatal("Failed to get CWD", err)
			}
			path = cwd
		}

		if _, err := clipmemo.New(path,
			clipmemo.WithAutoInit(true),
			clipmemo.WithDevSafety(false),
			clipmemo.WithLogger(slog.Default()),
		); err != nil {
			fatal("Failed to initialize vault", err)
		}

		fmt.Println("Initialized empty memo vault in", path)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
