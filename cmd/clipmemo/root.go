package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/clipmemo"
	"github.com/aretw0/clipmemo/pkg/core"
)

var (
	verbose   bool
	vaultPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clipmemo",
	Short: "A local-first memo vault with categories, search and offline caching",
	Long: `Clip Memo keeps your memos as plain JSON files on disk.
Memos are grouped into categories, searchable by substring, and served
through an offline-capable gateway when you want a browser UI.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&vaultPath, "vault", "", "Vault directory (default: nearest vault above the working directory)")
}

// fatal prints a command failure and exits non-zero.
func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

// resolveVault picks the vault directory: the --vault flag, else the
// nearest root indicator above the working directory, else the working
// directory itself.
func resolveVault() string {
	if vaultPath != "" {
		return vaultPath
	}
	cwd, err := os.Getwd()
	if err != nil {
		fatal("Failed to get CWD", err)
	}
	if root, err := clipmemo.FindVaultRoot(cwd); err == nil {
		return root
	}
	return cwd
}

// openVault opens an existing vault for a memo operation.
func openVault() *core.Manager {
	svc, err := clipmemo.New(resolveVault(),
		clipmemo.WithMustExist(true),
		clipmemo.WithDevSafety(false),
		clipmemo.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("Failed to open vault", err)
	}
	return svc
}
