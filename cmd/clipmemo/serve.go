package main

import (
	"context"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/clipmemo"
	"github.com/aretw0/clipmemo/pkg/gateway"
)

var (
	serveConfig string
	serveListen string
	serveShell  string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the memo API and app shell through the offline gateway",
	Long: `Start the HTTP gateway. Requests flow through the cache controller:
static assets are cache-first, API and navigations are network-first,
and synthetic fallbacks keep the app usable when the upstream fails.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := gateway.DefaultConfig()
		if serveConfig != "" {
			loaded, err := gateway.LoadConfig(serveConfig)
			if err != nil {
				fatal("Failed to load config", err)
			}
			cfg = loaded
		}
		if serveListen != "" {
			cfg.Listen = serveListen
		}
		if serveShell != "" {
			cfg.ShellDir = serveShell
		}

		path := resolveVault()
		store, err := clipmemo.Init(path,
			clipmemo.WithAutoInit(true),
			clipmemo.WithDevSafety(false),
			clipmemo.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open vault", err)
		}
		// Response caches live under the vault's system dir by default.
		if cfg.CacheRoot == "" {
			if sys, ok := store.(interface{ SystemDir() string }); ok {
				cfg.CacheRoot = filepath.Join(sys.SystemDir(), "cache")
			}
		}
		svc, err := clipmemo.New(path,
			clipmemo.WithStore(store),
			clipmemo.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to open vault", err)
		}

		server, err := gateway.NewServer(svc, store, cfg, slog.Default())
		if err != nil {
			fatal("Failed to build gateway", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := server.Run(ctx); err != nil {
			fatal("Gateway stopped", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to a gateway YAML config")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveShell, "shell", "", "App shell directory (overrides config)")
}
