// Package main provides the CLI entry point for hwpctl.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hwp-tools/hwpctl/internal/config"
	"github.com/hwp-tools/hwpctl/pkg/hwpctl"
	"github.com/hwp-tools/hwpctl/pkg/hwpctl/memhost"
)

const version = "0.1.0"

var (
	configPath string
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hwpctl",
		Short: "Drive HWP documents through scripted operations",
		Long: `hwpctl executes document operations (create, insert text, build and
fill tables, save) against an HWP word-processor host, individually or
as ordered batches, and inspects .hwp files offline.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "hwpctl.yaml", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output raw JSON instead of human-formatted summaries")

	rootCmd.AddCommand(runCmd(), fillCmd(), inspectCmd(), serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger (stderr, so stdout
// stays clean for command output and the MCP protocol).
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	return cfg, logger, nil
}

// newSession builds a session over the configured host backend.
func newSession(cfg *config.Config, logger *slog.Logger) (*hwpctl.Session, error) {
	var host hwpctl.Host
	switch cfg.Host {
	case "memory":
		host = memhost.New()
	case "com":
		return nil, fmt.Errorf("com host is not supported in this build")
	default:
		return nil, fmt.Errorf("unknown host backend %q", cfg.Host)
	}
	return hwpctl.NewSession(host,
		hwpctl.WithLogger(logger),
		hwpctl.WithSecurityModule(cfg.SecurityModule != ""),
	), nil
}
