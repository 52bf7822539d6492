package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seladb/holochain-rust/internal/logger"
	"github.com/seladb/holochain-rust/internal/service/pinner"
	"github.com/seladb/holochain-rust/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// outputPath overrides the configured manifest location.
	outputPath string
	// logLevel sets the minimum level for console logs.
	logLevel string

	// rootCmd represents the base command for pinning n3h release binaries.
	rootCmd = &cobra.Command{
		Use:   "n3h-pin [release-tag]",
		Short: "Pin the platform binaries of one n3h release.",
		Long: `Fetch release metadata and checksum files for one published n3h release
and write a pinning manifest recording, per OS and architecture, the download
URL, expected filename, and hash of each binary artifact.

Downstream build tooling consults the manifest to fetch and verify exact
binaries without trusting mutable "latest" pointers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &pinner.Options{
				ConfigPath: configPath,
				OutputPath: outputPath,
				Tag:        args[0],
			}

			return pinner.Run(ctx, options)
		},
	}
)

// Execute runs the n3h-pin CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "path to the manifest file (overrides configuration)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")
}
