// Package cmd implements the meet-transcript command line using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"meet-transcript/pkg/config"
	"meet-transcript/pkg/db"
	"meet-transcript/pkg/logging"
)

// options holds the global flags and the configuration they resolve to.
type options struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg config.Config
}

// load reads the config file and applies flag overrides.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if err := logging.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	logging.SetOutput(cmd.ErrOrStderr())
	o.cfg = cfg
	return nil
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "meet-transcript",
		Short: "Extract speaker transcripts from meeting HTML exports",
		Long: `meet-transcript rebuilds a readable transcript (timestamp, speaker, text)
from the HTML export of a recorded meeting. Escaped markup is unescaped first.

Usage:
  meet-transcript extract <file>... [flags]
  meet-transcript serve [flags]
  meet-transcript replicate [flags]`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log format (text or json)")

	rootCmd.AddCommand(newExtractCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newReplicateCmd(opts))

	return rootCmd
}

// closeStore closes s and logs a failure; it runs from defers.
func closeStore(ctx context.Context, s db.Store, log *logrus.Entry) {
	if err := s.Close(ctx); err != nil {
		log.WithError(err).Warn("Failed to close store")
	}
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
