// Package cli defines the pr-bridge command-line interface.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/filipembedded/pr-bridge/internal/config"
	"github.com/filipembedded/pr-bridge/internal/logging"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// Options stores global state shared between commands. Config is populated by
// the root command's PersistentPreRunE before any subcommand runs.
type Options struct {
	Config *config.Config
}

// Execute builds the root command and runs it with the provided arguments.
func Execute(ctx context.Context, args []string) error {
	opts := &Options{}
	rootCmd := newRootCommand(opts)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr-bridge",
		Short: "Export GitHub pull request review discussions as Markdown",
		Long: "pr-bridge fetches a pull request's review discussion from GitHub\n" +
			"(inline review threads, general comments, review verdicts) and renders\n" +
			"it as a single Markdown document suited for AI coding agents.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.Config = cfg

			levelFlag := cmd.Flag("log-level")
			level := levelFlag.Value.String()
			if !levelFlag.Changed && cfg.LogLevel != "" {
				level = cfg.LogLevel
			}
			slog.SetDefault(logging.NewLogger(cmd.ErrOrStderr(), level))
			slog.Debug("logger initialized", "level", level)
			return nil
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newFetchCommand(opts))

	return cmd
}
