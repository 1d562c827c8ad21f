package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/filipembedded/pr-bridge/internal/adapter/driven/github"
	"github.com/filipembedded/pr-bridge/internal/application"
	"github.com/filipembedded/pr-bridge/internal/format"
)

// newFetchCommand creates "fetch", which exports a pull request's review
// discussion to a Markdown file.
func newFetchCommand(opts *Options) *cobra.Command {
	var (
		output    string
		filter    string
		noGeneral bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <pr-url>",
		Short: "Export a pull request's review discussion to Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := format.ParseFilterMode(filter)
			if err != nil {
				return err
			}

			ref, err := github.ParsePRURL(args[0])
			if err != nil {
				return err
			}

			cfg := opts.Config
			if cfg.GitHubToken == "" {
				slog.Warn("no GitHub token configured, unauthenticated requests have low rate limits")
			}

			client, err := github.NewClient(cfg.GitHubToken, cfg.APIBaseURL, cfg.HTTPTimeout)
			if err != nil {
				return err
			}

			svc := application.NewExportService(client, format.NewFormatter(nil))
			res, err := svc.Export(cmd.Context(), ref.FullName(), ref.Number, application.ExportOptions{
				Filter:         mode,
				IncludeGeneral: !noGeneral,
			})
			if err != nil {
				return err
			}

			outPath, err := resolveOutputPath(output, cfg.OutputDir, ref)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, []byte(res.Document), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved to: %s\n", outPath)
			fmt.Fprintf(out, "Threads shown: %d\n", strings.Count(res.Document, "### Thread"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file or directory (default: pr-<number>-<owner>-<repo>.md in the current directory)")
	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "Which threads to include: all or unresolved")
	cmd.Flags().BoolVar(&noGeneral, "no-general", false, "Skip fetching general PR comments")

	return cmd
}

// resolveOutputPath turns the --output flag (or the configured fallback
// directory) into the file the document is written to. A value naming a
// directory, existing or not yet created but extension-less, receives the
// default file name; anything else is treated as the target file itself.
func resolveOutputPath(output, fallbackDir string, ref github.PRRef) (string, error) {
	name := fmt.Sprintf("pr-%d-%s-%s.md", ref.Number, ref.Owner, ref.Repo)

	if output == "" && fallbackDir != "" {
		if err := os.MkdirAll(fallbackDir, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory %s: %w", fallbackDir, err)
		}
		return filepath.Join(fallbackDir, name), nil
	}
	if output == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		return filepath.Join(cwd, name), nil
	}

	output = expandHome(output)
	info, statErr := os.Stat(output)
	if (statErr == nil && info.IsDir()) || (os.IsNotExist(statErr) && filepath.Ext(output) == "") {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory %s: %w", output, err)
		}
		return filepath.Join(output, name), nil
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}
	return output, nil
}

// expandHome substitutes a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
