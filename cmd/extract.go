package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"meet-transcript/pkg/db"
	"meet-transcript/pkg/logging"
	"meet-transcript/pkg/worker"
)

func newExtractCmd(opts *options) *cobra.Command {
	var (
		outputDir string
		workers   int
		archive   bool
	)

	cmd := &cobra.Command{
		Use:   "extract <file>...",
		Short: "Extract transcripts from exported files",
		Long: `Extract reads each file (.html, .txt, .md, .docx), rebuilds its transcript
and prints it. With several files the work is spread over a worker pool.

Examples:
  meet-transcript extract meeting.html
  meet-transcript extract exports/*.html --output ./transcripts --workers 8
  meet-transcript extract meeting.docx --archive --config meet.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("workers") {
				opts.cfg.Workers = workers
			}
			return runExtract(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args, outputDir, archive)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Write <name>.txt files to this directory instead of stdout")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "Number of parallel workers")
	cmd.Flags().BoolVar(&archive, "archive", false, "Save results to the configured store")

	return cmd
}

func runExtract(ctx context.Context, out, errOut io.Writer, opts *options, paths []string, outputDir string, archive bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var store db.Store
	if archive {
		s, err := db.Open(ctx, opts.cfg.Store)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		if s != nil {
			defer closeStore(ctx, s, logging.NewLogger("extract"))
			store = s
		}
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	results, err := worker.NewManager(opts.cfg.Workers, store, opts.cfg.Server.MaxUploadBytes).ProcessFiles(ctx, paths)
	if err != nil {
		return err
	}

	names := outputNames(paths)

	var failed int
	for i, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(errOut, "%s: %v\n", res.Path, res.Err)
			continue
		}

		if outputDir != "" {
			target := filepath.Join(outputDir, names[i])
			if err := os.WriteFile(target, []byte(res.Transcript.Text), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", target, err)
			}
			fmt.Fprintf(out, "%s -> %s\n", res.Path, target)
			continue
		}

		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "==> %s <==\n", res.Path)
		}
		fmt.Fprint(out, res.Transcript.Text)
		if !strings.HasSuffix(res.Transcript.Text, "\n") {
			fmt.Fprintln(out)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// outputNames picks one output file per path. Paths sharing a base name
// get numbered names ("call.txt", "call-2.txt", ...) so none overwrites
// another.
func outputNames(paths []string) []string {
	names := make([]string, len(paths))
	used := make(map[string]bool, len(paths))

	for i, path := range paths {
		name := outputName(path)
		if used[name] {
			stem := strings.TrimSuffix(name, ".txt")
			for n := 2; used[name]; n++ {
				name = fmt.Sprintf("%s-%d.txt", stem, n)
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// outputName maps "exports/call.html" to "call.txt".
func outputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
}
