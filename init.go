package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/msgexpect/internal/autodetect"
	"github.com/phobologic/msgexpect/internal/config"
	"github.com/phobologic/msgexpect/internal/discover"
	"github.com/phobologic/msgexpect/internal/engine"
	"github.com/phobologic/msgexpect/internal/model"
)

const (
	sentinelStart = "# msgexpect:start"
	sentinelEnd   = "# msgexpect:end"
)

// initParams holds the parsed flags for the init command.
type initParams struct {
	target  string
	root    string
	dryRun  bool
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
}

func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	p := initParams{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "init [flags] [config-file]",
		Short: "Write the detected style into a config file",
		Long: `Detect which message expectation style the spec files under --root use and
write a RSpec/MessageExpectation block to a config file. The block is wrapped
in sentinel comments so it can be updated in place on subsequent runs without
touching surrounding content. Creates the file if it does not exist.

config-file defaults to .rubocop.yml in the root directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				p.target = args[0]
			}
			return runInit(cmd.Context(), p)
		},
	}

	cmd.Flags().StringVar(&p.root, "root", ".", "directory to scan for spec files")
	cmd.Flags().BoolVar(&p.dryRun, "dry-run", false, "print what would be written without modifying the file")
	cmd.Flags().BoolVarP(&p.verbose, "verbose", "v", false, "log every inspected file")
	return cmd
}

// runInit implements the `msgexpect init` subcommand. Detection always runs
// without an enforced style so every expectation counts as a vote.
func runInit(ctx context.Context, p initParams) error {
	logger := newLogger(p.stderr, p.verbose)

	root, err := filepath.Abs(p.root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	cfg, _, err := config.Load("", root)
	if err != nil {
		return err
	}
	patterns := discover.NewPatterns(cfg.MessageExpectation.Include, cfg.Excludes())
	files, err := discover.Files(root, patterns)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	rep, err := engine.Run(ctx, engine.Options{
		Root:        root,
		Style:       model.StyleUnset,
		MaxFileSize: defaultMaxFileSize,
		Logger:      logger,
	}, files)
	if err != nil {
		return err
	}
	if rep.Styles.Total == 0 {
		return fmt.Errorf("no message expectations found under %s", root)
	}
	if rep.Styles.Mixed {
		logger.Warn("both message expectation styles are in use; the cop will be disabled",
			"have_received", rep.Styles.Observed[model.StyleHaveReceived],
			"receive", rep.Styles.Observed[model.StyleReceive])
	}

	section, err := generateSection(rep.Styles)
	if err != nil {
		return err
	}

	// --dry-run with no path: just print the section itself.
	if p.dryRun && p.target == "" {
		_, _ = fmt.Fprintln(p.stdout, section)
		return nil
	}

	path := p.target
	if path == "" {
		path = filepath.Join(root, ".rubocop.yml")
	}

	existing, _ := os.ReadFile(path)
	if hasUnmanagedKey(string(existing)) {
		logger.Warn("config already defines RSpec/MessageExpectation outside the managed block", "path", path)
	}
	updated := applySection(string(existing), section)

	if p.dryRun {
		_, _ = fmt.Fprint(p.stdout, updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logger.Info("wrote detected style", "path", path, "style", rep.Styles.Suggested)
	return nil
}

// generateSection returns the full sentinel-wrapped config block.
func generateSection(summary model.StyleSummary) (string, error) {
	body, err := autodetect.TodoYAML(summary, 0)
	if err != nil {
		return "", err
	}
	return sentinelStart + "\n" + strings.TrimRight(body, "\n") + "\n" + sentinelEnd, nil
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if len(content) == 0 {
		return section + "\n"
	}
	return content + "\n" + section + "\n"
}

// hasUnmanagedKey reports whether content configures the cop outside the
// sentinel block.
func hasUnmanagedKey(content string) bool {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)
	if start >= 0 && end > start {
		content = content[:start] + content[end+len(sentinelEnd):]
	}
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "RSpec/MessageExpectation:") {
			return true
		}
	}
	return false
}
