// msgexpect checks that RSpec message expectations consistently use either
// have_received or receive.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phobologic/msgexpect/internal/autodetect"
	"github.com/phobologic/msgexpect/internal/config"
	"github.com/phobologic/msgexpect/internal/discover"
	"github.com/phobologic/msgexpect/internal/engine"
	"github.com/phobologic/msgexpect/internal/model"
	"github.com/phobologic/msgexpect/internal/report"
	"github.com/phobologic/msgexpect/internal/toon"
)

var version = "dev"

const defaultMaxFileSize = 1_000_000 // 1 MB

// errOffenses signals a run that found offenses. main exits 1 without
// printing it.
var errOffenses = errors.New("offenses detected")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errOffenses) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

// newLogger returns the structured logger for one invocation (writes to stderr).
func newLogger(stderr io.Writer, verbose bool) *charmlog.Logger {
	logger := charmlog.NewWithOptions(stderr, charmlog.Options{
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(charmlog.DebugLevel)
	}
	return logger
}

// lintParams holds the parsed flags for a lint run.
type lintParams struct {
	paths         []string
	configPath    string
	style         string
	format        string
	autoGenConfig bool
	fix           bool
	maxFileSize   int64
	cachePath     string
	verbose       bool
	noFail        bool
	noColor       bool
	workDir       string // upper bound for config discovery; defaults to the working directory
	stdout        io.Writer
	stderr        io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	p := lintParams{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:   "msgexpect [path...]",
		Short: "Enforce a consistent RSpec message expectation style",
		Long: `msgexpect finds RSpec message expectations written as

    expect(foo).to receive(:bar)
    expect(foo).to have_received(:bar)

and reports the ones that do not use the configured EnforcedStyle. Without a
configured style it only reports which style the codebase uses.

Configuration is read from .msgexpect.yml, .msgexpect.yaml or .rubocop.yml
in the root directory (the first directory argument, or the working directory).`,
		Args:          cobra.ArbitraryArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.paths = args
			return runLint(cmd.Context(), p)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("msgexpect {{.Version}}\n")

	f := cmd.Flags()
	f.StringVarP(&p.configPath, "config", "c", "", "config file (default: discovered in the root directory)")
	f.StringVarP(&p.style, "style", "s", "", "enforced style: have_received or receive (overrides the config file)")
	f.StringVarP(&p.format, "format", "f", "text", "output format: text, json, or toon")
	f.BoolVar(&p.autoGenConfig, "auto-gen-config", false, "print a configuration block matching the detected style")
	f.BoolVar(&p.fix, "fix", false, "rewrite offending verbs in place (unsafe: receive and have_received need different stub ordering)")
	f.Int64Var(&p.maxFileSize, "max-file-size", defaultMaxFileSize, "skip files larger than this many bytes")
	f.StringVar(&p.cachePath, "cache", "", "cache file path")
	f.BoolVarP(&p.verbose, "verbose", "v", false, "log every inspected file")
	f.BoolVar(&p.noFail, "no-fail", false, "exit 0 even when offenses are found")
	f.BoolVar(&p.noColor, "no-color", false, "disable colored text output")
	cmd.Flags().BoolP("version", "V", false, "show version and exit")

	cmd.AddCommand(newInitCmd(stdout, stderr))
	return cmd
}

// runLint is the extracted, testable body of the root command.
func runLint(ctx context.Context, p lintParams) error {
	switch p.format {
	case "text", "json", "toon":
	default:
		return fmt.Errorf("invalid format %q: must be 'text', 'json', or 'toon'", p.format)
	}
	logger := newLogger(p.stderr, p.verbose)

	root, err := resolveRoot(p.paths)
	if err != nil {
		return err
	}

	configPath := p.configPath
	if configPath == "" {
		workDir := p.workDir
		if workDir == "" {
			if workDir, err = os.Getwd(); err != nil {
				return fmt.Errorf("resolving working directory: %w", err)
			}
		}
		configPath = config.DiscoverUpward(root, workDir)
		// Include and Exclude are relative to the directory holding the config.
		if configPath != "" {
			root = filepath.Dir(configPath)
		}
	}

	cfg, cfgPath, err := config.Load(configPath, root)
	if err != nil {
		return err
	}
	if cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath)
	}

	style := cfg.MessageExpectation.Style()
	if p.style != "" {
		if style, err = config.ParseStyle(p.style); err != nil {
			return err
		}
	}

	if !cfg.MessageExpectation.Enabled {
		logger.Info("RSpec/MessageExpectation is disabled in config", "path", cfgPath)
		return nil
	}

	patterns := discover.NewPatterns(cfg.MessageExpectation.Include, cfg.Excludes())
	files, err := collectFiles(root, p.paths, patterns)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no spec files found")
	}

	useCache := p.cachePath != "" && !p.fix && !p.autoGenConfig
	key := cacheKey(style, p.format, cfgPath, files)
	if useCache && cacheIsFresh(p.cachePath, root, files, cfgPath) {
		if body, offenses, ok := readCache(p.cachePath, key); ok {
			logger.Debug("replaying cached output", "path", p.cachePath)
			_, _ = p.stdout.Write(body)
			if !p.noFail && offenses > 0 {
				return errOffenses
			}
			return nil
		}
	}

	logger.Debug("inspecting files", "count", len(files), "style", style)
	rep, err := engine.Run(ctx, engine.Options{
		Root:        root,
		Style:       style,
		MaxFileSize: p.maxFileSize,
		Fix:         p.fix && !p.autoGenConfig,
		Logger:      logger,
	}, files)
	if err != nil {
		return err
	}
	if rep.Inspected == 0 {
		return fmt.Errorf("no files could be inspected")
	}

	if s := rep.Styles; s.Mixed {
		logger.Warn("both message expectation styles are in use", "suggested", s.Suggested)
	}

	if p.autoGenConfig {
		out, err := autodetect.TodoYAML(rep.Styles, rep.OffenseCount)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(p.stdout, out)
		return nil
	}

	var buf bytes.Buffer
	switch p.format {
	case "json":
		err = report.WriteJSON(&buf, rep)
	case "toon":
		_, err = fmt.Fprintln(&buf, toon.Encode(rep))
	default:
		styles := report.DefaultStyles()
		if p.noColor || useCache {
			styles = report.PlainStyles()
		}
		err = report.WriteText(&buf, rep, styles)
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	remaining := uncorrected(rep)
	if useCache {
		if err := writeCache(p.cachePath, key, remaining, buf.Bytes()); err != nil {
			logger.Warn("writing cache", "path", p.cachePath, "err", err)
		}
	}
	_, _ = p.stdout.Write(buf.Bytes())

	if !p.noFail && remaining > 0 {
		return errOffenses
	}
	return nil
}

// resolveRoot returns the directory that config discovery, include patterns
// and reported paths are relative to: the first argument when it is a
// directory, otherwise the working directory.
func resolveRoot(paths []string) (string, error) {
	root := "."
	if len(paths) > 0 {
		if info, err := os.Stat(paths[0]); err == nil && info.IsDir() {
			root = paths[0]
		}
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	return root, nil
}

// collectFiles expands paths into the files to inspect, relative to root.
// Directories are walked; files are checked against the patterns directly.
func collectFiles(root string, paths []string, patterns *discover.Patterns) ([]discover.FileEntry, error) {
	if len(paths) == 0 {
		paths = []string{root}
	}

	seen := make(map[string]struct{})
	var files []discover.FileEntry
	add := func(e discover.FileEntry) {
		if _, ok := seen[e.Path]; ok {
			return
		}
		seen[e.Path] = struct{}{}
		files = append(files, e)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("path: %w", err)
		}

		if !info.IsDir() {
			rel, err := filepath.Rel(root, abs)
			if err != nil {
				return nil, fmt.Errorf("resolving %s: %w", p, err)
			}
			if e, ok := discover.File(rel, patterns); ok {
				add(e)
			}
			continue
		}

		relDir, err := filepath.Rel(root, abs)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		entries, err := discover.Files(abs, patterns.Under(relDir))
		if err != nil {
			return nil, fmt.Errorf("discovering files: %w", err)
		}
		for _, e := range entries {
			rel, err := filepath.Rel(root, filepath.Join(abs, e.Path))
			if err != nil {
				return nil, fmt.Errorf("resolving %s: %w", e.Path, err)
			}
			e.Path = rel
			add(e)
		}
	}
	return files, nil
}

func uncorrected(r *model.Report) int {
	n := 0
	for i := range r.Files {
		for j := range r.Files[i].Offenses {
			if !r.Files[i].Offenses[j].Corrected {
				n++
			}
		}
	}
	return n
}

const cacheMagic = "msgexpect-cache"

// cacheKey identifies the inputs that shape a run's output besides file
// contents: the enforced style, output format, config file and file set.
func cacheKey(style model.Style, format, cfgPath string, files []discover.FileEntry) string {
	h := fnv.New64a()
	for _, f := range files {
		_, _ = io.WriteString(h, f.Path)
		_, _ = h.Write([]byte{0})
	}
	s := string(style)
	if s == "" {
		s = "none"
	}
	return fmt.Sprintf("style=%s format=%s config=%q files=%x", s, format, cfgPath, h.Sum64())
}

// writeCache stores output behind a header line recording key and the number
// of offenses the output reports.
func writeCache(path, key string, offenses int, output []byte) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s offenses=%d\n", cacheMagic, key, offenses)
	buf.Write(output)
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// readCache returns the cached output and its offense count. ok is false when
// the file is unreadable or was written for a different key.
func readCache(path, key string) (output []byte, offenses int, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, false
	}
	header, body, found := bytes.Cut(data, []byte("\n"))
	if !found {
		return nil, 0, false
	}
	prefix := cacheMagic + " " + key + " offenses="
	rest, match := strings.CutPrefix(string(header), prefix)
	if !match {
		return nil, 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return nil, 0, false
	}
	return body, n, true
}

// cacheIsFresh reports whether the cache file is newer than every inspected
// file and the config file.
func cacheIsFresh(cachePath, root string, files []discover.FileEntry, cfgPath string) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	cacheMtime := cacheInfo.ModTime()

	paths := make([]string, 0, len(files)+1)
	for _, f := range files {
		paths = append(paths, filepath.Join(root, f.Path))
	}
	if cfgPath != "" {
		paths = append(paths, cfgPath)
	}

	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			return false
		}
		if !fi.ModTime().Before(cacheMtime) {
			return false
		}
	}
	return true
}
