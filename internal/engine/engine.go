// Package engine drives a lint run: it parses every file, walks each tree in
// document order and hands every node to the cop.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/msgexpect/internal/autodetect"
	"github.com/phobologic/msgexpect/internal/cop"
	"github.com/phobologic/msgexpect/internal/directive"
	"github.com/phobologic/msgexpect/internal/discover"
	"github.com/phobologic/msgexpect/internal/fix"
	"github.com/phobologic/msgexpect/internal/lang"
	"github.com/phobologic/msgexpect/internal/model"
	"github.com/phobologic/msgexpect/internal/parse"
	"github.com/phobologic/msgexpect/internal/syntax"
)

// ErrNoFiles is returned when Run is given nothing to inspect.
var ErrNoFiles = errors.New("no files to inspect")

// Options configures a run.
type Options struct {
	// Root is the directory file entries are relative to.
	Root string

	// Style is the enforced style; model.StyleUnset only detects.
	Style model.Style

	// MaxFileSize skips files larger than this many bytes. Zero means no limit.
	MaxFileSize int64

	// Fix rewrites files with corrections applied.
	Fix bool

	// Workers bounds concurrency. Zero means GOMAXPROCS.
	Workers int

	Logger *log.Logger
}

type fileOutcome struct {
	result  model.FileResult
	tracker *autodetect.Tracker
	ok      bool
}

// Run inspects files and returns the report. Files are processed
// concurrently, each with its own cop and tracker; the report lists files in
// input order. Unreadable or oversized files are logged and skipped.
func Run(ctx context.Context, opts Options, files []discover.FileEntry) (*model.Report, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	l := lang.Ruby()
	query, err := l.GetCommentQuery()
	if err != nil {
		return nil, fmt.Errorf("compiling comment query: %w", err)
	}

	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	outcomes := make([]fileOutcome, len(files))
	work := make(chan int)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(work)
		for i := range files {
			select {
			case work <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < numWorkers; i++ {
		g.Go(func() error {
			// Each goroutine gets its own parser
			parser := l.NewParser()
			for idx := range work {
				if err := ctx.Err(); err != nil {
					return err
				}
				outcomes[idx] = inspectFile(ctx, opts, logger, parser, query, files[idx])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	tracker := autodetect.NewTracker(opts.Style)
	report := &model.Report{}
	for _, o := range outcomes {
		if !o.ok {
			continue
		}
		tracker.Merge(o.tracker)
		report.Files = append(report.Files, o.result)
		report.Inspected++
		report.OffenseCount += len(o.result.Offenses)
		if o.result.Corrected > 0 {
			report.CorrectedFiles = append(report.CorrectedFiles, o.result.Path)
		}
	}
	report.Styles = tracker.Summary()

	return report, nil
}

func inspectFile(ctx context.Context, opts Options, logger *log.Logger, parser *sitter.Parser, query *sitter.Query, f discover.FileEntry) fileOutcome {
	absPath := filepath.Join(opts.Root, f.Path)

	info, err := os.Stat(absPath)
	if err != nil {
		logger.Warn("skipping file", "path", f.Path, "err", err)
		return fileOutcome{}
	}
	if opts.MaxFileSize > 0 && info.Size() > opts.MaxFileSize {
		logger.Warn("skipping large file", "path", f.Path, "size", info.Size(), "limit", opts.MaxFileSize)
		return fileOutcome{}
	}

	source, err := os.ReadFile(absPath)
	if err != nil {
		logger.Warn("skipping file", "path", f.Path, "err", err)
		return fileOutcome{}
	}

	res, err := parse.File(ctx, parser, query, source)
	if err != nil {
		logger.Warn("failed to parse", "path", f.Path, "err", err)
		return fileOutcome{}
	}
	if res.HasErrors {
		logger.Warn("syntax errors, results may be incomplete", "path", f.Path)
	}

	tracker := autodetect.NewTracker(opts.Style)
	c := cop.NewMessageExpectation(opts.Style, tracker)
	result := Inspect(c, res, f.Path)

	if opts.Fix && len(result.Offenses) > 0 {
		fixed, n := fix.Apply(source, result.Offenses)
		if n > 0 {
			if err := os.WriteFile(absPath, fixed, info.Mode().Perm()); err != nil {
				logger.Error("writing corrections", "path", f.Path, "err", err)
				for i := range result.Offenses {
					result.Offenses[i].Corrected = false
				}
			} else {
				result.Corrected = n
			}
		}
	}

	logger.Debug("inspected", "path", f.Path, "offenses", len(result.Offenses), "suppressed", result.Suppressed)
	return fileOutcome{result: result, tracker: tracker, ok: true}
}

// Inspect walks a parsed file in document order, passing every node to c.
// Offenses on lines disabled by inline directives are counted as suppressed
// and dropped.
func Inspect(c cop.Cop, res *parse.Result, path string) model.FileResult {
	result := model.FileResult{Path: path}
	dirs := directive.Parse(c.Name(), res.Comments)

	syntax.Inspect(res.Root, func(n *syntax.Node) bool {
		o, ok := c.Inspect(n)
		if !ok {
			return true
		}
		if dirs.Disabled(o.Location.Start.Line) {
			result.Suppressed++
			return true
		}
		o.File = path
		result.Offenses = append(result.Offenses, o)
		return true
	})
	return result
}
