// Package discover finds the spec files to lint in a repository.
package discover

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/msgexpect/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to repo root
	Language string
}

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	".bundle":      {},
	"tmp":          {},
	"log":          {},
	"coverage":     {},
}

// Patterns selects files with gitignore-style Include and Exclude globs.
// A file is kept when it matches at least one Include pattern and no
// Exclude pattern.
type Patterns struct {
	include *ignore.GitIgnore
	exclude *ignore.GitIgnore
	prefix  string
}

// NewPatterns compiles include and exclude globs.
func NewPatterns(include, exclude []string) *Patterns {
	return &Patterns{
		include: ignore.CompileIgnoreLines(include...),
		exclude: ignore.CompileIgnoreLines(exclude...),
	}
}

// Under returns patterns for walking the subdirectory dir of the root. Paths
// passed to Match are then relative to dir, and are joined with dir before
// matching.
func (p *Patterns) Under(dir string) *Patterns {
	if dir == "" || dir == "." {
		return p
	}
	sub := *p
	sub.prefix = filepath.Join(p.prefix, dir)
	return &sub
}

// Match reports whether rel, a slash- or OS-separated path relative to the
// root, is selected.
func (p *Patterns) Match(rel string) bool {
	if p.prefix != "" {
		rel = filepath.Join(p.prefix, rel)
	}
	rel = filepath.ToSlash(rel)
	return p.include.MatchesPath(rel) && !p.exclude.MatchesPath(rel)
}

// Files discovers lintable source files under root that p selects.
func Files(root string, p *Patterns) ([]FileEntry, error) {
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[filepath.ToSlash(rel)]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(filepath.ToSlash(rel)) {
			return nil
		}

		langName := lang.ForExtension(filepath.Ext(name))
		if langName == "" {
			return nil
		}

		if !p.Match(rel) {
			return nil
		}

		results = append(results, FileEntry{Path: rel, Language: langName})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

// File checks a single explicitly named file against p. rel is relative to
// the root the patterns apply to. ok is false when the file is not a
// supported language or is not selected.
func File(rel string, p *Patterns) (FileEntry, bool) {
	langName := lang.ForExtension(filepath.Ext(rel))
	if langName == "" || !p.Match(rel) {
		return FileEntry{}, false
	}
	return FileEntry{Path: rel, Language: langName}, true
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
