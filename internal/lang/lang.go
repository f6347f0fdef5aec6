// Package lang provides the tree-sitter language registry used to parse
// linted files, together with the embedded queries for each language.
package lang

import (
	"embed"
	"fmt"
	"slices"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

//go:embed queries/*.scm
var queryFS embed.FS

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language
	queryOnce  sync.Once
	query      *sitter.Query
	queryErr   error
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// GetCommentQuery returns the compiled comment query (safe to share across goroutines).
func (l *Language) GetCommentQuery() (*sitter.Query, error) {
	l.queryOnce.Do(func() {
		data, err := queryFS.ReadFile(fmt.Sprintf("queries/%s.scm", l.Name))
		if err != nil {
			l.queryErr = fmt.Errorf("reading query file: %w", err)
			return
		}
		q, err := sitter.NewQuery(data, l.lang)
		if err != nil {
			l.queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		l.query = q
	})
	return l.query, l.queryErr
}

// Languages maps language names to their configuration. Each supported
// grammar registers itself from an init function.
var Languages = map[string]*Language{}

// ForExtension returns the name of the language that handles files with the
// extension ext (including the dot), or "" when no language claims it.
func ForExtension(ext string) string {
	for name, l := range Languages {
		if slices.Contains(l.Extensions, ext) {
			return name
		}
	}
	return ""
}

// Ruby returns the registered Ruby language.
func Ruby() *Language {
	return Languages["ruby"]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
