// Package parse turns Ruby source into the syntax tree inspected by cops.
package parse

import (
	"bytes"
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/msgexpect/internal/directive"
	"github.com/phobologic/msgexpect/internal/lang"
	"github.com/phobologic/msgexpect/internal/syntax"
)

// Result is the parsed form of a single source file.
type Result struct {
	Root      *syntax.Node
	Comments  []directive.Comment
	HasErrors bool
}

// File parses source with parser and collects comments with query.
// The parser must be created for the correct language and must not be shared
// between goroutines; the query may be shared.
func File(ctx context.Context, parser *sitter.Parser, query *sitter.Query, source []byte) (*Result, error) {
	if len(source) == 0 {
		return &Result{}, nil
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	res := &Result{
		Root:      syntax.FromTree(root, source),
		HasErrors: root.HasError(),
	}
	if query != nil {
		res.Comments = collectComments(query, root, source)
	}
	return res, nil
}

func collectComments(query *sitter.Query, root *sitter.Node, source []byte) []directive.Comment {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	var comments []directive.Comment
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range match.Captures {
			if query.CaptureNameForId(c.Index) != "comment" {
				continue
			}
			comments = append(comments, directive.Comment{
				Line:     int(c.Node.StartPoint().Row) + 1,
				Text:     lang.NodeText(c.Node, source),
				Trailing: hasCodeBefore(source, int(c.Node.StartByte())),
			})
		}
	}
	return comments
}

// hasCodeBefore reports whether anything other than whitespace precedes
// offset on its line.
func hasCodeBefore(source []byte, offset int) bool {
	lineStart := bytes.LastIndexByte(source[:offset], '\n') + 1
	return len(bytes.TrimSpace(source[lineStart:offset])) > 0
}
