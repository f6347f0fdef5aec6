// Package directive interprets inline comments that disable cops, e.g.
//
//	expect(foo).to receive(:bar) # rubocop:disable RSpec/MessageExpectation
//
// A directive trailing code applies to that line only. A directive on its own
// line disables the cop until a matching enable comment or the end of file.
package directive

import (
	"regexp"
	"strings"
)

var directiveRe = regexp.MustCompile(`^#\s*(rubocop|msgexpect)\s*:\s*(disable|enable|todo)\b\s*(.*)$`)

// Comment is a source comment as collected by the parser.
type Comment struct {
	Line     int // 1-based
	Text     string
	Trailing bool // shares its line with code
}

type region struct {
	start, end int // end == 0 means open until EOF
}

// Set answers whether a given cop is disabled on a given line.
type Set struct {
	lines   map[int]struct{}
	regions []region
}

// Parse builds the directive set for copName from the comments of one file.
// Comments must be in document order.
func Parse(copName string, comments []Comment) *Set {
	s := &Set{lines: make(map[int]struct{})}
	open := -1

	for _, c := range comments {
		action, ok := match(copName, c.Text)
		if !ok {
			continue
		}
		switch {
		case action != "enable" && c.Trailing:
			s.lines[c.Line] = struct{}{}
		case action != "enable":
			if open < 0 {
				s.regions = append(s.regions, region{start: c.Line})
				open = len(s.regions) - 1
			}
		case !c.Trailing && open >= 0:
			s.regions[open].end = c.Line
			open = -1
		}
	}
	return s
}

// Disabled reports whether the cop is disabled on line.
func (s *Set) Disabled(line int) bool {
	if s == nil {
		return false
	}
	if _, ok := s.lines[line]; ok {
		return true
	}
	for _, r := range s.regions {
		if line >= r.start && (r.end == 0 || line <= r.end) {
			return true
		}
	}
	return false
}

// Empty reports whether the set disables nothing.
func (s *Set) Empty() bool {
	return s == nil || (len(s.lines) == 0 && len(s.regions) == 0)
}

func match(copName, text string) (string, bool) {
	m := directiveRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	tool, action, rest := m[1], m[2], m[3]

	// Strip a trailing explanation: "# rubocop:disable Foo -- reason".
	if i := strings.Index(rest, "--"); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		// Bare "# msgexpect:disable" targets everything; rubocop requires names.
		return action, tool == "msgexpect"
	}

	department, _, _ := strings.Cut(copName, "/")
	for _, name := range strings.Split(rest, ",") {
		name = strings.TrimSpace(name)
		if name == "all" || name == copName || name == department {
			return action, true
		}
	}
	return "", false
}
