// Package model defines core data structures for msgexpect.
package model

import (
	"fmt"

	"github.com/phobologic/msgexpect/internal/syntax"
)

// Style is the preferred verb for message expectations.
type Style string

const (
	StyleUnset        Style = ""
	StyleHaveReceived Style = "have_received"
	StyleReceive      Style = "receive"
)

// SupportedStyles lists the recognized styles in configuration order.
var SupportedStyles = []Style{StyleHaveReceived, StyleReceive}

// ParseStyle validates s against SupportedStyles. An empty string yields
// StyleUnset.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleUnset, StyleHaveReceived, StyleReceive:
		return Style(s), nil
	}
	return StyleUnset, fmt.Errorf("unsupported style %q (want %s or %s)", s, StyleHaveReceived, StyleReceive)
}

// Opposite returns the other supported style. StyleUnset has no opposite.
func (s Style) Opposite() Style {
	switch s {
	case StyleHaveReceived:
		return StyleReceive
	case StyleReceive:
		return StyleHaveReceived
	}
	return StyleUnset
}

// Severity mirrors RuboCop severity names; style cops report conventions.
type Severity string

const Convention Severity = "convention"

// Correction replaces the source bytes in Range with Replacement.
type Correction struct {
	Range       syntax.Range
	Replacement string
}

// Offense is a single reported style violation.
type Offense struct {
	Node       *syntax.Node // matched verb call; valid only during the run
	Cop        string
	File       string
	Message    string
	Location   syntax.Range
	Style      Style // observed verb at the time of the report
	Severity   Severity
	Correction *Correction
	Corrected  bool
}

// FileResult holds the offenses found in a single source file.
type FileResult struct {
	Path       string
	Offenses   []Offense
	Suppressed int
	Corrected  int
}

// StyleSummary is the run-wide outcome of style auto-detection.
type StyleSummary struct {
	Configured Style
	Suggested  Style
	Observed   map[Style]int
	Confirmed  int
	Violated   map[Style]int
	Mixed      bool
	Total      int
}

// Report is the complete result of a lint run, ready for output.
type Report struct {
	Files          []FileResult
	Styles         StyleSummary
	Inspected      int
	OffenseCount   int
	CorrectedFiles []string
}
