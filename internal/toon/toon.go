// Package toon implements TOON (Token-Oriented Object Notation) encoding
// of lint reports.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/msgexpect/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a lint Report into TOON format.
func Encode(r *model.Report) string {
	var parts []string

	s := &r.Styles
	parts = append(parts, fmt.Sprintf("inspected: %d", r.Inspected))
	parts = append(parts, fmt.Sprintf("offenses: %d", r.OffenseCount))
	parts = append(parts, fmt.Sprintf("enforced_style: %s", encodeValue(styleOrNone(s.Configured))))
	parts = append(parts, fmt.Sprintf("detected_style: %s", encodeValue(styleOrNone(s.Suggested))))
	parts = append(parts, fmt.Sprintf("mixed: %t", s.Mixed))

	var offenseRows [][]any
	for i := range r.Files {
		fr := &r.Files[i]
		for j := range fr.Offenses {
			o := &fr.Offenses[j]
			offenseRows = append(offenseRows, []any{
				o.File,
				o.Location.Start.Line,
				o.Location.Start.Column + 1,
				o.Cop,
				string(o.Style),
				o.Message,
				o.Corrected,
			})
		}
	}
	parts = append(parts, formatTabular("offenses",
		[]string{"file", "line", "column", "cop", "observed", "message", "corrected"}, offenseRows))

	var styleRows [][]any
	for _, st := range model.SupportedStyles {
		styleRows = append(styleRows, []any{string(st), s.Observed[st], s.Violated[st]})
	}
	parts = append(parts, formatTabular("styles", []string{"style", "observed", "violated"}, styleRows))

	var suppressedRows [][]any
	for i := range r.Files {
		if fr := &r.Files[i]; fr.Suppressed > 0 {
			suppressedRows = append(suppressedRows, []any{fr.Path, fr.Suppressed})
		}
	}
	if len(suppressedRows) > 0 {
		parts = append(parts, formatTabular("suppressed", []string{"file", "count"}, suppressedRows))
	}

	return strings.Join(parts, "\n")
}

func styleOrNone(s model.Style) string {
	if s == model.StyleUnset {
		return "none"
	}
	return string(s)
}

func formatTabular(name string, columns []string, rows [][]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeCell(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

// encodeCell renders a table cell. Strings go through encodeValue; booleans
// and integers are written bare so they keep their type.
func encodeCell(cell any) string {
	switch v := cell.(type) {
	case string:
		return encodeValue(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	}
	return encodeValue(fmt.Sprint(cell))
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
