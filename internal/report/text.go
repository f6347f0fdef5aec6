package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/phobologic/msgexpect/internal/model"
)

// severityCodes maps severities to RuboCop's one-letter codes.
var severityCodes = map[model.Severity]string{
	model.Convention: "C",
}

// WriteText writes offenses one per line as
//
//	path:line:col: C: RSpec/MessageExpectation: message
//
// followed by a summary of inspected files and the detected style.
func WriteText(w io.Writer, r *model.Report, st Styles) error {
	var b strings.Builder

	for i := range r.Files {
		for j := range r.Files[i].Offenses {
			o := &r.Files[i].Offenses[j]
			code := severityCodes[o.Severity]
			if code == "" {
				code = "C"
			}
			fmt.Fprintf(&b, "%s:%s: %s: ",
				st.Path.Render(o.File),
				st.Position.Render(fmt.Sprintf("%d:%d", o.Location.Start.Line, o.Location.Start.Column+1)),
				st.Severity.Render(code),
			)
			if o.Corrected {
				b.WriteString(st.Corrected.Render("[Corrected]") + " ")
			}
			fmt.Fprintf(&b, "%s: %s\n", st.Cop.Render(o.Cop), o.Message)
		}
	}
	if r.OffenseCount > 0 {
		b.WriteString("\n")
	}

	summary := fmt.Sprintf("%d %s inspected, ", r.Inspected, plural(r.Inspected, "file", "files"))
	if r.OffenseCount == 0 {
		b.WriteString(st.Summary.Render(summary) + st.Clean.Render("no offenses") + " detected\n")
	} else {
		b.WriteString(st.Summary.Render(summary) +
			st.Warn.Render(fmt.Sprintf("%d %s", r.OffenseCount, plural(r.OffenseCount, "offense", "offenses"))) +
			" detected")
		if n := len(r.CorrectedFiles); n > 0 {
			fmt.Fprintf(&b, ", %s", st.Corrected.Render(fmt.Sprintf("%d %s corrected", n, plural(n, "file", "files"))))
		}
		b.WriteString("\n")
	}

	b.WriteString(st.Muted.Render(styleLine(&r.Styles)) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func styleLine(s *model.StyleSummary) string {
	if s.Total == 0 {
		return "No message expectations found."
	}
	var b strings.Builder
	if s.Configured == model.StyleUnset {
		fmt.Fprintf(&b, "Detected style: %s (%s)", s.Suggested, counts(s.Observed))
	} else {
		fmt.Fprintf(&b, "Enforced style: %s (%d matching, %d other)", s.Configured, s.Confirmed, s.Total-s.Confirmed)
	}
	if s.Mixed {
		b.WriteString("; both styles are in use")
	}
	return b.String()
}

func counts(m map[model.Style]int) string {
	parts := make([]string, 0, len(model.SupportedStyles))
	for _, s := range model.SupportedStyles {
		parts = append(parts, fmt.Sprintf("%s=%d", s, m[s]))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
