package report

import (
	"encoding/json"
	"io"

	"github.com/phobologic/msgexpect/internal/model"
)

// JSONReport is the top-level JSON output structure.
type JSONReport struct {
	Summary JSONSummary `json:"summary"`
	Files   []JSONFile  `json:"files"`
}

// JSONSummary holds run totals and the style outcome.
type JSONSummary struct {
	InspectedFiles int            `json:"inspected_file_count"`
	OffenseCount   int            `json:"offense_count"`
	CorrectedFiles []string       `json:"corrected_files,omitempty"`
	EnforcedStyle  string         `json:"enforced_style,omitempty"`
	DetectedStyle  string         `json:"detected_style,omitempty"`
	Mixed          bool           `json:"mixed"`
	Observed       map[string]int `json:"observed,omitempty"`
	Confirmed      int            `json:"confirmed"`
	Violated       map[string]int `json:"violated,omitempty"`
}

// JSONFile holds the offenses of one file.
type JSONFile struct {
	Path       string        `json:"path"`
	Offenses   []JSONOffense `json:"offenses"`
	Suppressed int           `json:"suppressed,omitempty"`
}

// JSONOffense is a single offense.
type JSONOffense struct {
	Severity  string       `json:"severity"`
	Message   string       `json:"message"`
	CopName   string       `json:"cop_name"`
	Observed  string       `json:"observed_style"`
	Corrected bool         `json:"corrected"`
	Location  JSONLocation `json:"location"`
}

// JSONLocation is a source range with 1-based lines and columns.
type JSONLocation struct {
	StartLine   int `json:"start_line"`
	StartColumn int `json:"start_column"`
	LastLine    int `json:"last_line"`
	LastColumn  int `json:"last_column"`
	Length      int `json:"length"`
}

// WriteJSON serializes the report as indented JSON to w.
func WriteJSON(w io.Writer, r *model.Report) error {
	out := JSONReport{
		Summary: JSONSummary{
			InspectedFiles: r.Inspected,
			OffenseCount:   r.OffenseCount,
			CorrectedFiles: r.CorrectedFiles,
			EnforcedStyle:  string(r.Styles.Configured),
			DetectedStyle:  string(r.Styles.Suggested),
			Mixed:          r.Styles.Mixed,
			Observed:       stringKeys(r.Styles.Observed),
			Confirmed:      r.Styles.Confirmed,
			Violated:       stringKeys(r.Styles.Violated),
		},
		Files: make([]JSONFile, 0, len(r.Files)),
	}

	for i := range r.Files {
		fr := &r.Files[i]
		jf := JSONFile{Path: fr.Path, Offenses: make([]JSONOffense, 0, len(fr.Offenses)), Suppressed: fr.Suppressed}
		for j := range fr.Offenses {
			o := &fr.Offenses[j]
			jf.Offenses = append(jf.Offenses, JSONOffense{
				Severity:  string(o.Severity),
				Message:   o.Message,
				CopName:   o.Cop,
				Observed:  string(o.Style),
				Corrected: o.Corrected,
				Location: JSONLocation{
					StartLine:   o.Location.Start.Line,
					StartColumn: o.Location.Start.Column + 1,
					LastLine:    o.Location.End.Line,
					LastColumn:  o.Location.End.Column,
					Length:      o.Location.Len(),
				},
			})
		}
		out.Files = append(out.Files, jf)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func stringKeys(m map[model.Style]int) map[string]int {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}
