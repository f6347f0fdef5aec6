// Package fix applies offense corrections to source text.
package fix

import (
	"bytes"
	"sort"

	"github.com/phobologic/msgexpect/internal/model"
)

// Apply returns source with the correction of every offense spliced in and
// marks the corrected offenses. Corrections are applied back to front so
// earlier offsets stay valid; a correction overlapping one already applied,
// or falling outside source, is skipped. It returns the number applied.
func Apply(source []byte, offenses []model.Offense) ([]byte, int) {
	idx := make([]int, 0, len(offenses))
	for i := range offenses {
		if offenses[i].Correction != nil {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return offenses[idx[a]].Correction.Range.Start.Offset > offenses[idx[b]].Correction.Range.Start.Offset
	})

	out := bytes.Clone(source)
	limit := len(source)
	applied := 0
	for _, i := range idx {
		r := offenses[i].Correction.Range
		if r.Start.Offset < 0 || r.End.Offset > limit || r.Start.Offset > r.End.Offset {
			continue
		}
		repl := []byte(offenses[i].Correction.Replacement)
		out = append(out[:r.Start.Offset:r.Start.Offset], append(repl, out[r.End.Offset:]...)...)
		limit = r.Start.Offset
		offenses[i].Corrected = true
		applied++
	}
	return out, applied
}
