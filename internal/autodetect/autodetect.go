// Package autodetect tallies style signals from a lint run and turns them
// into a suggested configuration.
package autodetect

import (
	"github.com/phobologic/msgexpect/internal/cop"
	"github.com/phobologic/msgexpect/internal/model"
)

// Tracker records style signals. It implements cop.StyleDetector and is not
// safe for concurrent use: give each file its own Tracker and Merge them once
// the files are done.
type Tracker struct {
	configured model.Style
	observed   map[model.Style]int
	confirmed  int
	violated   map[model.Style]int
}

var _ cop.StyleDetector = (*Tracker)(nil)

// NewTracker returns an empty tracker for a run enforcing configured, which
// may be model.StyleUnset.
func NewTracker(configured model.Style) *Tracker {
	return &Tracker{
		configured: configured,
		observed:   make(map[model.Style]int),
		violated:   make(map[model.Style]int),
	}
}

// StyleConfirmed implements cop.StyleDetector.
func (t *Tracker) StyleConfirmed(model.Style) {
	t.confirmed++
}

// StyleViolated implements cop.StyleDetector.
func (t *Tracker) StyleViolated(observed model.Style) {
	t.violated[observed]++
}

// StyleObserved implements cop.StyleDetector.
func (t *Tracker) StyleObserved(observed model.Style) {
	t.observed[observed]++
}

// Merge adds the counts of other into t.
func (t *Tracker) Merge(other *Tracker) {
	if other == nil {
		return
	}
	for s, n := range other.observed {
		t.observed[s] += n
	}
	for s, n := range other.violated {
		t.violated[s] += n
	}
	t.confirmed += other.confirmed
}

// Summary computes the detected style for everything recorded so far.
//
// Without a configured style the suggestion is the majority vote, with ties
// going to have_received. With a configured style the suggestion stays put
// unless every match used the other verb. Mixed is set whenever both verbs
// appear.
func (t *Tracker) Summary() model.StyleSummary {
	s := model.StyleSummary{
		Configured: t.configured,
		Observed:   copyCounts(t.observed),
		Confirmed:  t.confirmed,
		Violated:   copyCounts(t.violated),
	}

	if t.configured == model.StyleUnset {
		hr, rc := t.observed[model.StyleHaveReceived], t.observed[model.StyleReceive]
		s.Total = hr + rc
		s.Mixed = hr > 0 && rc > 0
		switch {
		case s.Total == 0:
			s.Suggested = model.StyleUnset
		case rc > hr:
			s.Suggested = model.StyleReceive
		default:
			s.Suggested = model.StyleHaveReceived
		}
		return s
	}

	violations := 0
	for _, n := range t.violated {
		violations += n
	}
	s.Total = t.confirmed + violations
	s.Mixed = t.confirmed > 0 && violations > 0
	switch {
	case s.Total == 0:
		s.Suggested = model.StyleUnset
	case t.confirmed == 0:
		s.Suggested = t.configured.Opposite()
	default:
		s.Suggested = t.configured
	}
	return s
}

func copyCounts(m map[model.Style]int) map[model.Style]int {
	out := make(map[model.Style]int, len(m))
	for k, v := range m {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}
