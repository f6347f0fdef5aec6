package cop

import (
	"context"
	"testing"

	"github.com/phobologic/msgexpect/internal/lang"
	"github.com/phobologic/msgexpect/internal/model"
	"github.com/phobologic/msgexpect/internal/parse"
	"github.com/phobologic/msgexpect/internal/syntax"
)

// recorder is a StyleDetector that remembers every signal in order.
type recorder struct {
	signals []string
}

func (r *recorder) StyleConfirmed(s model.Style) { r.signals = append(r.signals, "confirmed:"+string(s)) }
func (r *recorder) StyleViolated(s model.Style)  { r.signals = append(r.signals, "violated:"+string(s)) }
func (r *recorder) StyleObserved(s model.Style)  { r.signals = append(r.signals, "observed:"+string(s)) }

func parseRuby(t *testing.T, source string) *syntax.Node {
	t.Helper()
	l := lang.Ruby()
	res, err := parse.File(context.Background(), l.NewParser(), nil, []byte(source))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return res.Root
}

// inspectAll runs c over every node of source, as the engine does.
func inspectAll(t *testing.T, c Cop, source string) []model.Offense {
	t.Helper()
	var offenses []model.Offense
	syntax.Inspect(parseRuby(t, source), func(n *syntax.Node) bool {
		if o, ok := c.Inspect(n); ok {
			offenses = append(offenses, o)
		}
		return true
	})
	return offenses
}

// matches counts shape matches in source.
func matches(t *testing.T, source string) []string {
	t.Helper()
	var verbs []string
	syntax.Inspect(parseRuby(t, source), func(n *syntax.Node) bool {
		if verb, ok := MatchMessageExpectation(n); ok {
			verbs = append(verbs, verb.Name())
		}
		return true
	})
	return verbs
}
