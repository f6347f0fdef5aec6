package cop

import (
	"fmt"

	"github.com/phobologic/msgexpect/internal/model"
	"github.com/phobologic/msgexpect/internal/syntax"
)

// MessageExpectationName is the qualified name of the MessageExpectation cop.
const MessageExpectationName = "RSpec/MessageExpectation"

const messageExpectationTemplate = "Prefer '%s' for setting message expectations."

// MessageExpectation checks that message expectations consistently use the
// configured verb:
//
//	# EnforcedStyle: have_received
//	expect(foo).to receive(:bar)        # bad
//	expect(foo).to have_received(:bar)  # good
//
//	# EnforcedStyle: receive
//	expect(foo).to have_received(:bar)  # bad
//	expect(foo).to receive(:bar)        # good
//
// With no style configured it reports nothing and only feeds the detector.
type MessageExpectation struct {
	style    model.Style
	detector StyleDetector
}

// NewMessageExpectation returns the cop for one run. style may be
// model.StyleUnset; detector may be nil.
func NewMessageExpectation(style model.Style, detector StyleDetector) *MessageExpectation {
	return &MessageExpectation{style: style, detector: detector}
}

// Name implements Cop.
func (c *MessageExpectation) Name() string {
	return MessageExpectationName
}

// Style returns the enforced style, or model.StyleUnset.
func (c *MessageExpectation) Style() model.Style {
	return c.style
}

// Inspect implements Cop.
func (c *MessageExpectation) Inspect(n *syntax.Node) (model.Offense, bool) {
	verb, ok := MatchMessageExpectation(n)
	if !ok {
		return model.Offense{}, false
	}
	observed := verbStyle(verb)

	if c.style == model.StyleUnset {
		if c.detector != nil {
			c.detector.StyleObserved(observed)
		}
		return model.Offense{}, false
	}

	if observed == c.style {
		if c.detector != nil {
			c.detector.StyleConfirmed(c.style)
		}
		return model.Offense{}, false
	}

	if c.detector != nil {
		c.detector.StyleViolated(observed)
	}
	return c.offense(verb, observed), true
}

func (c *MessageExpectation) offense(verb *syntax.Node, observed model.Style) model.Offense {
	selector := verb.SelectorRange()
	return model.Offense{
		Node:     verb,
		Cop:      MessageExpectationName,
		Message:  fmt.Sprintf(messageExpectationTemplate, c.style),
		Location: selector,
		Style:    observed,
		Severity: model.Convention,
		Correction: &model.Correction{
			Range:       selector,
			Replacement: string(c.style),
		},
	}
}

var _ Cop = (*MessageExpectation)(nil)
