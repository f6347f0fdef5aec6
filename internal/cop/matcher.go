package cop

import (
	"github.com/phobologic/msgexpect/internal/model"
	"github.com/phobologic/msgexpect/internal/syntax"
)

var expectationVerbs = map[string]model.Style{
	string(model.StyleReceive):      model.StyleReceive,
	string(model.StyleHaveReceived): model.StyleHaveReceived,
}

// MatchMessageExpectation reports whether n has the shape
//
//	expect(...).to receive(...)
//	expect(...).to have_received(...)
//
// and returns the verb call. Both expect and the verb must be called without
// a receiver and without a block, and .to must take exactly one argument.
func MatchMessageExpectation(n *syntax.Node) (*syntax.Node, bool) {
	if n == nil || n.Kind != syntax.KindCall {
		return nil, false
	}
	if n.Method != "to" || n.SafeNav || len(n.Args) != 1 {
		return nil, false
	}

	expect := n.Receiver
	if !expect.IsReceiverlessCall() || expect.Name() != "expect" {
		return nil, false
	}

	verb := n.Args[0]
	if !verb.IsReceiverlessCall() {
		return nil, false
	}
	if _, ok := expectationVerbs[verb.Name()]; !ok {
		return nil, false
	}
	return verb, true
}

// verbStyle returns the style spelled by a matched verb call.
func verbStyle(verb *syntax.Node) model.Style {
	return expectationVerbs[verb.Name()]
}
