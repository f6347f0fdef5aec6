package cop

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phobologic/msgexpect/internal/syntax"
)

func TestMatchMessageExpectation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{"receive", "expect(foo).to receive(:bar)", []string{"receive"}},
		{"have_received", "expect(foo).to have_received(:bar)", []string{"have_received"}},
		{"parenthesized to", "expect(foo).to(receive(:bar))", []string{"receive"}},
		{"no parens on verb", "expect(foo).to receive :bar", []string{"receive"}},
		{"verb without arguments", "expect(foo).to have_received", []string{"have_received"}},
		{"verb with several arguments", "expect(foo).to receive(:bar, :baz)", []string{"receive"}},
		{"expect without arguments", "expect.to receive(:bar)", []string{"receive"}},
		{"nested in example", "it 'x' do\n  expect(foo).to receive(:bar)\nend\n", []string{"receive"}},
		{"do block on to", "expect(foo).to receive(:bar) do |x|\n  x\nend\n", []string{"receive"}},
		{"several in order", "expect(a).to receive(:x)\nexpect(b).to have_received(:y)\n", []string{"receive", "have_received"}},

		{"bare receive", "receive(:bar)", nil},
		{"allow", "allow(foo).to receive(:bar)", nil},
		{"other verb", "expect(foo).to eq(:bar)", nil},
		{"not_to", "expect(foo).not_to receive(:bar)", nil},
		{"to_not", "expect(foo).to_not have_received(:bar)", nil},
		{"receiver on expect", "self.expect(foo).to receive(:bar)", nil},
		{"receiver on verb", "expect(foo).to helper.receive(:bar)", nil},
		{"chained verb", "expect(foo).to receive(:bar).with(1)", nil},
		{"verb with brace block", "expect(foo).to receive(:bar) { 1 }", nil},
		{"expect with block", "expect { run }.to receive(:bar)", nil},
		{"safe navigation", "expect(foo)&.to receive(:bar)", nil},
		{"two arguments to to", "expect(foo).to receive(:bar), 'message'", nil},
		{"similar verb name", "expect(foo).to received(:bar)", nil},
		{"local helper named receive", "def receive(x)\n  x\nend\nreceive(:bar)\n", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := matches(t, tt.source)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("matches mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatchMessageExpectationHandBuilt(t *testing.T) {
	t.Parallel()

	call := func(recv *syntax.Node, method string, args ...*syntax.Node) *syntax.Node {
		return &syntax.Node{Kind: syntax.KindCall, Type: "call", Receiver: recv, Method: method, Args: args}
	}
	ident := func(name string) *syntax.Node {
		return &syntax.Node{Kind: syntax.KindIdent, Type: "identifier", Text: name}
	}
	sym := &syntax.Node{Kind: syntax.KindOther, Type: "simple_symbol"}

	verb := call(nil, "have_received", sym)
	n := call(call(nil, "expect", ident("foo")), "to", verb)

	got, ok := MatchMessageExpectation(n)
	if !ok {
		t.Fatal("expected match")
	}
	if got != verb {
		t.Errorf("returned node = %+v, want the verb call", got)
	}

	if _, ok := MatchMessageExpectation(nil); ok {
		t.Error("nil node should not match")
	}
	if _, ok := MatchMessageExpectation(verb); ok {
		t.Error("verb alone should not match")
	}
	if _, ok := MatchMessageExpectation(call(nil, "to", verb)); ok {
		t.Error("to without receiver should not match")
	}
	if _, ok := MatchMessageExpectation(call(sym, "to", verb)); ok {
		t.Error("to on a non-call receiver should not match")
	}
	if _, ok := MatchMessageExpectation(call(ident("expect"), "to", ident("receive"))); !ok {
		t.Error("bare identifiers should match as receiver-less calls")
	}
}
