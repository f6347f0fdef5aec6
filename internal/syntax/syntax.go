// Package syntax defines the immutable tree that cops inspect.
//
// Nodes are a small tagged union: calls, identifiers, argument lists and an
// opaque variant for everything else. Trees are built once from a tree-sitter
// parse (see FromTree) and are read-only afterwards.
package syntax

// Kind tags the variant a Node holds.
type Kind int

const (
	KindOther Kind = iota
	KindCall
	KindIdent
	KindArgs
)

func (k Kind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindIdent:
		return "identifier"
	case KindArgs:
		return "argument_list"
	}
	return "other"
}

// Position is a location in source. Line is 1-based, Column is a 0-based byte
// column.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Range is a half-open byte span [Start.Offset, End.Offset).
type Range struct {
	Start Position
	End   Position
}

// Len returns the number of bytes the range covers.
func (r Range) Len() int {
	return r.End.Offset - r.Start.Offset
}

// Node is a syntax tree node.
//
// Receiver, Method, Selector, Args, Block and SafeNav are only meaningful for
// KindCall. Text is only meaningful for KindIdent.
type Node struct {
	Kind  Kind
	Type  string // grammar node type, e.g. "call", "simple_symbol"
	Range Range

	Receiver *Node
	Method   string
	Selector Range
	Args     []*Node
	Block    *Node
	SafeNav  bool

	Text string

	Children []*Node
}

// Name returns the called method name for a call or the identifier text.
func (n *Node) Name() string {
	switch n.Kind {
	case KindCall:
		return n.Method
	case KindIdent:
		return n.Text
	}
	return ""
}

// SelectorRange returns the range of the method-name token for a call, or
// the whole identifier.
func (n *Node) SelectorRange() Range {
	if n.Kind == KindCall {
		return n.Selector
	}
	return n.Range
}

// IsReceiverlessCall reports whether n is a call without an explicit receiver
// and without an attached block. A bare identifier counts: Ruby treats it as a
// zero-argument method call unless it names a local variable.
func (n *Node) IsReceiverlessCall() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindIdent:
		return true
	case KindCall:
		return n.Receiver == nil && n.Block == nil
	}
	return false
}

// Inspect traverses the tree rooted at n in document order. If f returns
// false, the children of that node are skipped.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range n.Children {
		Inspect(c, f)
	}
}
