package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// FromTree converts a tree-sitter Ruby tree into a syntax tree.
// Anonymous tokens and comments are dropped; comments are collected
// separately by the parse package.
func FromTree(root *sitter.Node, source []byte) *Node {
	if root == nil {
		return nil
	}
	return convert(root, source)
}

func convert(n *sitter.Node, source []byte) *Node {
	switch n.Type() {
	case "call", "method_call":
		return convertCall(n, source)
	case "identifier":
		return &Node{
			Kind:  KindIdent,
			Type:  n.Type(),
			Range: nodeRange(n),
			Text:  n.Content(source),
		}
	case "argument_list":
		out := &Node{Kind: KindArgs, Type: n.Type(), Range: nodeRange(n)}
		out.Children = convertNamedChildren(n, source)
		return out
	}

	out := &Node{Kind: KindOther, Type: n.Type(), Range: nodeRange(n)}
	out.Children = convertNamedChildren(n, source)
	return out
}

func convertCall(n *sitter.Node, source []byte) *Node {
	out := &Node{Kind: KindCall, Type: "call", Range: nodeRange(n)}

	receiver := n.ChildByFieldName("receiver")
	method := n.ChildByFieldName("method")
	operator := n.ChildByFieldName("operator")

	// Older grammars nest `recv.name` inside method_call's method field.
	if method != nil && method.Type() == "call" && n.Type() == "method_call" {
		receiver = method.ChildByFieldName("receiver")
		operator = method.ChildByFieldName("operator")
		method = method.ChildByFieldName("method")
	}

	if receiver != nil {
		out.Receiver = convert(receiver, source)
		out.Children = append(out.Children, out.Receiver)
	}
	if operator != nil && operator.Type() == "&." {
		out.SafeNav = true
	}
	if method != nil {
		out.Method = method.Content(source)
		out.Selector = nodeRange(method)
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		an := convert(args, source)
		out.Args = an.Children
		out.Children = append(out.Children, an)
	}
	if block := n.ChildByFieldName("block"); block != nil {
		out.Block = convert(block, source)
		out.Children = append(out.Children, out.Block)
	}
	return out
}

func convertNamedChildren(n *sitter.Node, source []byte) []*Node {
	count := int(n.NamedChildCount())
	if count == 0 {
		return nil
	}
	children := make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		children = append(children, convert(c, source))
	}
	return children
}

func nodeRange(n *sitter.Node) Range {
	sp, ep := n.StartPoint(), n.EndPoint()
	return Range{
		Start: Position{Offset: int(n.StartByte()), Line: int(sp.Row) + 1, Column: int(sp.Column)},
		End:   Position{Offset: int(n.EndByte()), Line: int(ep.Row) + 1, Column: int(ep.Column)},
	}
}
