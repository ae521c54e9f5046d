package hdrgen

// ApplyAttachPrecedingComments moves comments that immediately
// precede a declaration into that declaration's preceding-comment
// list.  A blank-line run breaks the association, so a comment
// followed by empty lines stays a standalone child.  Runs before any
// pass that renames or moves declarations.
func ApplyAttachPrecedingComments(root Node) error {
	Inspect(root, func(n Node) bool {
		for _, list := range writableChildLists(n) {
			if list.name == "preComments" {
				continue
			}
			list.set(attachRun(n, list.get()))
		}
		return true
	})
	return nil
}

func attachRun(parent Node, children []Node) []Node {
	var out []Node
	var pending []Node

	flush := func() {
		out = append(out, pending...)
		pending = nil
	}

	for _, c := range children {
		switch c.(type) {
		case *LineCommentNode, *BlockCommentNode:
			pending = append(pending, c)
		case *BlankLinesNode:
			flush()
			out = append(out, c)
		default:
			for _, comment := range pending {
				comment.base().parent = c
				cb := c.base()
				cb.preComments = append(cb.preComments, comment)
			}
			pending = nil
			out = append(out, c)
		}
	}
	flush()
	return out
}
