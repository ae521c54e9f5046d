package hdrgen

// ApplyWrapInExternC wraps each emitted header's declarations in a
// `__cplusplus`-guarded extern "C" block, leaving leading comments,
// pragmas, includes and the include guard outside the wrapper.
func ApplyWrapInExternC(root *HeaderFileSetNode) error {
	for _, header := range root.MainHeaders() {
		wrapScopeInExternC(header)
	}
	return nil
}

func wrapScopeInExternC(header *HeaderFileNode) {
	hb := header.base()

	// When the whole header sits inside an include guard, wrap the
	// guard's contents instead.
	if guard := detectIncludeGuard(header); guard != "" {
		for _, c := range header.Children() {
			if cond, ok := c.(*ConditionalNode); ok && cond.ExpressionString() == guard {
				wrapChildrenInExternC(cond)
				return
			}
		}
	}

	wrapped := splitWrappable(hb.children)
	if wrapped == nil {
		return
	}
	ec := NewExternCNode(true)
	for _, c := range wrapped.inner {
		c.base().parent = ec
	}
	ec.base().children = wrapped.inner
	ec.base().parent = header
	hb.children = append(append(wrapped.prefix, Node(ec)), wrapped.suffix...)
}

func wrapChildrenInExternC(cond *ConditionalNode) {
	cb := cond.base()
	wrapped := splitWrappable(cb.children)
	if wrapped == nil {
		return
	}
	ec := NewExternCNode(true)
	for _, c := range wrapped.inner {
		c.base().parent = ec
	}
	ec.base().children = wrapped.inner
	ec.base().parent = cond
	cb.children = append(append(wrapped.prefix, Node(ec)), wrapped.suffix...)
}

type wrapSplit struct {
	prefix []Node
	inner  []Node
	suffix []Node
}

// splitWrappable separates leading prolog nodes (comments, blank
// runs, pragmas, includes, defines) from the declarations that need C
// linkage.  Returns nil when there is nothing to wrap.
func splitWrappable(children []Node) *wrapSplit {
	start := 0
scan:
	for start < len(children) {
		switch children[start].(type) {
		case *LineCommentNode, *BlockCommentNode, *BlankLinesNode,
			*PragmaNode, *IncludeNode, *DefineNode, *UndefNode:
			start++
		default:
			break scan
		}
	}
	if start == len(children) {
		return nil
	}
	return &wrapSplit{
		prefix: append([]Node(nil), children[:start]...),
		inner:  append([]Node(nil), children[start:]...),
	}
}
