package hdrgen

// NodeVisitor is the exhaustive visitor over every HAST node kind.
type NodeVisitor interface {
	VisitHeaderFileSetNode(*HeaderFileSetNode) error
	VisitHeaderFileNode(*HeaderFileNode) error
	VisitNamespaceNode(*NamespaceNode) error
	VisitStructNode(*StructNode) error
	VisitEnumNode(*EnumNode) error
	VisitEnumElementNode(*EnumElementNode) error
	VisitTypedefNode(*TypedefNode) error
	VisitFieldDeclNode(*FieldDeclNode) error
	VisitFunctionDeclNode(*FunctionDeclNode) error
	VisitFunctionArgumentNode(*FunctionArgumentNode) error
	VisitFunctionPointerTypeNode(*FunctionPointerTypeNode) error
	VisitTypeNode(*TypeNode) error
	VisitTemplateNode(*TemplateNode) error
	VisitExternCNode(*ExternCNode) error
	VisitCodeBlockNode(*CodeBlockNode) error
	VisitDefineNode(*DefineNode) error
	VisitUndefNode(*UndefNode) error
	VisitIncludeNode(*IncludeNode) error
	VisitPragmaNode(*PragmaNode) error
	VisitErrorDirectiveNode(*ErrorDirectiveNode) error
	VisitConditionalNode(*ConditionalNode) error
	VisitBlankLinesNode(*BlankLinesNode) error
	VisitLineCommentNode(*LineCommentNode) error
	VisitBlockCommentNode(*BlockCommentNode) error
	VisitUnparsableNode(*UnparsableNode) error
}

// allChildLists enumerates every child list of n for read-only
// traversal, including synthesised views over typed lists (arguments,
// type children, else-branch, attached comment).
func allChildLists(n Node) [][]Node {
	var lists [][]Node
	b := n.base()
	if len(b.preComments) > 0 {
		lists = append(lists, b.preComments)
	}
	if len(b.children) > 0 {
		lists = append(lists, b.children)
	}
	switch v := n.(type) {
	case *EnumNode:
		if v.StorageType != nil {
			lists = append(lists, []Node{v.StorageType})
		}
	case *TypedefNode:
		if v.Type != nil {
			lists = append(lists, []Node{v.Type})
		}
	case *FieldDeclNode:
		if v.FieldType != nil {
			lists = append(lists, []Node{v.FieldType})
		}
	case *FunctionDeclNode:
		var extra []Node
		if v.ReturnType != nil {
			extra = append(extra, v.ReturnType)
		}
		for _, a := range v.Arguments {
			extra = append(extra, a)
		}
		if v.Body != nil {
			extra = append(extra, v.Body)
		}
		if len(extra) > 0 {
			lists = append(lists, extra)
		}
	case *FunctionArgumentNode:
		if v.ArgType != nil {
			lists = append(lists, []Node{v.ArgType})
		}
	case *FunctionPointerTypeNode:
		var extra []Node
		if v.ReturnType != nil {
			extra = append(extra, v.ReturnType)
		}
		for _, a := range v.Arguments {
			extra = append(extra, a)
		}
		if len(extra) > 0 {
			lists = append(lists, extra)
		}
	case *ConditionalNode:
		if len(v.ElseChildren) > 0 {
			lists = append(lists, v.ElseChildren)
		}
	}
	if b.attached != nil {
		lists = append(lists, []Node{b.attached})
	}
	return lists
}

// Inspect traverses the HAST in depth-first order, calling f for each
// node.  If f returns false the node's children are skipped.
//
// This is the lightweight companion to the full visitor: modifiers
// that only care about one or two node kinds use Inspect with a type
// switch instead of implementing all of NodeVisitor.
func Inspect(node Node, f func(Node) bool) {
	if node == nil {
		return
	}
	if !f(node) {
		return
	}
	for _, list := range allChildLists(node) {
		for _, c := range list {
			Inspect(c, f)
		}
	}
}

// FindAll collects every node of type T reachable from root,
// depth-first, source order.
func FindAll[T Node](root Node) []T {
	var out []T
	Inspect(root, func(n Node) bool {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
		return true
	})
	return out
}
