package hdrgen

import "fmt"

// Tree edit helpers.  These are the only operations allowed to change
// parent/child relationships; every one maintains the invariant that
// a node in a child list of p has parent p, and that a node belongs
// to at most one parent.

// writableChildList is one mutable child list of a node: a name for
// diagnostics, plus get/set accessors over the backing slice.
type writableChildList struct {
	name string
	get  func() []Node
	set  func([]Node)
}

// writableChildLists enumerates the lists of n that tree mutators may
// insert into.  Typed lists (function arguments) are excluded; they
// have their own dedicated helpers.
func writableChildLists(n Node) []writableChildList {
	b := n.base()
	lists := []writableChildList{
		{
			name: "children",
			get:  func() []Node { return b.children },
			set:  func(l []Node) { b.children = l },
		},
		{
			name: "preComments",
			get:  func() []Node { return b.preComments },
			set:  func(l []Node) { b.preComments = l },
		},
	}
	if c, ok := n.(*ConditionalNode); ok {
		lists = append(lists, writableChildList{
			name: "elseChildren",
			get:  func() []Node { return c.ElseChildren },
			set:  func(l []Node) { c.ElseChildren = l },
		})
	}
	return lists
}

// AddChild appends child to p's primary child list.
func AddChild(p, child Node) {
	child.base().parent = p
	pb := p.base()
	pb.children = append(pb.children, child)
}

// AddChildren appends every child in order.
func AddChildren(p Node, children ...Node) {
	for _, c := range children {
		AddChild(p, c)
	}
}

// AddPreComment appends comment to n's preceding-comment list.
func AddPreComment(n, comment Node) {
	comment.base().parent = n
	nb := n.base()
	nb.preComments = append(nb.preComments, comment)
}

// SetAttachedComment attaches the trailing same-line comment.
func SetAttachedComment(n Node, comment *LineCommentNode) {
	if comment != nil {
		comment.base().parent = n
	}
	n.base().attached = comment
}

// findInLists locates child within p's writable lists.
func findInLists(p, child Node) (writableChildList, int, bool) {
	for _, list := range writableChildLists(p) {
		for i, c := range list.get() {
			if c == child {
				return list, i, true
			}
		}
	}
	return writableChildList{}, 0, false
}

// RemoveChild detaches child from p.  It aborts the run if child is
// not actually in one of p's child lists.
func RemoveChild(p, child Node) {
	list, i, ok := findInLists(p, child)
	if !ok {
		panic(&StructuralError{Message: fmt.Sprintf(
			"RemoveChild: %s is not a child of %s", child.describe(), p.describe())})
	}
	l := list.get()
	l = append(l[:i:i], l[i+1:]...)
	list.set(l)
	child.base().parent = nil
}

// DetachNode removes n from its parent, if it has one.
func DetachNode(n Node) {
	if p := n.Parent(); p != nil {
		RemoveChild(p, n)
	}
}

// ReplaceChild swaps old for the given replacements, in place, in
// whichever of p's child lists holds it.
func ReplaceChild(p, old Node, replacements ...Node) {
	list, i, ok := findInLists(p, old)
	if !ok {
		panic(&StructuralError{Message: fmt.Sprintf(
			"ReplaceChild: %s is not a child of %s", old.describe(), p.describe())})
	}
	l := list.get()
	out := make([]Node, 0, len(l)-1+len(replacements))
	out = append(out, l[:i]...)
	out = append(out, replacements...)
	out = append(out, l[i+1:]...)
	list.set(out)
	old.base().parent = nil
	for _, r := range replacements {
		r.base().parent = p
	}
}

// InsertBefore inserts newNodes immediately before anchor in its
// parent's child list.
func InsertBefore(anchor Node, newNodes ...Node) {
	p := anchor.Parent()
	if p == nil {
		panic(&StructuralError{Message: fmt.Sprintf(
			"InsertBefore: %s has no parent", anchor.describe())})
	}
	list, i, ok := findInLists(p, anchor)
	if !ok {
		panic(&StructuralError{Message: fmt.Sprintf(
			"InsertBefore: %s not found under %s", anchor.describe(), p.describe())})
	}
	l := list.get()
	out := make([]Node, 0, len(l)+len(newNodes))
	out = append(out, l[:i]...)
	out = append(out, newNodes...)
	out = append(out, l[i:]...)
	list.set(out)
	for _, n := range newNodes {
		n.base().parent = p
	}
}

// InsertAfter inserts newNodes immediately after anchor in its
// parent's child list.
func InsertAfter(anchor Node, newNodes ...Node) {
	p := anchor.Parent()
	if p == nil {
		panic(&StructuralError{Message: fmt.Sprintf(
			"InsertAfter: %s has no parent", anchor.describe())})
	}
	list, i, ok := findInLists(p, anchor)
	if !ok {
		panic(&StructuralError{Message: fmt.Sprintf(
			"InsertAfter: %s not found under %s", anchor.describe(), p.describe())})
	}
	l := list.get()
	out := make([]Node, 0, len(l)+len(newNodes))
	out = append(out, l[:i+1]...)
	out = append(out, newNodes...)
	out = append(out, l[i+1:]...)
	list.set(out)
	for _, n := range newNodes {
		n.base().parent = p
	}
}

// ValidateHierarchy checks the parent/child invariants over the whole
// tree and returns a StructuralError on the first violation.
func ValidateHierarchy(root Node) error {
	seen := make(map[Node]Node)
	var check func(n Node) error
	check = func(n Node) error {
		for _, list := range allChildLists(n) {
			for _, c := range list {
				if c.Parent() != n {
					return &StructuralError{Message: fmt.Sprintf(
						"%s has parent %v, expected %s",
						c.describe(), parentDesc(c), n.describe())}
				}
				if prev, dup := seen[c]; dup {
					return &StructuralError{Message: fmt.Sprintf(
						"%s reachable from both %s and %s",
						c.describe(), prev.describe(), n.describe())}
				}
				seen[c] = n
				if err := check(c); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return check(root)
}

func parentDesc(n Node) string {
	if p := n.Parent(); p != nil {
		return p.describe()
	}
	return "<nil>"
}

// SnapshotTwins deep-clones the tree rooted at root and links each
// live node to its clone as the unmodified twin.  Run once, before
// any modifier.  The clone tree is returned so the caller can keep it
// alive; the live tree never owns it.
func SnapshotTwins(root Node) Node {
	shadow := root.Clone()
	linkTwins(root, shadow)
	return shadow
}

func linkTwins(live, shadow Node) {
	live.base().twin = shadow
	liveLists := allChildLists(live)
	shadowLists := allChildLists(shadow)
	if len(liveLists) != len(shadowLists) {
		panic(&StructuralError{Message: fmt.Sprintf(
			"twin snapshot diverged at %s", live.describe())})
	}
	for i := range liveLists {
		if len(liveLists[i]) != len(shadowLists[i]) {
			panic(&StructuralError{Message: fmt.Sprintf(
				"twin snapshot diverged below %s", live.describe())})
		}
		for j := range liveLists[i] {
			linkTwins(liveLists[i][j], shadowLists[i][j])
		}
	}
}

// EnclosingHeader returns the header file containing n, or nil.
func EnclosingHeader(n Node) *HeaderFileNode {
	for p := n; p != nil; p = p.Parent() {
		if h, ok := p.(*HeaderFileNode); ok {
			return h
		}
	}
	return nil
}

// EnclosingStruct returns the nearest class/struct/union containing
// n, or nil.
func EnclosingStruct(n Node) *StructNode {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if s, ok := p.(*StructNode); ok {
			return s
		}
	}
	return nil
}
