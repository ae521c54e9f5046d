package hdrgen

// ConditionalRef is one enclosing preprocessor conditional of a node,
// together with which branch the node sits in.
type ConditionalRef struct {
	Conditional *ConditionalNode
	InElse      bool
}

// Condition returns the metadata-facing condition name: "ifdef",
// "ifndef", "if" for then-branches; the negated sense for
// else-branches ("ifndef", "ifdef", "ifnot").
func (r ConditionalRef) Condition() string {
	switch r.Conditional.Directive {
	case "ifdef":
		if r.InElse {
			return "ifndef"
		}
		return "ifdef"
	case "ifndef":
		if r.InElse {
			return "ifdef"
		}
		return "ifndef"
	default:
		if r.InElse {
			return "ifnot"
		}
		return "if"
	}
}

// EnclosingConditionals returns the preprocessor conditionals that
// contain n, outermost first.
func EnclosingConditionals(n Node) []ConditionalRef {
	var refs []ConditionalRef
	child := n
	for p := n.Parent(); p != nil; p = p.Parent() {
		if cond, ok := p.(*ConditionalNode); ok {
			inElse := false
			for _, e := range cond.ElseChildren {
				if e == child {
					inElse = true
					break
				}
			}
			refs = append(refs, ConditionalRef{Conditional: cond, InElse: inElse})
		}
		child = p
	}
	// Reverse: collected innermost first.
	for i, j := 0, len(refs)-1; i < j; i, j = i+1, j-1 {
		refs[i], refs[j] = refs[j], refs[i]
	}
	return refs
}

// contradicts reports whether the two conditional branches can never
// both be compiled in.
func contradicts(a, b ConditionalRef) bool {
	if a.Conditional == b.Conditional {
		return a.InElse != b.InElse
	}
	if a.Conditional.ExpressionString() != b.Conditional.ExpressionString() {
		return false
	}
	aNeg := a.InElse != (a.Conditional.Directive == "ifndef")
	bNeg := b.InElse != (b.Conditional.Directive == "ifndef")
	if a.Conditional.Directive == "if" || b.Conditional.Directive == "if" {
		// Same expression text: #if E vs the else of #if E.
		if a.Conditional.Directive != b.Conditional.Directive {
			return false
		}
		return a.InElse != b.InElse
	}
	return aNeg != bNeg
}

// MutuallyExclusive reports whether a and b sit under contradicting
// preprocessor branches, which means the two declarations can never
// clash at compile time.
func MutuallyExclusive(a, b Node) bool {
	condsA := EnclosingConditionals(a)
	condsB := EnclosingConditionals(b)
	for _, ca := range condsA {
		for _, cb := range condsB {
			if contradicts(ca, cb) {
				return true
			}
		}
	}
	return false
}
