package hdrgen

// ApplyRewriteContainingConditional replaces the nearest enclosing
// preprocessor conditional around the named function with a new
// directive and expression.  Used when the C surface must gate an API
// on a different symbol than the C++ header does.
func ApplyRewriteContainingConditional(root Node, functionName, directive, expression string) error {
	tokens, err := LexFile(expression, "<conditional>")
	if err != nil {
		return passErrorf("RewriteContainingConditional", "bad expression `%s`: %v", expression, err)
	}
	found := false
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if fn.Name != functionName {
			continue
		}
		conds := EnclosingConditionals(fn)
		if len(conds) == 0 {
			continue
		}
		innermost := conds[len(conds)-1].Conditional
		innermost.Directive = directive
		innermost.ExpressionTokens = append([]Token(nil), tokens...)
		innermost.WasElif = false
		found = true
	}
	if !found {
		return passErrorf("RewriteContainingConditional",
			"no conditional found around function %s", functionName)
	}
	return nil
}

// ApplyAddFormatAttributes annotates variadic format-string functions
// that lack an IM_FMTARGS marker, so downstream tooling can check
// format strings.
func ApplyAddFormatAttributes(root Node) error {
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if !fn.IsVariadic() || hasFormatAttribute(fn) {
			continue
		}
		idx := formatArgumentIndex(fn)
		if idx < 0 {
			continue
		}
		fn.Attributes = append(fn.Attributes, formatAttributeFor(fn, idx))
	}
	return nil
}

func formatAttributeFor(fn *FunctionDeclNode, fmtIndex int) string {
	// The attribute argument is the 1-based position of the format
	// string.
	n := fmtIndex + 1
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return "IM_FMTARGS(" + digits + ")"
}
