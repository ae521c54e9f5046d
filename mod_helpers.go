package hdrgen

import "strings"

// Helper-injection and annotation passes.

// ApplyAddManualHelperFunctions parses manually authored declaration
// strings and appends them to the main header.  Their implementations
// arrive through the template files, so the thunk generator skips
// them; metadata flags them is_manual_helper.
func ApplyAddManualHelperFunctions(root *HeaderFileSetNode, decls []string) error {
	headers := root.MainHeaders()
	if len(headers) == 0 || len(decls) == 0 {
		return nil
	}
	header := headers[0]
	for _, decl := range decls {
		tokens, err := LexFile(decl, "<manual helper>")
		if err != nil {
			return passErrorf("AddManualHelperFunctions", "bad declaration `%s`: %v", decl, err)
		}
		p := NewParser(tokens)
		fn, err := p.tryParseFunction(nil)
		if err != nil {
			return passErrorf("AddManualHelperFunctions", "bad declaration `%s`: %v", decl, err)
		}
		fn.IsManualHelper = true
		AddChild(header, fn)
	}
	return nil
}

// ApplyAddImStrHelpers synthesises, for every function taking the
// library's string-view type, a sibling accepting a plain
// const char* instead; the original is flagged so metadata consumers
// can pick either surface.
func ApplyAddImStrHelpers(root Node) error {
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if fn.IsImstrHelper || fn.IsManualHelper {
			continue
		}
		hasImStr := false
		for _, a := range fn.Arguments {
			if t, ok := a.ArgType.(*TypeNode); ok && t.PrimaryTypeName() == "ImStr" {
				hasImStr = true
				break
			}
		}
		if !hasImStr {
			continue
		}
		fn.HasImstrHelper = true

		helper := fn.Clone().(*FunctionDeclNode)
		helper.Name = fn.Name + "Str"
		helper.IsImstrHelper = true
		helper.HasImstrHelper = false
		for _, a := range helper.Arguments {
			if t, ok := a.ArgType.(*TypeNode); ok && t.PrimaryTypeName() == "ImStr" {
				nt := NewTypeNodeFromString("const char*")
				nt.base().parent = a
				a.ArgType = nt
			}
		}
		InsertAfter(fn, helper)
	}
	return nil
}

// ApplyAddDefines synthesises extra #define directives at the top of
// the main header, in front of its first top-level declaration.  When
// the header body sits inside an include guard, that declaration is
// the guard's #ifndef, so the defines land before the guard rather
// than inside it.
func ApplyAddDefines(root *HeaderFileSetNode, defines []StringPair) error {
	headers := root.MainHeaders()
	if len(headers) == 0 || len(defines) == 0 {
		return nil
	}
	header := headers[0]
	anchor := firstDeclaration(header)
	var nodes []Node
	for _, d := range defines {
		tokens, err := LexFile(d.Second, "<define>")
		if err != nil {
			return passErrorf("AddDefines", "bad define value `%s`: %v", d.Second, err)
		}
		def := NewDefineNode(d.First, tokens...)
		def.ExcludeFromMetadata = true
		nodes = append(nodes, def)
	}
	if anchor != nil {
		InsertBefore(anchor, nodes...)
	} else {
		AddChildren(header, nodes...)
	}
	return nil
}

// ApplyAddHeaderBanner prepends a comment banner to every emitted
// header.
func ApplyAddHeaderBanner(root *HeaderFileSetNode, lines []string) error {
	for _, header := range root.MainHeaders() {
		var nodes []Node
		for _, l := range lines {
			nodes = append(nodes, NewLineCommentNode("// "+l))
		}
		nodes = append(nodes, NewBlankLinesNode(1))
		hb := header.base()
		for _, n := range nodes {
			n.base().parent = header
		}
		hb.children = append(nodes, hb.children...)
	}
	return nil
}

// ApplyChangeIncludes rewrites include paths, for backend headers
// whose imgui include must point at the generated C header instead.
func ApplyChangeIncludes(root Node, remap map[string]string) error {
	for _, inc := range FindAll[*IncludeNode](root) {
		if to, ok := remap[inc.Path]; ok {
			inc.Path = to
		}
	}
	return nil
}

// firstDeclaration returns the first child that is not a comment,
// blank run, pragma, include or define.
func firstDeclaration(header *HeaderFileNode) Node {
	for _, c := range header.Children() {
		switch c.(type) {
		case *LineCommentNode, *BlockCommentNode, *BlankLinesNode, *PragmaNode, *IncludeNode, *DefineNode:
			continue
		}
		return c
	}
	return nil
}

// detectIncludeGuard returns the macro name of the header's include
// guard (a leading #ifndef whose body defines that same name), or ""
// when there is none.  The metadata generator uses it to leave the
// guard out of reported conditionals, and the extern "C" pass to find
// the guard it wraps inside.
func detectIncludeGuard(header *HeaderFileNode) string {
	for _, c := range header.Children() {
		switch v := c.(type) {
		case *LineCommentNode, *BlockCommentNode, *BlankLinesNode, *PragmaNode:
			continue
		case *ConditionalNode:
			if v.Directive != "ifndef" {
				return ""
			}
			guard := v.ExpressionString()
			for _, gc := range v.Children() {
				if d, ok := gc.(*DefineNode); ok && d.Name == guard {
					return guard
				}
			}
			return ""
		default:
			return ""
		}
	}
	return ""
}

// sanitizeName is a final hygiene check over emitted names.
func sanitizeName(name string) string {
	return sanitizeIdentifier(strings.TrimSpace(name))
}
