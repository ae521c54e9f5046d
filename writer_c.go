package hdrgen

import "strings"

// The C writer: every node variant knows how to serialise itself.
// Preceding comments come first (skipped in implementation mode),
// then the node's own form, then the attached trailing comment on the
// same line.

// WriteC serialises the tree rooted at n and returns the text.
func WriteC(n Node, ctx *WriteContext) string {
	w := newCodeWriter("    ")
	n.writeC(w, ctx)
	return w.output()
}

func writePreComments(n Node, w *codeWriter, ctx *WriteContext) {
	if ctx.ForImplementation {
		return
	}
	for _, c := range n.base().preComments {
		c.writeC(w, ctx)
	}
}

func writeAttached(n Node, w *codeWriter, ctx *WriteContext) {
	if ctx.ForImplementation {
		return
	}
	a := n.base().attached
	if a == nil {
		return
	}
	if a.commentColumn > 0 {
		w.padToColumn(a.commentColumn)
	} else {
		w.write(" ")
	}
	w.write(a.Text)
}

// typeTokensString renders a type token run, honoring the rewrite
// markers carried on pointer tokens.
func typeTokensString(tokens []Token, ctx *WriteContext) string {
	out := ""
	for i, t := range tokens {
		v := t.Value
		if t.Kind == TokenAsterisk {
			if ctx.EmitConvertedReferencesAsReferences && t.WasReference {
				v = "&"
			} else if ctx.MarkNonNullablePointers && t.NonNullable {
				v = "^"
			}
		}
		if v == "" {
			continue
		}
		if i > 0 && out != "" && needsSpaceBetween(tokens[i-1], t) {
			out += " "
		}
		out += v
	}
	return out
}

// typeText renders a TypeNode or FunctionPointerTypeNode as it
// appears left of a declarator name.  Function pointer types render
// whole (declarator included) and return true.
func typeText(typ Node, ctx *WriteContext) (string, bool) {
	switch t := typ.(type) {
	case *TypeNode:
		return typeTokensString(t.Tokens(), ctx), false
	case *FunctionPointerTypeNode:
		return functionPointerText(t, ctx), true
	}
	return "", false
}

func functionPointerText(t *FunctionPointerTypeNode, ctx *WriteContext) string {
	ret := typeTokensString(t.ReturnType.Tokens(), ctx)
	args := argumentListText(t.Arguments, ctx)
	return ret + " (*" + t.Name + ")(" + args + ")"
}

func argumentListText(args []*FunctionArgumentNode, ctx *WriteContext) string {
	if len(args) == 0 && ctx.ForC {
		return "void"
	}
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if a.IsImplicitDefault {
			continue
		}
		parts = append(parts, argumentText(a, ctx))
	}
	if len(parts) == 0 && ctx.ForC {
		return "void"
	}
	return strings.Join(parts, ", ")
}

func argumentText(a *FunctionArgumentNode, ctx *WriteContext) string {
	if a.IsVarargs {
		return "..."
	}
	text, whole := typeText(a.ArgType, ctx)
	if !whole && a.Name != "" {
		text += " " + a.Name
	}
	for _, b := range a.ArrayBounds {
		text += "[" + b + "]"
	}
	if a.HasDefaultValue() && !ctx.ForC && !ctx.ForImplementation {
		text += " = " + a.DefaultValueString()
	}
	return text
}

// ---- Roots ----

func (n *HeaderFileSetNode) writeC(w *codeWriter, ctx *WriteContext) {
	for _, c := range n.Children() {
		c.writeC(w, ctx)
	}
}

func (n *HeaderFileNode) writeC(w *codeWriter, ctx *WriteContext) {
	for _, c := range n.Children() {
		c.writeC(w, ctx)
	}
}

func (n *NamespaceNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	nodeIndent(w, ctx)
	w.write("namespace " + n.Name)
	endLine(w, ctx)
	w.writeil("{")
	for _, c := range n.Children() {
		c.writeC(w, ctx)
	}
	w.writeil("}")
}

// ---- Struct / class / union ----

// typedefTag is the underlying struct tag in C mode; `_t` unless the
// struct keeps its unmodified name (foreign handle types).
func (n *StructNode) typedefTag() string {
	if n.UseUnmodifiedNameForTypedef {
		return n.Name
	}
	return n.Name + "_t"
}

func (n *StructNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)

	if n.IsForwardDeclaration {
		n.writeForwardDeclaration(w, ctx)
		return
	}

	restoreSuppress := false
	if n.SingleLineDefinition && !ctx.SuppressNewlines {
		nodeIndent(w, ctx)
		ctx.SuppressNewlines = true
		restoreSuppress = true
	}

	if ctx.ForC && !n.IsAnonymous {
		useTypedef := !n.HasForwardDeclaration
		nodeIndent(w, ctx)
		if useTypedef {
			w.write("typedef " + n.Kind + " " + n.typedefTag())
		} else {
			w.write(n.Kind + " " + n.typedefTag())
		}
		endLine(w, ctx)
		n.writeBody(w, ctx)
		nodeIndent(w, ctx)
		if useTypedef {
			w.write("} " + n.Name + ";")
		} else {
			w.write("};")
		}
	} else {
		nodeIndent(w, ctx)
		kind := n.Kind
		if ctx.ForC && kind == "class" {
			kind = "struct"
		}
		w.write(kind)
		if n.Name != "" {
			w.write(" " + n.Name)
		}
		if len(n.BaseClasses) > 0 && !ctx.ForC {
			w.write(" : " + strings.Join(n.BaseClasses, ", "))
		}
		endLine(w, ctx)
		n.writeBody(w, ctx)
		nodeIndent(w, ctx)
		w.write("};")
	}
	writeAttached(n, w, ctx)
	if restoreSuppress {
		ctx.SuppressNewlines = false
	}
	w.write("\n")
}

func (n *StructNode) writeBody(w *codeWriter, ctx *WriteContext) {
	nodeIndent(w, ctx)
	w.write("{")
	endLine(w, ctx)
	w.indent()
	for _, c := range n.Children() {
		c.writeC(w, ctx)
	}
	w.unindent()
}

func (n *StructNode) writeForwardDeclaration(w *codeWriter, ctx *WriteContext) {
	if !ctx.ForC {
		nodeIndent(w, ctx)
		w.write(n.Kind + " " + n.Name + ";")
		writeAttached(n, w, ctx)
		endLine(w, ctx)
		return
	}
	// The C++-compatible form and the typedef-style form, so the
	// header compiles in both languages and stays idempotent.
	w.writel("#ifdef __cplusplus")
	kind := n.Kind
	if kind == "class" {
		kind = "struct"
	}
	if n.UseUnmodifiedNameForTypedef {
		w.writel(kind + " " + n.Name + ";")
	} else {
		w.writel("typedef " + kind + " " + n.Name + " " + n.Name + ";")
	}
	w.writel("#else")
	w.writel("typedef " + kind + " " + n.typedefTag() + " " + n.Name + ";")
	w.writel("#endif")
}

// ---- Enum ----

func (n *EnumNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	nodeIndent(w, ctx)
	if ctx.ForC {
		if n.Name != "" {
			w.write("typedef enum")
		} else {
			w.write("enum")
		}
	} else {
		w.write("enum")
		if n.IsEnumClass {
			w.write(" class")
		}
		if n.Name != "" {
			w.write(" " + n.Name)
		}
		if n.StorageType != nil {
			w.write(" : " + typeTokensString(n.StorageType.Tokens(), ctx))
		}
	}
	endLine(w, ctx)
	nodeIndent(w, ctx)
	w.write("{")
	endLine(w, ctx)
	w.indent()
	for _, c := range n.Children() {
		c.writeC(w, ctx)
	}
	w.unindent()
	nodeIndent(w, ctx)
	if ctx.ForC && n.Name != "" {
		w.write("} " + n.Name + ";")
	} else {
		w.write("};")
	}
	writeAttached(n, w, ctx)
	w.write("\n")
}

func (n *EnumElementNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	nodeIndent(w, ctx)
	w.write(n.Name)
	if len(n.ValueTokens) > 0 {
		if n.valueColumn > 0 {
			w.padToColumn(n.valueColumn)
		} else {
			w.write(" ")
		}
		w.write("= " + tokensToString(n.ValueTokens))
	}
	w.write(",")
	writeAttached(n, w, ctx)
	endLine(w, ctx)
}

// ---- Typedef ----

func (n *TypedefNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	nodeIndent(w, ctx)
	text, whole := typeText(n.Type, ctx)
	if whole {
		w.write("typedef " + text + ";")
	} else {
		w.write("typedef " + text + " " + n.Name + ";")
	}
	writeAttached(n, w, ctx)
	endLine(w, ctx)
}

// ---- Field ----

func (n *FieldDeclNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	nodeIndent(w, ctx)

	// A nested struct as the field type renders inline.
	if inner, ok := n.FieldType.(*StructNode); ok {
		sub := *ctx
		sub.SuppressNewlines = true
		inner.writeCInline(w, &sub)
		if len(n.Names) > 0 {
			w.write(" " + n.Names[0].Name)
		}
		w.write(";")
		writeAttached(n, w, ctx)
		endLine(w, ctx)
		return
	}

	if n.IsStatic && !ctx.ForC {
		w.write("static ")
	}
	if n.IsExtern && !ctx.ForC {
		w.write("extern ")
	}
	text, whole := typeText(n.FieldType, ctx)
	w.write(text)
	if !whole {
		if n.nameColumn > 0 {
			w.padToColumn(n.nameColumn)
		} else {
			w.write(" ")
		}
		names := make([]string, 0, len(n.Names))
		for _, fn := range n.Names {
			s := fn.Name
			for _, b := range fn.ArrayBounds {
				s += "[" + b + "]"
			}
			if fn.BitfieldWidth != "" {
				s += " : " + fn.BitfieldWidth
			}
			names = append(names, s)
		}
		w.write(strings.Join(names, ", "))
	}
	w.write(";")
	writeAttached(n, w, ctx)
	endLine(w, ctx)
}

// writeCInline renders a struct without the trailing newline, for
// `struct { ... } member;` fields.
func (n *StructNode) writeCInline(w *codeWriter, ctx *WriteContext) {
	w.write(n.Kind)
	if n.Name != "" && !n.IsAnonymous {
		w.write(" " + n.Name)
	}
	w.write(" {")
	endLine(w, ctx)
	for _, c := range n.Children() {
		c.writeC(w, ctx)
	}
	w.write("}")
}

// ---- Function ----

func (n *FunctionDeclNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	nodeIndent(w, ctx)

	if n.IsStatic && !ctx.ForImplementation && !ctx.ForC && n.OriginalClass == nil {
		w.write("static ")
	}
	if n.IsInline && n.Body != nil && !ctx.ForImplementation {
		w.write("inline ")
	}
	if n.ReturnType != nil {
		text, _ := typeText(n.ReturnType, ctx)
		w.write(text)
		if n.nameColumn > 0 {
			w.padToColumn(n.nameColumn)
		} else {
			w.write(" ")
		}
	}
	w.write(n.Name)
	w.write("(" + argumentListText(n.Arguments, ctx) + ")")
	if n.IsConst && !ctx.ForC {
		w.write(" const")
	}
	if !ctx.ForImplementation {
		for _, a := range n.Attributes {
			w.write(" " + a)
		}
	}

	if ctx.ForImplementation {
		return
	}
	if n.Body != nil {
		writeAttached(n, w, ctx)
		endLine(w, ctx)
		writeTokensVerbatim(n.Body.Tokens(), w, ctx)
		endLine(w, ctx)
		return
	}
	w.write(";")
	writeAttached(n, w, ctx)
	endLine(w, ctx)
}

func (n *FunctionArgumentNode) writeC(w *codeWriter, ctx *WriteContext) {
	w.write(argumentText(n, ctx))
}

func (n *FunctionPointerTypeNode) writeC(w *codeWriter, ctx *WriteContext) {
	w.write(functionPointerText(n, ctx))
}

// ---- Type ----

func (n *TypeNode) writeC(w *codeWriter, ctx *WriteContext) {
	w.write(typeTokensString(n.Tokens(), ctx))
}

// ---- Template ----

func (n *TemplateNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	nodeIndent(w, ctx)
	params := make([]string, len(n.Parameters))
	for i, p := range n.Parameters {
		params[i] = "typename " + p
	}
	w.write("template<" + strings.Join(params, ", ") + ">")
	endLine(w, ctx)
	for _, c := range n.Children() {
		c.writeC(w, ctx)
	}
}

// ---- Extern "C" ----

func (n *ExternCNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)

	// A block holding a single declaration degenerates to one line.
	if len(n.Children()) == 1 && !n.HasGuard {
		switch n.Children()[0].(type) {
		case *TypedefNode, *StructNode, *FunctionDeclNode:
			nodeIndent(w, ctx)
			w.write(`extern "C" `)
			ctx.SuppressIndent = true
			n.Children()[0].writeC(w, ctx)
			return
		}
	}

	if n.HasGuard {
		w.writel("#ifdef __cplusplus")
		w.writel(`extern "C" {`)
		w.writel("#endif")
	} else {
		w.writeil(`extern "C" {`)
	}
	for _, c := range n.Children() {
		c.writeC(w, ctx)
	}
	if n.HasGuard {
		w.writel("#ifdef __cplusplus")
		w.writel(`} // extern "C"`)
		w.writel("#endif")
	} else {
		w.writeil("}")
	}
}

// ---- Code block ----

func (n *CodeBlockNode) writeC(w *codeWriter, ctx *WriteContext) {
	writeTokensVerbatim(n.Tokens(), w, ctx)
	endLine(w, ctx)
}

func writeTokensVerbatim(tokens []Token, w *codeWriter, ctx *WriteContext) {
	var prev *Token
	for i := range tokens {
		t := tokens[i]
		if t.Kind == TokenNewline {
			if !ctx.SuppressNewlines {
				w.write("\n")
				w.writeIndent()
			} else {
				w.write(" ")
			}
			prev = nil
			continue
		}
		if prev != nil && needsSpaceBetween(*prev, t) {
			w.write(" ")
		}
		w.write(t.Value)
		prev = &tokens[i]
	}
}

// ---- Preprocessor ----

func (n *DefineNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	w.write("#define " + n.Name)
	if len(n.ContentTokens) > 0 {
		w.write(" " + tokensToString(n.ContentTokens))
	}
	writeAttached(n, w, ctx)
	w.write("\n")
}

func (n *UndefNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	w.write("#undef " + n.Name)
	writeAttached(n, w, ctx)
	w.write("\n")
}

func (n *IncludeNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	if n.UseAngleBrackets {
		w.write("#include <" + n.Path + ">")
	} else {
		w.write("#include \"" + n.Path + "\"")
	}
	writeAttached(n, w, ctx)
	w.write("\n")
}

func (n *PragmaNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	w.write("#pragma " + tokensToString(n.Tokens()))
	writeAttached(n, w, ctx)
	w.write("\n")
}

func (n *ErrorDirectiveNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	w.write("#error " + tokensToString(n.Tokens()))
	writeAttached(n, w, ctx)
	w.write("\n")
}

func (n *ConditionalNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	w.write("#" + n.Directive)
	if len(n.ExpressionTokens) > 0 {
		w.write(" " + n.ExpressionString())
	}
	writeAttached(n, w, ctx)
	w.write("\n")
	n.writeArms(w, ctx)
	w.writel("#endif")
}

// writeArms prints the then-branch and any else arms, re-forming an
// `#elif` when the else-branch holds exactly one converted nested
// conditional.
func (n *ConditionalNode) writeArms(w *codeWriter, ctx *WriteContext) {
	for _, c := range n.Children() {
		c.writeC(w, ctx)
	}
	if len(n.ElseChildren) == 0 {
		return
	}
	if len(n.ElseChildren) == 1 {
		if nested, ok := n.ElseChildren[0].(*ConditionalNode); ok && nested.WasElif {
			w.write("#elif " + nested.ExpressionString())
			w.write("\n")
			nested.writeArms(w, ctx)
			return
		}
	}
	w.writel("#else")
	for _, c := range n.ElseChildren {
		c.writeC(w, ctx)
	}
}

// ---- Blank lines / comments / unparsable ----

func (n *BlankLinesNode) writeC(w *codeWriter, ctx *WriteContext) {
	if ctx.SuppressNewlines {
		return
	}
	for i := 0; i < n.Count; i++ {
		w.write("\n")
	}
}

func (n *LineCommentNode) writeC(w *codeWriter, ctx *WriteContext) {
	if ctx.ForImplementation {
		return
	}
	nodeIndent(w, ctx)
	w.write(n.Text)
	endLine(w, ctx)
}

func (n *BlockCommentNode) writeC(w *codeWriter, ctx *WriteContext) {
	if ctx.ForImplementation {
		return
	}
	nodeIndent(w, ctx)
	w.write(n.Text)
	endLine(w, ctx)
}

func (n *UnparsableNode) writeC(w *codeWriter, ctx *WriteContext) {
	writePreComments(n, w, ctx)
	nodeIndent(w, ctx)
	w.write(tokensToString(n.Tokens()))
	writeAttached(n, w, ctx)
	endLine(w, ctx)
}
