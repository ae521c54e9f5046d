package hdrgen

// Cosmetic alignment passes.  They only compute padding columns; the
// writer honors them when serialising.  All of them run last in the
// pipeline.

const alignGranularity = 4

func roundUpColumn(c int) int {
	return ((c + alignGranularity) / alignGranularity) * alignGranularity
}

// ApplyAlignEnumValues aligns the `=` of enum value expressions into
// a column per enum.
func ApplyAlignEnumValues(root Node) error {
	for _, enum := range FindAll[*EnumNode](root) {
		widest := 0
		for _, el := range enum.Elements() {
			if len(el.ValueTokens) == 0 {
				continue
			}
			if w := len(el.Name); w > widest {
				widest = w
			}
		}
		if widest == 0 {
			continue
		}
		col := roundUpColumn(widest + len("    "))
		for _, el := range enum.Elements() {
			if len(el.ValueTokens) > 0 {
				el.valueColumn = col
			}
		}
	}
	return nil
}

// ApplyAlignStructFields aligns field names into a column per struct.
func ApplyAlignStructFields(root Node) error {
	ctx := &WriteContext{ForC: true}
	for _, s := range FindAll[*StructNode](root) {
		widest := 0
		fields := s.Fields()
		for _, f := range fields {
			if _, whole := typeText(f.FieldType, ctx); whole {
				continue
			}
			text, _ := typeText(f.FieldType, ctx)
			if len(text) > widest {
				widest = len(text)
			}
		}
		if widest == 0 {
			continue
		}
		col := roundUpColumn(widest + len("    ") + 1)
		for _, f := range fields {
			if _, whole := typeText(f.FieldType, ctx); whole {
				continue
			}
			f.nameColumn = col
		}
	}
	return nil
}

// ApplyAlignFunctionNames aligns function names into a column per
// header scope, matching the hand-aligned look of the source.
func ApplyAlignFunctionNames(root *HeaderFileSetNode) error {
	ctx := &WriteContext{ForC: true}
	for _, header := range root.MainHeaders() {
		widest := 0
		fns := FindAll[*FunctionDeclNode](header)
		for _, fn := range fns {
			if fn.ReturnType == nil {
				continue
			}
			text, _ := typeText(fn.ReturnType, ctx)
			if len(text) > widest {
				widest = len(text)
			}
		}
		if widest == 0 {
			continue
		}
		for _, fn := range fns {
			if fn.ReturnType != nil {
				fn.nameColumn = widest + 1
			}
		}
	}
	return nil
}

// ApplyAlignComments aligns attached end-of-line comments into a
// shared column per containing scope.
func ApplyAlignComments(root Node) error {
	ctx := &WriteContext{ForC: true}
	Inspect(root, func(n Node) bool {
		switch n.(type) {
		case *StructNode, *EnumNode, *HeaderFileNode:
		default:
			return true
		}
		widest := 0
		var attached []*LineCommentNode
		for _, c := range n.base().Children() {
			a := c.base().attached
			if a == nil {
				continue
			}
			line := lineWidthBeforeComment(c, ctx)
			if line > widest {
				widest = line
			}
			attached = append(attached, a)
		}
		if len(attached) < 2 {
			return true
		}
		col := roundUpColumn(widest + 1)
		for _, a := range attached {
			a.commentColumn = col
		}
		return true
	})
	return nil
}

// lineWidthBeforeComment estimates how wide the node's own line is,
// by rendering it alone without the comment.
func lineWidthBeforeComment(n Node, ctx *WriteContext) int {
	b := n.base()
	saved := b.attached
	b.attached = nil
	sub := *ctx
	text := WriteC(n, &sub)
	b.attached = saved
	width := 0
	for _, line := range splitLines(text) {
		if len(line) > width {
			width = len(line)
		}
	}
	return width
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
