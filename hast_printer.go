package hdrgen

import (
	"strings"

	"github.com/hdrgen/hdrgen/ascii"
)

// nodeFormatFunc decorates one line of the dump; the plain formatter
// is the identity, the themed one adds ASCII colors.
type nodeFormatFunc func(text string, n Node) string

func formatNodePlain(text string, _ Node) string { return text }

func formatNodeThemed(text string, n Node) string {
	theme := ascii.DefaultTheme
	switch n.(type) {
	case *LineCommentNode, *BlockCommentNode:
		return ascii.Color(theme.Comment, "%s", text)
	case *ConditionalNode, *DefineNode, *UndefNode, *IncludeNode, *PragmaNode, *ErrorDirectiveNode:
		return ascii.Color(theme.Operator, "%s", text)
	case *FunctionDeclNode, *FunctionPointerTypeNode:
		return ascii.Color(theme.Accent, "%s", text)
	case *StructNode, *EnumNode, *TypedefNode, *NamespaceNode, *TemplateNode:
		return ascii.Color(theme.Label, "%s", text)
	case *UnparsableNode:
		return ascii.Color(theme.Error, "%s", text)
	default:
		return text
	}
}

type hastPrinter struct {
	padStr []string
	output *strings.Builder
	format nodeFormatFunc
}

func newHastPrinter(format nodeFormatFunc) *hastPrinter {
	return &hastPrinter{
		output: &strings.Builder{},
		format: format,
	}
}

func (tp *hastPrinter) indent(s string) {
	tp.padStr = append(tp.padStr, s)
}

func (tp *hastPrinter) unindent() {
	tp.padStr = tp.padStr[:len(tp.padStr)-1]
}

func (tp *hastPrinter) padding() {
	for _, item := range tp.padStr {
		tp.output.WriteString(item)
	}
}

func (tp *hastPrinter) writeNode(n Node, isLast bool) {
	tp.padding()
	branch := "├── "
	pad := "│   "
	if isLast {
		branch = "└── "
		pad = "    "
	}
	tp.output.WriteString(branch)
	tp.output.WriteString(tp.format(n.describe(), n))
	tp.output.WriteRune('\n')

	tp.indent(pad)
	tp.writeChildren(n)
	tp.unindent()
}

func (tp *hastPrinter) writeChildren(n Node) {
	var all []Node
	for _, list := range allChildLists(n) {
		all = append(all, list...)
	}
	for i, c := range all {
		tp.writeNode(c, i == len(all)-1)
	}
}

// Dump returns the hierarchical structure of the tree rooted at n,
// one node per line, box-drawn like the AST dumps of `--ast-only`
// style debugging tools.
func Dump(n Node) string {
	tp := newHastPrinter(formatNodePlain)
	tp.output.WriteString(n.describe())
	tp.output.WriteRune('\n')
	tp.writeChildren(n)
	return strings.TrimRight(tp.output.String(), "\n")
}

// HighlightDump is Dump with ASCII colors, for interactive debugging.
func HighlightDump(n Node) string {
	tp := newHastPrinter(formatNodeThemed)
	tp.output.WriteString(formatNodeThemed(n.describe(), n))
	tp.output.WriteRune('\n')
	tp.writeChildren(n)
	return strings.TrimRight(tp.output.String(), "\n")
}
