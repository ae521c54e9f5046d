package hdrgen

import (
	"fmt"
	"strings"
)

// Node is the interface implemented by every HAST node kind.  The
// tree is built once by the parser, rewritten in place by the
// modifier pipeline, and then read by the writers.
type Node interface {
	// Parent returns the node that owns this one through one of its
	// child lists, or nil for the root.  Parent links are for
	// navigation only and never imply ownership.
	Parent() Node

	// Span returns the source region the node was parsed from.
	Span() Span

	// Accept is the entrypoint for each node into the visitor.
	Accept(NodeVisitor) error

	// Clone deep-copies the node and its children.  The clone is
	// detached (nil parent).  The unmodified-twin pointer is copied
	// shallowly, never followed.
	Clone() Node

	// writeC serialises the node in C form; see writer_c.go.
	writeC(w *codeWriter, ctx *WriteContext)

	base() *nodeBase
	describe() string
}

// nodeBase is the shared header embedded by every node kind.
type nodeBase struct {
	parent        Node
	children      []Node
	preComments   []Node
	attached      *LineCommentNode
	tokens        []Token
	twin          Node
	nameOverride  string
	accessibility string
	span          Span
}

func (b *nodeBase) base() *nodeBase { return b }
func (b *nodeBase) Parent() Node    { return b.parent }
func (b *nodeBase) Span() Span      { return b.span }
func (b *nodeBase) SetSpan(s Span)  { b.span = s }

// Children returns the primary child list.  Callers must not mutate
// the returned slice; use the tree edit helpers instead.
func (b *nodeBase) Children() []Node { return b.children }

// PreComments returns the comments that precede the node in source.
func (b *nodeBase) PreComments() []Node { return b.preComments }

// AttachedComment returns the trailing comment that shares the node's
// source line, if any.
func (b *nodeBase) AttachedComment() *LineCommentNode { return b.attached }

// Tokens returns the raw token run retained for this node.
func (b *nodeBase) Tokens() []Token     { return b.tokens }
func (b *nodeBase) SetTokens(ts []Token) { b.tokens = ts }

// Twin returns the unmodified twin, a structurally identical node in
// the snapshot taken before any modifier ran.
func (b *nodeBase) Twin() Node       { return b.twin }
func (b *nodeBase) SetTwin(t Node)   { b.twin = t }

// NameOverride overrides how the original C++ name is rendered when
// re-emitting the unmodified side.
func (b *nodeBase) NameOverride() string      { return b.nameOverride }
func (b *nodeBase) SetNameOverride(s string)  { b.nameOverride = s }

// Accessibility is "public", "protected" or "private" for class
// members, empty elsewhere.
func (b *nodeBase) Accessibility() string     { return b.accessibility }
func (b *nodeBase) SetAccessibility(s string) { b.accessibility = s }

// cloneBaseInto copies the shared header from b into dst, deep
// cloning children and comments.  The twin pointer is copied as-is.
func (b *nodeBase) cloneBaseInto(dst Node) {
	db := dst.base()
	db.tokens = append([]Token(nil), b.tokens...)
	db.twin = b.twin
	db.nameOverride = b.nameOverride
	db.accessibility = b.accessibility
	db.span = b.span
	for _, c := range b.children {
		AddChild(dst, c.Clone())
	}
	for _, c := range b.preComments {
		cc := c.Clone()
		cc.base().parent = dst
		db.preComments = append(db.preComments, cc)
	}
	if b.attached != nil {
		ac := b.attached.Clone().(*LineCommentNode)
		ac.parent = dst
		db.attached = ac
	}
}

// ---- Header file set ----

// HeaderFileSetNode is the root of the HAST: one child per consumed
// header file.
type HeaderFileSetNode struct{ nodeBase }

func NewHeaderFileSetNode() *HeaderFileSetNode { return &HeaderFileSetNode{} }

func (n *HeaderFileSetNode) Accept(v NodeVisitor) error { return v.VisitHeaderFileSetNode(n) }
func (n *HeaderFileSetNode) describe() string           { return "HeaderFileSet" }
func (n *HeaderFileSetNode) Clone() Node {
	c := NewHeaderFileSetNode()
	n.cloneBaseInto(c)
	return c
}

// MainHeaders returns the headers that should be emitted, skipping
// the prerequisite ones pulled in for type resolution only.
func (n *HeaderFileSetNode) MainHeaders() []*HeaderFileNode {
	var out []*HeaderFileNode
	for _, c := range n.children {
		if h, ok := c.(*HeaderFileNode); ok && !h.IsPrerequisite {
			out = append(out, h)
		}
	}
	return out
}

// ---- Header file ----

type HeaderFileNode struct {
	nodeBase
	Filename       string
	SourcePath     string
	IsPrerequisite bool
}

func NewHeaderFileNode(filename string) *HeaderFileNode {
	return &HeaderFileNode{Filename: filename}
}

func (n *HeaderFileNode) Accept(v NodeVisitor) error { return v.VisitHeaderFileNode(n) }
func (n *HeaderFileNode) describe() string           { return fmt.Sprintf("HeaderFile[%s]", n.Filename) }
func (n *HeaderFileNode) Clone() Node {
	c := NewHeaderFileNode(n.Filename)
	c.SourcePath = n.SourcePath
	c.IsPrerequisite = n.IsPrerequisite
	n.cloneBaseInto(c)
	return c
}

// ---- Namespace ----

type NamespaceNode struct {
	nodeBase
	Name string
}

func NewNamespaceNode(name string) *NamespaceNode { return &NamespaceNode{Name: name} }

func (n *NamespaceNode) Accept(v NodeVisitor) error { return v.VisitNamespaceNode(n) }
func (n *NamespaceNode) describe() string           { return fmt.Sprintf("Namespace[%s]", n.Name) }
func (n *NamespaceNode) Clone() Node {
	c := NewNamespaceNode(n.Name)
	n.cloneBaseInto(c)
	return c
}

// ---- Class / struct / union ----

type StructNode struct {
	nodeBase
	Kind        string // "struct", "class" or "union"
	Name        string
	BaseClasses []string

	IsForwardDeclaration  bool
	HasForwardDeclaration bool
	IsAnonymous           bool

	// Markers set by modifiers; see the mod_mark passes.
	ByValue                     bool
	PlacementConstructor        bool
	SingleLineDefinition        bool
	UseUnmodifiedNameForTypedef bool
}

func NewStructNode(kind, name string) *StructNode {
	return &StructNode{Kind: kind, Name: name, IsAnonymous: name == ""}
}

func (n *StructNode) Accept(v NodeVisitor) error { return v.VisitStructNode(n) }
func (n *StructNode) describe() string {
	name := n.Name
	if name == "" {
		name = "<anonymous>"
	}
	kind := n.Kind
	if kind != "" {
		kind = strings.ToUpper(kind[:1]) + kind[1:]
	}
	return fmt.Sprintf("%s[%s]", kind, name)
}
func (n *StructNode) Clone() Node {
	c := NewStructNode(n.Kind, n.Name)
	c.BaseClasses = append([]string(nil), n.BaseClasses...)
	c.IsForwardDeclaration = n.IsForwardDeclaration
	c.HasForwardDeclaration = n.HasForwardDeclaration
	c.IsAnonymous = n.IsAnonymous
	c.ByValue = n.ByValue
	c.PlacementConstructor = n.PlacementConstructor
	c.SingleLineDefinition = n.SingleLineDefinition
	c.UseUnmodifiedNameForTypedef = n.UseUnmodifiedNameForTypedef
	n.cloneBaseInto(c)
	return c
}

// Fields returns the field declarations among the struct's members,
// recursing into preprocessor conditionals.
func (n *StructNode) Fields() []*FieldDeclNode {
	var out []*FieldDeclNode
	var walk func(children []Node)
	walk = func(children []Node) {
		for _, c := range children {
			switch m := c.(type) {
			case *FieldDeclNode:
				out = append(out, m)
			case *ConditionalNode:
				walk(m.Children())
				walk(m.ElseChildren)
			}
		}
	}
	walk(n.children)
	return out
}

// ---- Enum ----

type EnumNode struct {
	nodeBase
	Name        string
	IsEnumClass bool
	StorageType *TypeNode
	IsFlagsEnum bool
}

func NewEnumNode(name string) *EnumNode { return &EnumNode{Name: name} }

func (n *EnumNode) Accept(v NodeVisitor) error { return v.VisitEnumNode(n) }
func (n *EnumNode) describe() string           { return fmt.Sprintf("Enum[%s]", n.Name) }
func (n *EnumNode) Clone() Node {
	c := NewEnumNode(n.Name)
	c.IsEnumClass = n.IsEnumClass
	c.IsFlagsEnum = n.IsFlagsEnum
	if n.StorageType != nil {
		c.StorageType = n.StorageType.Clone().(*TypeNode)
		c.StorageType.base().parent = c
	}
	n.cloneBaseInto(c)
	return c
}

// Elements returns the enum's elements, recursing into preprocessor
// conditionals.
func (n *EnumNode) Elements() []*EnumElementNode {
	var out []*EnumElementNode
	var walk func(children []Node)
	walk = func(children []Node) {
		for _, c := range children {
			switch m := c.(type) {
			case *EnumElementNode:
				out = append(out, m)
			case *ConditionalNode:
				walk(m.Children())
				walk(m.ElseChildren)
			}
		}
	}
	walk(n.children)
	return out
}

// ---- Enum element ----

type EnumElementNode struct {
	nodeBase
	Name        string
	ValueTokens []Token
	Value       int64
	HasValue    bool
	IsCount     bool
	IsInternal  bool

	valueColumn int
}

func NewEnumElementNode(name string) *EnumElementNode { return &EnumElementNode{Name: name} }

func (n *EnumElementNode) Accept(v NodeVisitor) error { return v.VisitEnumElementNode(n) }
func (n *EnumElementNode) describe() string           { return fmt.Sprintf("EnumElement[%s]", n.Name) }
func (n *EnumElementNode) Clone() Node {
	c := NewEnumElementNode(n.Name)
	c.ValueTokens = append([]Token(nil), n.ValueTokens...)
	c.Value = n.Value
	c.HasValue = n.HasValue
	c.IsCount = n.IsCount
	c.IsInternal = n.IsInternal
	c.valueColumn = n.valueColumn
	n.cloneBaseInto(c)
	return c
}

// ---- Typedef ----

type TypedefNode struct {
	nodeBase
	Name string
	Type Node // *TypeNode or *FunctionPointerTypeNode
}

func NewTypedefNode(name string, typ Node) *TypedefNode {
	n := &TypedefNode{Name: name, Type: typ}
	if typ != nil {
		typ.base().parent = n
	}
	return n
}

func (n *TypedefNode) Accept(v NodeVisitor) error { return v.VisitTypedefNode(n) }
func (n *TypedefNode) describe() string           { return fmt.Sprintf("Typedef[%s]", n.Name) }
func (n *TypedefNode) Clone() Node {
	var typ Node
	if n.Type != nil {
		typ = n.Type.Clone()
	}
	c := NewTypedefNode(n.Name, typ)
	n.cloneBaseInto(c)
	return c
}

// ---- Field declaration ----

// FieldName is one declarator in a (possibly multi-name) field
// declaration, like `x` and `y[4]` in `int x, y[4];`.
type FieldName struct {
	Name          string
	ArrayBounds   []string
	BitfieldWidth string
}

type FieldDeclNode struct {
	nodeBase
	Names     []FieldName
	FieldType Node // *TypeNode, *FunctionPointerTypeNode, or a nested *StructNode
	IsStatic    bool
	IsExtern    bool
	IsConstexpr bool
	IsMutable   bool

	nameColumn int
}

func NewFieldDeclNode(typ Node, names ...FieldName) *FieldDeclNode {
	n := &FieldDeclNode{Names: names, FieldType: typ}
	if typ != nil {
		typ.base().parent = n
	}
	return n
}

func (n *FieldDeclNode) Accept(v NodeVisitor) error { return v.VisitFieldDeclNode(n) }
func (n *FieldDeclNode) describe() string {
	names := make([]string, len(n.Names))
	for i, fn := range n.Names {
		names[i] = fn.Name
	}
	return fmt.Sprintf("Field[%s]", strings.Join(names, ","))
}
func (n *FieldDeclNode) Clone() Node {
	var typ Node
	if n.FieldType != nil {
		typ = n.FieldType.Clone()
	}
	names := make([]FieldName, len(n.Names))
	for i, fn := range n.Names {
		names[i] = FieldName{
			Name:          fn.Name,
			ArrayBounds:   append([]string(nil), fn.ArrayBounds...),
			BitfieldWidth: fn.BitfieldWidth,
		}
	}
	c := NewFieldDeclNode(typ, names...)
	c.IsStatic = n.IsStatic
	c.IsExtern = n.IsExtern
	c.IsConstexpr = n.IsConstexpr
	c.IsMutable = n.IsMutable
	c.nameColumn = n.nameColumn
	n.cloneBaseInto(c)
	return c
}

// ---- Function declaration ----

type FunctionDeclNode struct {
	nodeBase
	Name       string
	ReturnType Node // nil for constructors and destructors
	Arguments  []*FunctionArgumentNode
	Body       *CodeBlockNode
	Attributes []string

	IsConst       bool
	IsStatic      bool
	IsInline      bool
	IsVirtual     bool
	IsConstructor bool
	IsDestructor  bool
	IsOperator    bool

	// Set when member-function flattening lifts the function out of
	// its class.
	OriginalClass          *StructNode
	IsByValueConstructor   bool
	IsPlacementConstructor bool

	// Helper markers consumed by the metadata generator.
	IsDefaultArgumentHelper bool
	IsManualHelper          bool
	IsImstrHelper           bool
	HasImstrHelper          bool
	IsUnformattedHelper     bool

	nameColumn int
}

func NewFunctionDeclNode(name string, returnType Node) *FunctionDeclNode {
	n := &FunctionDeclNode{Name: name, ReturnType: returnType}
	if returnType != nil {
		returnType.base().parent = n
	}
	return n
}

func (n *FunctionDeclNode) Accept(v NodeVisitor) error { return v.VisitFunctionDeclNode(n) }
func (n *FunctionDeclNode) describe() string           { return fmt.Sprintf("Function[%s]", n.Name) }
func (n *FunctionDeclNode) Clone() Node {
	var ret Node
	if n.ReturnType != nil {
		ret = n.ReturnType.Clone()
	}
	c := NewFunctionDeclNode(n.Name, ret)
	for _, a := range n.Arguments {
		ac := a.Clone().(*FunctionArgumentNode)
		ac.base().parent = c
		c.Arguments = append(c.Arguments, ac)
	}
	if n.Body != nil {
		c.Body = n.Body.Clone().(*CodeBlockNode)
		c.Body.base().parent = c
	}
	c.Attributes = append([]string(nil), n.Attributes...)
	c.IsConst = n.IsConst
	c.IsStatic = n.IsStatic
	c.IsInline = n.IsInline
	c.IsVirtual = n.IsVirtual
	c.IsConstructor = n.IsConstructor
	c.IsDestructor = n.IsDestructor
	c.IsOperator = n.IsOperator
	c.OriginalClass = n.OriginalClass
	c.IsByValueConstructor = n.IsByValueConstructor
	c.IsPlacementConstructor = n.IsPlacementConstructor
	c.IsDefaultArgumentHelper = n.IsDefaultArgumentHelper
	c.IsManualHelper = n.IsManualHelper
	c.IsImstrHelper = n.IsImstrHelper
	c.HasImstrHelper = n.HasImstrHelper
	c.IsUnformattedHelper = n.IsUnformattedHelper
	c.nameColumn = n.nameColumn
	n.cloneBaseInto(c)
	return c
}

// IsVariadic reports whether the function has a `...` argument.
func (n *FunctionDeclNode) IsVariadic() bool {
	for _, a := range n.Arguments {
		if a.IsVarargs {
			return true
		}
	}
	return false
}

// AddArgument appends arg to the function's argument list and fixes
// up its parent link.
func (n *FunctionDeclNode) AddArgument(arg *FunctionArgumentNode) {
	arg.base().parent = n
	n.Arguments = append(n.Arguments, arg)
}

// InsertArgument inserts arg at index i.
func (n *FunctionDeclNode) InsertArgument(i int, arg *FunctionArgumentNode) {
	arg.base().parent = n
	n.Arguments = append(n.Arguments, nil)
	copy(n.Arguments[i+1:], n.Arguments[i:])
	n.Arguments[i] = arg
}

// ---- Function argument ----

type FunctionArgumentNode struct {
	nodeBase
	Name        string
	ArgType     Node // *TypeNode or *FunctionPointerTypeNode
	IsVarargs   bool
	ArrayBounds []string

	DefaultValueTokens []Token
	IsImplicitDefault  bool
	StubCallValue      string
}

func NewFunctionArgumentNode(name string, typ Node) *FunctionArgumentNode {
	n := &FunctionArgumentNode{Name: name, ArgType: typ}
	if typ != nil {
		typ.base().parent = n
	}
	return n
}

func NewVarargsArgumentNode() *FunctionArgumentNode {
	return &FunctionArgumentNode{IsVarargs: true}
}

func (n *FunctionArgumentNode) Accept(v NodeVisitor) error { return v.VisitFunctionArgumentNode(n) }
func (n *FunctionArgumentNode) describe() string {
	if n.IsVarargs {
		return "Argument[...]"
	}
	return fmt.Sprintf("Argument[%s]", n.Name)
}
func (n *FunctionArgumentNode) Clone() Node {
	var typ Node
	if n.ArgType != nil {
		typ = n.ArgType.Clone()
	}
	c := NewFunctionArgumentNode(n.Name, typ)
	c.IsVarargs = n.IsVarargs
	c.ArrayBounds = append([]string(nil), n.ArrayBounds...)
	c.DefaultValueTokens = append([]Token(nil), n.DefaultValueTokens...)
	c.IsImplicitDefault = n.IsImplicitDefault
	c.StubCallValue = n.StubCallValue
	n.cloneBaseInto(c)
	return c
}

// HasDefaultValue reports whether the argument carries a default
// value expression.
func (n *FunctionArgumentNode) HasDefaultValue() bool {
	return len(n.DefaultValueTokens) > 0
}

// DefaultValueString renders the default value expression.
func (n *FunctionArgumentNode) DefaultValueString() string {
	return tokensToString(n.DefaultValueTokens)
}

// ---- Function pointer type ----

type FunctionPointerTypeNode struct {
	nodeBase
	Name       string
	ReturnType *TypeNode
	Arguments  []*FunctionArgumentNode
}

func NewFunctionPointerTypeNode(name string, returnType *TypeNode) *FunctionPointerTypeNode {
	n := &FunctionPointerTypeNode{Name: name, ReturnType: returnType}
	if returnType != nil {
		returnType.base().parent = n
	}
	return n
}

func (n *FunctionPointerTypeNode) Accept(v NodeVisitor) error {
	return v.VisitFunctionPointerTypeNode(n)
}
func (n *FunctionPointerTypeNode) describe() string {
	return fmt.Sprintf("FunctionPointerType[%s]", n.Name)
}
func (n *FunctionPointerTypeNode) Clone() Node {
	var ret *TypeNode
	if n.ReturnType != nil {
		ret = n.ReturnType.Clone().(*TypeNode)
	}
	c := NewFunctionPointerTypeNode(n.Name, ret)
	for _, a := range n.Arguments {
		ac := a.Clone().(*FunctionArgumentNode)
		ac.base().parent = c
		c.Arguments = append(c.Arguments, ac)
	}
	n.cloneBaseInto(c)
	return c
}

// ---- Type ----

// TypeNode is a sequence of type-forming tokens (`const char *`,
// `ImVector<int> &`, ...).  The tokens live in the shared token
// buffer.  UsePointerCast makes the thunk generator bridge values of
// this type through `*reinterpret_cast<T*>(&...)`.
type TypeNode struct {
	nodeBase
	UsePointerCast bool
}

func NewTypeNode(tokens ...Token) *TypeNode {
	n := &TypeNode{}
	n.tokens = tokens
	return n
}

// NewTypeNodeFromString is a convenience for modifiers that
// synthesise types; text is lexed as a token run.
func NewTypeNodeFromString(text string) *TypeNode {
	tokens, err := LexFile(text, "")
	if err != nil {
		panic(fmt.Sprintf("bad synthesised type `%s`: %v", text, err))
	}
	return NewTypeNode(tokens...)
}

func (n *TypeNode) Accept(v NodeVisitor) error { return v.VisitTypeNode(n) }
func (n *TypeNode) describe() string           { return fmt.Sprintf("Type[%s]", n.String()) }
func (n *TypeNode) String() string             { return tokensToString(n.tokens) }
func (n *TypeNode) Clone() Node {
	c := &TypeNode{UsePointerCast: n.UsePointerCast}
	n.cloneBaseInto(c)
	return c
}

// IsPointer reports whether the outermost declarator is a pointer.
func (n *TypeNode) IsPointer() bool {
	for i := len(n.tokens) - 1; i >= 0; i-- {
		switch n.tokens[i].Kind {
		case TokenConst:
			continue
		case TokenAsterisk:
			return true
		default:
			return false
		}
	}
	return false
}

// IsConst reports whether the type begins with a const qualifier.
func (n *TypeNode) IsConst() bool {
	return len(n.tokens) > 0 && n.tokens[0].Kind == TokenConst
}

// PrimaryTypeName returns the last identifier-like token, which names
// the underlying type for suffix synthesis and struct lookups.
func (n *TypeNode) PrimaryTypeName() string {
	name := ""
	for _, t := range n.tokens {
		if t.Kind == TokenThing || t.Kind == TokenUnsigned || t.Kind == TokenSigned {
			name = t.Value
		}
	}
	return name
}

// ---- Template ----

type TemplateNode struct {
	nodeBase
	Parameters []string
}

func NewTemplateNode(parameters ...string) *TemplateNode {
	return &TemplateNode{Parameters: parameters}
}

func (n *TemplateNode) Accept(v NodeVisitor) error { return v.VisitTemplateNode(n) }
func (n *TemplateNode) describe() string {
	return fmt.Sprintf("Template[%s]", strings.Join(n.Parameters, ","))
}
func (n *TemplateNode) Clone() Node {
	c := NewTemplateNode(n.Parameters...)
	n.cloneBaseInto(c)
	return c
}

// ---- Extern "C" ----

type ExternCNode struct {
	nodeBase
	HasGuard bool // wrap opener/closer in #ifdef __cplusplus
}

func NewExternCNode(hasGuard bool) *ExternCNode { return &ExternCNode{HasGuard: hasGuard} }

func (n *ExternCNode) Accept(v NodeVisitor) error { return v.VisitExternCNode(n) }
func (n *ExternCNode) describe() string           { return "ExternC" }
func (n *ExternCNode) Clone() Node {
	c := NewExternCNode(n.HasGuard)
	n.cloneBaseInto(c)
	return c
}

// ---- Code block ----

// CodeBlockNode holds a brace-delimited body verbatim in its token
// buffer, braces included.
type CodeBlockNode struct{ nodeBase }

func NewCodeBlockNode(tokens []Token) *CodeBlockNode {
	n := &CodeBlockNode{}
	n.tokens = tokens
	return n
}

func (n *CodeBlockNode) Accept(v NodeVisitor) error { return v.VisitCodeBlockNode(n) }
func (n *CodeBlockNode) describe() string           { return "CodeBlock" }
func (n *CodeBlockNode) Clone() Node {
	c := &CodeBlockNode{}
	n.cloneBaseInto(c)
	return c
}

// ---- Preprocessor: define ----

type DefineNode struct {
	nodeBase
	Name                string
	ContentTokens       []Token
	ExcludeFromMetadata bool
}

func NewDefineNode(name string, content ...Token) *DefineNode {
	return &DefineNode{Name: name, ContentTokens: content}
}

func (n *DefineNode) Accept(v NodeVisitor) error { return v.VisitDefineNode(n) }
func (n *DefineNode) describe() string           { return fmt.Sprintf("Define[%s]", n.Name) }
func (n *DefineNode) ContentString() string      { return tokensToString(n.ContentTokens) }
func (n *DefineNode) Clone() Node {
	c := NewDefineNode(n.Name)
	c.ContentTokens = append([]Token(nil), n.ContentTokens...)
	c.ExcludeFromMetadata = n.ExcludeFromMetadata
	n.cloneBaseInto(c)
	return c
}

// ---- Preprocessor: undef ----

type UndefNode struct {
	nodeBase
	Name string
}

func NewUndefNode(name string) *UndefNode { return &UndefNode{Name: name} }

func (n *UndefNode) Accept(v NodeVisitor) error { return v.VisitUndefNode(n) }
func (n *UndefNode) describe() string           { return fmt.Sprintf("Undef[%s]", n.Name) }
func (n *UndefNode) Clone() Node {
	c := NewUndefNode(n.Name)
	n.cloneBaseInto(c)
	return c
}

// ---- Preprocessor: include ----

type IncludeNode struct {
	nodeBase
	Path             string
	UseAngleBrackets bool
}

func NewIncludeNode(path string, angle bool) *IncludeNode {
	return &IncludeNode{Path: path, UseAngleBrackets: angle}
}

func (n *IncludeNode) Accept(v NodeVisitor) error { return v.VisitIncludeNode(n) }
func (n *IncludeNode) describe() string           { return fmt.Sprintf("Include[%s]", n.Path) }
func (n *IncludeNode) Clone() Node {
	c := NewIncludeNode(n.Path, n.UseAngleBrackets)
	n.cloneBaseInto(c)
	return c
}

// ---- Preprocessor: pragma ----

// PragmaNode keeps the pragma body in its token buffer.
type PragmaNode struct{ nodeBase }

func NewPragmaNode(tokens []Token) *PragmaNode {
	n := &PragmaNode{}
	n.tokens = tokens
	return n
}

func (n *PragmaNode) Accept(v NodeVisitor) error { return v.VisitPragmaNode(n) }
func (n *PragmaNode) describe() string           { return "Pragma" }
func (n *PragmaNode) Clone() Node {
	c := &PragmaNode{}
	n.cloneBaseInto(c)
	return c
}

// ---- Preprocessor: error directive ----

type ErrorDirectiveNode struct{ nodeBase }

func NewErrorDirectiveNode(tokens []Token) *ErrorDirectiveNode {
	n := &ErrorDirectiveNode{}
	n.tokens = tokens
	return n
}

func (n *ErrorDirectiveNode) Accept(v NodeVisitor) error { return v.VisitErrorDirectiveNode(n) }
func (n *ErrorDirectiveNode) describe() string           { return "ErrorDirective" }
func (n *ErrorDirectiveNode) Clone() Node {
	c := &ErrorDirectiveNode{}
	n.cloneBaseInto(c)
	return c
}

// ---- Preprocessor: conditional ----

// ConditionalNode is a #if/#ifdef/#ifndef block.  The then-branch is
// the primary child list; the else-branch is ElseChildren.  An #elif
// arrives from the parser as a nested conditional (WasElif set) that
// is the sole structural child of the parent's else-branch.
type ConditionalNode struct {
	nodeBase
	Directive        string // "if", "ifdef" or "ifndef"
	ExpressionTokens []Token
	ElseChildren     []Node
	WasElif          bool
}

func NewConditionalNode(directive string, expression ...Token) *ConditionalNode {
	return &ConditionalNode{Directive: directive, ExpressionTokens: expression}
}

func (n *ConditionalNode) Accept(v NodeVisitor) error { return v.VisitConditionalNode(n) }
func (n *ConditionalNode) describe() string {
	return fmt.Sprintf("Conditional[#%s %s]", n.Directive, n.ExpressionString())
}
func (n *ConditionalNode) ExpressionString() string { return tokensToString(n.ExpressionTokens) }
func (n *ConditionalNode) Clone() Node {
	c := NewConditionalNode(n.Directive)
	c.ExpressionTokens = append([]Token(nil), n.ExpressionTokens...)
	c.WasElif = n.WasElif
	for _, e := range n.ElseChildren {
		ec := e.Clone()
		ec.base().parent = c
		c.ElseChildren = append(c.ElseChildren, ec)
	}
	n.cloneBaseInto(c)
	return c
}

// AddElseChild appends child to the else-branch and fixes up its
// parent link.
func (n *ConditionalNode) AddElseChild(child Node) {
	child.base().parent = n
	n.ElseChildren = append(n.ElseChildren, child)
}

// ---- Blank lines ----

// BlankLinesNode is a run of consecutive blank lines, run-length
// encoded.
type BlankLinesNode struct {
	nodeBase
	Count int
}

func NewBlankLinesNode(count int) *BlankLinesNode { return &BlankLinesNode{Count: count} }

func (n *BlankLinesNode) Accept(v NodeVisitor) error { return v.VisitBlankLinesNode(n) }
func (n *BlankLinesNode) describe() string           { return fmt.Sprintf("BlankLines[%d]", n.Count) }
func (n *BlankLinesNode) Clone() Node {
	c := NewBlankLinesNode(n.Count)
	n.cloneBaseInto(c)
	return c
}

// ---- Comments ----

// LineCommentNode holds a `//` comment including the slashes.
type LineCommentNode struct {
	nodeBase
	Text string

	commentColumn int
}

func NewLineCommentNode(text string) *LineCommentNode { return &LineCommentNode{Text: text} }

func (n *LineCommentNode) Accept(v NodeVisitor) error { return v.VisitLineCommentNode(n) }
func (n *LineCommentNode) describe() string           { return fmt.Sprintf("LineComment[%s]", n.Text) }
func (n *LineCommentNode) Clone() Node {
	c := NewLineCommentNode(n.Text)
	c.commentColumn = n.commentColumn
	n.cloneBaseInto(c)
	return c
}

// BlockCommentNode holds a `/* */` comment verbatim, delimiters
// included.
type BlockCommentNode struct {
	nodeBase
	Text string
}

func NewBlockCommentNode(text string) *BlockCommentNode { return &BlockCommentNode{Text: text} }

func (n *BlockCommentNode) Accept(v NodeVisitor) error { return v.VisitBlockCommentNode(n) }
func (n *BlockCommentNode) describe() string           { return "BlockComment" }
func (n *BlockCommentNode) Clone() Node {
	c := NewBlockCommentNode(n.Text)
	n.cloneBaseInto(c)
	return c
}

// ---- Unparsable ----

// UnparsableNode retains, verbatim, a token run the parser could not
// decode structurally.
type UnparsableNode struct{ nodeBase }

func NewUnparsableNode(tokens []Token) *UnparsableNode {
	n := &UnparsableNode{}
	n.tokens = tokens
	return n
}

func (n *UnparsableNode) Accept(v NodeVisitor) error { return v.VisitUnparsableNode(n) }
func (n *UnparsableNode) describe() string           { return "Unparsable" }
func (n *UnparsableNode) Clone() Node {
	c := &UnparsableNode{}
	n.cloneBaseInto(c)
	return c
}
