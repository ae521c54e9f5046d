package hdrgen

import (
	"bytes"
	"encoding/json"
	"strings"
)

// The metadata generator: one JSON object per public declaration,
// enriched with source locations, preprocessor context, comments and
// a type-description tree for every type.

// disableGuard is the library-wide kill switch; conditionals on it
// are configuration noise, not API surface, and are filtered from
// metadata alongside include guards.
const disableGuard = "IMGUI_DISABLE"

type metadataDoc struct {
	Defines   []metaDefine   `json:"defines"`
	Enums     []metaEnum     `json:"enums"`
	Typedefs  []metaTypedef  `json:"typedefs"`
	Structs   []metaStruct   `json:"structs"`
	Functions []metaFunction `json:"functions"`
}

type metaComments struct {
	Preceding []string `json:"preceding,omitempty"`
	Attached  string   `json:"attached,omitempty"`
}

type metaConditional struct {
	Condition  string `json:"condition"`
	Expression string `json:"expression"`
}

type metaSourceLocation struct {
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line,omitempty"`
}

type metaType struct {
	Declaration            string `json:"declaration"`
	DeclarationWithMarkers string `json:"declaration_with_markers,omitempty"`
	Description            TCNode `json:"description,omitempty"`
}

type metaDefine struct {
	Name           string            `json:"name"`
	Content        string            `json:"content,omitempty"`
	Comments       *metaComments     `json:"comments,omitempty"`
	Conditionals   []metaConditional `json:"conditionals,omitempty"`
	SourceLocation *metaSourceLocation `json:"source_location,omitempty"`
}

type metaEnumElement struct {
	Name            string            `json:"name"`
	Value           int64             `json:"value"`
	ValueExpression string            `json:"value_expression,omitempty"`
	IsCount         bool              `json:"is_count,omitempty"`
	IsInternal      bool              `json:"is_internal,omitempty"`
	Comments        *metaComments     `json:"comments,omitempty"`
	Conditionals    []metaConditional `json:"conditionals,omitempty"`
}

type metaEnum struct {
	Name                       string            `json:"name"`
	OriginalFullyQualifiedName string            `json:"original_fully_qualified_name"`
	IsFlagsEnum                bool              `json:"is_flags_enum,omitempty"`
	StorageType                *metaType         `json:"storage_type,omitempty"`
	Elements                   []metaEnumElement `json:"elements"`
	Comments                   *metaComments     `json:"comments,omitempty"`
	Conditionals               []metaConditional `json:"conditionals,omitempty"`
	SourceLocation             *metaSourceLocation `json:"source_location,omitempty"`
}

type metaTypedef struct {
	Name           string            `json:"name"`
	Type           metaType          `json:"type"`
	Comments       *metaComments     `json:"comments,omitempty"`
	Conditionals   []metaConditional `json:"conditionals,omitempty"`
	SourceLocation *metaSourceLocation `json:"source_location,omitempty"`
}

type metaStructField struct {
	Name            string            `json:"name"`
	Type            metaType          `json:"type"`
	ArrayBounds     string            `json:"array_bounds,omitempty"`
	BitfieldWidth   string            `json:"width,omitempty"`
	IsAnonymous     bool              `json:"is_anonymous,omitempty"`
	Comments        *metaComments     `json:"comments,omitempty"`
	Conditionals    []metaConditional `json:"conditionals,omitempty"`
}

type metaStruct struct {
	Name                       string            `json:"name"`
	OriginalFullyQualifiedName string            `json:"original_fully_qualified_name"`
	Kind                       string            `json:"kind"`
	ByValue                    bool              `json:"by_value,omitempty"`
	ForwardDeclaration         bool              `json:"forward_declaration,omitempty"`
	Fields                     []metaStructField `json:"fields"`
	Comments                   *metaComments     `json:"comments,omitempty"`
	Conditionals               []metaConditional `json:"conditionals,omitempty"`
	SourceLocation             *metaSourceLocation `json:"source_location,omitempty"`
}

type metaFunctionArgument struct {
	Name              string    `json:"name"`
	Type              *metaType `json:"type,omitempty"`
	IsVarargs         bool      `json:"is_varargs,omitempty"`
	DefaultValue      string    `json:"default_value,omitempty"`
	IsImplicitDefault bool      `json:"is_implicit_default,omitempty"`
}

type metaFunction struct {
	Name                       string                 `json:"name"`
	OriginalFullyQualifiedName string                 `json:"original_fully_qualified_name"`
	ReturnType                 *metaType              `json:"return_type,omitempty"`
	Arguments                  []metaFunctionArgument `json:"arguments"`
	IsDefaultArgumentHelper    bool                   `json:"is_default_argument_helper,omitempty"`
	IsManualHelper             bool                   `json:"is_manual_helper,omitempty"`
	IsImstrHelper              bool                   `json:"is_imstr_helper,omitempty"`
	HasImstrHelper             bool                   `json:"has_imstr_helper,omitempty"`
	IsUnformattedHelper        bool                   `json:"is_unformatted_helper,omitempty"`
	IsStatic                   bool                   `json:"is_static,omitempty"`
	OriginalClass              string                 `json:"original_class,omitempty"`
	Comments                   *metaComments          `json:"comments,omitempty"`
	Conditionals               []metaConditional      `json:"conditionals,omitempty"`
	SourceLocation             *metaSourceLocation    `json:"source_location,omitempty"`
}

// MetadataGenerator builds the JSON document for a set of headers.
type MetadataGenerator struct {
	guards map[*HeaderFileNode]string
}

func NewMetadataGenerator() *MetadataGenerator {
	return &MetadataGenerator{guards: map[*HeaderFileNode]string{}}
}

// Generate emits the metadata document covering the given headers of
// the fully transformed tree.
func (g *MetadataGenerator) Generate(headers []*HeaderFileNode) ([]byte, error) {
	doc := &metadataDoc{
		Defines:   []metaDefine{},
		Enums:     []metaEnum{},
		Typedefs:  []metaTypedef{},
		Structs:   []metaStruct{},
		Functions: []metaFunction{},
	}
	for _, header := range headers {
		g.guards[header] = detectIncludeGuard(header)
		if err := g.collectHeader(doc, header); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (g *MetadataGenerator) collectHeader(doc *metadataDoc, header *HeaderFileNode) error {
	// Names of structs with a full definition, for forward
	// declaration elision.
	defined := map[string]bool{}
	for _, s := range FindAll[*StructNode](header) {
		if !s.IsForwardDeclaration && s.Name != "" {
			defined[s.Name] = true
		}
	}

	var firstErr error
	Inspect(header, func(n Node) bool {
		if firstErr != nil {
			return false
		}
		switch v := n.(type) {
		case *DefineNode:
			if v.ExcludeFromMetadata {
				return true
			}
			doc.Defines = append(doc.Defines, metaDefine{
				Name:           v.Name,
				Content:        v.ContentString(),
				Comments:       commentsOf(v),
				Conditionals:   g.conditionalsOf(v, header),
				SourceLocation: sourceOf(v),
			})
		case *EnumNode:
			m, err := g.enumMetadata(v, header)
			if err != nil {
				firstErr = err
				return false
			}
			doc.Enums = append(doc.Enums, m)
			return false
		case *TypedefNode:
			m, err := g.typedefMetadata(v, header)
			if err != nil {
				firstErr = err
				return false
			}
			doc.Typedefs = append(doc.Typedefs, m)
		case *StructNode:
			if v.IsForwardDeclaration && defined[v.Name] {
				return true
			}
			if _, isField := v.Parent().(*FieldDeclNode); isField {
				return true
			}
			m, err := g.structMetadata(v, header)
			if err != nil {
				firstErr = err
				return false
			}
			doc.Structs = append(doc.Structs, m)
			return false
		case *FunctionDeclNode:
			m, err := g.functionMetadata(v, header)
			if err != nil {
				firstErr = err
				return false
			}
			doc.Functions = append(doc.Functions, m)
			return false
		}
		return true
	})
	return firstErr
}

func (g *MetadataGenerator) enumMetadata(v *EnumNode, header *HeaderFileNode) (metaEnum, error) {
	m := metaEnum{
		Name:                       v.Name,
		OriginalFullyQualifiedName: originalQualifiedName(v, v.Name),
		IsFlagsEnum:                v.IsFlagsEnum,
		Elements:                   []metaEnumElement{},
		Comments:                   commentsOf(v),
		Conditionals:               g.conditionalsOf(v, header),
		SourceLocation:             sourceOf(v),
	}
	if v.StorageType != nil {
		st, err := makeType(v.StorageType, "", nil)
		if err != nil {
			return m, err
		}
		m.StorageType = &st
	}
	for _, el := range v.Elements() {
		me := metaEnumElement{
			Name:         el.Name,
			Value:        el.Value,
			IsCount:      el.IsCount,
			IsInternal:   el.IsInternal,
			Comments:     commentsOf(el),
			Conditionals: g.conditionalsWithin(el, v, header),
		}
		if len(el.ValueTokens) > 0 {
			me.ValueExpression = tokensToString(el.ValueTokens)
		}
		m.Elements = append(m.Elements, me)
	}
	return m, nil
}

func (g *MetadataGenerator) typedefMetadata(v *TypedefNode, header *HeaderFileNode) (metaTypedef, error) {
	t, err := makeType(v.Type, "", nil)
	if err != nil {
		return metaTypedef{}, err
	}
	return metaTypedef{
		Name:           v.Name,
		Type:           t,
		Comments:       commentsOf(v),
		Conditionals:   g.conditionalsOf(v, header),
		SourceLocation: sourceOf(v),
	}, nil
}

func (g *MetadataGenerator) structMetadata(v *StructNode, header *HeaderFileNode) (metaStruct, error) {
	m := metaStruct{
		Name:                       v.Name,
		OriginalFullyQualifiedName: originalQualifiedName(v, v.Name),
		Kind:                       v.Kind,
		ByValue:                    v.ByValue,
		ForwardDeclaration:         v.IsForwardDeclaration,
		Fields:                     []metaStructField{},
		Comments:                   commentsOf(v),
		Conditionals:               g.conditionalsOf(v, header),
		SourceLocation:             sourceOf(v),
	}
	if v.IsForwardDeclaration {
		return m, nil
	}

	// The field walk recurses into preprocessor containers and
	// treats an anonymous nested struct as an implicit field named
	// after it.
	var walk func(children []Node) error
	walk = func(children []Node) error {
		for _, c := range children {
			switch f := c.(type) {
			case *FieldDeclNode:
				if inner, ok := f.FieldType.(*StructNode); ok {
					name := ""
					if len(f.Names) > 0 {
						name = f.Names[0].Name
					}
					m.Fields = append(m.Fields, metaStructField{
						Name:         name,
						Type:         metaType{Declaration: inner.Kind + " " + inner.Name},
						IsAnonymous:  inner.IsAnonymous,
						Comments:     commentsOf(f),
						Conditionals: g.conditionalsWithin(f, v, header),
					})
					continue
				}
				for _, fn := range f.Names {
					t, err := makeType(f.FieldType, fn.Name, fn.ArrayBounds)
					if err != nil {
						return err
					}
					mf := metaStructField{
						Name:          fn.Name,
						Type:          t,
						BitfieldWidth: fn.BitfieldWidth,
						Comments:      commentsOf(f),
						Conditionals:  g.conditionalsWithin(f, v, header),
					}
					if len(fn.ArrayBounds) > 0 {
						mf.ArrayBounds = strings.Join(fn.ArrayBounds, ",")
					}
					m.Fields = append(m.Fields, mf)
				}
			case *StructNode:
				if f.IsAnonymous {
					m.Fields = append(m.Fields, metaStructField{
						Name:         f.Name,
						Type:         metaType{Declaration: f.Kind + " " + f.Name},
						IsAnonymous:  true,
						Comments:     commentsOf(f),
						Conditionals: g.conditionalsWithin(f, v, header),
					})
				}
			case *ConditionalNode:
				if err := walk(f.Children()); err != nil {
					return err
				}
				if err := walk(f.ElseChildren); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(v.Children()); err != nil {
		return m, err
	}
	return m, nil
}

func (g *MetadataGenerator) functionMetadata(v *FunctionDeclNode, header *HeaderFileNode) (metaFunction, error) {
	m := metaFunction{
		Name:                       v.Name,
		OriginalFullyQualifiedName: originalQualifiedName(v, v.Name),
		Arguments:                  []metaFunctionArgument{},
		IsDefaultArgumentHelper:    v.IsDefaultArgumentHelper,
		IsManualHelper:             v.IsManualHelper,
		IsImstrHelper:              v.IsImstrHelper,
		HasImstrHelper:             v.HasImstrHelper,
		IsUnformattedHelper:        v.IsUnformattedHelper,
		IsStatic:                   v.IsStatic,
		Comments:                   commentsOf(v),
		Conditionals:               g.conditionalsOf(v, header),
		SourceLocation:             sourceOf(v),
	}
	if v.OriginalClass != nil {
		m.OriginalClass = v.OriginalClass.Name
	}
	if v.ReturnType != nil {
		t, err := makeType(v.ReturnType, "", nil)
		if err != nil {
			return m, err
		}
		m.ReturnType = &t
	}
	for _, a := range v.Arguments {
		ma := metaFunctionArgument{
			Name:              a.Name,
			IsVarargs:         a.IsVarargs,
			IsImplicitDefault: a.IsImplicitDefault,
		}
		if a.HasDefaultValue() {
			ma.DefaultValue = a.DefaultValueString()
		}
		if !a.IsVarargs {
			t, err := makeType(a.ArgType, a.Name, a.ArrayBounds)
			if err != nil {
				return m, err
			}
			ma.Type = &t
		}
		m.Arguments = append(m.Arguments, ma)
	}
	return m, nil
}

// makeType renders the three type views: the plain C declaration, the
// marker declaration (`^` for non-nullable, `&` for converted
// references), and the TDP tree parsed from the marker form.
func makeType(typ Node, declName string, bounds []string) (metaType, error) {
	plainCtx := &WriteContext{}
	markCtx := &WriteContext{MarkNonNullablePointers: true, EmitConvertedReferencesAsReferences: true}

	plain, whole := typeText(typ, plainCtx)
	marked, _ := typeText(typ, markCtx)
	if !whole && declName != "" {
		plain += " " + declName
		marked += " " + declName
	}
	for _, b := range bounds {
		plain += "[" + b + "]"
		marked += "[" + b + "]"
	}

	desc, err := ParseTypeDescription(marked)
	if err != nil {
		return metaType{}, passErrorf("MetadataGenerator", "cannot comprehend type `%s`: %v", marked, err)
	}
	m := metaType{Declaration: plain, Description: desc}
	if marked != plain {
		m.DeclarationWithMarkers = marked
	}
	return m, nil
}

// ---- Shared metadata helpers ----

func commentsOf(n Node) *metaComments {
	b := n.base()
	if len(b.preComments) == 0 && b.attached == nil {
		return nil
	}
	m := &metaComments{}
	for _, c := range b.preComments {
		switch v := c.(type) {
		case *LineCommentNode:
			m.Preceding = append(m.Preceding, v.Text)
		case *BlockCommentNode:
			m.Preceding = append(m.Preceding, v.Text)
		}
	}
	if b.attached != nil {
		m.Attached = b.attached.Text
	}
	return m
}

func sourceOf(n Node) *metaSourceLocation {
	s := n.Span()
	if s.Start.Line == 0 && s.Start.File == "" {
		return nil
	}
	return &metaSourceLocation{Filename: s.Start.File, Line: s.Start.Line}
}

// conditionalsOf lists the preprocessor context of n, outermost
// first, with the header's include guard and the library disable
// guard filtered out.
func (g *MetadataGenerator) conditionalsOf(n Node, header *HeaderFileNode) []metaConditional {
	guard := g.guards[header]
	var out []metaConditional
	for _, ref := range EnclosingConditionals(n) {
		expr := ref.Conditional.ExpressionString()
		if expr == guard || strings.Contains(expr, disableGuard) {
			continue
		}
		out = append(out, metaConditional{Condition: ref.Condition(), Expression: expr})
	}
	return out
}

// conditionalsWithin lists only the conditionals between n and its
// enclosing declaration container.
func (g *MetadataGenerator) conditionalsWithin(n, container Node, header *HeaderFileNode) []metaConditional {
	all := g.conditionalsOf(n, header)
	outer := g.conditionalsOf(container, header)
	if len(all) <= len(outer) {
		return nil
	}
	return all[len(outer):]
}

// originalQualifiedName recovers the pre-rewrite fully qualified name
// from the unmodified twin's ancestry.
func originalQualifiedName(n Node, fallback string) string {
	twin := n.base().twin
	if twin == nil {
		return fallback
	}
	name := fallback
	switch v := twin.(type) {
	case *FunctionDeclNode:
		name = v.Name
	case *StructNode:
		name = v.Name
	case *EnumNode:
		name = v.Name
	case *TypedefNode:
		name = v.Name
	}
	if o := twin.base().nameOverride; o != "" {
		name = o
	}
	var parts []string
	for p := twin.Parent(); p != nil; p = p.Parent() {
		switch v := p.(type) {
		case *NamespaceNode:
			parts = append([]string{v.Name}, parts...)
		case *StructNode:
			parts = append([]string{v.Name}, parts...)
		}
	}
	if len(parts) == 0 {
		return name
	}
	return strings.Join(parts, "::") + "::" + name
}
