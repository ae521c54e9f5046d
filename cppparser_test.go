package hdrgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *HeaderFileSetNode {
	t.Helper()
	tokens, err := LexFile(src, "test.h")
	require.NoError(t, err)
	header, err := ParseHeader(tokens, "test.h")
	require.NoError(t, err)
	root := NewHeaderFileSetNode()
	AddChild(root, header)
	require.NoError(t, ValidateHierarchy(root))
	return root
}

func TestParseSimpleDeclarations(t *testing.T) {
	for _, test := range []struct {
		Name           string
		Input          string
		ExpectedOutput string
	}{
		{
			Name:  "Field",
			Input: "int x;\n",
			ExpectedOutput: `HeaderFile[test.h]
└── Field[x]
    └── Type[int]`,
		},
		{
			Name:  "Function",
			Input: "void f(int a);\n",
			ExpectedOutput: `HeaderFile[test.h]
└── Function[f]
    ├── Type[void]
    └── Argument[a]
        └── Type[int]`,
		},
		{
			Name:  "Typedef",
			Input: "typedef unsigned int ImU32;\n",
			ExpectedOutput: `HeaderFile[test.h]
└── Typedef[ImU32]
    └── Type[unsigned int]`,
		},
	} {
		t.Run(test.Name, func(t *testing.T) {
			root := mustParse(t, test.Input)
			header := root.Children()[0]
			assert.Equal(t, test.ExpectedOutput, Dump(header))
		})
	}
}

func TestParseStruct(t *testing.T) {
	root := mustParse(t, `
struct S
{
    int x;
    S();
    ~S();
    void m() const;
    static int helper(float f);
};
`)
	structs := FindAll[*StructNode](root)
	require.Len(t, structs, 1)
	s := structs[0]
	assert.Equal(t, "S", s.Name)
	require.Len(t, s.Fields(), 1)
	assert.Equal(t, "x", s.Fields()[0].Names[0].Name)

	fns := FindAll[*FunctionDeclNode](root)
	require.Len(t, fns, 4)
	assert.True(t, fns[0].IsConstructor)
	assert.True(t, fns[1].IsDestructor)
	assert.Equal(t, "~S", fns[1].Name)
	assert.True(t, fns[2].IsConst)
	assert.Equal(t, "public", fns[2].Accessibility())
	assert.True(t, fns[3].IsStatic)
}

func TestParseClassAccessibility(t *testing.T) {
	root := mustParse(t, `
class C
{
    int hidden;
public:
    int shown;
};
`)
	fields := FindAll[*FieldDeclNode](root)
	require.Len(t, fields, 2)
	assert.Equal(t, "private", fields[0].Accessibility())
	assert.Equal(t, "public", fields[1].Accessibility())
}

func TestParseEnum(t *testing.T) {
	root := mustParse(t, `
enum ImGuiDir_
{
    ImGuiDir_None = -1,
    ImGuiDir_Left,
    ImGuiDir_COUNT, // trailing comment
};
`)
	enums := FindAll[*EnumNode](root)
	require.Len(t, enums, 1)
	elements := enums[0].Elements()
	require.Len(t, elements, 3)
	assert.Equal(t, "ImGuiDir_None", elements[0].Name)
	assert.Equal(t, "-1", tokensToString(elements[0].ValueTokens))
	assert.Empty(t, elements[1].ValueTokens)
	require.NotNil(t, elements[2].AttachedComment())
	assert.Equal(t, "// trailing comment", elements[2].AttachedComment().Text)
}

func TestParseFunctionArgumentShapes(t *testing.T) {
	root := mustParse(t, `
void f(int, float x, const char* fmt, ...);
void g(int values[4], ImVec2 pos = ImVec2(0, 0));
void h(int (*cb)(void* data), void* user);
`)
	fns := FindAll[*FunctionDeclNode](root)
	require.Len(t, fns, 3)

	f := fns[0]
	require.Len(t, f.Arguments, 4)
	assert.Equal(t, "", f.Arguments[0].Name)
	assert.Equal(t, "x", f.Arguments[1].Name)
	assert.Equal(t, "fmt", f.Arguments[2].Name)
	assert.True(t, f.Arguments[3].IsVarargs)
	assert.True(t, f.IsVariadic())

	g := fns[1]
	require.Len(t, g.Arguments, 2)
	assert.Equal(t, []string{"4"}, g.Arguments[0].ArrayBounds)
	assert.True(t, g.Arguments[1].HasDefaultValue())
	assert.Equal(t, "ImVec2(0, 0)", g.Arguments[1].DefaultValueString())

	h := fns[2]
	require.Len(t, h.Arguments, 2)
	fp, ok := h.Arguments[0].ArgType.(*FunctionPointerTypeNode)
	require.True(t, ok)
	assert.Equal(t, "cb", fp.Name)
	require.Len(t, fp.Arguments, 1)
	assert.Equal(t, "data", fp.Arguments[0].Name)
}

func TestParseVoidArgumentList(t *testing.T) {
	root := mustParse(t, "int f(void);\n")
	fns := FindAll[*FunctionDeclNode](root)
	require.Len(t, fns, 1)
	assert.Empty(t, fns[0].Arguments)
}

func TestParseCommentAssociation(t *testing.T) {
	root := mustParse(t, `
// about f
void f();
void g(); // trailing

// floating

void h();
`)
	require.NoError(t, ApplyAttachPrecedingComments(root))

	fns := FindAll[*FunctionDeclNode](root)
	require.Len(t, fns, 3)

	require.Len(t, fns[0].PreComments(), 1)
	require.NotNil(t, fns[1].AttachedComment())
	assert.Equal(t, "// trailing", fns[1].AttachedComment().Text)
	// The blank line detaches the floating comment from h.
	assert.Empty(t, fns[2].PreComments())
}

func TestParseConditionals(t *testing.T) {
	root := mustParse(t, `
#ifdef FOO
void a();
#elif BAR
void b();
#else
void c();
#endif
`)
	conds := FindAll[*ConditionalNode](root)
	require.Len(t, conds, 2)
	outer := conds[0]
	assert.Equal(t, "ifdef", outer.Directive)
	assert.Equal(t, "FOO", outer.ExpressionString())

	require.Len(t, outer.ElseChildren, 1)
	nested, ok := outer.ElseChildren[0].(*ConditionalNode)
	require.True(t, ok)
	assert.True(t, nested.WasElif)
	assert.Equal(t, "BAR", nested.ExpressionString())
	require.NotEmpty(t, nested.ElseChildren)
}

func TestParsePreprocessorDirectives(t *testing.T) {
	root := mustParse(t, `
#pragma once
#include "imgui.h"
#include <stdarg.h>
#define IMGUI_VERSION "1.90"
#undef IMGUI_OLD
#error unsupported
`)
	header := root.Children()[0]
	require.Len(t, FindAll[*PragmaNode](header), 1)
	includes := FindAll[*IncludeNode](header)
	require.Len(t, includes, 2)
	assert.Equal(t, "imgui.h", includes[0].Path)
	assert.False(t, includes[0].UseAngleBrackets)
	assert.True(t, includes[1].UseAngleBrackets)
	defines := FindAll[*DefineNode](header)
	require.Len(t, defines, 1)
	assert.Equal(t, "IMGUI_VERSION", defines[0].Name)
	require.Len(t, FindAll[*UndefNode](header), 1)
	require.Len(t, FindAll[*ErrorDirectiveNode](header), 1)
}

func TestParseNamespaceAndTemplate(t *testing.T) {
	root := mustParse(t, `
namespace ImGui
{
    void Text(const char* fmt, ...);
}

template<typename T> struct ImVector
{
    T* Data;
    int Size;
};
`)
	namespaces := FindAll[*NamespaceNode](root)
	require.Len(t, namespaces, 1)
	assert.Equal(t, "ImGui", namespaces[0].Name)

	templates := FindAll[*TemplateNode](root)
	require.Len(t, templates, 1)
	assert.Equal(t, []string{"T"}, templates[0].Parameters)
	require.NotNil(t, templatedStruct(templates[0]))
}

func TestParseUnparsableRecovery(t *testing.T) {
	root := mustParse(t, `
void ok1();
IM_MSVC_RUNTIME_CHECKS_RESTORE
void ok2();
`)
	fns := FindAll[*FunctionDeclNode](root)
	require.Len(t, fns, 2)
	require.Len(t, FindAll[*UnparsableNode](root), 1)
}

func TestParseForwardDeclaration(t *testing.T) {
	root := mustParse(t, "struct ImDrawList;\nstruct ImFont;\n")
	structs := FindAll[*StructNode](root)
	require.Len(t, structs, 2)
	assert.True(t, structs[0].IsForwardDeclaration)
}

func TestParseBitfieldAndMultiName(t *testing.T) {
	root := mustParse(t, `
struct S
{
    int a, b[4];
    unsigned int flags : 8;
};
`)
	fields := FindAll[*FieldDeclNode](root)
	require.Len(t, fields, 2)
	require.Len(t, fields[0].Names, 2)
	assert.Equal(t, []string{"4"}, fields[0].Names[1].ArrayBounds)
	assert.Equal(t, "8", fields[1].Names[0].BitfieldWidth)
}

func TestParseExternC(t *testing.T) {
	root := mustParse(t, `
extern "C"
{
    void api();
}
`)
	blocks := FindAll[*ExternCNode](root)
	require.Len(t, blocks, 1)
	require.Len(t, FindAll[*FunctionDeclNode](blocks[0]), 1)
}
