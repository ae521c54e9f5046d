package hdrgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCStructTypedef(t *testing.T) {
	root := mustParse(t, `struct ImRect
{
    ImVec2 Min;
    ImVec2 Max;
};
`)
	s := FindAll[*StructNode](root)[0]
	out := WriteC(s, &WriteContext{ForC: true})
	assert.Equal(t, `typedef struct ImRect_t
{
    ImVec2 Min;
    ImVec2 Max;
} ImRect;
`, out)
}

func TestWriteCStructWithForwardDeclaration(t *testing.T) {
	root := mustParse(t, "struct S { int x; };\n")
	s := FindAll[*StructNode](root)[0]
	s.HasForwardDeclaration = true
	out := WriteC(s, &WriteContext{ForC: true})
	assert.Equal(t, `struct S_t
{
    int x;
};
`, out)
}

func TestWriteCForwardDeclaration(t *testing.T) {
	root := mustParse(t, "struct ImDrawList;\n")
	s := FindAll[*StructNode](root)[0]
	out := WriteC(s, &WriteContext{ForC: true})
	assert.Equal(t, `#ifdef __cplusplus
typedef struct ImDrawList ImDrawList;
#else
typedef struct ImDrawList_t ImDrawList;
#endif
`, out)
}

func TestWriteCForwardDeclarationUnmodifiedName(t *testing.T) {
	root := mustParse(t, "struct ID3D11Device;\n")
	s := FindAll[*StructNode](root)[0]
	s.UseUnmodifiedNameForTypedef = true
	out := WriteC(s, &WriteContext{ForC: true})
	assert.Contains(t, out, "struct ID3D11Device;")
	assert.Contains(t, out, "typedef struct ID3D11Device ID3D11Device;")
}

func TestWriteCSingleLineStruct(t *testing.T) {
	root := mustParse(t, "struct V_int { int* Data; int Size; };\n")
	s := FindAll[*StructNode](root)[0]
	s.SingleLineDefinition = true
	out := WriteC(s, &WriteContext{ForC: true})
	assert.Equal(t, "typedef struct V_int_t { int* Data; int Size; } V_int;\n", out)
}

func TestWriteCEnum(t *testing.T) {
	root := mustParse(t, `enum E
{
    A,
    B = 4,
};
`)
	e := FindAll[*EnumNode](root)[0]
	out := WriteC(e, &WriteContext{ForC: true})
	assert.Equal(t, `typedef enum
{
    A,
    B = 4,
} E;
`, out)
}

func TestWriteCFunctionPointer(t *testing.T) {
	root := mustParse(t, "typedef int (*ImGuiInputTextCallback)(void* data);\n")
	td := FindAll[*TypedefNode](root)[0]
	out := WriteC(td, &WriteContext{ForC: true})
	assert.Equal(t, "typedef int (*ImGuiInputTextCallback)(void* data);\n", out)
}

func TestWriteCExternCBlock(t *testing.T) {
	root := mustParse(t, "void api(int x);\n")
	header := root.Children()[0].(*HeaderFileNode)
	require.NoError(t, ApplyWrapInExternC(root))
	out := WriteC(header, &WriteContext{ForC: true})
	assert.Equal(t, `#ifdef __cplusplus
extern "C" {
#endif
void api(int x);
#ifdef __cplusplus
} // extern "C"
#endif
`, out)
}

func TestWriteCImplicitDefaultsHidden(t *testing.T) {
	root := mustParse(t, "int f(int a, int b = 2);\n")
	SnapshotTwins(root)
	require.NoError(t, ApplyGenerateDefaultArgumentFunctions(root))
	fns := FindAll[*FunctionDeclNode](root)
	require.Len(t, fns, 2)
	assert.Equal(t, "int fEx(int a, int b);\n", WriteC(fns[0], &WriteContext{ForC: true}))
	out := WriteC(fns[1], &WriteContext{ForC: true})
	assert.Contains(t, out, "int f(int a);")
	assert.Contains(t, out, "// Implied b=2")
}

func TestWriteCConditionalElifChain(t *testing.T) {
	src := `#ifdef FOO
void a();
#elif BAR
void b();
#else
void c();
#endif
`
	root := mustParse(t, src)
	header := root.Children()[0].(*HeaderFileNode)
	out := WriteC(header, &WriteContext{})
	assert.Equal(t, src, out)
}

func TestWriteCNonNullableAndReferenceMarkers(t *testing.T) {
	root := mustParse(t, "void f(float& v);\n")
	require.NoError(t, ApplyConvertReferencesToPointers(root))
	fn := FindAll[*FunctionDeclNode](root)[0]

	plain := WriteC(fn, &WriteContext{ForC: true})
	assert.Equal(t, "void f(float* v);\n", plain)

	marked := WriteC(fn, &WriteContext{ForC: true, EmitConvertedReferencesAsReferences: true})
	assert.Equal(t, "void f(float& v);\n", marked)
}

func TestRoundTrip(t *testing.T) {
	src := `#pragma once
#include "prereq.h"
struct S;
typedef unsigned int ImU32;
enum E
{
    A,
    B = 4,
};
struct S
{
    int x; // attached
    void m() const;
};
namespace N
{
    void f(int a);
}
#ifdef FOO
void a();
#else
void b();
#endif
`
	first := mustParse(t, src)
	out := WriteC(first.Children()[0], &WriteContext{})
	second := mustParse(t, out)
	assert.Equal(t, Dump(first.Children()[0]), Dump(second.Children()[0]))
}
