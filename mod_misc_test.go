package hdrgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachPrecedingCommentsStopsAtBlankLine(t *testing.T) {
	root := mustParse(t, `// one
// two
void f();

// floating

void g();
`)
	require.NoError(t, ApplyAttachPrecedingComments(root))
	fns := FindAll[*FunctionDeclNode](root)
	require.Len(t, fns[0].PreComments(), 2)
	assert.Empty(t, fns[1].PreComments())
}

func TestRemoveFunctionBodiesKeepsInlineDeclarations(t *testing.T) {
	root := mustParse(t, `
inline int square(int v) { return v * v; }
void plain();
`)
	require.NoError(t, ApplyRemoveFunctionBodies(root))
	fns := FindAll[*FunctionDeclNode](root)
	require.Len(t, fns, 2)
	assert.True(t, fns[0].IsInline)
	assert.Nil(t, fns[0].Body)
}

func TestRemoveOperatorFunctions(t *testing.T) {
	root := mustParse(t, `
struct V
{
    V operator+(const V& o);
    void keep();
};
`)
	require.NoError(t, ApplyRemoveOperatorFunctions(root))
	fns := FindAll[*FunctionDeclNode](root)
	require.Len(t, fns, 1)
	assert.Equal(t, "keep", fns[0].Name)
}

func TestRemoveNonAPIFields(t *testing.T) {
	root := mustParse(t, `
struct S
{
    int keep;
    static int counter;
    extern int linked;
};
`)
	require.NoError(t, ApplyRemoveNonAPIFields(root))
	fields := FindAll[*FieldDeclNode](root)
	require.Len(t, fields, 1)
	assert.Equal(t, "keep", fields[0].Names[0].Name)
}

func TestAssignAnonymousNames(t *testing.T) {
	root := mustParse(t, `
struct Outer
{
    union { int i; float f; };
};
`)
	require.NoError(t, ApplyAssignAnonymousNames(root))
	for _, s := range FindAll[*StructNode](root) {
		assert.NotEmpty(t, s.Name)
	}
	inner := FindAll[*StructNode](root)[1]
	assert.Equal(t, "Outer_Anon0", inner.Name)
	assert.True(t, inner.IsAnonymous)
}

func TestRewriteDefines(t *testing.T) {
	root := mustParse(t, "#define IMGUI_VERSION \"1.90\"\n#define IMGUI_CHECKVERSION() ImGui::DebugCheckVersionAndDataLayout(IMGUI_VERSION)\n")
	require.NoError(t, ApplyRewriteDefines(root, "IMGUI_", "CIMGUI_"))
	defines := FindAll[*DefineNode](root)
	assert.Equal(t, "CIMGUI_VERSION", defines[0].Name)
	assert.Contains(t, defines[1].ContentString(), "CIMGUI_VERSION")
}

func TestRenameFunctionBySignature(t *testing.T) {
	root := mustParse(t, `
void Value(const char* prefix, bool b);
void Value(const char* prefix, int v);
`)
	require.NoError(t, ApplyRenameFunctionBySignature(root, "Value", "b", "ValueBool"))
	assert.Equal(t, []string{"ValueBool", "Value"}, functionNames(root))
}

func TestAddPrefixToLooseFunctions(t *testing.T) {
	root := mustParse(t, `
namespace NS
{
    void inside();
}
void loose();
`)
	require.NoError(t, ApplyAddPrefixToLooseFunctions(root, "ig"))
	fns := FindAll[*FunctionDeclNode](root)
	assert.Equal(t, "inside", fns[0].Name)
	assert.Equal(t, "igloose", fns[1].Name)
	assert.Equal(t, "loose", fns[1].NameOverride())
}

func TestRewriteContainingConditional(t *testing.T) {
	root := mustParse(t, `
#ifdef IMGUI_USE_OBSOLETE
void old_api();
#endif
`)
	require.NoError(t, ApplyRewriteContainingConditional(root, "old_api", "ifndef", "IMGUI_DISABLE_OBSOLETE_FUNCTIONS"))
	cond := FindAll[*ConditionalNode](root)[0]
	assert.Equal(t, "ifndef", cond.Directive)
	assert.Equal(t, "IMGUI_DISABLE_OBSOLETE_FUNCTIONS", cond.ExpressionString())
}

func TestRewriteContainingConditionalMissingFunction(t *testing.T) {
	root := mustParse(t, "void f();\n")
	err := ApplyRewriteContainingConditional(root, "f", "ifdef", "X")
	require.Error(t, err)
}

func TestAlignEnumValues(t *testing.T) {
	root := mustParse(t, `
enum E
{
    Short = 1,
    MuchLongerName = 2,
};
`)
	require.NoError(t, ApplyAlignEnumValues(root))
	elements := FindAll[*EnumNode](root)[0].Elements()
	require.Equal(t, elements[0].valueColumn, elements[1].valueColumn)

	// Both `=` land in the same output column.
	out := WriteC(FindAll[*EnumNode](root)[0], &WriteContext{ForC: true})
	var cols []int
	for _, line := range splitLines(out) {
		if i := indexOf(line, "="); i >= 0 {
			cols = append(cols, i)
		}
	}
	require.Len(t, cols, 2)
	assert.Equal(t, cols[0], cols[1])
}

func TestExcludeDefinesFromMetadata(t *testing.T) {
	root := mustParse(t, "#define KEEP 1\n#define HIDE 2\n")
	SnapshotTwins(root)
	require.NoError(t, ApplyExcludeDefinesFromMetadata(root, []string{"HIDE"}))

	mg := NewMetadataGenerator()
	data, err := mg.Generate(root.MainHeaders())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"KEEP"`)
	assert.NotContains(t, string(data), `"HIDE"`)
}
