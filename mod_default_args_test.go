package hdrgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDefaultArgumentFunctions(t *testing.T) {
	root := mustParse(t, "int f(int a, float b = 1.0f, const char* c = NULL);\n")
	SnapshotTwins(root)
	require.NoError(t, ApplyGenerateDefaultArgumentFunctions(root))
	require.NoError(t, ValidateHierarchy(root))

	fns := FindAll[*FunctionDeclNode](root)
	require.Len(t, fns, 2)

	ex := fns[0]
	assert.Equal(t, "fEx", ex.Name)
	assert.False(t, ex.IsDefaultArgumentHelper)
	require.Len(t, ex.Arguments, 3)

	helper := fns[1]
	assert.Equal(t, "f", helper.Name)
	assert.True(t, helper.IsDefaultArgumentHelper)
	// Same return type, defaulted arguments hidden from the surface.
	assert.Equal(t, "int", helper.ReturnType.(*TypeNode).String())
	visible := 0
	for _, a := range helper.Arguments {
		if !a.IsImplicitDefault {
			visible++
		} else {
			assert.NotEmpty(t, a.StubCallValue)
		}
	}
	assert.Equal(t, 1, visible)

	// The helper shares the original's twin, so thunks can reach the
	// C++ entity.
	assert.Same(t, ex.Twin(), helper.Twin())

	// The implied values are spelled out on the attached comment.
	require.NotNil(t, helper.AttachedComment())
	assert.Contains(t, helper.AttachedComment().Text, "Implied")
	assert.Contains(t, helper.AttachedComment().Text, "b=1.0f")
}

func TestDefaultArgumentsSkipTrivialFlags(t *testing.T) {
	root := mustParse(t, "void window(const char* name, ImGuiWindowFlags flags = 0);\n")
	SnapshotTwins(root)
	require.NoError(t, ApplyGenerateDefaultArgumentFunctions(root))
	assert.Len(t, FindAll[*FunctionDeclNode](root), 1)
}

func TestDefaultArgumentsSkipHelpers(t *testing.T) {
	root := mustParse(t, "void f(int a = 1);\n")
	SnapshotTwins(root)
	fn := FindAll[*FunctionDeclNode](root)[0]
	fn.IsManualHelper = true
	require.NoError(t, ApplyGenerateDefaultArgumentFunctions(root))
	assert.Len(t, FindAll[*FunctionDeclNode](root), 1)
}

func TestAddUnformattedFunctions(t *testing.T) {
	root := mustParse(t, "void h(const char* fmt, ...) IM_FMTARGS(1);\nvoid plain(int x);\n")
	SnapshotTwins(root)
	require.NoError(t, ApplyAddUnformattedFunctions(root))
	require.NoError(t, ValidateHierarchy(root))

	fns := FindAll[*FunctionDeclNode](root)
	require.Len(t, fns, 3)

	helper := fns[1]
	assert.Equal(t, "hUnformatted", helper.Name)
	assert.True(t, helper.IsUnformattedHelper)
	require.Len(t, helper.Arguments, 1)
	assert.Equal(t, "text", helper.Arguments[0].Name)
	assert.Equal(t, "const char*", helper.Arguments[0].ArgType.(*TypeNode).String())
	assert.False(t, helper.IsVariadic())
	assert.Same(t, fns[0].Twin(), helper.Twin())
}

func TestAddImStrHelpers(t *testing.T) {
	root := mustParse(t, "void label(ImStr text);\n")
	SnapshotTwins(root)
	require.NoError(t, ApplyAddImStrHelpers(root))

	fns := FindAll[*FunctionDeclNode](root)
	require.Len(t, fns, 2)
	assert.True(t, fns[0].HasImstrHelper)
	assert.Equal(t, "labelStr", fns[1].Name)
	assert.True(t, fns[1].IsImstrHelper)
	assert.Equal(t, "const char*", fns[1].Arguments[0].ArgType.(*TypeNode).String())
}
