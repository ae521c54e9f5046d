package hdrgen

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Decode-side mirrors of the emitted shapes; the TDP tree stays raw.

type jsonConditional struct {
	Condition  string `json:"condition"`
	Expression string `json:"expression"`
}

type jsonEnumElement struct {
	Name       string `json:"name"`
	Value      int64  `json:"value"`
	IsCount    bool   `json:"is_count"`
	IsInternal bool   `json:"is_internal"`
}

type jsonEnum struct {
	Name        string            `json:"name"`
	StorageType json.RawMessage   `json:"storage_type"`
	Elements    []jsonEnumElement `json:"elements"`
}

type jsonField struct {
	Name         string            `json:"name"`
	ArrayBounds  string            `json:"array_bounds"`
	Conditionals []jsonConditional `json:"conditionals"`
}

type jsonStruct struct {
	Name               string      `json:"name"`
	ForwardDeclaration bool        `json:"forward_declaration"`
	Fields             []jsonField `json:"fields"`
}

type jsonFunction struct {
	Name                       string            `json:"name"`
	OriginalFullyQualifiedName string            `json:"original_fully_qualified_name"`
	OriginalClass              string            `json:"original_class"`
	IsDefaultArgumentHelper    bool              `json:"is_default_argument_helper"`
	Conditionals               []jsonConditional `json:"conditionals"`
}

type jsonDoc struct {
	Enums     []jsonEnum     `json:"enums"`
	Structs   []jsonStruct   `json:"structs"`
	Functions []jsonFunction `json:"functions"`
}

func generateMetadata(t *testing.T, root *HeaderFileSetNode) (*jsonDoc, string) {
	t.Helper()
	mg := NewMetadataGenerator()
	data, err := mg.Generate(root.MainHeaders())
	require.NoError(t, err)
	var doc jsonDoc
	require.NoError(t, json.Unmarshal(data, &doc))
	return &doc, string(data)
}

func TestMetadataEnum(t *testing.T) {
	root := mustParse(t, `
enum E
{
    A,
    B = 4,
    C,
    E_COUNT,
};
`)
	SnapshotTwins(root)
	require.NoError(t, ApplyCalculateEnumValues(root))
	require.NoError(t, ApplyMarkSpecialEnumValues(root))

	doc, _ := generateMetadata(t, root)
	require.Len(t, doc.Enums, 1)
	e := doc.Enums[0]
	assert.Equal(t, "E", e.Name)
	assert.Nil(t, e.StorageType)
	require.Len(t, e.Elements, 4)
	assert.Equal(t, int64(0), e.Elements[0].Value)
	assert.Equal(t, int64(4), e.Elements[1].Value)
	assert.Equal(t, int64(5), e.Elements[2].Value)
	assert.True(t, e.Elements[3].IsCount)
}

func TestMetadataConditionals(t *testing.T) {
	root := mustParse(t, `
#ifdef FOO
void g(int a);
#else
void g(int a, int b);
#endif
`)
	SnapshotTwins(root)
	doc, _ := generateMetadata(t, root)
	require.Len(t, doc.Functions, 2)
	require.Len(t, doc.Functions[0].Conditionals, 1)
	assert.Equal(t, "ifdef", doc.Functions[0].Conditionals[0].Condition)
	assert.Equal(t, "FOO", doc.Functions[0].Conditionals[0].Expression)
	require.Len(t, doc.Functions[1].Conditionals, 1)
	assert.Equal(t, "ifndef", doc.Functions[1].Conditionals[0].Condition)
	assert.Equal(t, "FOO", doc.Functions[1].Conditionals[0].Expression)
}

func TestMetadataIncludeGuardFiltered(t *testing.T) {
	root := mustParse(t, `#ifndef MY_HEADER_H
#define MY_HEADER_H
void api();
#endif
`)
	SnapshotTwins(root)
	doc, _ := generateMetadata(t, root)
	require.Len(t, doc.Functions, 1)
	assert.Empty(t, doc.Functions[0].Conditionals)
}

func TestMetadataOriginalFullyQualifiedName(t *testing.T) {
	root := mustParse(t, `
namespace ImGui
{
    void Begin(const char* name);
}
struct S
{
    void m();
};
`)
	SnapshotTwins(root)
	require.NoError(t, ApplyFlattenNamespaces(root, nil))
	require.NoError(t, ApplyFlattenClassFunctions(root))

	doc, _ := generateMetadata(t, root)
	require.Len(t, doc.Functions, 2)
	assert.Equal(t, "ImGui_Begin", doc.Functions[0].Name)
	assert.Equal(t, "ImGui::Begin", doc.Functions[0].OriginalFullyQualifiedName)
	assert.Equal(t, "S_m", doc.Functions[1].Name)
	assert.Equal(t, "S::m", doc.Functions[1].OriginalFullyQualifiedName)
	assert.Equal(t, "S", doc.Functions[1].OriginalClass)
}

func TestMetadataTypeDescriptions(t *testing.T) {
	root := mustParse(t, "void f(const char* label, float& v);\n")
	SnapshotTwins(root)
	require.NoError(t, ApplyConvertReferencesToPointers(root))

	_, text := generateMetadata(t, root)
	// The plain declaration, the marker declaration re-rendering the
	// converted reference, and a TDP tree for every type.
	assert.Contains(t, text, `"declaration": "const char* label"`)
	assert.Contains(t, text, `"declaration": "float* v"`)
	assert.Contains(t, text, `"declaration_with_markers": "float& v"`)
	assert.Contains(t, text, `"kind": "Pointer"`)
	assert.Contains(t, text, `"is_reference": true`)
}

func TestMetadataForwardDeclarationElision(t *testing.T) {
	root := mustParse(t, `
struct Defined;
struct Defined { int x; };
struct OnlyForward;
`)
	SnapshotTwins(root)
	doc, _ := generateMetadata(t, root)
	var names []string
	for _, s := range doc.Structs {
		names = append(names, s.Name)
	}
	// The satisfied forward declaration is elided; the bare one is
	// kept.
	assert.Equal(t, []string{"Defined", "OnlyForward"}, names)
	assert.True(t, doc.Structs[1].ForwardDeclaration)
}

func TestMetadataStructFields(t *testing.T) {
	root := mustParse(t, `
struct S
{
    int a, b[4];
#ifdef EXTRA
    float c;
#endif
};
`)
	SnapshotTwins(root)
	doc, _ := generateMetadata(t, root)
	require.Len(t, doc.Structs, 1)
	fields := doc.Structs[0].Fields
	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Name)
	assert.Equal(t, "b", fields[1].Name)
	assert.Equal(t, "4", fields[1].ArrayBounds)
	assert.Equal(t, "c", fields[2].Name)
	require.Len(t, fields[2].Conditionals, 1)
	assert.Equal(t, "ifdef", fields[2].Conditionals[0].Condition)
}

func TestMetadataHelperFlags(t *testing.T) {
	root := mustParse(t, "int f(int a, float b = 2.0f);\n")
	SnapshotTwins(root)
	require.NoError(t, ApplyGenerateDefaultArgumentFunctions(root))

	doc, _ := generateMetadata(t, root)
	require.Len(t, doc.Functions, 2)
	assert.Equal(t, "fEx", doc.Functions[0].Name)
	assert.False(t, doc.Functions[0].IsDefaultArgumentHelper)
	assert.Equal(t, "f", doc.Functions[1].Name)
	assert.True(t, doc.Functions[1].IsDefaultArgumentHelper)
}
