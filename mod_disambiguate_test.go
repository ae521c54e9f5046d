package hdrgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSuffixRemap() map[string]string {
	return map[string]string{
		"const char*": "Str",
		"unsigned int": "Uint",
	}
}

func functionNames(root Node) []string {
	var out []string
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		out = append(out, fn.Name)
	}
	return out
}

func TestDisambiguateFunctions(t *testing.T) {
	for _, test := range []struct {
		Name          string
		Input         string
		ExpectedNames []string
	}{
		{
			Name: "Remapped Suffix",
			Input: `
int f(int a);
int f(const char* s);
`,
			ExpectedNames: []string{"f", "fStr"},
		},
		{
			Name: "Primary Type Suffix",
			Input: `
void plot(float value);
void plot(double value);
`,
			// Equal argument counts: the first declaration keeps the
			// name.
			ExpectedNames: []string{"plot", "plotDouble"},
		},
		{
			Name: "Pointer Suffix",
			Input: `
void set(ImVec2 v);
void set(ImVec2* v);
`,
			ExpectedNames: []string{"set", "setImVec2Ptr"},
		},
		{
			Name: "Callback Suffix",
			Input: `
void sort(int count);
void sort(int count, int (*compare)(void* a, void* b));
`,
			ExpectedNames: []string{"sort", "sortCallback"},
		},
		{
			Name: "Shared Prefix Skipped",
			Input: `
void item(const char* label, int v);
void item(const char* label, float v);
`,
			ExpectedNames: []string{"item", "itemFloat"},
		},
		{
			Name: "Fewest Arguments Keeps Name",
			Input: `
void text(const char* begin, const char* end);
void text(const char* begin);
`,
			ExpectedNames: []string{"textStr", "text"},
		},
	} {
		t.Run(test.Name, func(t *testing.T) {
			root := mustParse(t, test.Input)
			require.NoError(t, ApplyDisambiguateFunctions(root, defaultSuffixRemap(), nil))
			assert.Equal(t, test.ExpectedNames, functionNames(root))
		})
	}
}

func TestDisambiguateSkipsMutuallyExclusivePair(t *testing.T) {
	root := mustParse(t, `
#ifdef FOO
void g(int a);
#else
void g(int a, int b);
#endif
`)
	require.NoError(t, ApplyDisambiguateFunctions(root, nil, nil))
	assert.Equal(t, []string{"g", "g"}, functionNames(root))
}

func TestDisambiguateConstSplit(t *testing.T) {
	root := mustParse(t, `
int* data();
const int* data();
`)
	require.NoError(t, ApplyDisambiguateFunctions(root, nil, nil))
	names := functionNames(root)
	assert.Contains(t, names, "data")
	assert.Contains(t, names, "data_Const")
}

func TestDisambiguateIgnoreList(t *testing.T) {
	root := mustParse(t, `
void g(int a);
void g(float b);
`)
	require.NoError(t, ApplyDisambiguateFunctions(root, nil, []string{"g"}))
	assert.Equal(t, []string{"g", "g"}, functionNames(root))
}

func TestDisambiguateTruncatesSuffixes(t *testing.T) {
	root := mustParse(t, `
void v();
void v(int a, float b);
void v(float a, float b);
`)
	require.NoError(t, ApplyDisambiguateFunctions(root, nil, nil))
	// One suffix is enough to tell the overloads apart.
	assert.Equal(t, []string{"v", "vInt", "vFloat"}, functionNames(root))
}
