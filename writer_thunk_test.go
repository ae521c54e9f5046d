package hdrgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateThunks(t *testing.T, root *HeaderFileSetNode) string {
	t.Helper()
	tg := NewThunkGenerator(nil, nil)
	out, err := tg.Generate(root)
	require.NoError(t, err)
	return out
}

func TestThunksForFlattenedClass(t *testing.T) {
	root := mustParse(t, `
struct S
{
    int x;
    S();
    ~S();
    void m() const;
};
`)
	SnapshotTwins(root)
	require.NoError(t, ApplyFlattenClassFunctions(root))

	out := generateThunks(t, root)
	assert.Contains(t, out, `extern "C" S* S_S(void)`)
	assert.Contains(t, out, "return new ::S();")
	assert.Contains(t, out, `extern "C" void S_destroy(S* self)`)
	assert.Contains(t, out, "reinterpret_cast<::S*>(self)->~S();")
	assert.Contains(t, out, `extern "C" void S_m(const S* self)`)
	assert.Contains(t, out, "reinterpret_cast<const ::S*>(self)->m();")
}

func TestThunkNoCastWhenTypesMatch(t *testing.T) {
	root := mustParse(t, "int add(int a, int b);\n")
	SnapshotTwins(root)
	out := generateThunks(t, root)
	assert.Contains(t, out, "return ::add(a, b);")
	assert.NotContains(t, out, "cast")
}

func TestThunkNamespaceQualification(t *testing.T) {
	root := mustParse(t, `
namespace ImGui
{
    void End();
}
`)
	SnapshotTwins(root)
	require.NoError(t, ApplyFlattenNamespaces(root, nil))
	out := generateThunks(t, root)
	assert.Contains(t, out, `extern "C" void ImGui_End(void)`)
	assert.Contains(t, out, "::ImGui::End();")
}

func TestThunkEnumStaticCast(t *testing.T) {
	root := mustParse(t, `
enum ImGuiCol_ { ImGuiCol_Text };
typedef int ImGuiCol;
void push(ImGuiCol idx);
ImGuiCol current();
`)
	SnapshotTwins(root)
	require.NoError(t, ApplyRenamePrefix(root, "ImGuiCol", "cimCol"))
	out := generateThunks(t, root)
	assert.Contains(t, out, "::push(static_cast<::ImGuiCol>(idx));")
	assert.Contains(t, out, "return static_cast<cimCol>(::current());")
}

func TestThunkByValueConversion(t *testing.T) {
	root := mustParse(t, `
struct ImVec2
{
    float x, y;
    ImVec2();
};
void SetPos(ImVec2 pos);
ImVec2 GetPos();
`)
	SnapshotTwins(root)
	require.NoError(t, ApplyMarkByValueStructs(root, []string{"ImVec2"}))
	require.NoError(t, ApplyFlattenClassFunctions(root))
	out := generateThunks(t, root)

	// The by-value constructor converts on the way out.
	assert.Contains(t, out, "return ConvertFromCPP_ImVec2(::ImVec2());")
	// Flagged by-value structs always bridge through the helpers.
	assert.Contains(t, out, "::SetPos(ConvertToCPP_ImVec2(pos));")
	assert.Contains(t, out, "return ConvertFromCPP_ImVec2(::GetPos());")
}

func TestThunkReferenceDereference(t *testing.T) {
	root := mustParse(t, "void bump(float& v);\n")
	SnapshotTwins(root)
	require.NoError(t, ApplyConvertReferencesToPointers(root))
	out := generateThunks(t, root)
	assert.Contains(t, out, "::bump(*reinterpret_cast<float*>(v));")
}

func TestThunkVarargs(t *testing.T) {
	root := mustParse(t, `
namespace ImGui
{
    void Text(const char* fmt, ...);
}
`)
	SnapshotTwins(root)
	require.NoError(t, ApplyFlattenNamespaces(root, nil))
	out := generateThunks(t, root)
	assert.Contains(t, out, "va_list args;")
	assert.Contains(t, out, "va_start(args, fmt);")
	assert.Contains(t, out, "::ImGui::TextV(fmt, args);")
	assert.Contains(t, out, "va_end(args);")
}

func TestThunkVarargsSuffixTable(t *testing.T) {
	root := mustParse(t, `
struct Buf
{
    void appendf(const char* fmt, ...);
};
`)
	SnapshotTwins(root)
	require.NoError(t, ApplyFlattenClassFunctions(root))
	tg := NewThunkGenerator(nil, map[string]string{"appendf": "appendfv"})
	out, err := tg.Generate(root)
	require.NoError(t, err)
	assert.Contains(t, out, "appendfv(fmt, args)")
	assert.NotContains(t, out, "appendfV(")
}

func TestThunkDefaultArgumentHelper(t *testing.T) {
	root := mustParse(t, "int f(int a, float b = 1.5f);\n")
	SnapshotTwins(root)
	require.NoError(t, ApplyGenerateDefaultArgumentFunctions(root))
	out := generateThunks(t, root)
	assert.Contains(t, out, `extern "C" int fEx(int a, float b)`)
	assert.Contains(t, out, "return ::f(a, b);")
	assert.Contains(t, out, `extern "C" int f(int a)`)
	assert.Contains(t, out, "return ::f(a, 1.5f);")
}

func TestThunkUnformattedHelper(t *testing.T) {
	root := mustParse(t, "void h(const char* fmt, ...) IM_FMTARGS(1);\n")
	SnapshotTwins(root)
	require.NoError(t, ApplyAddUnformattedFunctions(root))
	out := generateThunks(t, root)
	assert.Contains(t, out, `extern "C" void hUnformatted(const char* text)`)
	assert.Contains(t, out, `::h("%s", text);`)
}

func TestThunkSkipsManualHelpers(t *testing.T) {
	root := mustParse(t, "void normal();\n")
	SnapshotTwins(root)
	require.NoError(t, ApplyAddManualHelperFunctions(root, []string{"void helper(int x);"}))
	out := generateThunks(t, root)
	assert.Contains(t, out, "::normal();")
	assert.NotContains(t, out, "helper")
}

func TestThunkConditionalDeltas(t *testing.T) {
	root := mustParse(t, `
#ifdef FOO
void a();
void b();
#endif
void c();
`)
	SnapshotTwins(root)
	out := generateThunks(t, root)
	// One opener covers both conditional functions, and it closes
	// before the unconditional one.
	assert.Equal(t, 1, countOccurrences(out, "#ifdef FOO"))
	assert.Equal(t, 1, countOccurrences(out, "#endif"))
	foo := indexOf(out, "#ifdef FOO")
	endif := indexOf(out, "#endif")
	c := indexOf(out, "::c()")
	assert.Less(t, foo, endif)
	assert.Less(t, endif, c)
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
