package hdrgen

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDriver(t *testing.T, cfg *Config, src string) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "mylib.h")
	require.NoError(t, os.WriteFile(srcPath, []byte(src), 0644))

	prefix := filepath.Join(dir, "out")
	driver := NewDriver(cfg)
	require.NoError(t, driver.Run(srcPath, prefix))

	h, err := os.ReadFile(prefix + ".h")
	require.NoError(t, err)
	cpp, err := os.ReadFile(prefix + ".cpp")
	require.NoError(t, err)
	js, err := os.ReadFile(prefix + ".json")
	require.NoError(t, err)
	return string(h), string(cpp), string(js)
}

func TestDriverEndToEndOverloadsAndDefaults(t *testing.T) {
	h, cpp, js := runDriver(t, NewConfig(), `namespace X
{
    int f(int a = 0);
    int f(const char* s);
}
`)

	assert.Contains(t, h, "int X_fEx(int a);")
	assert.Contains(t, h, "int X_f(void);")
	assert.Contains(t, h, "int X_fStr(const char* s);")
	assert.Contains(t, h, `extern "C" {`)

	assert.Contains(t, cpp, "return ::X::f(a);")
	assert.Contains(t, cpp, "return ::X::f(0);")
	assert.Contains(t, cpp, "return ::X::f(s);")

	var doc jsonDoc
	require.NoError(t, json.Unmarshal([]byte(js), &doc))
	require.Len(t, doc.Functions, 3)
	assert.Equal(t, "X_fEx", doc.Functions[0].Name)
	assert.Equal(t, "X_f", doc.Functions[1].Name)
	assert.True(t, doc.Functions[1].IsDefaultArgumentHelper)
	assert.Equal(t, "X_fStr", doc.Functions[2].Name)
	for _, fn := range doc.Functions {
		assert.Equal(t, "X::f", fn.OriginalFullyQualifiedName)
	}
}

func TestDriverEndToEndStructMethods(t *testing.T) {
	h, cpp, _ := runDriver(t, NewConfig(), `struct S
{
    int x;
    S();
    void m() const;
};
`)

	assert.Contains(t, h, "S_S(void);")
	assert.Contains(t, h, "void S_m(const S* self);")
	// The struct is typedef'd and forward declared up front.
	assert.Contains(t, h, "typedef struct S_t S;")
	assert.Contains(t, h, "struct S_t")

	assert.Contains(t, cpp, "return new ::S();")
	assert.Contains(t, cpp, "reinterpret_cast<const ::S*>(self)->m();")
}

func TestDriverEndToEndUnformatted(t *testing.T) {
	cfg := NewConfig()
	cfg.SetBool("generator.unformatted_functions", true)
	h, cpp, _ := runDriver(t, cfg, `void h(const char* fmt, ...) IM_FMTARGS(1);
`)

	assert.Contains(t, h, "void hUnformatted(const char* text);")
	assert.Contains(t, cpp, `::h("%s", text);`)
}

func TestDriverEndToEndConditionalOverloads(t *testing.T) {
	h, _, js := runDriver(t, NewConfig(), `#ifdef FOO
void g(int a);
#else
void g(int a, int b);
#endif
`)

	// Mutually exclusive overloads keep their shared name.
	assert.Contains(t, h, "void g(int a);")
	assert.Contains(t, h, "void g(int a, int b);")
	assert.NotContains(t, h, "gInt")

	var doc jsonDoc
	require.NoError(t, json.Unmarshal([]byte(js), &doc))
	require.Len(t, doc.Functions, 2)
	assert.Equal(t, "ifdef", doc.Functions[0].Conditionals[0].Condition)
	assert.Equal(t, "ifndef", doc.Functions[1].Conditionals[0].Condition)
}

func TestDriverTemplateFiles(t *testing.T) {
	dir := t.TempDir()
	tdir := filepath.Join(dir, "templates")
	require.NoError(t, os.Mkdir(tdir, 0755))
	for _, name := range []string{"common-output-template.h", "mylib-output-template.h",
		"common-output-template.cpp", "mylib-output-template.cpp"} {
		require.NoError(t, os.WriteFile(filepath.Join(tdir, name),
			[]byte("// template "+name+" for %OUTPUT_HEADER_NAME%\n"), 0644))
	}

	srcPath := filepath.Join(dir, "mylib.h")
	require.NoError(t, os.WriteFile(srcPath, []byte("void api();\n"), 0644))

	cfg := NewConfig()
	cfg.SetString("generator.template_dir", tdir)
	driver := NewDriver(cfg)
	require.NoError(t, driver.Run(srcPath, filepath.Join(dir, "out")))

	h, err := os.ReadFile(filepath.Join(dir, "out.h"))
	require.NoError(t, err)
	assert.Contains(t, string(h), "// template common-output-template.h for out.h")
	assert.Contains(t, string(h), "// template mylib-output-template.h for out.h")
}

func TestDriverMissingTemplateIsFatal(t *testing.T) {
	dir := t.TempDir()
	tdir := filepath.Join(dir, "templates")
	require.NoError(t, os.Mkdir(tdir, 0755))

	srcPath := filepath.Join(dir, "mylib.h")
	require.NoError(t, os.WriteFile(srcPath, []byte("void api();\n"), 0644))

	cfg := NewConfig()
	cfg.SetString("generator.template_dir", tdir)
	driver := NewDriver(cfg)
	err := driver.Run(srcPath, filepath.Join(dir, "out"))
	require.Error(t, err)
	var terr *TemplateFileError
	assert.ErrorAs(t, err, &terr)
}

func TestDriverReplacePrefix(t *testing.T) {
	cfg := NewConfig()
	cfg.SetPairSlice("generator.replace_prefix", []StringPair{{First: "ImGui_", Second: "ig"}})
	h, _, _ := runDriver(t, cfg, `namespace ImGui
{
    void End();
}
`)
	assert.Contains(t, h, "void igEnd(void);")
}

func TestDriverPrerequisiteIncludesNotEmitted(t *testing.T) {
	dir := t.TempDir()
	prereq := filepath.Join(dir, "prereq.h")
	require.NoError(t, os.WriteFile(prereq, []byte("struct Helper { int v; };\n"), 0644))
	srcPath := filepath.Join(dir, "mylib.h")
	require.NoError(t, os.WriteFile(srcPath, []byte("void use(Helper* h);\n"), 0644))

	cfg := NewConfig()
	cfg.SetStringSlice("generator.includes", []string{prereq})
	driver := NewDriver(cfg)
	require.NoError(t, driver.Run(srcPath, filepath.Join(dir, "out")))

	h, err := os.ReadFile(filepath.Join(dir, "out.h"))
	require.NoError(t, err)
	assert.Contains(t, string(h), "void use(Helper* h);")
	assert.NotContains(t, string(h), "struct Helper_t")
}
