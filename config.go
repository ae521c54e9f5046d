package hdrgen

import "fmt"

type Config map[string]*cfgVal

// NewConfig creates a new configuration object primed with all the
// default values expected by the modifier pipeline and the writers.
func NewConfig() *Config {
	m := make(Config)
	m.SetBool("generator.by_value_to_pointer", false)
	m.SetBool("generator.default_arg_functions", true)
	m.SetBool("generator.unformatted_functions", false)
	m.SetBool("generator.backend_mode", false)
	m.SetBool("generator.emit_combined_json", false)
	m.SetString("generator.custom_namespace_prefix", "")
	m.SetString("generator.imgui_include_dir", "")
	m.SetString("generator.backend_include_dir", "")
	m.SetString("generator.imconfig_path", "")
	m.SetString("generator.template_dir", "")
	m.SetStringSlice("generator.includes", nil)
	m.SetPairSlice("generator.replace_prefix", nil)
	m.SetPairSlice("generator.extra_defines", nil)
	m.SetStringSlice("generator.header_banner", nil)
	m.SetString("generator.loose_function_prefix", "")
	m.SetStringSlice("generator.single_line_structs", nil)
	// First is "oldName.argName", Second the new function name.
	m.SetPairSlice("generator.rename_by_signature", nil)
	// First is the function name, Second "directive expression".
	m.SetPairSlice("generator.rewrite_conditionals", nil)
	m.SetStringSlice("generator.remove_typedefs", nil)
	m.SetPairSlice("generator.rewrite_defines", nil)
	m.SetStringSlice("generator.remove_functions", nil)
	m.SetStringSlice("generator.remove_structs", nil)
	m.SetStringSlice("generator.remove_constructors", nil)
	m.SetStringSlice("generator.exclude_defines", nil)
	m.SetStringSlice("generator.by_value_structs", nil)
	m.SetStringSlice("generator.placement_constructor_structs", nil)
	m.SetStringSlice("generator.unmodified_name_structs", nil)
	m.SetStringSlice("generator.pointer_cast_types", nil)
	m.SetStringSlice("generator.disambiguation_ignore", nil)
	m.SetStringSlice("generator.manual_helpers", nil)
	m.SetPairSlice("generator.custom_types", nil)
	m.SetPairSlice("generator.varargs_suffixes", nil)
	m.SetPairSlice("generator.name_suffix_remap", []StringPair{
		{"const char*", "Str"},
		{"unsigned int", "Uint"},
		{"unsigned int*", "UintPtr"},
		{"ImGuiID", "ID"},
		{"const void*", "Ptr"},
	})
	return &m
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
	cfgValType_StringSlice
	cfgValType_PairSlice
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined:   "undefined",
		cfgValType_Bool:        "bool",
		cfgValType_Int:         "int",
		cfgValType_String:      "string",
		cfgValType_StringSlice: "string slice",
		cfgValType_PairSlice:   "pair slice",
	}[vt]
}

// StringPair is an ordered OLD=NEW pair, used by the prefix
// replacement and extra-define settings.
type StringPair struct {
	First  string
	Second string
}

type cfgVal struct {
	typ           cfgValType
	asBool        bool
	asInt         int
	asString      string
	asStringSlice []string
	asPairSlice   []StringPair
}

// assignType is mostly for preventing programming errors
func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("Can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("Can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Bool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path string, v int) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Int)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path string, v string) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_String)
	(*c)[path].asString = v
}

func (c *Config) SetStringSlice(path string, v []string) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_StringSlice)
	(*c)[path].asStringSlice = v
}

func (c *Config) SetPairSlice(path string, v []StringPair) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_PairSlice)
	(*c)[path].asPairSlice = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("Bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("Int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("String setting `%s` does not exist", path))
}

func (c *Config) GetStringSlice(path string) []string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_StringSlice)
		return val.asStringSlice
	}
	panic(fmt.Sprintf("String slice setting `%s` does not exist", path))
}

func (c *Config) GetPairSlice(path string) []StringPair {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_PairSlice)
		return val.asPairSlice
	}
	panic(fmt.Sprintf("Pair slice setting `%s` does not exist", path))
}
