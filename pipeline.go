package hdrgen

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const defaultWritePermission = 0644 // -rw-r--r--

// Driver runs the fixed transformation pipeline over the parsed
// headers and writes the three outputs.  The pass order is part of
// the contract: rearranging it produces silently wrong output.
type Driver struct {
	cfg *Config

	root   *HeaderFileSetNode
	shadow Node // the unmodified twin tree, kept alive for the run
}

func NewDriver(cfg *Config) *Driver {
	return &Driver{cfg: cfg}
}

// Run executes parse, pipeline and emission.  Any panic from a
// structural invariant violation is converted into an error after
// printing the stack trace, matching the fatal-abort contract.
func (d *Driver) Run(srcPath, outputPrefix string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			errorf("conversion failed: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("conversion failed: %v", r)
		}
	}()

	if err := d.parseInputs(srcPath); err != nil {
		return err
	}
	d.cfg.SetString("generator.output_header_name", filepath.Base(outputPrefix)+".h")
	d.shadow = SnapshotTwins(d.root)
	if err := d.runPipeline(); err != nil {
		return err
	}
	return d.writeOutputs(srcPath, outputPrefix)
}

// DumpAST parses the inputs and returns the color-highlighted HAST
// dump, for debugging what the parser decoded before any pass runs.
func (d *Driver) DumpAST(srcPath string) (string, error) {
	if err := d.parseInputs(srcPath); err != nil {
		return "", err
	}
	return HighlightDump(d.root), nil
}

// parseInputs lexes and parses the source header and every
// prerequisite --include header into one header file set.
func (d *Driver) parseInputs(srcPath string) error {
	d.root = NewHeaderFileSetNode()

	parseOne := func(path string, prerequisite bool) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tokens, err := LexFile(string(data), filepath.Base(path))
		if err != nil {
			return err
		}
		header, err := ParseHeader(tokens, filepath.Base(path))
		if err != nil {
			return err
		}
		header.SourcePath = path
		header.IsPrerequisite = prerequisite
		AddChild(d.root, header)
		return nil
	}

	for _, inc := range d.cfg.GetStringSlice("generator.includes") {
		if err := parseOne(inc, true); err != nil {
			return err
		}
	}
	if imconfig := d.cfg.GetString("generator.imconfig_path"); imconfig != "" {
		if err := parseOne(imconfig, true); err != nil {
			return err
		}
	}
	return parseOne(srcPath, false)
}

type pipelineStep struct {
	name  string
	apply func() error
}

// runPipeline applies every modifier in the contract order, checking
// the parent/child invariants after each pass.
func (d *Driver) runPipeline() error {
	cfg := d.cfg
	root := d.root

	nsPrefixes := map[string]string{}
	if custom := cfg.GetString("generator.custom_namespace_prefix"); custom != "" {
		for _, ns := range FindAll[*NamespaceNode](root) {
			nsPrefixes[ns.Name] = custom
		}
	}

	remap := map[string]string{}
	for _, p := range cfg.GetPairSlice("generator.name_suffix_remap") {
		remap[p.First] = p.Second
	}

	steps := []pipelineStep{
		{"AttachPrecedingComments", func() error { return ApplyAttachPrecedingComments(root) }},
		{"RemoveFunctionBodies", func() error { return ApplyRemoveFunctionBodies(root) }},
		{"RemoveOperatorFunctions", func() error { return ApplyRemoveOperatorFunctions(root) }},
		{"RemoveNonAPIFields", func() error { return ApplyRemoveNonAPIFields(root) }},
		{"RemoveNestedTypedefs", func() error { return ApplyRemoveNestedTypedefs(root) }},
		{"AssignAnonymousNames", func() error { return ApplyAssignAnonymousNames(root) }},
		{"CalculateEnumValues", func() error { return ApplyCalculateEnumValues(root) }},
		{"MarkFlagsEnums", func() error { return ApplyMarkFlagsEnums(root, "Flags") }},
		{"MarkSpecialEnumValues", func() error { return ApplyMarkSpecialEnumValues(root) }},
		{"RemoveFunctions", func() error {
			return ApplyRemoveFunctions(root, cfg.GetStringSlice("generator.remove_functions"))
		}},
		{"RemoveTypedefs", func() error {
			return ApplyRemoveTypedefs(root, cfg.GetStringSlice("generator.remove_typedefs"))
		}},
		{"RemoveStructs", func() error {
			return ApplyRemoveStructs(root, cfg.GetStringSlice("generator.remove_structs"))
		}},
		{"ExcludeDefinesFromMetadata", func() error {
			return ApplyExcludeDefinesFromMetadata(root, cfg.GetStringSlice("generator.exclude_defines"))
		}},
		{"MarkByValueStructs", func() error {
			return ApplyMarkByValueStructs(root, cfg.GetStringSlice("generator.by_value_structs"))
		}},
		{"MarkPlacementConstructorStructs", func() error {
			return ApplyMarkPlacementConstructorStructs(root, cfg.GetStringSlice("generator.placement_constructor_structs"))
		}},
		{"MarkStructsUsingUnmodifiedName", func() error {
			return ApplyMarkStructsUsingUnmodifiedName(root, cfg.GetStringSlice("generator.unmodified_name_structs"))
		}},
		{"MarkTypesForPointerCast", func() error {
			return ApplyMarkTypesForPointerCast(root, cfg.GetStringSlice("generator.pointer_cast_types"))
		}},
		{"RemoveConstructorsAndDestructors", func() error {
			return ApplyRemoveConstructorsAndDestructors(root, cfg.GetStringSlice("generator.remove_constructors"))
		}},
		{"FlattenNamespaces", func() error { return ApplyFlattenNamespaces(root, nsPrefixes) }},
		{"FlattenNestedClasses", func() error { return ApplyFlattenNestedClasses(root) }},
		{"FlattenInheritance", func() error { return ApplyFlattenInheritance(root) }},
		{"FlattenTemplates", func() error { return ApplyFlattenTemplates(root) }},
		{"FlattenClassFunctions", func() error { return ApplyFlattenClassFunctions(root) }},
		{"ConvertReferencesToPointers", func() error { return ApplyConvertReferencesToPointers(root) }},
	}

	if cfg.GetBool("generator.by_value_to_pointer") {
		steps = append(steps, pipelineStep{"ConvertByValueStructArgsToPointers", func() error {
			return ApplyConvertByValueStructArgsToPointers(root)
		}})
	}

	steps = append(steps,
		pipelineStep{"AddImStrHelpers", func() error { return ApplyAddImStrHelpers(root) }},
		pipelineStep{"DisambiguateFunctions", func() error {
			return ApplyDisambiguateFunctions(root, remap, cfg.GetStringSlice("generator.disambiguation_ignore"))
		}},
	)

	if cfg.GetBool("generator.default_arg_functions") {
		steps = append(steps, pipelineStep{"GenerateDefaultArgumentFunctions", func() error {
			return ApplyGenerateDefaultArgumentFunctions(root)
		}})
	}
	if cfg.GetBool("generator.unformatted_functions") {
		steps = append(steps, pipelineStep{"AddUnformattedFunctions", func() error {
			return ApplyAddUnformattedFunctions(root)
		}})
	}

	steps = append(steps,
		pipelineStep{"AddFormatAttributes", func() error { return ApplyAddFormatAttributes(root) }},
		pipelineStep{"AddManualHelperFunctions", func() error {
			return ApplyAddManualHelperFunctions(root, cfg.GetStringSlice("generator.manual_helpers"))
		}},
		pipelineStep{"AddDefines", func() error {
			return ApplyAddDefines(root, cfg.GetPairSlice("generator.extra_defines"))
		}},
		pipelineStep{"AddHeaderBanner", func() error {
			if banner := cfg.GetStringSlice("generator.header_banner"); len(banner) > 0 {
				return ApplyAddHeaderBanner(root, banner)
			}
			return nil
		}},
	)

	for _, p := range cfg.GetPairSlice("generator.rewrite_defines") {
		pair := p
		steps = append(steps, pipelineStep{"RewriteDefines " + pair.First, func() error {
			return ApplyRewriteDefines(root, pair.First, pair.Second)
		}})
	}

	if prefix := cfg.GetString("generator.loose_function_prefix"); prefix != "" {
		steps = append(steps, pipelineStep{"AddPrefixToLooseFunctions", func() error {
			return ApplyAddPrefixToLooseFunctions(root, prefix)
		}})
	}

	for _, p := range cfg.GetPairSlice("generator.rename_by_signature") {
		pair := p
		steps = append(steps, pipelineStep{"RenameFunctionBySignature " + pair.First, func() error {
			oldName, argName, ok := strings.Cut(pair.First, ".")
			if !ok {
				return passErrorf("RenameFunctionBySignature", "bad spec `%s`, want oldName.argName", pair.First)
			}
			return ApplyRenameFunctionBySignature(root, oldName, argName, pair.Second)
		}})
	}

	for _, p := range cfg.GetPairSlice("generator.rewrite_conditionals") {
		pair := p
		steps = append(steps, pipelineStep{"RewriteContainingConditional " + pair.First, func() error {
			directive, expr, ok := strings.Cut(pair.Second, " ")
			if !ok {
				return passErrorf("RewriteContainingConditional", "bad spec `%s`, want `directive expression`", pair.Second)
			}
			return ApplyRewriteContainingConditional(root, pair.First, directive, expr)
		}})
	}

	steps = append(steps, pipelineStep{"MarkSingleLineStructs", func() error {
		return ApplyMarkSingleLineStructs(root, cfg.GetStringSlice("generator.single_line_structs"))
	}})

	for _, p := range cfg.GetPairSlice("generator.replace_prefix") {
		pair := p
		steps = append(steps, pipelineStep{"ReplacePrefix " + pair.First, func() error {
			return ApplyRenamePrefix(root, pair.First, pair.Second)
		}})
	}

	if cfg.GetBool("generator.backend_mode") {
		steps = append(steps, pipelineStep{"ChangeIncludes", func() error {
			return ApplyChangeIncludes(root, map[string]string{
				"imgui.h": cfg.GetString("generator.output_header_name"),
			})
		}})
	}

	steps = append(steps,
		pipelineStep{"ForwardDeclareStructs", func() error { return ApplyForwardDeclareStructs(root) }},
		pipelineStep{"WrapInExternC", func() error { return ApplyWrapInExternC(root) }},
		pipelineStep{"AlignEnumValues", func() error { return ApplyAlignEnumValues(root) }},
		pipelineStep{"AlignStructFields", func() error { return ApplyAlignStructFields(root) }},
		pipelineStep{"AlignFunctionNames", func() error { return ApplyAlignFunctionNames(root) }},
		pipelineStep{"AlignComments", func() error { return ApplyAlignComments(root) }},
	)

	for _, step := range steps {
		debugf("pass %s", step.name)
		if err := step.apply(); err != nil {
			return err
		}
		if err := ValidateHierarchy(root); err != nil {
			return fmt.Errorf("after pass %s: %w", step.name, err)
		}
	}
	return nil
}

// writeOutputs emits the C header, the C++ thunk source and the JSON
// metadata next to outputPrefix, each prefixed by its template files.
func (d *Driver) writeOutputs(srcPath, outputPrefix string) error {
	cfg := d.cfg
	headerName := filepath.Base(outputPrefix) + ".h"
	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))

	// C header.
	hOut, err := d.loadTemplates(stem, "h", headerName)
	if err != nil {
		return err
	}
	hCtx := &WriteContext{ForC: true}
	for _, header := range d.root.MainHeaders() {
		hOut += WriteC(header, hCtx)
	}
	if err := os.WriteFile(outputPrefix+".h", []byte(hOut), defaultWritePermission); err != nil {
		return err
	}

	// C++ thunk source.
	cppOut, err := d.loadTemplates(stem, "cpp", headerName)
	if err != nil {
		return err
	}
	custom := map[string]CustomType{}
	for _, p := range cfg.GetPairSlice("generator.custom_types") {
		custom[p.First] = CustomType{FromC: p.Second}
	}
	varargs := map[string]string{}
	for _, p := range cfg.GetPairSlice("generator.varargs_suffixes") {
		varargs[p.First] = p.Second
	}
	tg := NewThunkGenerator(custom, varargs)
	thunks, err := tg.Generate(d.root)
	if err != nil {
		return err
	}
	cppOut += thunks
	if err := os.WriteFile(outputPrefix+".cpp", []byte(cppOut), defaultWritePermission); err != nil {
		return err
	}

	// JSON metadata: one combined document, or one per consumed
	// header.
	if cfg.GetBool("generator.emit_combined_json") {
		mg := NewMetadataGenerator()
		data, err := mg.Generate(d.root.MainHeaders())
		if err != nil {
			return err
		}
		return os.WriteFile(outputPrefix+".json", data, defaultWritePermission)
	}
	for _, header := range d.root.MainHeaders() {
		mg := NewMetadataGenerator()
		data, err := mg.Generate([]*HeaderFileNode{header})
		if err != nil {
			return err
		}
		hstem := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
		path := fmt.Sprintf("%s_%s.json", outputPrefix, hstem)
		if len(d.root.MainHeaders()) == 1 {
			path = outputPrefix + ".json"
		}
		if err := os.WriteFile(path, data, defaultWritePermission); err != nil {
			return err
		}
	}
	return nil
}

// loadTemplates reads the two template files for an output extension
// (`common-*-template.ext` then `<stem>-*-template.ext`), substitutes
// the placeholder variables, and returns their concatenation.  A
// missing template file is fatal; with no template directory
// configured nothing is prepended.
func (d *Driver) loadTemplates(stem, ext, headerName string) (string, error) {
	dir := d.cfg.GetString("generator.template_dir")
	if dir == "" {
		return "", nil
	}
	out := ""
	for _, name := range []string{
		fmt.Sprintf("common-output-template.%s", ext),
		fmt.Sprintf("%s-output-template.%s", stem, ext),
	} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", &TemplateFileError{Path: path, Err: err}
		}
		out += d.substituteTemplate(string(data), headerName)
	}
	return out, nil
}

func (d *Driver) substituteTemplate(text, headerName string) string {
	r := strings.NewReplacer(
		"%OUTPUT_HEADER_NAME%", headerName,
		"%OUTPUT_HEADER_NAME_NO_INTERNAL%", strings.ReplaceAll(headerName, "_internal", ""),
		"%IMGUI_INCLUDE_DIR%", d.cfg.GetString("generator.imgui_include_dir"),
		"%BACKEND_INCLUDE_DIR%", d.cfg.GetString("generator.backend_include_dir"),
	)
	return r.Replace(text)
}
