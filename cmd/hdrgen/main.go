package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	hdrgen "github.com/hdrgen/hdrgen"
)

type options struct {
	output                 string
	templateDir            string
	logLevel               string
	noPassingStructsByValue bool
	noGenerateDefaultArgFns bool
	generateUnformattedFns  bool
	backend                 bool
	emitCombinedJSON        bool
	imguiIncludeDir         string
	backendIncludeDir       string
	imconfigPath            string
	customNamespacePrefix   string
	includes                []string
	replacePrefixes         []string
	astOnly                 bool
}

func main() {
	opts := &options{}
	started := false

	root := &cobra.Command{
		Use:   "hdrgen <src.h>",
		Short: "Generate a C API, C++ thunks and JSON metadata from a C++ header",
		Args:  cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			started = true
			return run(args[0], opts)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output path prefix (required)")
	flags.StringVar(&opts.templateDir, "templatedir", "", "Directory of static-text templates prepended to outputs")
	flags.StringVar(&opts.logLevel, "log-level", "WARN", "Minimum log level (DEBUG, INFO, WARN, ERROR)")
	flags.BoolVar(&opts.noPassingStructsByValue, "nopassingstructsbyvalue", false,
		"Convert by-value struct arguments into pointers")
	flags.BoolVar(&opts.noGenerateDefaultArgFns, "nogeneratedefaultargfunctions", false,
		"Skip generation of default-argument helper functions")
	flags.BoolVar(&opts.generateUnformattedFns, "generateunformattedfunctions", false,
		"Generate *Unformatted helpers for format-string functions")
	flags.BoolVar(&opts.backend, "backend", false,
		"Treat the input as a backend header")
	flags.BoolVar(&opts.emitCombinedJSON, "emit-combined-json-metadata", false,
		"Emit a single JSON document instead of one per header")
	flags.StringVar(&opts.imguiIncludeDir, "imgui-include-dir", "", "Include directory substituted into templates")
	flags.StringVar(&opts.backendIncludeDir, "backend-include-dir", "", "Backend include directory substituted into templates")
	flags.StringVar(&opts.imconfigPath, "imconfig-path", "", "Path of the configuration header to parse")
	flags.StringVar(&opts.customNamespacePrefix, "custom-namespace-prefix", "",
		"Prefix replacing the namespace name during flattening")
	flags.StringArrayVar(&opts.includes, "include", nil,
		"Additional prerequisite header parsed but not emitted (repeatable)")
	flags.StringArrayVar(&opts.replacePrefixes, "replace-prefix", nil,
		"OLD=NEW name prefix replacement (repeatable)")
	flags.BoolVar(&opts.astOnly, "ast-only", false,
		"Print the parsed header AST and exit")

	cobra.CheckErr(root.MarkFlagRequired("output"))

	if err := root.Execute(); err != nil {
		// Argument errors exit 2: cobra's flag and argument checks,
		// which fail before RunE starts, and a malformed
		// --replace-prefix.  Conversion failures exit 1 and have
		// already printed their diagnostics.
		if _, isUsage := err.(usageError); isUsage || !started {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type usageError struct{ error }

func run(srcPath string, opts *options) error {
	hdrgen.SetupLogging(opts.logLevel, os.Stderr)

	cfg := hdrgen.NewConfig()
	cfg.SetBool("generator.by_value_to_pointer", opts.noPassingStructsByValue)
	cfg.SetBool("generator.default_arg_functions", !opts.noGenerateDefaultArgFns)
	cfg.SetBool("generator.unformatted_functions", opts.generateUnformattedFns)
	cfg.SetBool("generator.backend_mode", opts.backend)
	cfg.SetBool("generator.emit_combined_json", opts.emitCombinedJSON)
	cfg.SetString("generator.template_dir", opts.templateDir)
	cfg.SetString("generator.imgui_include_dir", opts.imguiIncludeDir)
	cfg.SetString("generator.backend_include_dir", opts.backendIncludeDir)
	cfg.SetString("generator.imconfig_path", opts.imconfigPath)
	cfg.SetString("generator.custom_namespace_prefix", opts.customNamespacePrefix)
	cfg.SetStringSlice("generator.includes", opts.includes)

	var pairs []hdrgen.StringPair
	for _, rp := range opts.replacePrefixes {
		from, to, ok := strings.Cut(rp, "=")
		if !ok {
			return usageError{fmt.Errorf("bad --replace-prefix %q, want OLD=NEW", rp)}
		}
		pairs = append(pairs, hdrgen.StringPair{First: from, Second: to})
	}
	cfg.SetPairSlice("generator.replace_prefix", pairs)

	driver := hdrgen.NewDriver(cfg)
	if opts.astOnly {
		dump, err := driver.DumpAST(srcPath)
		if err != nil {
			return err
		}
		fmt.Println(dump)
		return nil
	}
	return driver.Run(srcPath, opts.output)
}
