package hdrgen

import "strings"

// ApplyAddUnformattedFunctions synthesises, for every variadic
// format-string function, a sibling that takes a single plain string:
// `hUnformatted(const char* text)` forwards to `h("%s", text)`.
func ApplyAddUnformattedFunctions(root Node) error {
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if fn.IsUnformattedHelper || fn.IsManualHelper {
			continue
		}
		if !fn.IsVariadic() || !hasFormatAttribute(fn) {
			continue
		}
		fmtIndex := formatArgumentIndex(fn)
		if fmtIndex < 0 {
			continue
		}

		helper := fn.Clone().(*FunctionDeclNode)
		helper.Name = fn.Name + "Unformatted"
		helper.IsUnformattedHelper = true
		helper.Attributes = nil

		var args []*FunctionArgumentNode
		for i, a := range helper.Arguments {
			switch {
			case a.IsVarargs:
			case i == fmtIndex:
				text := NewFunctionArgumentNode("text", NewTypeNodeFromString("const char*"))
				text.base().parent = helper
				args = append(args, text)
			default:
				args = append(args, a)
			}
		}
		helper.Arguments = args

		InsertAfter(fn, helper)
	}
	return nil
}

func hasFormatAttribute(fn *FunctionDeclNode) bool {
	for _, a := range fn.Attributes {
		if strings.HasPrefix(a, "IM_FMTARGS") || strings.HasPrefix(a, "IM_FMTLIST") {
			return true
		}
	}
	return false
}

// formatArgumentIndex finds the `const char* fmt` parameter that
// feeds the varargs.
func formatArgumentIndex(fn *FunctionDeclNode) int {
	for i, a := range fn.Arguments {
		if a.IsVarargs {
			continue
		}
		if t, ok := a.ArgType.(*TypeNode); ok {
			if t.PrimaryTypeName() == "char" && t.IsPointer() && a.Name == "fmt" {
				return i
			}
		}
	}
	return -1
}
