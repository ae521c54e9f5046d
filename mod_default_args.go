package hdrgen

import "strings"

// ApplyGenerateDefaultArgumentFunctions splits every function with
// defaulted arguments in two: the original, renamed with an `Ex`
// suffix and exposing every argument, and a thunk under the original
// name that exposes only the non-defaulted arguments and fixes the
// rest at their default values.  The thunk carries an "Implied"
// comment listing the fixed values.
func ApplyGenerateDefaultArgumentFunctions(root Node) error {
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if fn.IsDefaultArgumentHelper || fn.IsManualHelper {
			continue
		}
		var defaulted []*FunctionArgumentNode
		for _, a := range fn.Arguments {
			if a.HasDefaultValue() {
				defaulted = append(defaulted, a)
			}
		}
		if len(defaulted) == 0 {
			continue
		}

		// A lone `flags = 0` default isn't worth a separate entry
		// point, and string-helper parameters get their own variants.
		if len(defaulted) == 1 && isTrivialFlagsDefault(defaulted[0]) {
			continue
		}
		if allStringHelperDefaults(defaulted) {
			continue
		}

		baseName := fn.Name
		fn.Name = baseName + "Ex"

		helper := fn.Clone().(*FunctionDeclNode)
		helper.Name = baseName
		helper.IsDefaultArgumentHelper = true

		var implied []string
		for _, a := range helper.Arguments {
			if !a.HasDefaultValue() {
				continue
			}
			a.IsImplicitDefault = true
			a.StubCallValue = a.DefaultValueString()
			implied = append(implied, a.Name+"="+a.StubCallValue)
		}
		SetAttachedComment(helper, NewLineCommentNode("// Implied "+strings.Join(implied, ", ")))

		InsertAfter(fn, helper)
	}
	return nil
}

func isTrivialFlagsDefault(a *FunctionArgumentNode) bool {
	t, ok := a.ArgType.(*TypeNode)
	if !ok {
		return false
	}
	return strings.Contains(t.PrimaryTypeName(), "Flags") && a.DefaultValueString() == "0"
}

func allStringHelperDefaults(defaulted []*FunctionArgumentNode) bool {
	for _, a := range defaulted {
		t, ok := a.ArgType.(*TypeNode)
		if !ok || t.PrimaryTypeName() != "ImStr" {
			return false
		}
	}
	return true
}
