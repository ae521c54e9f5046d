package hdrgen

import "strings"

// ApplyDisambiguateFunctions resolves overload name clashes.  For
// each set of functions sharing a name it derives suffixes from the
// non-shared argument types, truncated to the shortest length that
// still yields unique names.  Exactly two functions under mutually
// exclusive preprocessor branches are left alone: they can never
// clash at compile time.  An unresolved clash fails the pass.
func ApplyDisambiguateFunctions(root Node, nameSuffixRemap map[string]string, ignore []string) error {
	skip := toSet(ignore)

	byName := map[string][]*FunctionDeclNode{}
	var order []string
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if _, seen := byName[fn.Name]; !seen {
			order = append(order, fn.Name)
		}
		byName[fn.Name] = append(byName[fn.Name], fn)
	}

	for _, name := range order {
		functions := byName[name]
		if len(functions) < 2 || skip[name] {
			continue
		}
		if len(functions) == 2 && MutuallyExclusive(functions[0], functions[1]) {
			continue
		}

		// Longest identical prefix of argument types across the set.
		numCommon := 0
		for {
			if numCommon >= len(functions[0].Arguments) {
				break
			}
			matched := true
			want := argumentTypeString(functions[0].Arguments[numCommon])
			for _, fn := range functions {
				if numCommon >= len(fn.Arguments) ||
					argumentTypeString(fn.Arguments[numCommon]) != want {
					matched = false
					break
				}
			}
			if !matched {
				break
			}
			numCommon++
		}

		// The member with the fewest arguments keeps its name.
		shortest := functions[0]
		for _, fn := range functions {
			if len(fn.Arguments) < len(shortest.Arguments) {
				shortest = fn
			}
		}

		suffixes := map[*FunctionDeclNode][]string{}
		maxSuffixes := 0
		for _, fn := range functions {
			if fn == shortest {
				suffixes[fn] = nil
				continue
			}
			var list []string
			for i := numCommon; i < len(fn.Arguments); i++ {
				arg := fn.Arguments[i]
				if arg.IsVarargs {
					continue
				}
				list = append(list, suffixForArgument(arg, nameSuffixRemap))
			}
			suffixes[fn] = list
			if len(list) > maxSuffixes {
				maxSuffixes = len(list)
			}
		}

		// Shortest truncation that still yields unique names.
		needed := 1
		for needed < maxSuffixes {
			seen := map[string]bool{}
			clash := false
			for _, fn := range functions {
				s := joinTruncated(suffixes[fn], needed)
				if seen[s] {
					clash = true
					break
				}
				seen[s] = true
			}
			if !clash {
				break
			}
			needed++
		}

		for _, fn := range functions {
			fn.Name += joinTruncated(suffixes[fn], needed)
		}

		// Two functions that still clash and differ in return-type
		// const-ness split on _Const.
		if len(functions) == 2 && functions[0].Name == functions[1].Name {
			c0 := returnTypeIsConst(functions[0])
			c1 := returnTypeIsConst(functions[1])
			if c0 != c1 {
				if c0 {
					functions[0].Name += "_Const"
				} else {
					functions[1].Name += "_Const"
				}
			}
		}

		seen := map[string]bool{}
		for _, fn := range functions {
			if seen[fn.Name] {
				return passErrorf("DisambiguateFunctions",
					"unresolved overload clash on %s", fn.Name)
			}
			seen[fn.Name] = true
		}
	}
	return nil
}

func argumentTypeString(a *FunctionArgumentNode) string {
	if a.IsVarargs {
		return "..."
	}
	ctx := &WriteContext{}
	text, _ := typeText(a.ArgType, ctx)
	return text
}

// suffixForArgument derives the disambiguation suffix for one
// argument: the remap table first, then the capitalised primary type
// name with Ptr for pointers; function pointers are all Callback.
func suffixForArgument(a *FunctionArgumentNode, remap map[string]string) string {
	full := argumentTypeString(a)
	if s, ok := remap[full]; ok {
		return s
	}
	if _, isFnPtr := a.ArgType.(*FunctionPointerTypeNode); isFnPtr {
		return "Callback"
	}
	t := a.ArgType.(*TypeNode)
	suffix := t.PrimaryTypeName()
	if suffix == "" {
		suffix = "Arg"
	}
	suffix = strings.ToUpper(suffix[:1]) + suffix[1:]
	if strings.HasSuffix(full, "*") {
		suffix += "Ptr"
	}
	return sanitizeIdentifier(strings.ReplaceAll(suffix, "&", ""))
}

func joinTruncated(list []string, n int) string {
	if len(list) > n {
		list = list[:n]
	}
	return strings.Join(list, "")
}

func returnTypeIsConst(fn *FunctionDeclNode) bool {
	if t, ok := fn.ReturnType.(*TypeNode); ok {
		return t.IsConst()
	}
	return false
}
