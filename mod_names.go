package hdrgen

import (
	"fmt"
	"strings"
)

// Rename and rewrite passes.

// ApplyAssignAnonymousNames gives every anonymous struct/class/union
// a stable, scope-derived name, so later passes that inspect struct
// names can treat them uniformly.
func ApplyAssignAnonymousNames(root Node) error {
	counters := map[string]int{}
	for _, s := range FindAll[*StructNode](root) {
		if s.Name != "" {
			continue
		}
		scope := "Anon"
		if parent := EnclosingStruct(s); parent != nil && parent.Name != "" {
			scope = parent.Name
		} else if h := EnclosingHeader(s); h != nil {
			scope = sanitizeIdentifier(strings.TrimSuffix(h.Filename, ".h"))
		}
		n := counters[scope]
		counters[scope]++
		s.Name = fmt.Sprintf("%s_Anon%d", scope, n)
	}
	return nil
}

// ApplyRenamePrefix renames every declaration whose name starts with
// old so it starts with new instead, and rewrites type references to
// match.
func ApplyRenamePrefix(root Node, from, to string) error {
	rename := func(name string) string {
		if strings.HasPrefix(name, from) {
			return to + name[len(from):]
		}
		return name
	}
	Inspect(root, func(n Node) bool {
		switch v := n.(type) {
		case *FunctionDeclNode:
			v.Name = rename(v.Name)
		case *StructNode:
			v.Name = rename(v.Name)
		case *EnumNode:
			v.Name = rename(v.Name)
		case *EnumElementNode:
			v.Name = rename(v.Name)
		case *TypedefNode:
			v.Name = rename(v.Name)
		case *DefineNode:
			v.Name = rename(v.Name)
		case *TypeNode:
			toks := v.Tokens()
			for i, t := range toks {
				if t.Kind == TokenThing {
					toks[i].Value = rename(t.Value)
				}
			}
		}
		return true
	})
	return nil
}

// ApplyRewriteDefines does substring replacement on define names and
// contents.
func ApplyRewriteDefines(root Node, from, to string) error {
	for _, d := range FindAll[*DefineNode](root) {
		d.Name = strings.ReplaceAll(d.Name, from, to)
		for i, t := range d.ContentTokens {
			d.ContentTokens[i].Value = strings.ReplaceAll(t.Value, from, to)
		}
	}
	return nil
}

// ApplyRenameFunctionBySignature renames functions that match both a
// name and an argument named argName; used to split apart same-named
// APIs whose C renditions must differ.
func ApplyRenameFunctionBySignature(root Node, oldName, argName, newName string) error {
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if fn.Name != oldName {
			continue
		}
		for _, a := range fn.Arguments {
			if a.Name == argName {
				fn.Name = newName
				break
			}
		}
	}
	return nil
}

// ApplyAddPrefixToLooseFunctions prefixes functions that sit at file
// scope outside any namespace or class, so they share the flattened
// naming convention.
func ApplyAddPrefixToLooseFunctions(root Node, prefix string) error {
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if strings.HasPrefix(fn.Name, prefix) {
			continue
		}
		if EnclosingStruct(fn) != nil || enclosingNamespace(fn) != nil || fn.OriginalClass != nil {
			continue
		}
		fn.SetNameOverride(fn.Name)
		fn.Name = prefix + fn.Name
	}
	return nil
}

func enclosingNamespace(n Node) *NamespaceNode {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if ns, ok := p.(*NamespaceNode); ok {
			return ns
		}
	}
	return nil
}

// sanitizeIdentifier turns an arbitrary string into a valid C
// identifier fragment.
func sanitizeIdentifier(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
