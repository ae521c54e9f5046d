package hdrgen

// ApplyFlattenNamespaces collapses every namespace into its parent
// scope, prefixing contained declaration names and rewriting type
// references that used the namespace qualifier.  The prefix for a
// namespace defaults to its name plus an underscore; the prefixes map
// overrides that per namespace.
func ApplyFlattenNamespaces(root Node, prefixes map[string]string) error {
	for iter := 0; ; iter++ {
		namespaces := FindAll[*NamespaceNode](root)
		if len(namespaces) == 0 {
			return nil
		}
		if iter > 64 {
			return passErrorf("FlattenNamespaces", "namespace nesting did not converge")
		}
		for _, ns := range namespaces {
			prefix, ok := prefixes[ns.Name]
			if !ok {
				prefix = ns.Name + "_"
			}
			prefixNamespaceMembers(ns, prefix)
			rewriteNamespaceQualifier(root, ns.Name, prefix)

			parent := ns.Parent()
			children := append([]Node(nil), ns.Children()...)
			for _, c := range children {
				c.base().parent = nil
			}
			ns.base().children = nil
			ReplaceChild(parent, ns, children...)
		}
	}
}

// prefixNamespaceMembers renames the declarations contained in the
// namespace, looking through preprocessor conditionals.
func prefixNamespaceMembers(ns *NamespaceNode, prefix string) {
	var walk func(children []Node)
	walk = func(children []Node) {
		for _, c := range children {
			switch v := c.(type) {
			case *FunctionDeclNode:
				v.Name = prefix + v.Name
			case *StructNode:
				v.Name = prefix + v.Name
			case *EnumNode:
				v.Name = prefix + v.Name
			case *TypedefNode:
				v.Name = prefix + v.Name
			case *ConditionalNode:
				walk(v.Children())
				walk(v.ElseChildren)
			case *ExternCNode:
				walk(v.Children())
			}
		}
	}
	walk(ns.Children())
}

// rewriteNamespaceQualifier rewrites `NS::Name` type references into
// the flattened `prefixName` form everywhere in the tree.
func rewriteNamespaceQualifier(root Node, nsName, prefix string) {
	for _, t := range FindAll[*TypeNode](root) {
		toks := t.Tokens()
		var out []Token
		for i := 0; i < len(toks); i++ {
			if i+3 < len(toks) &&
				toks[i].Kind == TokenThing && toks[i].Value == nsName &&
				toks[i+1].Kind == TokenColon && toks[i+2].Kind == TokenColon &&
				toks[i+3].Kind == TokenThing {
				renamed := toks[i+3]
				renamed.Value = prefix + renamed.Value
				out = append(out, renamed)
				i += 3
				continue
			}
			out = append(out, toks[i])
		}
		t.SetTokens(out)
	}
}
