package hdrgen

// Nested-class lifting and single-inheritance flattening.

// ApplyFlattenNestedClasses lifts named nested classes to their
// parent scope, renaming them Parent_Child and rewriting references.
// Runs to a fixed point for deeper nesting.
func ApplyFlattenNestedClasses(root Node) error {
	for iter := 0; ; iter++ {
		if iter > 64 {
			return passErrorf("FlattenNestedClasses", "class nesting did not converge")
		}
		moved := false
		for _, s := range FindAll[*StructNode](root) {
			parent := EnclosingStruct(s)
			if parent == nil || s.Name == "" || s.IsAnonymous {
				continue
			}
			// Inline field types stay with their field.
			if _, isField := s.Parent().(*FieldDeclNode); isField {
				continue
			}
			oldName := s.Name
			newName := parent.Name + "_" + oldName
			s.Name = newName
			rewriteNamespaceQualifier(root, parent.Name, parent.Name+"_")
			rewriteTypeName(root, oldName, newName)
			DetachNode(s)
			InsertBefore(parent, s)
			moved = true
		}
		if !moved {
			return nil
		}
	}
}

// rewriteTypeName renames bare type references.
func rewriteTypeName(root Node, old, new string) {
	for _, t := range FindAll[*TypeNode](root) {
		toks := t.Tokens()
		for i := range toks {
			if toks[i].Kind == TokenThing && toks[i].Value == old {
				toks[i].Value = new
			}
		}
	}
}

// ApplyFlattenInheritance splices the fields of a single-inheritance
// base class onto the front of the derived struct's field list.
// Multiple inheritance is not supported and fails the pass.
func ApplyFlattenInheritance(root Node) error {
	structsByName := map[string]*StructNode{}
	for _, s := range FindAll[*StructNode](root) {
		if !s.IsForwardDeclaration && s.Name != "" {
			structsByName[s.Name] = s
		}
	}

	var flatten func(s *StructNode, seen map[*StructNode]bool) error
	flatten = func(s *StructNode, seen map[*StructNode]bool) error {
		if len(s.BaseClasses) == 0 {
			return nil
		}
		if len(s.BaseClasses) > 1 {
			return passErrorf("FlattenInheritance",
				"%s uses multiple inheritance, which has no C rendition", s.Name)
		}
		if seen[s] {
			return passErrorf("FlattenInheritance", "inheritance cycle at %s", s.Name)
		}
		seen[s] = true
		base, ok := structsByName[s.BaseClasses[0]]
		if !ok {
			return passErrorf("FlattenInheritance",
				"%s inherits from %s, which is not defined in the parsed headers",
				s.Name, s.BaseClasses[0])
		}
		if err := flatten(base, seen); err != nil {
			return err
		}

		var clones []Node
		for _, f := range base.Fields() {
			clones = append(clones, f.Clone())
		}
		sb := s.base()
		for _, c := range clones {
			c.base().parent = s
		}
		sb.children = append(clones, sb.children...)
		s.BaseClasses = nil
		return nil
	}

	for _, s := range FindAll[*StructNode](root) {
		if err := flatten(s, map[*StructNode]bool{}); err != nil {
			return err
		}
	}
	return nil
}
