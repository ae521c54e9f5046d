package hdrgen

// Structural normalisation passes that strip C++-only baggage from
// the tree before the flattening and generation passes run.

// ApplyRemoveFunctionBodies strips every function body.  Inline
// functions keep their declaration (body dropped) so they stay part
// of the emitted API surface.
func ApplyRemoveFunctionBodies(root Node) error {
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if fn.Body != nil {
			fn.Body.base().parent = nil
			fn.Body = nil
		}
	}
	return nil
}

// ApplyRemoveOperatorFunctions drops operator overloads; C has no
// rendition for them.
func ApplyRemoveOperatorFunctions(root Node) error {
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if fn.IsOperator {
			DetachNode(fn)
		}
	}
	return nil
}

// ApplyRemoveNonAPIFields removes extern, static and constexpr
// fields; they are storage declarations, not part of the struct
// layout the C side needs.
func ApplyRemoveNonAPIFields(root Node) error {
	for _, field := range FindAll[*FieldDeclNode](root) {
		if field.IsExtern || field.IsStatic || field.IsConstexpr {
			DetachNode(field)
		}
	}
	return nil
}

// ApplyRemoveNestedTypedefs removes typedefs declared inside structs;
// the flattened C surface only carries file-scope names.
func ApplyRemoveNestedTypedefs(root Node) error {
	for _, td := range FindAll[*TypedefNode](root) {
		if EnclosingStruct(td) != nil {
			DetachNode(td)
		}
	}
	return nil
}

// ApplyRemoveFunctions removes functions by name, for APIs the C
// binding deliberately does not carry.
func ApplyRemoveFunctions(root Node, names []string) error {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if drop[fn.Name] {
			DetachNode(fn)
		}
	}
	return nil
}

// ApplyRemoveStructs removes structs (and their forward
// declarations) by name.
func ApplyRemoveStructs(root Node, names []string) error {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	for _, s := range FindAll[*StructNode](root) {
		if drop[s.Name] {
			DetachNode(s)
		}
	}
	return nil
}

// ApplyRemoveDefines removes #define directives by name.
func ApplyRemoveDefines(root Node, names []string) error {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	for _, d := range FindAll[*DefineNode](root) {
		if drop[d.Name] {
			DetachNode(d)
		}
	}
	return nil
}

// ApplyRemoveTypedefs removes file-scope typedefs by name.
func ApplyRemoveTypedefs(root Node, names []string) error {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	for _, td := range FindAll[*TypedefNode](root) {
		if drop[td.Name] {
			DetachNode(td)
		}
	}
	return nil
}

// ApplyRemoveConstructorsAndDestructors drops the constructors and
// destructors of the named structs.  Used for trivially constructible
// by-value types before reference conversion runs, so no self thunk
// is generated for them.
func ApplyRemoveConstructorsAndDestructors(root Node, structNames []string) error {
	match := make(map[string]bool, len(structNames))
	for _, n := range structNames {
		match[n] = true
	}
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if !fn.IsConstructor && !fn.IsDestructor {
			continue
		}
		cls := EnclosingStruct(fn)
		if cls != nil && match[cls.Name] {
			DetachNode(fn)
		}
	}
	return nil
}
