package hdrgen

// Reference and by-value pointer conversions.

// ApplyConvertReferencesToPointers rewrites every `T&` argument and
// return type into `T*`, tagging the generated pointer token so the
// thunk generator re-dereferences when calling the C++ side and the
// metadata writer can render the original `&` form.
func ApplyConvertReferencesToPointers(root Node) error {
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if t, ok := fn.ReturnType.(*TypeNode); ok {
			convertReferenceTokens(t)
		}
		for _, a := range fn.Arguments {
			convertArgumentReference(a)
		}
	}
	for _, fp := range FindAll[*FunctionPointerTypeNode](root) {
		if fp.ReturnType != nil {
			convertReferenceTokens(fp.ReturnType)
		}
		for _, a := range fp.Arguments {
			convertArgumentReference(a)
		}
	}
	return nil
}

func convertArgumentReference(a *FunctionArgumentNode) {
	if t, ok := a.ArgType.(*TypeNode); ok {
		convertReferenceTokens(t)
	}
}

func convertReferenceTokens(t *TypeNode) {
	toks := t.Tokens()
	for i := range toks {
		if toks[i].Kind == TokenAmpersand {
			toks[i].Kind = TokenAsterisk
			toks[i].Value = "*"
			toks[i].WasReference = true
			toks[i].NonNullable = true
		}
	}
}

// ApplyConvertByValueStructArgsToPointers converts arguments that
// pass a struct by value into non-nullable pointers to the struct.
// Structs marked by-value keep their value semantics.  The thunk
// generator compensates for the extra indirection with a dereference.
func ApplyConvertByValueStructArgsToPointers(root Node) error {
	byValueOK := map[string]bool{}
	structNames := map[string]bool{}
	for _, s := range FindAll[*StructNode](root) {
		if s.Name == "" {
			continue
		}
		structNames[s.Name] = true
		if s.ByValue {
			byValueOK[s.Name] = true
		}
	}

	for _, fn := range FindAll[*FunctionDeclNode](root) {
		for _, a := range fn.Arguments {
			t, ok := a.ArgType.(*TypeNode)
			if !ok || t.IsPointer() {
				continue
			}
			name := t.PrimaryTypeName()
			if !structNames[name] || byValueOK[name] {
				continue
			}
			star := NewToken(TokenAsterisk, "*")
			star.NonNullable = true
			t.SetTokens(append(t.Tokens(), star))
		}
	}
	return nil
}
