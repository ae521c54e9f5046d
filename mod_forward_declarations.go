package hdrgen

// ApplyForwardDeclareStructs inserts a forward declaration for every
// file-scope named struct at the top of its home header, so the C
// typedef names exist before any use.  Structs that already carry a
// forward declaration keep the existing one; definitions are flagged
// so the writer drops the redundant typedef.
func ApplyForwardDeclareStructs(root *HeaderFileSetNode) error {
	for _, header := range root.MainHeaders() {
		declared := map[string]bool{}
		var defined []*StructNode

		for _, s := range FindAll[*StructNode](header) {
			if s.Name == "" || s.IsAnonymous {
				continue
			}
			if _, isField := s.Parent().(*FieldDeclNode); isField {
				continue
			}
			if s.IsForwardDeclaration {
				declared[s.Name] = true
				continue
			}
			defined = append(defined, s)
		}

		var fresh []Node
		for _, s := range defined {
			s.HasForwardDeclaration = true
			if declared[s.Name] {
				continue
			}
			declared[s.Name] = true
			fwd := NewStructNode(s.Kind, s.Name)
			fwd.IsForwardDeclaration = true
			fwd.UseUnmodifiedNameForTypedef = s.UseUnmodifiedNameForTypedef
			fresh = append(fresh, fwd)
		}
		if len(fresh) == 0 {
			continue
		}
		fresh = append(fresh, NewBlankLinesNode(1))

		if anchor := firstDeclaration(header); anchor != nil {
			InsertBefore(anchor, fresh...)
		} else {
			AddChildren(header, fresh...)
		}

		// Existing in-tree forward declarations of now-defined
		// structs record that the definition follows.
		for _, s := range FindAll[*StructNode](header) {
			if s.IsForwardDeclaration && declared[s.Name] {
				s.HasForwardDeclaration = true
			}
		}
	}
	return nil
}
