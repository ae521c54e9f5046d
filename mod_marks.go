package hdrgen

// Marker passes: they annotate nodes for the writers without
// changing structure.

// ApplyMarkByValueStructs flags the structs whose instances cross the
// C boundary by value; cast generation bridges them through the
// generated convert helpers.
func ApplyMarkByValueStructs(root Node, names []string) error {
	set := toSet(names)
	for _, s := range FindAll[*StructNode](root) {
		if set[s.Name] {
			s.ByValue = true
		}
	}
	return nil
}

// ApplyMarkPlacementConstructorStructs flags structs whose
// constructors take a placement `self` instead of allocating.
func ApplyMarkPlacementConstructorStructs(root Node, names []string) error {
	set := toSet(names)
	for _, s := range FindAll[*StructNode](root) {
		if set[s.Name] {
			s.PlacementConstructor = true
		}
	}
	return nil
}

// ApplyMarkStructsUsingUnmodifiedName keeps the typedef tag equal to
// the struct name, for foreign types (DirectX handles, windowing
// handles) whose tag must not grow a `_t`.
func ApplyMarkStructsUsingUnmodifiedName(root Node, names []string) error {
	set := toSet(names)
	for _, s := range FindAll[*StructNode](root) {
		if set[s.Name] {
			s.UseUnmodifiedNameForTypedef = true
		}
	}
	return nil
}

// ApplyMarkSingleLineStructs renders the named structs as one-line
// definitions.
func ApplyMarkSingleLineStructs(root Node, names []string) error {
	set := toSet(names)
	for _, s := range FindAll[*StructNode](root) {
		if set[s.Name] {
			s.SingleLineDefinition = true
		}
	}
	return nil
}

// ApplyMarkTypesForPointerCast marks every type reference to the
// named types for pointer-cast bridging in the thunks.
func ApplyMarkTypesForPointerCast(root Node, typeNames []string) error {
	set := toSet(typeNames)
	for _, t := range FindAll[*TypeNode](root) {
		if set[t.PrimaryTypeName()] {
			t.UsePointerCast = true
		}
	}
	return nil
}

// ApplyExcludeDefinesFromMetadata hides configuration noise from the
// metadata output.
func ApplyExcludeDefinesFromMetadata(root Node, names []string) error {
	set := toSet(names)
	for _, d := range FindAll[*DefineNode](root) {
		if set[d.Name] {
			d.ExcludeFromMetadata = true
		}
	}
	return nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
