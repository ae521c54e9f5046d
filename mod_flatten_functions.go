package hdrgen

// ApplyFlattenClassFunctions lifts member functions out of their
// classes into free functions: the function name gets the struct name
// prefix, a `self` pointer becomes the first argument (const when the
// method was const), constructors return a pointer to the struct (or
// a value for by-value types, or take a placement `self`), and
// destructors become `Name_destroy`.  Preprocessor conditionals
// around a member are preserved by cloning the conditional shell
// around the lifted function.
func ApplyFlattenClassFunctions(root Node) error {
	structs := FindAll[*StructNode](root)
	for _, cls := range structs {
		if cls.IsForwardDeclaration || cls.Name == "" {
			continue
		}
		if EnclosingStruct(cls) != nil {
			// Nested classes were lifted before this pass.
			return passErrorf("FlattenClassFunctions",
				"nested class %s survived until member flattening", cls.Name)
		}
		anchor := outermostAnchor(cls)
		for _, fn := range memberFunctions(cls) {
			conds := conditionalChainWithin(fn, cls)
			DetachNode(fn)
			liftMemberFunction(fn, cls)

			inserted := Node(fn)
			// Innermost conditional last; wrap outside-in.
			for i := len(conds) - 1; i >= 0; i-- {
				shell := NewConditionalNode(conds[i].Directive)
				shell.ExpressionTokens = append([]Token(nil), conds[i].ExpressionTokens...)
				AddChild(shell, inserted)
				inserted = shell
			}
			InsertAfter(anchor, inserted)
			anchor = inserted
		}
	}
	return nil
}

// outermostAnchor returns the node to insert lifted functions after:
// the struct itself, or its outermost enclosing conditional when the
// whole struct is conditional.
func outermostAnchor(cls *StructNode) Node {
	anchor := Node(cls)
	for p := anchor.Parent(); p != nil; p = p.Parent() {
		switch p.(type) {
		case *HeaderFileNode, *HeaderFileSetNode, *ExternCNode:
			return anchor
		}
		anchor = p
	}
	return anchor
}

// memberFunctions collects the class's functions in source order,
// looking through preprocessor conditionals.
func memberFunctions(cls *StructNode) []*FunctionDeclNode {
	var out []*FunctionDeclNode
	var walk func(children []Node)
	walk = func(children []Node) {
		for _, c := range children {
			switch v := c.(type) {
			case *FunctionDeclNode:
				out = append(out, v)
			case *ConditionalNode:
				walk(v.Children())
				walk(v.ElseChildren)
			}
		}
	}
	walk(cls.Children())
	return out
}

// conditionalChainWithin returns the conditionals around fn that sit
// inside cls, outermost first.
func conditionalChainWithin(fn *FunctionDeclNode, cls *StructNode) []*ConditionalNode {
	var chain []*ConditionalNode
	for p := fn.Parent(); p != nil && p != Node(cls); p = p.Parent() {
		if cond, ok := p.(*ConditionalNode); ok {
			chain = append([]*ConditionalNode{cond}, chain...)
		}
	}
	return chain
}

func liftMemberFunction(fn *FunctionDeclNode, cls *StructNode) {
	fn.OriginalClass = cls

	switch {
	case fn.IsConstructor:
		fn.Name = cls.Name + "_" + cls.Name
		switch {
		case cls.ByValue:
			fn.ReturnType = NewTypeNodeFromString(cls.Name)
			fn.IsByValueConstructor = true
		case cls.PlacementConstructor:
			fn.ReturnType = NewTypeNodeFromString("void")
			fn.IsPlacementConstructor = true
			fn.InsertArgument(0, NewFunctionArgumentNode("self",
				NewTypeNodeFromString(cls.Name+"*")))
		default:
			fn.ReturnType = NewTypeNodeFromString(cls.Name + "*")
		}
		fn.ReturnType.base().parent = fn

	case fn.IsDestructor:
		fn.Name = cls.Name + "_destroy"
		fn.ReturnType = NewTypeNodeFromString("void")
		fn.ReturnType.base().parent = fn
		fn.InsertArgument(0, NewFunctionArgumentNode("self",
			NewTypeNodeFromString(cls.Name+"*")))

	default:
		fn.Name = cls.Name + "_" + fn.Name
		if !fn.IsStatic {
			selfType := cls.Name + "*"
			if fn.IsConst {
				selfType = "const " + cls.Name + "*"
			}
			fn.InsertArgument(0, NewFunctionArgumentNode("self",
				NewTypeNodeFromString(selfType)))
		}
		fn.IsConst = false
	}
}
