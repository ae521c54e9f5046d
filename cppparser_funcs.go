package hdrgen

// Function and field declaration decoding, shared between header and
// class scope.

func (p *Parser) tryParseFunction(cls *StructNode) (*FunctionDeclNode, error) {
	start := p.peekNN()

	var (
		isInline, isStatic, isVirtual bool
		attrs                         []string
	)
prefixes:
	for {
		t := p.stream.Peek()
		switch {
		case t.Kind == TokenConstexpr:
			p.stream.Get()
			isInline = true
		case t.Kind == TokenThing && functionSpecifierWords[t.Value]:
			p.stream.Get()
			switch t.Value {
			case "inline":
				isInline = true
			case "static":
				isStatic = true
			case "virtual":
				isVirtual = true
			}
		case t.Kind == TokenThing && isAPIMarker(t.Value):
			p.stream.Get()
			attrs = append(attrs, t.Value)
		default:
			break prefixes
		}
	}

	// Destructor?
	if p.stream.Peek().Kind == TokenTilde {
		if cls == nil {
			return nil, p.errf(p.peekNN().Location, "destructor outside class body")
		}
		p.getNN()
		name, err := p.expect(TokenThing)
		if err != nil {
			return nil, err
		}
		if name.Value != cls.Name {
			return nil, p.errf(name.Location, "destructor name ~%s does not match class %s",
				name.Value, cls.Name)
		}
		fn := NewFunctionDeclNode("~"+name.Value, nil)
		fn.IsDestructor = true
		fn.IsVirtual = isVirtual
		fn.SetSpan(NewSpan(start.Location, start.Location))
		if _, err := p.expect(TokenLParen); err != nil {
			return nil, err
		}
		if err := p.parseArgumentList(&fn.Arguments, fn); err != nil {
			return nil, err
		}
		return fn, p.parseFunctionTail(fn)
	}

	var typeTokens []Token
	name := ""
	isOperator := false

	for name == "" {
		t := p.stream.Peek()
		switch t.Kind {
		case TokenThing:
			if t.Value == "operator" {
				p.stream.Get()
				sym := "operator"
				if p.stream.Peek().Kind == TokenLParen && p.operatorCallFollows() {
					p.stream.Get()
					p.stream.Get()
					sym += "()"
				} else {
					for p.stream.Peek().Kind != TokenLParen && p.stream.Peek().Kind != TokenEOF &&
						p.stream.Peek().Kind != TokenNewline {
						sym += p.stream.Get().Value
					}
				}
				name = sym
				isOperator = true
				continue
			}
			p.stream.Get()
			if p.stream.Peek().Kind == TokenLParen {
				if len(typeTokens) == 0 {
					// No return type: only a constructor fits.
					if cls == nil || t.Value != cls.Name {
						return nil, p.errf(t.Location, "`%s` is not a function declaration", t.Value)
					}
				}
				name = t.Value
				continue
			}
			typeTokens = append(typeTokens, t)
		case TokenConst, TokenUnsigned, TokenSigned,
			TokenStruct, TokenClass, TokenUnion, TokenEnum,
			TokenAsterisk, TokenAmpersand:
			typeTokens = append(typeTokens, p.stream.Get())
		case TokenColon:
			cp := p.stream.Checkpoint()
			first := p.stream.Get()
			if p.stream.Peek().Kind == TokenColon {
				typeTokens = append(typeTokens, first, p.stream.Get())
				continue
			}
			p.stream.Rewind(cp)
			return nil, p.errf(t.Location, "stray `:` in declaration")
		case TokenLTriangle:
			if len(typeTokens) == 0 {
				return nil, p.errf(t.Location, "stray `<` in declaration")
			}
			depth := 0
			for {
				tt := p.stream.Get()
				if tt.Kind == TokenEOF || tt.Kind == TokenNewline {
					return nil, p.errf(tt.Location, "unterminated template argument list")
				}
				typeTokens = append(typeTokens, tt)
				if tt.Kind == TokenLTriangle {
					depth++
				}
				if tt.Kind == TokenRTriangle {
					depth--
					if depth == 0 {
						break
					}
				}
			}
		default:
			return nil, p.errf(t.Location, "unexpected %s in declaration", t)
		}
	}

	isCtor := len(typeTokens) == 0 && !isOperator
	var ret Node
	if !isCtor {
		if len(typeTokens) == 0 {
			return nil, p.errf(start.Location, "function `%s` has no return type", name)
		}
		ret = NewTypeNode(typeTokens...)
	}
	fn := NewFunctionDeclNode(name, ret)
	fn.IsInline = isInline
	fn.IsStatic = isStatic
	fn.IsVirtual = isVirtual
	fn.IsOperator = isOperator
	fn.IsConstructor = isCtor
	fn.Attributes = attrs
	fn.SetSpan(NewSpan(start.Location, start.Location))
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	if err := p.parseArgumentList(&fn.Arguments, fn); err != nil {
		return nil, err
	}
	return fn, p.parseFunctionTail(fn)
}

// operatorCallFollows distinguishes `operator()` from the argument
// list paren that follows every operator name.
func (p *Parser) operatorCallFollows() bool {
	cp := p.stream.Checkpoint()
	defer p.stream.Rewind(cp)
	if p.getNN().Kind != TokenLParen {
		return false
	}
	if p.getNN().Kind != TokenRParen {
		return false
	}
	return p.peekNN().Kind == TokenLParen
}

// parseFunctionTail handles everything after the argument list:
// const qualifier, attributes, pure-virtual/default/delete markers,
// and the body or terminating semicolon.
func (p *Parser) parseFunctionTail(fn *FunctionDeclNode) error {
	for {
		t := p.peekNN()
		switch {
		case t.Kind == TokenConst:
			p.getNN()
			fn.IsConst = true
			continue
		case t.Kind == TokenThing && postfixSpecifierWords[t.Value]:
			p.getNN()
			continue
		case t.Kind == TokenThing:
			// Annotation macro, with an optional argument group:
			// IM_FMTARGS(1) and friends.
			p.getNN()
			attr := t.Value
			if p.peekNN().Kind == TokenLParen {
				depth := 0
				for {
					tt := p.getNN()
					if tt.Kind == TokenEOF {
						return p.errf(tt.Location, "unterminated attribute on %s", fn.Name)
					}
					attr += tt.Value
					if tt.Kind == TokenLParen {
						depth++
					}
					if tt.Kind == TokenRParen {
						depth--
						if depth == 0 {
							break
						}
					}
				}
			}
			fn.Attributes = append(fn.Attributes, attr)
			continue
		}
		break
	}

	t := p.peekNN()
	switch t.Kind {
	case TokenEqual:
		// `= 0`, `= default`, `= delete`
		p.getNN()
		p.getNN()
		_, err := p.expect(TokenSemicolon)
		return err
	case TokenSemicolon:
		p.getNN()
		return nil
	case TokenLBrace:
		body, err := p.parseCodeBlock()
		if err != nil {
			return err
		}
		fn.Body = body
		body.base().parent = fn
		if p.stream.Peek().Kind == TokenSemicolon {
			p.stream.Get()
		}
		return nil
	}
	return p.errf(t.Location, "expected `;` or body after function %s, got %s", fn.Name, t)
}

// parseCodeBlock consumes a balanced brace block, braces included,
// retaining every token verbatim.
func (p *Parser) parseCodeBlock() (*CodeBlockNode, error) {
	open, err := p.expect(TokenLBrace)
	if err != nil {
		return nil, err
	}
	tokens := []Token{open}
	depth := 1
	for depth > 0 {
		t := p.stream.Get()
		switch t.Kind {
		case TokenEOF:
			return nil, p.errf(open.Location, "unterminated code block")
		case TokenLBrace:
			depth++
		case TokenRBrace:
			depth--
		}
		tokens = append(tokens, t)
	}
	block := NewCodeBlockNode(tokens)
	block.SetSpan(NewSpan(open.Location, open.Location))
	return block, nil
}

// ---- Arguments ----

// parseArgumentList parses `...)` bodies; the opening paren has been
// consumed, the closing one is eaten here.  parent gets the parent
// link of every argument.
func (p *Parser) parseArgumentList(into *[]*FunctionArgumentNode, parent Node) error {
	for {
		t := p.peekNN()
		if t.Kind == TokenRParen {
			p.getNN()
			return nil
		}
		if t.Kind == TokenEllipses {
			p.getNN()
			arg := NewVarargsArgumentNode()
			arg.base().parent = parent
			*into = append(*into, arg)
		} else {
			arg, err := p.parseArgument()
			if err != nil {
				return err
			}
			// A sole `void` means an empty list.
			if len(*into) == 0 && arg.Name == "" && p.peekNN().Kind == TokenRParen {
				if tn, ok := arg.ArgType.(*TypeNode); ok && tn.String() == "void" {
					p.getNN()
					return nil
				}
			}
			arg.base().parent = parent
			*into = append(*into, arg)
		}
		t = p.peekNN()
		switch t.Kind {
		case TokenComma:
			p.getNN()
		case TokenRParen:
		default:
			return p.errf(t.Location, "expected `,` or `)` in argument list, got %s", t)
		}
	}
}

func (p *Parser) parseArgument() (*FunctionArgumentNode, error) {
	p.skipNewlines()
	start := p.stream.Peek()
	typeTokens, err := p.collectTypeTokens()
	if err != nil {
		return nil, err
	}
	if len(typeTokens) == 0 {
		return nil, p.errf(start.Location, "expected argument type, got %s", start)
	}

	// Function pointer argument: `R (*name)(args)`.
	if p.peekNN().Kind == TokenLParen {
		fnptr, err := p.parseFunctionPointer(typeTokens)
		if err != nil {
			return nil, err
		}
		arg := NewFunctionArgumentNode(fnptr.Name, fnptr)
		arg.SetSpan(NewSpan(start.Location, start.Location))
		return p.parseArgumentTail(arg)
	}

	name, rest, ok := splitDeclaratorName(typeTokens)
	if !ok {
		name = ""
		rest = typeTokens
	}
	arg := NewFunctionArgumentNode(name, NewTypeNode(rest...))
	arg.SetSpan(NewSpan(start.Location, start.Location))
	return p.parseArgumentTail(arg)
}

// parseArgumentTail picks up array bounds and a default value
// expression, which runs to the top-level comma or closing paren.
func (p *Parser) parseArgumentTail(arg *FunctionArgumentNode) (*FunctionArgumentNode, error) {
	for p.peekNN().Kind == TokenLSquare {
		p.getNN()
		bound := ""
		for {
			t := p.getNN()
			if t.Kind == TokenRSquare {
				break
			}
			if t.Kind == TokenEOF {
				return nil, p.errf(t.Location, "unterminated array bound on argument %s", arg.Name)
			}
			bound += t.Value
		}
		arg.ArrayBounds = append(arg.ArrayBounds, bound)
	}

	if p.peekNN().Kind == TokenEqual {
		p.getNN()
		depth := 0
		for {
			t := p.peekNN()
			if t.Kind == TokenEOF {
				return nil, p.errf(t.Location, "unterminated default value on argument %s", arg.Name)
			}
			if depth == 0 && (t.Kind == TokenComma || t.Kind == TokenRParen) {
				break
			}
			switch t.Kind {
			case TokenLParen:
				depth++
			case TokenRParen:
				depth--
			}
			arg.DefaultValueTokens = append(arg.DefaultValueTokens, p.getNN())
		}
	}
	return arg, nil
}

// parseFunctionPointer decodes `(*name)(args)` once the return type
// tokens have been collected; the stream sits on the first paren.
func (p *Parser) parseFunctionPointer(returnTokens []Token) (*FunctionPointerTypeNode, error) {
	open, err := p.expect(TokenLParen)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenAsterisk); err != nil {
		return nil, err
	}
	name := ""
	if p.peekNN().Kind == TokenThing {
		name = p.getNN().Value
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	fnptr := NewFunctionPointerTypeNode(name, NewTypeNode(returnTokens...))
	fnptr.SetSpan(NewSpan(open.Location, open.Location))
	if err := p.parseArgumentList(&fnptr.Arguments, fnptr); err != nil {
		return nil, err
	}
	return fnptr, nil
}

// ---- Fields ----

func (p *Parser) tryParseField() (Node, error) {
	start := p.peekNN()

	var isStatic, isExtern, isConstexpr, isMutable bool
prefixes:
	for {
		t := p.stream.Peek()
		switch {
		case t.Kind == TokenConstexpr:
			p.stream.Get()
			isConstexpr = true
		case t.Kind == TokenThing && t.Value == "static":
			p.stream.Get()
			isStatic = true
		case t.Kind == TokenThing && t.Value == "extern":
			p.stream.Get()
			isExtern = true
		case t.Kind == TokenThing && t.Value == "mutable":
			p.stream.Get()
			isMutable = true
		case t.Kind == TokenThing && isAPIMarker(t.Value):
			p.stream.Get()
		default:
			break prefixes
		}
	}

	typeTokens, err := p.collectTypeTokens()
	if err != nil {
		return nil, err
	}
	if len(typeTokens) == 0 {
		return nil, p.errf(start.Location, "expected field type, got %s", start)
	}

	// Function pointer field: `R (*name)(args);`
	if p.peekNN().Kind == TokenLParen {
		fnptr, err := p.parseFunctionPointer(typeTokens)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		field := NewFieldDeclNode(fnptr, FieldName{Name: fnptr.Name})
		field.IsStatic = isStatic
		field.IsExtern = isExtern
		field.IsConstexpr = isConstexpr
		field.SetSpan(NewSpan(start.Location, start.Location))
		return field, nil
	}

	name, rest, ok := splitDeclaratorName(typeTokens)
	if !ok {
		return nil, p.errf(start.Location, "field declaration with no name")
	}

	field := NewFieldDeclNode(NewTypeNode(rest...))
	field.IsStatic = isStatic
	field.IsExtern = isExtern
	field.IsConstexpr = isConstexpr
	field.IsMutable = isMutable
	field.SetSpan(NewSpan(start.Location, start.Location))

	for {
		fname := FieldName{Name: name}
		for p.peekNN().Kind == TokenLSquare {
			p.getNN()
			bound := ""
			for {
				t := p.getNN()
				if t.Kind == TokenRSquare {
					break
				}
				if t.Kind == TokenEOF {
					return nil, p.errf(t.Location, "unterminated array bound on field %s", name)
				}
				bound += t.Value
			}
			fname.ArrayBounds = append(fname.ArrayBounds, bound)
		}
		if p.peekNN().Kind == TokenColon {
			p.getNN()
			w := p.getNN()
			if w.Kind != TokenNumber && w.Kind != TokenThing {
				return nil, p.errf(w.Location, "bad bit-field width on %s", name)
			}
			fname.BitfieldWidth = w.Value
		}
		if p.peekNN().Kind == TokenEqual {
			// Default member initializer; dropped, the C surface
			// can't carry it.
			p.getNN()
			depth := 0
			for {
				t := p.peekNN()
				if t.Kind == TokenEOF {
					return nil, p.errf(t.Location, "unterminated initializer on field %s", name)
				}
				if depth == 0 && (t.Kind == TokenComma || t.Kind == TokenSemicolon) {
					break
				}
				switch t.Kind {
				case TokenLParen, TokenLBrace:
					depth++
				case TokenRParen, TokenRBrace:
					depth--
				}
				p.getNN()
			}
		}
		field.Names = append(field.Names, fname)

		t := p.getNN()
		switch t.Kind {
		case TokenSemicolon:
			return field, nil
		case TokenComma:
			nt, err := p.expect(TokenThing)
			if err != nil {
				return nil, err
			}
			name = nt.Value
		default:
			return nil, p.errf(t.Location, "expected `,` or `;` in field declaration, got %s", t)
		}
	}
}

// isAPIMarker recognises annotation macros like IMGUI_API that
// decorate exported declarations.
func isAPIMarker(word string) bool {
	if len(word) < 4 {
		return false
	}
	upper := true
	for _, c := range word {
		if c != '_' && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			upper = false
			break
		}
	}
	if !upper {
		return false
	}
	return hasSuffixWord(word, "_API") || word == "IMGUI_IMPL_API"
}

func hasSuffixWord(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
