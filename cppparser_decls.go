package hdrgen

import "strings"

// Declaration-level productions of the header parser: structs,
// enums, typedefs, templates, namespaces, functions and fields.

// peekNN peeks past newlines, for productions that legitimately span
// lines (bodies, argument lists, base class lists).
func (p *Parser) peekNN() Token {
	return p.stream.PeekSkipNewlines()
}

// skipNewlines consumes any pending newline tokens.
func (p *Parser) skipNewlines() {
	for p.stream.Peek().Kind == TokenNewline {
		p.stream.Get()
	}
}

// getNN consumes the next non-newline token.
func (p *Parser) getNN() Token {
	for {
		t := p.stream.Get()
		if t.Kind != TokenNewline {
			return t
		}
	}
}

func (p *Parser) expect(kind TokenKind) (Token, error) {
	t := p.getNN()
	if t.Kind != kind {
		return t, p.errf(t.Location, "expected %s, got %s", kind, t)
	}
	return t, nil
}

var builtinTypeWords = map[string]bool{
	"void": true, "bool": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "wchar_t": true,
}

var functionSpecifierWords = map[string]bool{
	"inline": true, "static": true, "virtual": true, "explicit": true,
	"friend": true,
}

var postfixSpecifierWords = map[string]bool{
	"override": true, "final": true, "noexcept": true,
}

// ---- Scope content parsers ----

// parseHeaderDeclaration parses one declaration legal at header (or
// namespace) scope.
func parseHeaderDeclaration(p *Parser) (Node, error) {
	t := p.stream.Peek()
	switch t.Kind {
	case TokenNamespace:
		return p.parseNamespace()
	case TokenTemplate:
		return p.parseTemplate()
	case TokenStruct, TokenClass, TokenUnion:
		return p.parseStructLike()
	case TokenEnum:
		return p.parseEnum()
	case TokenTypedef:
		return p.parseTypedef()
	case TokenThing:
		if t.Value == "extern" {
			if n, ok, err := p.tryParseExternC(); ok {
				return n, err
			}
		}
	}
	return p.parseDeclaration(p.enclosingClass)
}

// parseClassDeclaration parses one member declaration inside a
// class/struct/union body.
func parseClassDeclaration(p *Parser) (Node, error) {
	t := p.stream.Peek()
	switch t.Kind {
	case TokenThing:
		switch t.Value {
		case "public", "private", "protected":
			cp := p.stream.Checkpoint()
			p.getNN()
			if p.stream.Peek().Kind == TokenColon {
				p.stream.Get()
				p.currentAccess = t.Value
				return nil, nil
			}
			p.stream.Rewind(cp)
		}
	case TokenStruct, TokenClass, TokenUnion:
		return p.parseStructLike()
	case TokenEnum:
		return p.parseEnum()
	case TokenTypedef:
		return p.parseTypedef()
	case TokenTemplate:
		return p.parseTemplate()
	}
	return p.parseDeclaration(p.enclosingClass)
}

// ---- Namespace / extern "C" ----

func (p *Parser) parseNamespace() (Node, error) {
	p.getNN() // namespace
	name, err := p.expect(TokenThing)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	ns := NewNamespaceNode(name.Value)
	ns.SetSpan(NewSpan(name.Location, name.Location))
	p.pushContentParser(parseHeaderDeclaration)
	err = p.parseChildrenInto(childSink(ns), func(k TokenKind) bool { return k == TokenRBrace })
	p.popContentParser()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	return ns, nil
}

func (p *Parser) tryParseExternC() (Node, bool, error) {
	cp := p.stream.Checkpoint()
	p.getNN() // extern
	lang := p.stream.Peek()
	if lang.Kind != TokenString || strings.Trim(lang.Value, `"`) != "C" {
		p.stream.Rewind(cp)
		return nil, false, nil
	}
	p.getNN()
	ec := NewExternCNode(false)
	if p.peekNN().Kind == TokenLBrace {
		p.getNN()
		p.pushContentParser(parseHeaderDeclaration)
		err := p.parseChildrenInto(childSink(ec), func(k TokenKind) bool { return k == TokenRBrace })
		p.popContentParser()
		if err != nil {
			return nil, true, err
		}
		if _, err := p.expect(TokenRBrace); err != nil {
			return nil, true, err
		}
		return ec, true, nil
	}
	child, err := parseHeaderDeclaration(p)
	if err != nil {
		return nil, true, err
	}
	if child != nil {
		AddChild(ec, child)
	}
	return ec, true, nil
}

// ---- Class / struct / union ----

func (p *Parser) parseStructLike() (Node, error) {
	cp := p.stream.Checkpoint()
	kw := p.getNN()
	kind := kw.Value

	name := ""
	if p.peekNN().Kind == TokenThing {
		name = p.getNN().Value
	}

	switch p.peekNN().Kind {
	case TokenSemicolon:
		p.getNN()
		node := NewStructNode(kind, name)
		node.IsForwardDeclaration = true
		node.SetSpan(NewSpan(kw.Location, kw.Location))
		return node, nil

	case TokenColon, TokenLBrace:
		return p.parseStructBody(kw, kind, name)

	default:
		// Elaborated type usage like `struct Foo bar;`; let the
		// field/function machinery have the whole thing.
		p.stream.Rewind(cp)
		return p.parseDeclaration(p.enclosingClass)
	}
}

func (p *Parser) parseStructBody(kw Token, kind, name string) (Node, error) {
	node := NewStructNode(kind, name)
	node.SetSpan(NewSpan(kw.Location, kw.Location))

	if p.peekNN().Kind == TokenColon {
		p.getNN()
		for {
			t := p.peekNN()
			if t.Kind == TokenLBrace {
				break
			}
			p.getNN()
			switch {
			case t.Kind == TokenComma:
			case t.Kind == TokenThing &&
				(t.Value == "public" || t.Value == "private" ||
					t.Value == "protected" || t.Value == "virtual"):
			case t.Kind == TokenThing:
				node.BaseClasses = append(node.BaseClasses, t.Value)
			default:
				return nil, p.errf(t.Location, "unexpected %s in base class list", t)
			}
		}
	}

	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}

	savedClass, savedAccess := p.enclosingClass, p.currentAccess
	p.enclosingClass = node
	if kind == "class" {
		p.currentAccess = "private"
	} else {
		p.currentAccess = "public"
	}
	p.pushContentParser(parseClassDeclaration)
	err := p.parseChildrenInto(childSink(node), func(k TokenKind) bool { return k == TokenRBrace })
	p.popContentParser()
	p.enclosingClass, p.currentAccess = savedClass, savedAccess
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}

	// `struct { ... } member;` declares an implicit field of the
	// (usually anonymous) struct type.
	if p.peekNN().Kind == TokenThing {
		member := p.getNN()
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		field := NewFieldDeclNode(node, FieldName{Name: member.Value})
		field.SetSpan(node.Span())
		return field, nil
	}
	if p.peekNN().Kind == TokenSemicolon {
		p.getNN()
	}
	return node, nil
}

// ---- Enum ----

func (p *Parser) parseEnum() (Node, error) {
	cp := p.stream.Checkpoint()
	kw := p.getNN() // enum
	node := NewEnumNode("")
	node.SetSpan(NewSpan(kw.Location, kw.Location))

	t := p.peekNN()
	if t.Kind == TokenClass || t.Kind == TokenStruct {
		p.getNN()
		node.IsEnumClass = true
		t = p.peekNN()
	}
	if t.Kind == TokenThing {
		node.Name = p.getNN().Value
	}
	// `enum E field;` is an elaborated type usage, not a declaration.
	switch p.peekNN().Kind {
	case TokenColon, TokenLBrace, TokenSemicolon:
	default:
		p.stream.Rewind(cp)
		return p.parseDeclaration(p.enclosingClass)
	}
	if p.peekNN().Kind == TokenColon {
		p.getNN()
		var storage []Token
		for {
			t := p.peekNN()
			if t.Kind == TokenLBrace || t.Kind == TokenSemicolon {
				break
			}
			storage = append(storage, p.getNN())
		}
		node.StorageType = NewTypeNode(storage...)
		node.StorageType.base().parent = node
	}
	if p.peekNN().Kind == TokenSemicolon {
		p.getNN()
		// A forward-declared enum; keep the shell.
		return node, nil
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	p.pushContentParser(parseEnumElement)
	err := p.parseChildrenInto(childSink(node), func(k TokenKind) bool { return k == TokenRBrace })
	p.popContentParser()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return nil, err
	}
	if p.peekNN().Kind == TokenSemicolon {
		p.getNN()
	}
	return node, nil
}

func parseEnumElement(p *Parser) (Node, error) {
	name, err := p.expect(TokenThing)
	if err != nil {
		return nil, err
	}
	el := NewEnumElementNode(name.Value)
	el.SetSpan(NewSpan(name.Location, name.Location))
	if p.stream.Peek().Kind == TokenEqual {
		p.stream.Get()
		depth := 0
		for {
			t := p.stream.Peek()
			if t.Kind == TokenEOF {
				return nil, p.errf(t.Location, "unterminated enum value for %s", el.Name)
			}
			if depth == 0 && (t.Kind == TokenComma || t.Kind == TokenRBrace ||
				t.Kind == TokenLineComment || t.Kind == TokenNewline) {
				break
			}
			switch t.Kind {
			case TokenLParen:
				depth++
			case TokenRParen:
				depth--
			}
			el.ValueTokens = append(el.ValueTokens, p.stream.Get())
		}
	}
	if p.stream.Peek().Kind == TokenComma {
		p.stream.Get()
	}
	return el, nil
}

// ---- Typedef ----

func (p *Parser) parseTypedef() (Node, error) {
	kw := p.getNN() // typedef

	// C-style `typedef struct { ... } Name;`
	if k := p.peekNN().Kind; k == TokenStruct || k == TokenClass || k == TokenUnion || k == TokenEnum {
		cp := p.stream.Checkpoint()
		if p.structBodyFollows() {
			var inner Node
			var err error
			if k == TokenEnum {
				inner, err = p.parseEnum()
			} else {
				kw2 := p.getNN()
				name := ""
				if p.peekNN().Kind == TokenThing {
					name = p.getNN().Value
				}
				inner, err = p.parseStructBody(kw2, kw2.Value, name)
			}
			if err != nil {
				return nil, err
			}
			// `typedef struct { ... } Name;` parses as an implicit
			// field; the declarator name becomes the struct's name.
			if fd, ok := inner.(*FieldDeclNode); ok {
				if s, isStruct := fd.FieldType.(*StructNode); isStruct && len(fd.Names) == 1 {
					s.Name = fd.Names[0].Name
					s.IsAnonymous = false
					s.base().parent = nil
					return s, nil
				}
			}
			return inner, nil
		}
		p.stream.Rewind(cp)
	}

	typeTokens, err := p.collectTypeTokens()
	if err != nil {
		return nil, err
	}

	if p.peekNN().Kind == TokenLParen {
		fnptr, err := p.parseFunctionPointer(typeTokens)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		td := NewTypedefNode(fnptr.Name, fnptr)
		td.SetSpan(NewSpan(kw.Location, kw.Location))
		return td, nil
	}

	// Array typedefs keep the bounds in the type token run.
	var trailing []Token
	for p.peekNN().Kind == TokenLSquare {
		for {
			t := p.getNN()
			trailing = append(trailing, t)
			if t.Kind == TokenRSquare {
				break
			}
		}
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	name, rest, ok := splitDeclaratorName(typeTokens)
	if !ok {
		return nil, p.errf(kw.Location, "typedef with no name")
	}
	td := NewTypedefNode(name, NewTypeNode(append(rest, trailing...)...))
	td.SetSpan(NewSpan(kw.Location, kw.Location))
	return td, nil
}

// structBodyFollows reports whether the upcoming struct-keyword
// declaration has a brace body (as opposed to being an elaborated
// type usage).  Leaves the stream where it found it.
func (p *Parser) structBodyFollows() bool {
	cp := p.stream.Checkpoint()
	defer p.stream.Rewind(cp)
	p.getNN() // struct/class/union/enum
	for {
		switch p.peekNN().Kind {
		case TokenThing, TokenClass, TokenStruct:
			p.getNN()
		case TokenColon:
			p.getNN()
		case TokenLBrace:
			return true
		default:
			return false
		}
	}
}

// ---- Template ----

func (p *Parser) parseTemplate() (Node, error) {
	kw := p.getNN() // template
	if _, err := p.expect(TokenLTriangle); err != nil {
		return nil, err
	}
	node := NewTemplateNode()
	node.SetSpan(NewSpan(kw.Location, kw.Location))
	lastThing := ""
	depth := 1
	for depth > 0 {
		t := p.getNN()
		switch t.Kind {
		case TokenEOF:
			return nil, p.errf(t.Location, "unterminated template parameter list")
		case TokenLTriangle:
			depth++
		case TokenRTriangle:
			depth--
			if depth == 0 && lastThing != "" {
				node.Parameters = append(node.Parameters, lastThing)
			}
		case TokenComma:
			if depth == 1 && lastThing != "" {
				node.Parameters = append(node.Parameters, lastThing)
				lastThing = ""
			}
		case TokenThing:
			lastThing = t.Value
		}
	}

	var child Node
	var err error
	switch p.peekNN().Kind {
	case TokenStruct, TokenClass, TokenUnion:
		child, err = p.parseStructLike()
	default:
		child, err = p.parseDeclaration(p.enclosingClass)
	}
	if err != nil {
		return nil, err
	}
	if child != nil {
		AddChild(node, child)
	}
	return node, nil
}

// ---- Function / field declarations ----

// parseDeclaration decodes a function or field declaration,
// whichever fits, and falls back to an unparsable-thing node so the
// rest of the header survives.
func (p *Parser) parseDeclaration(cls *StructNode) (Node, error) {
	cp := p.stream.Checkpoint()
	if fn, err := p.tryParseFunction(cls); err == nil {
		return fn, nil
	}
	p.stream.Rewind(cp)
	if field, err := p.tryParseField(); err == nil {
		return field, nil
	}
	p.stream.Rewind(cp)
	return p.parseUnparsable()
}

// parseUnparsable stuffs the rest of the declaration, semicolon
// included, into an unparsable-thing node.
func (p *Parser) parseUnparsable() (Node, error) {
	var tokens []Token
	depth := 0
	for {
		t := p.stream.Peek()
		switch t.Kind {
		case TokenEOF:
			if len(tokens) == 0 {
				return nil, p.errf(t.Location, "unexpected end of file")
			}
			return NewUnparsableNode(tokens), nil
		case TokenNewline:
			if depth == 0 {
				p.stream.Get()
				n := NewUnparsableNode(tokens)
				if len(tokens) > 0 {
					n.SetSpan(NewSpan(tokens[0].Location, tokens[0].Location))
				}
				return n, nil
			}
			tokens = append(tokens, p.stream.Get())
		case TokenLBrace:
			depth++
			tokens = append(tokens, p.stream.Get())
		case TokenRBrace:
			depth--
			tokens = append(tokens, p.stream.Get())
		case TokenSemicolon:
			tokens = append(tokens, p.stream.Get())
			if depth == 0 {
				n := NewUnparsableNode(tokens)
				n.SetSpan(NewSpan(tokens[0].Location, tokens[0].Location))
				return n, nil
			}
		default:
			tokens = append(tokens, p.stream.Get())
		}
	}
}

// collectTypeTokens gathers a run of type-forming tokens: names,
// qualifiers, pointers, references, `::` pairs and balanced template
// argument lists.  A newline terminates the run; a declaration's type
// and name never wrap.
func (p *Parser) collectTypeTokens() ([]Token, error) {
	var tokens []Token
	for {
		t := p.stream.Peek()
		switch t.Kind {
		case TokenThing:
			if functionSpecifierWords[t.Value] && len(tokens) == 0 {
				p.stream.Get()
				continue
			}
			tokens = append(tokens, p.stream.Get())
		case TokenConst, TokenConstexpr, TokenUnsigned, TokenSigned,
			TokenStruct, TokenClass, TokenUnion, TokenEnum,
			TokenAsterisk, TokenAmpersand:
			tokens = append(tokens, p.stream.Get())
		case TokenColon:
			// Only `::` qualification belongs to a type.
			cp := p.stream.Checkpoint()
			first := p.stream.Get()
			if p.stream.Peek().Kind == TokenColon {
				second := p.stream.Get()
				tokens = append(tokens, first, second)
				continue
			}
			p.stream.Rewind(cp)
			return tokens, nil
		case TokenLTriangle:
			if len(tokens) == 0 {
				return tokens, nil
			}
			depth := 0
			for {
				tt := p.stream.Get()
				if tt.Kind == TokenEOF || tt.Kind == TokenNewline {
					return nil, p.errf(tt.Location, "unterminated template argument list")
				}
				tokens = append(tokens, tt)
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
			return tokens, nil
		}
	}
}

// splitDeclaratorName pulls the declarator name off the end of a type
// token run.  Builtin type words never count as names, so `unsigned
// int` stays a typed-only run.
func splitDeclaratorName(tokens []Token) (string, []Token, bool) {
	if len(tokens) == 0 {
		return "", nil, false
	}
	last := tokens[len(tokens)-1]
	if last.Kind != TokenThing || builtinTypeWords[last.Value] {
		return "", tokens, false
	}
	if len(tokens) == 1 {
		return "", tokens, false
	}
	return last.Value, tokens[:len(tokens)-1], true
}
