package hdrgen

import (
	"fmt"
	"strings"
)

// contentParserFn parses one declaration legal in the current scope.
// Each scope (header, class body, enum body) selects its own content
// parser; the slot is pushed on scope entry and restored on exit.
type contentParserFn func(p *Parser) (Node, error)

// Parser is the recursive-descent header parser.  It consumes the
// token stream through peek/take/rewind and produces the HAST.
type Parser struct {
	stream       *TokenStream
	contentStack []contentParserFn
	currentAccess string
	enclosingClass *StructNode
}

func NewParser(tokens []Token) *Parser {
	p := &Parser{stream: NewTokenStream(tokens)}
	p.pushContentParser(parseHeaderDeclaration)
	return p
}

// ParseHeader parses a whole header file's token stream.
func ParseHeader(tokens []Token, filename string) (*HeaderFileNode, error) {
	p := NewParser(tokens)
	header := NewHeaderFileNode(filename)
	err := p.parseChildrenInto(childSink(header), func(k TokenKind) bool {
		return k == TokenEOF
	})
	if err != nil {
		return nil, err
	}
	return header, nil
}

func (p *Parser) pushContentParser(fn contentParserFn) {
	p.contentStack = append(p.contentStack, fn)
}

func (p *Parser) popContentParser() {
	p.contentStack = p.contentStack[:len(p.contentStack)-1]
}

func (p *Parser) contentParser() contentParserFn {
	return p.contentStack[len(p.contentStack)-1]
}

func (p *Parser) errf(loc Location, format string, args ...any) error {
	return ParsingError{
		Message: fmt.Sprintf(format, args...),
		Span:    NewSpan(loc, loc),
	}
}

// childSink adapts AddChild into the add callback the children loop
// wants; parseChildrenInto applies the current accessibility to a
// member before handing it over.
func childSink(parent Node) func(Node) {
	return func(c Node) { AddChild(parent, c) }
}

// parseChildrenInto runs the scope's children loop: it handles blank
// line runs, standalone and attached comments, and preprocessor
// conditionals, delegating everything else to the current content
// parser.  The stop callback sees the next token kind; the stop token
// is left unconsumed.
func (p *Parser) parseChildrenInto(add func(Node), stop func(TokenKind) bool) error {
	var lastElement Node
	newlineRun := 0

	flushBlanks := func() {
		if newlineRun >= 2 {
			add(NewBlankLinesNode(newlineRun - 1))
			lastElement = nil
		}
		newlineRun = 0
	}

	for {
		t := p.stream.Peek()
		if stop(t.Kind) {
			flushBlanks()
			return nil
		}

		switch t.Kind {
		case TokenEOF:
			flushBlanks()
			return p.errf(t.Location, "unexpected end of file")

		case TokenNewline:
			p.stream.Get()
			newlineRun++
			continue

		case TokenLineComment:
			p.stream.Get()
			comment := NewLineCommentNode(t.Value)
			comment.SetSpan(NewSpan(t.Location, t.Location))
			if newlineRun == 0 && lastElement != nil && !isComment(lastElement) {
				SetAttachedComment(lastElement, comment)
			} else {
				flushBlanks()
				add(comment)
				lastElement = comment
			}
			continue

		case TokenBlockComment:
			p.stream.Get()
			flushBlanks()
			comment := NewBlockCommentNode(t.Value)
			comment.SetSpan(NewSpan(t.Location, t.Location))
			add(comment)
			lastElement = comment
			continue
		}

		flushBlanks()

		if node, handled, err := p.maybeParsePreprocessor(t); handled {
			if err != nil {
				return err
			}
			if node != nil {
				add(node)
				lastElement = node
			}
			continue
		}

		node, err := p.contentParser()(p)
		if err != nil {
			return err
		}
		if node != nil {
			if p.currentAccess != "" {
				node.base().accessibility = p.currentAccess
			}
			add(node)
			lastElement = node
		}
	}
}

func isComment(n Node) bool {
	switch n.(type) {
	case *LineCommentNode, *BlockCommentNode:
		return true
	}
	return false
}

// ---- Preprocessor directives ----

// maybeParsePreprocessor handles the directive tokens legal in every
// scope.  It reports handled=false when t isn't a directive.
func (p *Parser) maybeParsePreprocessor(t Token) (Node, bool, error) {
	switch t.Kind {
	case TokenPPDefine:
		n, err := p.parseDefine()
		return n, true, err
	case TokenPPUndef:
		n, err := p.parseUndef()
		return n, true, err
	case TokenPPInclude:
		n, err := p.parseInclude()
		return n, true, err
	case TokenPragma:
		p.stream.Get()
		n := NewPragmaNode(p.restOfLine())
		n.SetSpan(NewSpan(t.Location, t.Location))
		return n, true, nil
	case TokenPPError:
		p.stream.Get()
		n := NewErrorDirectiveNode(p.restOfLine())
		n.SetSpan(NewSpan(t.Location, t.Location))
		return n, true, nil
	case TokenPPIf, TokenPPIfdef, TokenPPIfndef:
		n, err := p.parseConditional()
		return n, true, err
	case TokenPPElif, TokenPPElse, TokenPPEndif:
		return nil, true, p.errf(t.Location, "stray `%s` outside a conditional", t.Value)
	}
	return nil, false, nil
}

// restOfLine consumes every token up to (but not including) the next
// newline.
func (p *Parser) restOfLine() []Token {
	var tokens []Token
	for {
		t := p.stream.Peek()
		if t.Kind == TokenNewline || t.Kind == TokenEOF {
			return tokens
		}
		tokens = append(tokens, p.stream.Get())
	}
}

func (p *Parser) parseDefine() (Node, error) {
	start := p.stream.Get() // #define
	name := p.stream.Peek()
	if name.Kind != TokenThing {
		return nil, p.errf(name.Location, "expected macro name after #define, got %s", name)
	}
	p.stream.Get()
	content := p.restOfLine()
	// A function-like macro's parameter list is part of the name when
	// the opening paren hugs the identifier.
	if len(content) > 0 && content[0].Kind == TokenLParen &&
		content[0].Location.Line == name.Location.Line &&
		content[0].Location.Column == name.Location.Column+len(name.Value) {
		depth := 0
		nameText := name.Value
		i := 0
		for ; i < len(content); i++ {
			nameText += content[i].Value
			if content[i].Kind == TokenLParen {
				depth++
			}
			if content[i].Kind == TokenRParen {
				depth--
				if depth == 0 {
					i++
					break
				}
			}
		}
		n := NewDefineNode(nameText, content[i:]...)
		n.SetSpan(NewSpan(start.Location, start.Location))
		return n, nil
	}
	n := NewDefineNode(name.Value, content...)
	n.SetSpan(NewSpan(start.Location, start.Location))
	return n, nil
}

func (p *Parser) parseUndef() (Node, error) {
	start := p.stream.Get() // #undef
	name := p.stream.Peek()
	if name.Kind != TokenThing {
		return nil, p.errf(name.Location, "expected macro name after #undef, got %s", name)
	}
	p.stream.Get()
	n := NewUndefNode(name.Value)
	n.SetSpan(NewSpan(start.Location, start.Location))
	return n, nil
}

func (p *Parser) parseInclude() (Node, error) {
	start := p.stream.Get() // #include
	t := p.stream.Peek()
	switch t.Kind {
	case TokenString:
		p.stream.Get()
		n := NewIncludeNode(strings.Trim(t.Value, `"`), false)
		n.SetSpan(NewSpan(start.Location, start.Location))
		return n, nil
	case TokenLTriangle:
		p.stream.Get()
		path := ""
		for {
			t = p.stream.Get()
			if t.Kind == TokenRTriangle {
				break
			}
			if t.Kind == TokenNewline || t.Kind == TokenEOF {
				return nil, p.errf(t.Location, "unterminated #include path")
			}
			path += t.Value
		}
		n := NewIncludeNode(path, true)
		n.SetSpan(NewSpan(start.Location, start.Location))
		return n, nil
	}
	return nil, p.errf(t.Location, "expected path after #include, got %s", t)
}

// parseConditional parses a whole #if/#ifdef/#ifndef block including
// any #elif/#else arms and the closing #endif.  An #elif arm is
// rewritten as a nested conditional in the parent's else-branch.
func (p *Parser) parseConditional() (*ConditionalNode, error) {
	opener := p.stream.Get()
	directive := strings.TrimPrefix(opener.Value, "#")
	cond := NewConditionalNode(directive, p.restOfLine()...)
	cond.SetSpan(NewSpan(opener.Location, opener.Location))
	if err := p.parseConditionalArms(cond); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseConditionalArms(cond *ConditionalNode) error {
	inElse := false
	add := func(c Node) {
		if inElse {
			cond.AddElseChild(c)
		} else {
			AddChild(cond, c)
		}
	}
	stop := func(k TokenKind) bool {
		return k == TokenPPElif || k == TokenPPElse || k == TokenPPEndif
	}
	for {
		if err := p.parseChildrenInto(add, stop); err != nil {
			return err
		}
		t := p.stream.Get()
		switch t.Kind {
		case TokenPPEndif:
			p.restOfLine() // trailing comment tokens on the #endif line
			return nil
		case TokenPPElse:
			if inElse {
				return p.errf(t.Location, "duplicate #else")
			}
			p.restOfLine()
			inElse = true
		case TokenPPElif:
			nested := NewConditionalNode("if", p.restOfLine()...)
			nested.WasElif = true
			nested.SetSpan(NewSpan(t.Location, t.Location))
			inElse = true
			cond.AddElseChild(nested)
			// The single #endif that terminates the chain also
			// terminates every nested arm.
			return p.parseConditionalArms(nested)
		default:
			return p.errf(t.Location, "unterminated conditional")
		}
	}
}
