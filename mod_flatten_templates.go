package hdrgen

import "strings"

// ApplyFlattenTemplates erases templates: for every distinct
// instantiation found by scanning type tokens, it installs a concrete
// clone of the template body with the parameters substituted and
// rewrites every reference to the instantiation's mangled name.  Runs
// iteratively to a fixed point, because an instantiation may itself
// mention another template; the original templates are removed at the
// end.
func ApplyFlattenTemplates(root Node) error {
	created := map[string]bool{}

	for iter := 0; ; iter++ {
		if iter > 32 {
			return passErrorf("FlattenTemplates", "template instantiation did not reach a fixed point")
		}

		templates := map[string]*TemplateNode{}
		for _, t := range FindAll[*TemplateNode](root) {
			if s := templatedStruct(t); s != nil {
				templates[s.Name] = t
			}
		}
		if len(templates) == 0 {
			break
		}

		// Scan every type reference for Name<args> instantiations.
		type instantiation struct {
			template *TemplateNode
			args     [][]Token
			mangled  string
		}
		var found []instantiation
		for _, tn := range FindAll[*TypeNode](root) {
			// A type inside a template body may legitimately mention
			// the template's own parameters; skip those.
			if enclosingTemplate(tn) != nil {
				continue
			}
			toks := tn.Tokens()
			for i := 0; i+1 < len(toks); i++ {
				if toks[i].Kind != TokenThing || toks[i+1].Kind != TokenLTriangle {
					continue
				}
				tmpl, ok := templates[toks[i].Value]
				if !ok {
					continue
				}
				args, end := splitTemplateArgs(toks, i+1)
				if end < 0 {
					return passErrorf("FlattenTemplates", "unterminated argument list on %s", toks[i].Value)
				}
				mangled := toks[i].Value + "_" + mangleTemplateArgs(args)
				if !created[mangled] {
					created[mangled] = true
					found = append(found, instantiation{template: tmpl, args: args, mangled: mangled})
				}
			}
		}

		progressed := false
		for _, inst := range found {
			body := templatedStruct(inst.template)
			if len(inst.args) != len(inst.template.Parameters) {
				return passErrorf("FlattenTemplates",
					"%s instantiated with %d arguments, declared with %d",
					body.Name, len(inst.args), len(inst.template.Parameters))
			}
			clone := body.Clone().(*StructNode)
			clone.Name = inst.mangled
			clone.SingleLineDefinition = true
			subst := map[string][]Token{}
			for i, p := range inst.template.Parameters {
				subst[p] = inst.args[i]
			}
			substituteTemplateParams(clone, subst)
			InsertBefore(inst.template, clone)
			progressed = true
		}

		// Rewrite every non-template-body reference to the mangled
		// concrete names.
		for _, tn := range FindAll[*TypeNode](root) {
			if enclosingTemplate(tn) != nil {
				continue
			}
			toks := tn.Tokens()
			var out []Token
			changed := false
			for i := 0; i < len(toks); i++ {
				if toks[i].Kind == TokenThing && i+1 < len(toks) && toks[i+1].Kind == TokenLTriangle {
					if _, ok := templates[toks[i].Value]; ok {
						args, end := splitTemplateArgs(toks, i+1)
						if end >= 0 {
							t := toks[i]
							t.Value = toks[i].Value + "_" + mangleTemplateArgs(args)
							out = append(out, t)
							i = end
							changed = true
							continue
						}
					}
				}
				out = append(out, toks[i])
			}
			if changed {
				tn.SetTokens(out)
			}
		}

		if !progressed {
			// Nothing new was instantiated; any remaining templates
			// are unreferenced and can go.
			break
		}
	}

	for _, t := range FindAll[*TemplateNode](root) {
		DetachNode(t)
	}
	return nil
}

func templatedStruct(t *TemplateNode) *StructNode {
	for _, c := range t.Children() {
		if s, ok := c.(*StructNode); ok {
			return s
		}
	}
	return nil
}

func enclosingTemplate(n Node) *TemplateNode {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if t, ok := p.(*TemplateNode); ok {
			return t
		}
	}
	return nil
}

// splitTemplateArgs splits the balanced `<...>` starting at open into
// top-level comma-separated argument token runs.  Returns the index
// of the closing `>` or -1.
func splitTemplateArgs(toks []Token, open int) ([][]Token, int) {
	depth := 0
	var args [][]Token
	var current []Token
	for i := open; i < len(toks); i++ {
		switch toks[i].Kind {
		case TokenLTriangle:
			depth++
			if depth > 1 {
				current = append(current, toks[i])
			}
		case TokenRTriangle:
			depth--
			if depth == 0 {
				if len(current) > 0 {
					args = append(args, current)
				}
				return args, i
			}
			current = append(current, toks[i])
		case TokenComma:
			if depth == 1 {
				args = append(args, current)
				current = nil
			} else {
				current = append(current, toks[i])
			}
		default:
			current = append(current, toks[i])
		}
	}
	return nil, -1
}

// mangleTemplateArgs derives the instantiation's identifier suffix:
// `int` stays int, `float*` becomes floatPtr, qualified names swap
// `::` for underscores.
func mangleTemplateArgs(args [][]Token) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		s := ""
		for _, t := range arg {
			switch t.Kind {
			case TokenAsterisk:
				s += "Ptr"
			case TokenAmpersand:
				s += "Ref"
			case TokenColon, TokenLTriangle:
				s += "_"
			case TokenRTriangle:
			case TokenConst:
				s += "const"
			default:
				s += t.Value
			}
		}
		s = sanitizeIdentifier(s)
		for strings.Contains(s, "__") {
			s = strings.ReplaceAll(s, "__", "_")
		}
		parts = append(parts, strings.Trim(s, "_"))
	}
	return strings.Join(parts, "_")
}

// substituteTemplateParams rewrites parameter references in every
// type of the instantiated clone.
func substituteTemplateParams(clone Node, subst map[string][]Token) {
	for _, tn := range FindAll[*TypeNode](clone) {
		toks := tn.Tokens()
		var out []Token
		for _, t := range toks {
			if t.Kind == TokenThing {
				if repl, ok := subst[t.Value]; ok {
					out = append(out, repl...)
					continue
				}
			}
			out = append(out, t)
		}
		tn.SetTokens(out)
	}
}
