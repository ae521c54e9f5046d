package hdrgen

import (
	"fmt"
	"strings"
)

// The C++ thunk generator: pairs each function in the transformed
// tree with its unmodified twin and emits a C-linkage implementation
// that calls the original C++ entity, bridging types with synthesised
// casts.

// CustomType describes a type bridged through dedicated marshal
// helpers rather than casts; the canonical example is the library's
// string-view type, built from a raw C string.
type CustomType struct {
	FromC string // helper wrapping a C value into the C++ type
	ToC   string // helper unwrapping back to the C value
}

// ThunkGenerator walks functions in order and prints one
// implementation per API.  A conditional tracker remembers the
// currently open preprocessor context and emits only the deltas.
type ThunkGenerator struct {
	customTypes     map[string]CustomType
	varargsSuffixes map[string]string

	enums   map[string]bool
	byValue map[string]bool
	structs map[string]bool
}

func NewThunkGenerator(customTypes map[string]CustomType, varargsSuffixes map[string]string) *ThunkGenerator {
	return &ThunkGenerator{
		customTypes:     customTypes,
		varargsSuffixes: varargsSuffixes,
	}
}

// Generate emits the whole implementation file body for root.
func (g *ThunkGenerator) Generate(root *HeaderFileSetNode) (string, error) {
	g.enums = map[string]bool{}
	g.byValue = map[string]bool{}
	g.structs = map[string]bool{}
	for _, e := range FindAll[*EnumNode](root) {
		g.enums[e.Name] = true
		// The typedef carrying the enum's C name counts too, and so
		// does the pre-rewrite name the twin still carries.
		g.enums[strings.TrimSuffix(e.Name, "_")] = true
		if twin, ok := e.Twin().(*EnumNode); ok {
			g.enums[twin.Name] = true
			g.enums[strings.TrimSuffix(twin.Name, "_")] = true
		}
	}
	for _, s := range FindAll[*StructNode](root) {
		if s.Name == "" {
			continue
		}
		g.structs[s.Name] = true
		if s.ByValue {
			g.byValue[s.Name] = true
			if twin, ok := s.Twin().(*StructNode); ok {
				g.byValue[twin.Name] = true
			}
		}
	}

	w := newCodeWriter("    ")
	tracker := &conditionalTracker{}
	for _, fn := range FindAll[*FunctionDeclNode](root) {
		if fn.IsManualHelper {
			continue
		}
		if h := EnclosingHeader(fn); h != nil && h.IsPrerequisite {
			continue
		}
		tracker.transition(w, EnclosingConditionals(fn))
		if err := g.writeThunk(w, fn); err != nil {
			return "", err
		}
		w.write("\n")
	}
	tracker.closeAll(w)
	return w.output(), nil
}

func (g *ThunkGenerator) writeThunk(w *codeWriter, fn *FunctionDeclNode) error {
	twin, _ := fn.Twin().(*FunctionDeclNode)
	if twin == nil {
		return passErrorf("ThunkGenerator", "function %s has no unmodified twin", fn.Name)
	}

	// Work on a copy so naming the unnamed arguments doesn't touch
	// the tree the metadata generator still has to read.
	impl := fn.Clone().(*FunctionDeclNode)
	for i, a := range impl.Arguments {
		if a.Name == "" && !a.IsVarargs {
			a.Name = fmt.Sprintf("arg%d", i)
		}
	}

	ctx := &WriteContext{ForImplementation: true, ForC: true}
	w.write(`extern "C" `)
	impl.writeC(w, ctx)
	w.writel("")
	w.writel("{")
	w.indent()

	call, isStatement, err := g.buildCall(w, impl, twin)
	if err != nil {
		return err
	}

	returnsVoid := impl.ReturnType == nil || typeTextPlain(impl.ReturnType) == "void"
	variadic := impl.IsVariadic()

	switch {
	case isStatement || returnsVoid:
		w.writeil(call + ";")
		if variadic {
			w.writeil("va_end(args);")
		}
	default:
		ret, err := g.castReturn(call, impl, twin)
		if err != nil {
			return err
		}
		if variadic {
			w.writeil(typeTextPlain(impl.ReturnType) + " result = " + ret + ";")
			w.writeil("va_end(args);")
			w.writeil("return result;")
		} else {
			w.writeil("return " + ret + ";")
		}
	}

	w.unindent()
	w.writel("}")
	return nil
}

// buildCall renders the inner C++ call, emitting any va_list plumbing
// and array conversion loops first.  isStatement is true when the
// expression already carries its own return semantics.
func (g *ThunkGenerator) buildCall(w *codeWriter, impl, twin *FunctionDeclNode) (string, bool, error) {
	cls := impl.OriginalClass

	origName := twin.Name
	if o := twin.NameOverride(); o != "" {
		origName = o
	}
	qualifier := qualifiedPrefix(twin)

	if impl.IsVariadic() {
		last := ""
		for _, a := range impl.Arguments {
			if !a.IsVarargs && !a.IsImplicitDefault {
				last = a.Name
			}
		}
		w.writeil("va_list args;")
		w.writeil("va_start(args, " + last + ");")
	}

	implByName := map[string]*FunctionArgumentNode{}
	for _, a := range impl.Arguments {
		implByName[a.Name] = a
	}

	selfOffset := 0
	if len(impl.Arguments) > 0 && impl.Arguments[0].Name == "self" &&
		(cls != nil && (!impl.IsConstructor || impl.IsPlacementConstructor)) {
		selfOffset = 1
	}

	var callArgs []string
	for i, ta := range twin.Arguments {
		if ta.IsVarargs {
			if impl.IsUnformattedHelper {
				callArgs = append(callArgs, "text")
			} else {
				callArgs = append(callArgs, "args")
			}
			continue
		}
		var ca *FunctionArgumentNode
		if ta.Name != "" {
			ca = implByName[ta.Name]
		}
		if ca == nil {
			if idx := i + selfOffset; idx < len(impl.Arguments) {
				ca = impl.Arguments[idx]
			}
		}
		if ca == nil {
			return "", false, passErrorf("ThunkGenerator",
				"%s: cannot pair argument %d with the unmodified declaration", impl.Name, i)
		}
		if ca.IsImplicitDefault {
			callArgs = append(callArgs, ca.StubCallValue)
			continue
		}
		if impl.IsUnformattedHelper && isFormatString(ta) {
			callArgs = append(callArgs, `"%s"`)
			continue
		}
		expr, err := g.castArgument(w, ca, ta)
		if err != nil {
			return "", false, err
		}
		callArgs = append(callArgs, expr)
	}
	argList := strings.Join(callArgs, ", ")

	// A variadic thunk calls the va_list counterpart, which is the
	// name plus V unless the suffix table says otherwise.
	invokeName := origName
	if impl.IsVariadic() && !impl.IsConstructor && !impl.IsDestructor {
		if v, ok := g.varargsSuffixes[origName]; ok {
			invokeName = v
		} else {
			invokeName = origName + "V"
		}
	}

	switch {
	case impl.IsConstructor && impl.IsByValueConstructor:
		return "return ConvertFromCPP_" + cls.Name + "(" + qualifier + origName + "(" + argList + "))", true, nil
	case impl.IsConstructor && impl.IsPlacementConstructor:
		selfCast := "reinterpret_cast<" + qualifier + origName + "*>(self)"
		return "IM_PLACEMENT_NEW(" + selfCast + ") " + qualifier + origName + "(" + argList + ")", true, nil
	case impl.IsConstructor:
		return "return new " + qualifier + origName + "(" + argList + ")", true, nil
	case impl.IsDestructor:
		return g.selfExpression(impl, twin) + "->~" + strings.TrimPrefix(origName, "~") + "()", true, nil
	case cls != nil && !impl.IsStatic:
		return g.selfExpression(impl, twin) + "->" + invokeName + "(" + argList + ")", false, nil
	case cls != nil:
		return qualifiedPrefix(twin) + originalClassName(cls, twin) + "::" + invokeName + "(" + argList + ")", false, nil
	default:
		return qualifier + invokeName + "(" + argList + ")", false, nil
	}
}

// selfExpression pins the self pointer: the C type is StructName*,
// the original type the untransformed fully qualified class with the
// method's const-ness.
func (g *ThunkGenerator) selfExpression(impl, twin *FunctionDeclNode) string {
	cpp := qualifiedPrefix(twin) + originalClassName(impl.OriginalClass, twin)
	if twin.IsConst {
		return "reinterpret_cast<const " + cpp + "*>(self)"
	}
	return "reinterpret_cast<" + cpp + "*>(self)"
}

// originalClassName recovers the class's pre-rewrite name through the
// struct's own twin, falling back to the transformed name.
func originalClassName(cls *StructNode, _ Node) string {
	if twin, ok := cls.Twin().(*StructNode); ok && twin.Name != "" {
		return twin.Name
	}
	return cls.Name
}

// castArgument bridges one C argument to its C++ parameter type.
func (g *ThunkGenerator) castArgument(w *codeWriter, ca, ta *FunctionArgumentNode) (string, error) {
	name := ca.Name

	cType, cIsFnPtr := typeOf(ca.ArgType)
	tType, tIsFnPtr := typeOf(ta.ArgType)
	if cIsFnPtr || tIsFnPtr {
		// Function pointer ABIs line up; pass through.
		return name, nil
	}

	cText := typeTextPlain(cType)
	tText := typeTextPlain(tType)

	refs := referenceCount(tType)
	valuePtrs := pointerDepth(tType) - refs
	derefCount := pointerDepth(cType) - valuePtrs
	if derefCount < 0 {
		derefCount = 0
	}
	deref := strings.Repeat("*", derefCount)

	primary := tType.PrimaryTypeName()
	target := cppTypeText(tType)

	// A raw string into the string-view type goes through the
	// marshal helper.
	if ct, ok := g.customTypes[primary]; ok && strings.HasPrefix(cText, "const char*") {
		return ct.FromC + "(" + name + ")", nil
	}

	// Arrays of by-value structs convert element-wise on the stack.
	if len(ca.ArrayBounds) > 0 && g.byValue[primary] && ca.ArrayBounds[0] != "" {
		converted := name + "_converted"
		bound := ca.ArrayBounds[0]
		w.writeil(target + " " + converted + "[" + bound + "];")
		w.writeil("for (int i = 0; i < " + bound + "; i++)")
		w.indent()
		w.writeil(converted + "[i] = ConvertToCPP_" + primary + "(" + name + "[i]);")
		w.unindent()
		return converted, nil
	}

	if g.byValue[primary] && valuePtrs == 0 {
		return "ConvertToCPP_" + primary + "(" + deref + name + ")", nil
	}

	if cText == tText && derefCount == 0 {
		return name, nil
	}

	if g.enums[primary] && valuePtrs == 0 {
		return "static_cast<" + target + ">(" + name + ")", nil
	}

	if cType.UsePointerCast || tType.UsePointerCast {
		return "*reinterpret_cast<" + target + "*>(&" + name + ")", nil
	}

	if derefCount > 0 {
		return deref + "reinterpret_cast<" + target + strings.Repeat("*", derefCount) + ">(" + name + ")", nil
	}
	if target != cText {
		return "reinterpret_cast<" + target + ">(" + name + ")", nil
	}
	return name, nil
}

// castReturn bridges the C++ call result back to the C return type.
func (g *ThunkGenerator) castReturn(call string, impl, twin *FunctionDeclNode) (string, error) {
	cType, _ := typeOf(impl.ReturnType)
	var tType *TypeNode
	if twin.ReturnType != nil {
		tType, _ = typeOf(twin.ReturnType)
	}
	if cType == nil || tType == nil {
		return call, nil
	}
	cText := typeTextPlain(cType)
	tText := typeTextPlain(tType)

	primary := tType.PrimaryTypeName()
	refs := referenceCount(tType)
	valuePtrs := pointerDepth(tType) - refs
	cPtr := pointerDepth(cType)

	if g.byValue[primary] && valuePtrs == 0 && cPtr == 0 {
		return "ConvertFromCPP_" + primary + "(" + call + ")", nil
	}
	if cText == tText {
		return call, nil
	}
	if ct, ok := g.customTypes[primary]; ok && ct.ToC != "" {
		return ct.ToC + "(" + call + ")", nil
	}
	if g.enums[primary] && valuePtrs == 0 {
		return "static_cast<" + cText + ">(" + call + ")", nil
	}
	if tType.UsePointerCast || cType.UsePointerCast {
		return "*reinterpret_cast<" + cText + "*>(&" + call + ")", nil
	}
	// A reference return converted to a pointer takes the address.
	if refs > 0 && cPtr > valuePtrs {
		return "reinterpret_cast<" + cText + ">(&" + call + ")", nil
	}
	return "reinterpret_cast<" + cText + ">(" + call + ")", nil
}

// ---- Conditional delta tracker ----

// conditionalTracker emits the minimal #if/#endif deltas while
// walking functions in source order.
type conditionalTracker struct {
	open []ConditionalRef
}

func (t *conditionalTracker) transition(w *codeWriter, target []ConditionalRef) {
	common := 0
	for common < len(t.open) && common < len(target) &&
		t.open[common].Conditional == target[common].Conditional &&
		t.open[common].InElse == target[common].InElse {
		common++
	}
	for i := len(t.open) - 1; i >= common; i-- {
		w.writel("#endif")
		w.writel("")
	}
	for _, ref := range target[common:] {
		w.writel(openerLine(ref))
		w.writel("")
	}
	t.open = append([]ConditionalRef(nil), target...)
}

func (t *conditionalTracker) closeAll(w *codeWriter) {
	for range t.open {
		w.writel("#endif")
	}
	t.open = nil
}

// openerLine renders the directive that selects ref's branch,
// negating the sense for else-branch members.
func openerLine(ref ConditionalRef) string {
	expr := ref.Conditional.ExpressionString()
	switch ref.Condition() {
	case "ifdef":
		return "#ifdef " + expr
	case "ifndef":
		return "#ifndef " + expr
	case "ifnot":
		return "#if !(" + expr + ")"
	default:
		return "#if " + expr
	}
}

// ---- Shared helpers ----

func typeOf(n Node) (*TypeNode, bool) {
	switch t := n.(type) {
	case *TypeNode:
		return t, false
	case *FunctionPointerTypeNode:
		return nil, true
	}
	return nil, false
}

func typeTextPlain(n Node) string {
	switch t := n.(type) {
	case *TypeNode:
		return typeTokensString(t.Tokens(), &WriteContext{})
	case *FunctionPointerTypeNode:
		return functionPointerText(t, &WriteContext{})
	}
	return ""
}

// cppTypeText renders the unmodified type with its user-type names
// qualified by leading colons, as cast targets must be; reference
// markers are dropped because cast targets never name references.
func cppTypeText(t *TypeNode) string {
	out := ""
	toks := t.Tokens()
	var prev *Token
	for i := range toks {
		tok := toks[i]
		if tok.Kind == TokenAmpersand {
			continue
		}
		v := tok.Value
		if tok.Kind == TokenThing && !builtinTypeWords[v] {
			v = "::" + v
		}
		if prev != nil && out != "" && needsSpaceBetween(*prev, tok) {
			out += " "
		}
		out += v
		prev = &toks[i]
	}
	return out
}

// qualifiedPrefix walks the twin's ancestors and returns the leading
// `::Namespace::` qualification of the original entity; `::` alone
// for the global scope.
func qualifiedPrefix(twin Node) string {
	if twin == nil {
		return "::"
	}
	var parts []string
	for p := twin.Parent(); p != nil; p = p.Parent() {
		if ns, ok := p.(*NamespaceNode); ok {
			parts = append([]string{ns.Name}, parts...)
		}
	}
	if len(parts) == 0 {
		return "::"
	}
	return "::" + strings.Join(parts, "::") + "::"
}

func pointerDepth(t *TypeNode) int {
	if t == nil {
		return 0
	}
	depth := 0
	for _, tok := range t.Tokens() {
		if tok.Kind == TokenAsterisk || tok.Kind == TokenAmpersand {
			depth++
		}
	}
	return depth
}

func referenceCount(t *TypeNode) int {
	if t == nil {
		return 0
	}
	n := 0
	for _, tok := range t.Tokens() {
		if tok.Kind == TokenAmpersand {
			n++
		}
	}
	return n
}

func isFormatString(a *FunctionArgumentNode) bool {
	t, ok := a.ArgType.(*TypeNode)
	return ok && t.PrimaryTypeName() == "char" && t.IsPointer()
}
