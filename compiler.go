package mu

// Well-known keyword heads recognized by the compiler and (for the two
// compiler-emitted forms) by the evaluator. Inline keywords of 7 bytes
// or fewer pack to an identical bit pattern on every call to
// MustKeyword, so these compare by Eq without an interning table.
var (
	kwQuote    = MustKeyword("quote")
	kwLambda   = MustKeyword("lambda")
	kwIf       = MustKeyword("if")
	kwCompIf   = MustKeyword("%if")
	kwFrameRef = MustKeyword("%fref")
)

// lambdaScope is one entry of the compiler's lexical-frame stack: the
// Function tag a parameter resolves against, and its parameter names
// in declaration order (§4.5 "Compiler").
type lambdaScope struct {
	fn     Tag
	params []string
}

// compiler holds the Lambda stack for a single top-level Compile call.
// It is not part of Env: the stack only exists for the duration of one
// compilation and is never consulted at eval time (free variables are
// rewritten to %frame-ref forms; everything else resolves through
// ordinary symbol binding).
type compiler struct {
	env   *Env
	stack []lambdaScope
}

// Compile walks form, replacing every (:lambda (params...) body...) with
// a Function image, leaving self-evaluating atoms and quoted forms
// untouched, and rewriting references to an enclosing lambda's
// parameters into (%frame-ref fn k) (§4.5, §9 "Compile: lexical
// closure over frame-ref").
func (env *Env) Compile(form Tag) (Tag, *Exception) {
	c := &compiler{env: env}
	return c.compile(form)
}

func (c *compiler) compile(form Tag) (Tag, *Exception) {
	h := c.env.Heap
	if h.IsCons(form) {
		return c.compileCons(form)
	}
	if h.TypeOf(form) == TypeSymbol {
		return c.resolveSymbol(form), nil
	}
	return form, nil
}

// resolveSymbol rewrites a reference to an enclosing lambda parameter
// into a %frame-ref form, searching the Lambda stack innermost-first so
// shadowing works the way lexical scope requires. A symbol that names
// no enclosing parameter passes through unchanged: it is a free
// (global) reference, resolved at eval time through its own value slot.
func (c *compiler) resolveSymbol(sym Tag) Tag {
	h := c.env.Heap
	name := h.StringValue(h.SymbolName(sym))
	for i := len(c.stack) - 1; i >= 0; i-- {
		scope := c.stack[i]
		for k, p := range scope.params {
			if p == name {
				return c.frameRefForm(scope.fn, k)
			}
		}
	}
	return sym
}

func (c *compiler) frameRefForm(fn Tag, k int) Tag {
	return c.env.Heap.List(kwFrameRef, fn, MakeFixnum(int64(k)))
}

func (c *compiler) compileCons(form Tag) (Tag, *Exception) {
	h := c.env.Heap
	head := h.Car(form)
	if IsInlineKeyword(head) {
		switch head {
		case kwQuote:
			return form, nil
		case kwLambda:
			return c.compileLambda(form)
		case kwIf:
			return c.compileIf(form)
		}
	}

	compiledHead, exc := c.compile(head)
	if exc != nil {
		return Tag(0), exc
	}
	args := []Tag{compiledHead}
	for rest := h.Cdr(form); !IsNil(rest); rest = h.Cdr(rest) {
		a, exc := c.compile(h.Car(rest))
		if exc != nil {
			return Tag(0), exc
		}
		args = append(args, a)
	}
	return h.List(args...), nil
}

// compileIf lowers the surface (:if test then else) into the evaluator's
// (%if test' then' else') primitive (§9: "%if is compiler-only; the
// evaluator never sees a bare `if`").
func (c *compiler) compileIf(form Tag) (Tag, *Exception) {
	h := c.env.Heap
	parts := h.ListToSlice(form)
	if len(parts) != 4 {
		return Tag(0), Raise(CondSyntax, "mu:compile", form)
	}
	test, exc := c.compile(parts[1])
	if exc != nil {
		return Tag(0), exc
	}
	then, exc := c.compile(parts[2])
	if exc != nil {
		return Tag(0), exc
	}
	els, exc := c.compile(parts[3])
	if exc != nil {
		return Tag(0), exc
	}
	return h.List(kwCompIf, test, then, els), nil
}

// compileLambda builds the Function image before compiling its body,
// since free references inside the body embed the function's own tag
// (a %frame-ref form names the frame it reads from by Function
// identity, not by some as-yet-unassigned index). The body is patched
// in once compilation of the scope completes.
func (c *compiler) compileLambda(form Tag) (Tag, *Exception) {
	h := c.env.Heap
	parts := h.ListToSlice(form)
	if len(parts) < 2 {
		return Tag(0), Raise(CondSyntax, "mu:compile", form)
	}
	paramForms := h.ListToSlice(parts[1])
	names := make([]string, len(paramForms))
	seen := make(map[string]bool, len(paramForms))
	for i, p := range paramForms {
		if h.TypeOf(p) != TypeSymbol {
			return Tag(0), Raise(CondSyntax, "mu:compile", form)
		}
		name := h.StringValue(h.SymbolName(p))
		if seen[name] {
			return Tag(0), Raise(CondSyntax, "mu:compile", form)
		}
		seen[name] = true
		names[i] = name
	}

	fn := h.MakeCompiledFunction(len(names), NilTag)

	c.stack = append(c.stack, lambdaScope{fn: fn, params: names})
	var body []Tag
	for _, bf := range parts[2:] {
		cb, exc := c.compile(bf)
		if exc != nil {
			c.stack = c.stack[:len(c.stack)-1]
			return Tag(0), exc
		}
		body = append(body, cb)
	}
	c.stack = c.stack[:len(c.stack)-1]

	h.SetFunctionForm(fn, h.List(body...))
	return fn, nil
}
