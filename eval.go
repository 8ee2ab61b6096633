package mu

// truthy applies the evaluator's single boolean convention: nil (the
// empty list / false keyword) is false, everything else — including
// fixnum 0 — is true.
func truthy(t Tag) bool { return !IsNil(t) }

// Eval evaluates a compiled form (§4.7): quoted forms and the two
// compiler-emitted primitives pass through directly; a Cons otherwise
// evaluates its head to a function and applies it to its evaluated
// tail; a Symbol dereferences its bound value; anything else
// self-evaluates.
func (env *Env) Eval(form Tag) (Tag, *Exception) {
	h := env.Heap

	if h.IsCons(form) {
		head := h.Car(form)
		if IsInlineKeyword(head) {
			switch head {
			case kwQuote:
				return h.Car(h.Cdr(form)), nil
			case kwCompIf:
				return env.evalIf(form)
			case kwFrameRef:
				return env.evalFrameRef(form)
			}
		}

		fn, exc := env.Eval(head)
		if exc != nil {
			return Tag(0), exc
		}
		var argv []Tag
		for rest := h.Cdr(form); !IsNil(rest); rest = h.Cdr(rest) {
			v, exc := env.Eval(h.Car(rest))
			if exc != nil {
				return Tag(0), exc
			}
			argv = append(argv, v)
		}
		return env.ApplyValues(fn, argv)
	}

	if h.TypeOf(form) == TypeSymbol {
		if !h.BoundP(form) {
			return Tag(0), Raise(CondUnbound, "mu:eval", form)
		}
		return h.SymbolValue(form), nil
	}

	return form, nil
}

func (env *Env) evalIf(form Tag) (Tag, *Exception) {
	h := env.Heap
	parts := h.ListToSlice(form)
	test, exc := env.Eval(parts[1])
	if exc != nil {
		return Tag(0), exc
	}
	if truthy(test) {
		return env.Eval(parts[2])
	}
	return env.Eval(parts[3])
}

// evalFrameRef reads a lexical slot. Both operands are literals planted
// by the compiler (a raw Function tag and a fixnum index), never forms
// to evaluate.
func (env *Env) evalFrameRef(form Tag) (Tag, *Exception) {
	h := env.Heap
	parts := h.ListToSlice(form)
	fn := parts[1]
	k := int(FixnumValue(parts[2]))
	return env.FrameRef(fn, k), nil
}
