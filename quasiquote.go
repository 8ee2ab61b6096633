package mu

// quasiExpand lowers a backquoted form read by the reader into a plain
// form built from cons/append calls (§4.3, §9 "Quasiquote"). Nested
// backquote is not tracked as a separate depth: each backquote level
// resolves its own %uq/%uqs markers independently, which is a
// deliberate simplification of the full nested-depth algorithm the
// design notes describe (documented in DESIGN.md).
func (env *Env) quasiExpand(form Tag) (Tag, *Exception) {
	h := env.Heap
	if h.IsCons(form) && Eq(h.Car(form), kwUnquote) {
		return h.Car(h.Cdr(form)), nil
	}
	if !h.IsCons(form) {
		return h.List(kwQuote, form), nil
	}
	return env.quasiExpandList(form)
}

func (env *Env) quasiExpandList(form Tag) (Tag, *Exception) {
	h := env.Heap
	if IsNil(form) {
		return h.List(kwQuote, NilTag), nil
	}
	if !h.IsCons(form) {
		return env.quasiExpand(form)
	}
	head := h.Car(form)
	rest := h.Cdr(form)

	if h.IsCons(head) && Eq(h.Car(head), kwUnquoteSplice) {
		spliceForm := h.Car(h.Cdr(head))
		restExp, exc := env.quasiExpandList(rest)
		if exc != nil {
			return Tag(0), exc
		}
		argList := h.List(env.consSym(), spliceForm, h.List(env.consSym(), restExp, h.List(kwQuote, NilTag)))
		return h.List(env.appendSym(), argList), nil
	}

	headExp, exc := env.quasiExpand(head)
	if exc != nil {
		return Tag(0), exc
	}
	restExp, exc := env.quasiExpandList(rest)
	if exc != nil {
		return Tag(0), exc
	}
	return h.List(env.consSym(), headExp, restExp), nil
}

// consSym and appendSym look up the reader-visible bindings defNative
// installed in the null namespace (every bare identifier the reader
// produces, including "cons"/"append" themselves, is interned there;
// the mu namespace only holds the Go-side native dispatch table, not
// symbols).
func (env *Env) consSym() Tag {
	sym, _ := env.Find(env.NullNS, "cons")
	return sym
}

func (env *Env) appendSym() Tag {
	sym, _ := env.Find(env.NullNS, "append")
	return sym
}
