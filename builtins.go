package mu

// boolTag is the evaluator's boolean convention: :t for true, nil for
// false (§4.7 truthy/falsy via nil).
func boolTag(b bool) Tag {
	if b {
		return MustKeyword("t")
	}
	return NilTag
}

// conditionTag surfaces a Condition to Lisp code as a String rather
// than a Keyword: two condition names (zero-divide, namespace) exceed
// the 7-byte inline-keyword ceiling, and §3's Image
// table defines no indirect Keyword representation to fall back to.
func conditionTag(h *Heap, c Condition) Tag { return h.MakeString(string(c)) }

func conditionFromTag(h *Heap, t Tag) Condition { return Condition(h.StringValue(t)) }

// defNative registers a native function's Go implementation under the
// mu namespace's static table (for apply-time dispatch) and binds a
// Function value to a like-named symbol interned in the null namespace
// (where the reader places every bare identifier it reads, in the
// absence of a qualified-symbol syntax or a current-namespace concept).
func (env *Env) defNative(name string, arity int, impl nativeFunc) {
	h := env.Heap
	ns := env.namespaces.deref(env.MuNS)
	ns.registerNative(name, arity, impl)

	nameTag := h.MakeString(name)
	var fnTag Tag
	if arity < 0 {
		fnTag = h.MakeNativeVariadicFunction(env.MuNS, nameTag)
	} else {
		fnTag = h.MakeNativeFunction(arity, env.MuNS, nameTag)
	}
	env.Intern(env.NullNS, name, fnTag)
}

// registerBuiltins populates the mu namespace's native function table
// (§6). Every entry here is reachable two ways: through the Function
// image ApplyValues dispatches via (namespace, name), and through the
// null-namespace symbol the reader hands back for a bare identifier.
func registerBuiltins(env *Env) {
	registerTypeBuiltins(env)
	registerListBuiltins(env)
	registerControlBuiltins(env)
	registerFutureBuiltins(env)
	registerExceptionBuiltins(env)
	registerFrameBuiltins(env)
	registerFixnumBuiltins(env)
	registerFloatBuiltins(env)
	registerNamespaceBuiltins(env)
	registerIOBuiltins(env)
	registerSymbolBuiltins(env)
	registerVectorBuiltins(env)
	registerStructBuiltins(env)
	registerGCBuiltins(env)
}

func registerTypeBuiltins(env *Env) {
	env.defNative("eq", 2, func(env *Env, fr *Frame) *Exception {
		fr.Value = boolTag(Eq(fr.Argv[0], fr.Argv[1]))
		return nil
	})
	env.defNative("type-of", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = MustKeyword(env.Heap.TypeOf(fr.Argv[0]).Keyword())
		return nil
	})
	env.defNative("repr", 2, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Heap.MakeString(env.Repr(fr.Argv[0], truthy(fr.Argv[1])))
		return nil
	})
	env.defNative("view", 1, func(env *Env, fr *Frame) *Exception {
		h := env.Heap
		kw := MustKeyword(h.TypeOf(fr.Argv[0]).Keyword())
		fr.Value = h.MakeVector(VecTag, 2, tagBytes(kw, fr.Argv[0]))
		return nil
	})
}

func tagBytes(tags ...Tag) []byte {
	out := make([]byte, 0, 8*len(tags))
	for _, t := range tags {
		v := uint64(t)
		for i := 0; i < 8; i++ {
			out = append(out, byte(v>>(8*i)))
		}
	}
	return out
}

func registerListBuiltins(env *Env) {
	env.defNative("cons", 2, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Heap.Cons(fr.Argv[0], fr.Argv[1])
		return nil
	})
	env.defNative("car", 1, func(env *Env, fr *Frame) *Exception {
		h := env.Heap
		a := fr.Argv[0]
		if !h.isOfType(a, TypeList) {
			return Raise(CondType, "mu:car", a)
		}
		if IsNil(a) {
			fr.Value = NilTag
			return nil
		}
		fr.Value = h.Car(a)
		return nil
	})
	env.defNative("cdr", 1, func(env *Env, fr *Frame) *Exception {
		h := env.Heap
		a := fr.Argv[0]
		if !h.isOfType(a, TypeList) {
			return Raise(CondType, "mu:cdr", a)
		}
		if IsNil(a) {
			fr.Value = NilTag
			return nil
		}
		fr.Value = h.Cdr(a)
		return nil
	})
	env.defNative("nth", 2, func(env *Env, fr *Frame) *Exception {
		h := env.Heap
		n := int(FixnumValue(fr.Argv[0]))
		lst := fr.Argv[1]
		for ; n > 0 && !IsNil(lst); n-- {
			lst = h.Cdr(lst)
		}
		if IsNil(lst) {
			fr.Value = NilTag
			return nil
		}
		fr.Value = h.Car(lst)
		return nil
	})
	env.defNative("nthcdr", 2, func(env *Env, fr *Frame) *Exception {
		h := env.Heap
		n := int(FixnumValue(fr.Argv[0]))
		lst := fr.Argv[1]
		for ; n > 0 && !IsNil(lst); n-- {
			lst = h.Cdr(lst)
		}
		fr.Value = lst
		return nil
	})
	env.defNative("length", 1, func(env *Env, fr *Frame) *Exception {
		h := env.Heap
		a := fr.Argv[0]
		switch {
		case h.isOfType(a, TypeList):
			if IsNil(a) {
				fr.Value = MakeFixnum(0)
			} else {
				fr.Value = MakeFixnum(int64(h.ListLength(a)))
			}
		case h.TypeOf(a) == TypeString || h.TypeOf(a) == TypeByteVector:
			fr.Value = MakeFixnum(int64(len(h.stringBytes(a))))
		case h.TypeOf(a) == TypeVector:
			fr.Value = MakeFixnum(int64(h.VectorLength(a)))
		default:
			return Raise(CondType, "mu:length", a)
		}
		return nil
	})
	env.defNative("append", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Heap.Append(fr.Argv[0])
		return nil
	})
	env.defNative("list", -1, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Heap.List(fr.Argv...)
		return nil
	})
}

func registerControlBuiltins(env *Env) {
	env.defNative("apply", 2, func(env *Env, fr *Frame) *Exception {
		v, exc := env.ApplyValues(fr.Argv[0], env.Heap.ListToSlice(fr.Argv[1]))
		if exc != nil {
			return exc
		}
		fr.Value = v
		return nil
	})
	env.defNative("eval", 1, func(env *Env, fr *Frame) *Exception {
		v, exc := env.Eval(fr.Argv[0])
		if exc != nil {
			return exc
		}
		fr.Value = v
		return nil
	})
	env.defNative("fix", 2, func(env *Env, fr *Frame) *Exception {
		v, exc := env.Fix(fr.Argv[0], fr.Argv[1])
		if exc != nil {
			return exc
		}
		fr.Value = v
		return nil
	})
	env.defNative("compile", 1, func(env *Env, fr *Frame) *Exception {
		v, exc := env.Compile(fr.Argv[0])
		if exc != nil {
			return exc
		}
		fr.Value = v
		return nil
	})
	// %if is ordinarily intercepted by Eval before a native dispatch
	// is ever reached (§4.5 "%if is compiler-only"); registered here
	// too so it is directly callable like any other primitive.
	env.defNative("%if", 3, func(env *Env, fr *Frame) *Exception {
		if truthy(fr.Argv[0]) {
			fr.Value = fr.Argv[1]
		} else {
			fr.Value = fr.Argv[2]
		}
		return nil
	})
}

func registerFutureBuiltins(env *Env) {
	env.defNative("defer", 2, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Defer(fr.Argv[0], env.Heap.ListToSlice(fr.Argv[1]))
		return nil
	})
	env.defNative("detach", 2, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Detach(fr.Argv[0], env.Heap.ListToSlice(fr.Argv[1]))
		return nil
	})
	env.defNative("poll", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Poll(fr.Argv[0])
		return nil
	})
	env.defNative("force", 1, func(env *Env, fr *Frame) *Exception {
		v, exc := env.Force(fr.Argv[0])
		if exc != nil {
			return exc
		}
		fr.Value = v
		return nil
	})
}

func registerExceptionBuiltins(env *Env) {
	env.defNative("with-exception", 2, func(env *Env, fr *Frame) *Exception {
		handler, thunk := fr.Argv[0], fr.Argv[1]
		depth := env.dynamicDepth()
		result, exc := env.ApplyValues(thunk, nil)
		if exc != nil {
			env.dynamicTruncate(depth)
			h := env.Heap
			hv, hexc := env.ApplyValues(handler, []Tag{exc.Object, conditionTag(h, exc.Condition), h.MakeString(exc.Source)})
			if hexc != nil {
				return hexc
			}
			fr.Value = hv
			return nil
		}
		fr.Value = result
		return nil
	})
	env.defNative("raise", 2, func(env *Env, fr *Frame) *Exception {
		cond := conditionFromTag(env.Heap, fr.Argv[1])
		return Raise(cond, "mu:raise", fr.Argv[0])
	})
}

func registerFrameBuiltins(env *Env) {
	env.defNative("%frame-stack", 0, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.FrameStack()
		return nil
	})
	env.defNative("%frame-pop", 1, func(env *Env, fr *Frame) *Exception {
		env.dynamicTruncate(int(FixnumValue(fr.Argv[0])))
		fr.Value = NilTag
		return nil
	})
	env.defNative("%frame-push", 1, func(env *Env, fr *Frame) *Exception {
		fn := fr.Argv[0]
		env.dynamicPush(fn, env.lexical.depth(fn))
		fr.Value = NilTag
		return nil
	})
	env.defNative("%frame-ref", 2, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.FrameRef(fr.Argv[0], int(FixnumValue(fr.Argv[1])))
		return nil
	})
}
