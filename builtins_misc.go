package mu

func registerSymbolBuiltins(env *Env) {
	env.defNative("boundp", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = boolTag(env.Heap.BoundP(fr.Argv[0]))
		return nil
	})
	env.defNative("make-symbol", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Heap.MakeSymbol(fr.Argv[0])
		return nil
	})
	env.defNative("symbol-name", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Heap.SymbolName(fr.Argv[0])
		return nil
	})
	env.defNative("symbol-namespace", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Heap.SymbolNamespace(fr.Argv[0])
		return nil
	})
	env.defNative("symbol-value", 1, func(env *Env, fr *Frame) *Exception {
		h := env.Heap
		if !h.BoundP(fr.Argv[0]) {
			return Raise(CondUnbound, "mu:symbol-value", fr.Argv[0])
		}
		fr.Value = h.SymbolValue(fr.Argv[0])
		return nil
	})
}

// vectorTypeFromKeyword maps the keyword a caller passes to
// make-vector back to a VectorType.
func vectorTypeFromKeyword(h *Heap, t Tag) VectorType {
	switch h.StringValue(t) {
	case "fixnum":
		return VecFixnum
	case "float":
		return VecFloat
	case "char":
		return VecChar
	case "byte":
		return VecByte
	case "bit":
		return VecBit
	default:
		return VecTag
	}
}

func registerVectorBuiltins(env *Env) {
	env.defNative("make-vector", 2, func(env *Env, fr *Frame) *Exception {
		h := env.Heap
		vt := vectorTypeFromKeyword(h, fr.Argv[0])
		n := int(FixnumValue(fr.Argv[1]))
		var byteLen int
		if vt == VecBit {
			byteLen = (n + 7) / 8
		} else {
			byteLen = n * vt.elementWidth()
		}
		fr.Value = h.MakeVector(vt, n, make([]byte, byteLen))
		return nil
	})
	env.defNative("svref", 2, func(env *Env, fr *Frame) *Exception {
		h := env.Heap
		idx := int(FixnumValue(fr.Argv[1]))
		if idx < 0 || idx >= h.VectorLength(fr.Argv[0]) {
			return Raise(CondRange, "mu:svref", fr.Argv[1])
		}
		fr.Value = h.SVRef(fr.Argv[0], idx)
		return nil
	})
	env.defNative("vector-length", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = MakeFixnum(int64(env.Heap.VectorLength(fr.Argv[0])))
		return nil
	})
	env.defNative("vector-type", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = MustKeyword(env.Heap.VectorType(fr.Argv[0]).keyword())
		return nil
	})
}

func registerStructBuiltins(env *Env) {
	env.defNative("make-struct", 2, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Heap.MakeStruct(fr.Argv[0], fr.Argv[1])
		return nil
	})
	env.defNative("struct-type", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Heap.StructType(fr.Argv[0])
		return nil
	})
	env.defNative("struct-vec", 1, func(env *Env, fr *Frame) *Exception {
		fr.Value = env.Heap.StructVec(fr.Argv[0])
		return nil
	})
}

func registerGCBuiltins(env *Env) {
	env.defNative("gc", 0, func(env *Env, fr *Frame) *Exception {
		fr.Value = boolTag(env.GC())
		return nil
	})
}
