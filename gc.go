package mu

// GC runs one mark-sweep collection (§4.8): clear marks, mark from
// every root (namespaces, lexical frames, explicit root vector), then
// sweep unmarked images. It returns true (mu:gc takes no arguments and
// always succeeds barring a corrupted heap).
func (env *Env) GC() bool {
	env.Log.Logf("gc: begin, heap next=%d", env.Heap.next)

	env.Heap.ClearMarks()

	env.markNamespaces()
	env.markLexicalFrames()
	for _, r := range env.roots() {
		env.mark(r)
	}

	env.Heap.Sweep()

	env.Log.Logf("gc: end")
	return true
}

// mark walks the reachability graph from t, marking every Indirect
// image reached. Direct values are never marked (§4.8: "Direct values
// are never marked."). Cycles are handled by checking the mark bit
// before recursing, since cycles through namespaces, symbols, cons,
// vectors, functions, and structs are permissible (§3 Lifecycle).
func (env *Env) mark(t Tag) {
	if !t.IsIndirect() {
		return
	}
	id := t.ImageID()
	if env.Heap.GetMark(id) {
		return
	}
	env.Heap.SetMark(id)

	switch env.Heap.Header(id).typ {
	case ImageCons:
		env.mark(env.Heap.Car(t))
		env.mark(env.Heap.Cdr(t))
	case ImageFunction:
		env.mark(env.Heap.FunctionForm(t))
	case ImageStruct:
		env.mark(env.Heap.StructVec(t))
	case ImageSymbol:
		env.mark(env.Heap.SymbolName(t))
		env.mark(env.Heap.SymbolValue(t))
	case ImageVector:
		if env.Heap.VectorType(t) == VecTag {
			n := env.Heap.VectorLength(t)
			for i := 0; i < n; i++ {
				env.mark(env.Heap.SVRef(t, i))
			}
		}
		// primitive-vector variants (fixnum/float/char/byte/bit) hold
		// no further tags to trace.
	case ImageStream:
		// direction/handle/unread-char/open-flag are all Direct.
	case ImageAsync:
		slots := env.Heap.ImageSlice(id)
		env.mark(slots[1]) // thunk
		env.mark(slots[2]) // latch state: stays nil; the result lives host-side and is not traced
	}
}

// markNamespaces walks every namespace's symbol dictionary, marking
// each symbol and transitively its name and value (§4.8 step 3).
func (env *Env) markNamespaces() {
	for _, ns := range env.namespaces.all() {
		ns.mu.RLock()
		for _, sym := range ns.symbols {
			env.mark(sym)
		}
		ns.mu.RUnlock()
	}
}

// markLexicalFrames marks func, every argv element, and value of every
// active Frame (§4.8 step 4).
func (env *Env) markLexicalFrames() {
	env.lexical.forEach(func(fr *Frame) {
		env.mark(fr.Func)
		for _, a := range fr.Argv {
			env.mark(a)
		}
		env.mark(fr.Value)
	})
}
