package mu

// FunctionKind discriminates a Function image's "form" interpretation
// at apply time (§4.6): Compiled functions carry their body as a list;
// Native functions carry a (namespace . name) pair naming an entry in
// that namespace's static function table. This is a sum type, not
// runtime subclassing, per §9 Design Notes ("Do not model this as
// runtime subclassing; use a sum type").
type FunctionKind int

const (
	FunctionCompiled FunctionKind = iota
	FunctionNative
)

// Function image slots are {arity, form} per §3. Both kind and arity
// are packed into the single arity fixnum slot: non-negative values are
// a Compiled function's arity; encodeNativeArity(n) packs a Native
// function's arity as a negative sentinel so the two kinds are
// distinguishable from that one slot without a third image slot.
func encodeNativeArity(n int) int64 { return -int64(n) - 1 }

// variadicPacked is a reserved arity-slot value, outside the range any
// encodeNativeArity(n) for a realistic n produces, marking a native
// function (mu:list) that accepts any argument count. FunctionArity
// surfaces this as -1; ApplyValues skips the arity check for it.
const variadicPacked = int64(-1) << 40

func decodeArity(packed int64) (kind FunctionKind, arity int) {
	if packed == variadicPacked {
		return FunctionNative, -1
	}
	if packed < 0 {
		return FunctionNative, int(-packed - 1)
	}
	return FunctionCompiled, int(packed)
}

// MakeCompiledFunction builds a Function image whose form is a
// compiled lambda body (a list of forms evaluated in sequence).
func (h *Heap) MakeCompiledFunction(arity int, body Tag) Tag {
	id, exc := h.alloc(functionSlots, ImageFunction)
	if exc != nil {
		panic(exc)
	}
	h.WriteImage(id, []Tag{MakeFixnum(int64(arity)), body})
	return NewIndirect(0, id)
}

// MakeNativeFunction builds a Function image whose form names a native
// primitive by a (namespace . name) cons of the namespace tag and the
// name string.
func (h *Heap) MakeNativeFunction(arity int, namespace, name Tag) Tag {
	id, exc := h.alloc(functionSlots, ImageFunction)
	if exc != nil {
		panic(exc)
	}
	h.WriteImage(id, []Tag{MakeFixnum(encodeNativeArity(arity)), h.Cons(namespace, name)})
	return NewIndirect(0, id)
}

// MakeNativeVariadicFunction builds a native Function that accepts any
// argument count (only mu:list needs this; every other native name in
// §6 has a fixed arity).
func (h *Heap) MakeNativeVariadicFunction(namespace, name Tag) Tag {
	id, exc := h.alloc(functionSlots, ImageFunction)
	if exc != nil {
		panic(exc)
	}
	h.WriteImage(id, []Tag{MakeFixnum(variadicPacked), h.Cons(namespace, name)})
	return NewIndirect(0, id)
}

func (h *Heap) functionSlots(t Tag) []Tag { return h.ImageSlice(t.ImageID()) }

// FunctionKind reports whether t's form is Compiled or Native.
func (h *Heap) FunctionKind(t Tag) FunctionKind {
	kind, _ := decodeArity(FixnumValue(h.functionSlots(t)[0]))
	return kind
}

// FunctionArity returns the function's declared parameter count.
func (h *Heap) FunctionArity(t Tag) int {
	_, arity := decodeArity(FixnumValue(h.functionSlots(t)[0]))
	return arity
}

// FunctionForm returns the raw form slot: a body list for Compiled
// functions, a (namespace . name) cons for Native functions.
func (h *Heap) FunctionForm(t Tag) Tag { return h.functionSlots(t)[1] }

// IsFunction reports whether t is a Function image.
func (h *Heap) IsFunction(t Tag) bool {
	return t.IsIndirect() && h.Header(t.ImageID()).typ == ImageFunction
}

// SetFunctionForm patches a Compiled function's body in place. The
// compiler allocates the Function image before it knows the body (the
// body's own %frame-ref forms embed the function's tag), then patches
// the real body in once compilation of the lambda finishes.
func (h *Heap) SetFunctionForm(t, body Tag) {
	slots := h.functionSlots(t)
	slots[1] = body
	h.WriteImage(t.ImageID(), slots)
}
