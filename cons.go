package mu

// Cons builds a cons cell, preferring the Direct representation and
// falling back to an Indirect heap image when either half doesn't fit
// a 28-bit signed half (§4.1, §9 Design Notes).
func (h *Heap) Cons(car, cdr Tag) Tag {
	if t, ok := MakeDirectCons(car, cdr); ok {
		return t
	}
	id, exc := h.alloc(consSlots, ImageCons)
	if exc != nil {
		panic(exc)
	}
	h.WriteImage(id, []Tag{car, cdr})
	return NewIndirect(0, id)
}

func isConsTag(h *Heap, t Tag) bool {
	if IsDirectCons(t) {
		return true
	}
	return t.IsIndirect() && h.Header(t.ImageID()).typ == ImageCons
}

// IsCons reports whether t is a cons cell (direct or indirect).
func (h *Heap) IsCons(t Tag) bool { return isConsTag(h, t) }

// Car returns the car of a cons, direct or indirect alike (invariant 3).
func (h *Heap) Car(t Tag) Tag {
	if IsDirectCons(t) {
		return DirectConsCar(t)
	}
	slots := h.ImageSlice(t.ImageID())
	return slots[0]
}

// Cdr returns the cdr of a cons, direct or indirect alike (invariant 3).
func (h *Heap) Cdr(t Tag) Tag {
	if IsDirectCons(t) {
		return DirectConsCdr(t)
	}
	slots := h.ImageSlice(t.ImageID())
	return slots[1]
}

// SetCar and SetCdr mutate a cons cell in place. A Direct cons cannot
// be mutated in place (its halves are packed into the tag's own bit
// pattern); to keep identity stable across mutation, mutating a Direct
// cons is not supported by this API — only conses built by the reader,
// compiler, or list primitives (always Indirect when destructively
// modified) are ever passed here.
func (h *Heap) SetCar(t, v Tag) {
	id := t.ImageID()
	slots := h.ImageSlice(id)
	slots[0] = v
	h.WriteImage(id, slots)
}

func (h *Heap) SetCdr(t, v Tag) {
	id := t.ImageID()
	slots := h.ImageSlice(id)
	slots[1] = v
	h.WriteImage(id, slots)
}

// List builds a proper list from the given tags.
func (h *Heap) List(items ...Tag) Tag {
	out := NilTag
	for i := len(items) - 1; i >= 0; i-- {
		out = h.Cons(items[i], out)
	}
	return out
}

// ListToSlice walks a proper list into a Go slice of Tags.
func (h *Heap) ListToSlice(t Tag) []Tag {
	var out []Tag
	for !IsNil(t) {
		out = append(out, h.Car(t))
		t = h.Cdr(t)
	}
	return out
}

// ListLength returns the length of a proper list.
func (h *Heap) ListLength(t Tag) int {
	n := 0
	for !IsNil(t) {
		n++
		t = h.Cdr(t)
	}
	return n
}

// Append concatenates a list of lists (mu:append takes one argument: a
// list of lists to splice together).
func (h *Heap) Append(lists Tag) Tag {
	var all []Tag
	for _, l := range h.ListToSlice(lists) {
		all = append(all, h.ListToSlice(l)...)
	}
	return h.List(all...)
}
