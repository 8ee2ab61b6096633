package mu

// Symbol image slots: namespace, name, value. An uninterned symbol has
// namespace = NilTag (invariant 4); an unbound symbol has value =
// UnboundTag.
func (h *Heap) makeSymbol(namespace, name, value Tag) Tag {
	id, exc := h.alloc(symbolSlots, ImageSymbol)
	if exc != nil {
		panic(exc)
	}
	h.WriteImage(id, []Tag{namespace, name, value})
	return NewIndirect(0, id)
}

// MakeSymbol creates a fresh, uninterned symbol (mu:make-symbol).
func (h *Heap) MakeSymbol(name Tag) Tag {
	return h.makeSymbol(NilTag, name, UnboundTag)
}

func (h *Heap) symbolSlots(t Tag) []Tag { return h.ImageSlice(t.ImageID()) }

// SymbolNamespace, SymbolName, SymbolValue read a Symbol image's slots.
func (h *Heap) SymbolNamespace(t Tag) Tag { return h.symbolSlots(t)[0] }
func (h *Heap) SymbolName(t Tag) Tag      { return h.symbolSlots(t)[1] }
func (h *Heap) SymbolValue(t Tag) Tag     { return h.symbolSlots(t)[2] }

// SetSymbolValue mutates a symbol's value slot in place, e.g. for
// interning and for top-level def forms.
func (h *Heap) SetSymbolValue(t Tag, v Tag) {
	slots := h.symbolSlots(t)
	slots[2] = v
	h.WriteImage(t.ImageID(), slots)
}

// IsUninterned reports whether a symbol has no namespace (invariant 4).
func (h *Heap) IsUninterned(t Tag) bool { return IsNil(h.SymbolNamespace(t)) }

// BoundP reports whether a symbol's value slot holds something other
// than the unbound marker.
func (h *Heap) BoundP(t Tag) bool { return !IsUnbound(h.SymbolValue(t)) }
