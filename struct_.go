package mu

// Struct image slots: stype (keyword), vector.
func (h *Heap) MakeStruct(stype, vec Tag) Tag {
	id, exc := h.alloc(structSlots, ImageStruct)
	if exc != nil {
		panic(exc)
	}
	h.WriteImage(id, []Tag{stype, vec})
	return NewIndirect(0, id)
}

func (h *Heap) StructType(t Tag) Tag { return h.ImageSlice(t.ImageID())[0] }
func (h *Heap) StructVec(t Tag) Tag  { return h.ImageSlice(t.ImageID())[1] }
