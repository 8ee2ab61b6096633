package mu

// TypeOf returns the fixed keyword-mapped Type of a tag (§4.1). For
// Indirect tags this consults the image header; for Direct tags it is
// pure bit inspection.
func (h *Heap) TypeOf(t Tag) Type {
	if IsNil(t) {
		return TypeNull
	}
	if t.IsIndirect() {
		switch h.Header(t.ImageID()).typ {
		case ImageCons:
			return TypeCons
		case ImageFunction:
			return TypeFunction
		case ImageSymbol:
			return TypeSymbol
		case ImageVector:
			switch h.VectorType(t) {
			case VecChar:
				return TypeString
			case VecByte:
				return TypeByteVector
			default:
				return TypeVector
			}
		case ImageStruct:
			return TypeStruct
		case ImageStream:
			return TypeStream
		case ImageAsync:
			return TypeAsync
		}
	}
	switch t.DirectType() {
	case DirectKeyword:
		return TypeKeyword
	case DirectString:
		return TypeString
	case DirectByteVector:
		return TypeByteVector
	case DirectExt:
		switch t.ExtType() {
		case ExtFixnum:
			return TypeFixnum
		case ExtChar:
			return TypeChar
		case ExtFloat:
			return TypeFloat
		case ExtCons:
			return TypeCons
		case ExtStream:
			return TypeStream
		case ExtNamespace:
			return TypeNamespace
		}
	}
	return TypeT
}

// isOfType accepts the synthetic types (T, List, String) in addition to
// the fixed set, for argument-type checking by native functions.
func (h *Heap) isOfType(t Tag, want Type) bool {
	switch want {
	case TypeT:
		return true
	case TypeList:
		return IsNil(t) || h.IsCons(t)
	case TypeString:
		return h.TypeOf(t) == TypeString || h.TypeOf(t) == TypeKeyword
	default:
		return h.TypeOf(t) == want
	}
}

// Equal compares two tags by value rather than bit-identity: numbers by
// value, conses structurally, vectors/strings element-wise, everything
// else falls back to Eq.
func (h *Heap) Equal(a, b Tag) bool {
	if Eq(a, b) {
		return true
	}
	ta, tb := h.TypeOf(a), h.TypeOf(b)
	if ta != tb {
		return false
	}
	switch ta {
	case TypeFixnum:
		return FixnumValue(a) == FixnumValue(b)
	case TypeFloat:
		return FloatValue(a) == FloatValue(b)
	case TypeChar:
		return CharValue(a) == CharValue(b)
	case TypeCons:
		return h.Equal(h.Car(a), h.Car(b)) && h.Equal(h.Cdr(a), h.Cdr(b))
	case TypeString, TypeKeyword, TypeByteVector:
		return string(h.stringBytes(a)) == string(h.stringBytes(b))
	case TypeVector:
		return h.vectorEqual(a, b)
	default:
		return false
	}
}
