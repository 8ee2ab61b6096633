package mu

import (
	"encoding/binary"
	"math"
)

// MakeVector builds a Vector image of the given element type and raw
// byte body, consulting (and populating) the canonical vector cache so
// value-identical vectors of the same (type, length) share one tag
// (invariant 7).
func (h *Heap) MakeVector(vt VectorType, length int, raw []byte) Tag {
	if cached, ok := h.internVector(vt, length, raw); ok {
		return cached
	}
	dataBytes := len(raw)
	slots := vectorFixedSlots + (dataBytes+7)/8
	id, exc := h.alloc(slots, ImageVector)
	if exc != nil {
		panic(exc)
	}
	prefix := []Tag{MustKeyword(vt.keyword()), MakeFixnum(int64(length))}
	h.WriteImage(id, append(prefix, make([]Tag, slots-vectorFixedSlots)...))
	h.WriteImageData(id, vectorFixedSlots*8, raw)
	t := NewIndirect(0, id)
	h.cacheVector(vt, length, raw, t)
	return t
}

// VectorType returns the element type of a Vector image.
func (h *Heap) VectorType(t Tag) VectorType {
	slots := h.ImageSlice(t.ImageID())
	kw := keywordName(h, slots[0])
	switch kw {
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

// VectorLength returns the element count of a Vector image.
func (h *Heap) VectorLength(t Tag) int {
	slots := h.ImageSlice(t.ImageID())
	return int(FixnumValue(slots[1]))
}

func (h *Heap) vectorRawBytes(t Tag) []byte {
	vt := h.VectorType(t)
	n := h.VectorLength(t)
	var byteLen int
	if vt == VecBit {
		byteLen = (n + 7) / 8
	} else {
		byteLen = n * vt.elementWidth()
	}
	return h.ImageDataSlice(t.ImageID(), vectorFixedSlots*8, byteLen)
}

// SVRef reads element k of a vector (any element type) as a Tag.
func (h *Heap) SVRef(t Tag, k int) Tag {
	vt := h.VectorType(t)
	raw := h.vectorRawBytes(t)
	switch vt {
	case VecTag:
		return Tag(binary.LittleEndian.Uint64(raw[k*8:]))
	case VecFixnum:
		return MakeFixnum(int64(binary.LittleEndian.Uint64(raw[k*8:])))
	case VecFloat:
		bits := binary.LittleEndian.Uint32(raw[k*4:])
		return MakeFloat(math.Float32frombits(bits))
	case VecChar:
		return MakeChar(raw[k])
	case VecByte:
		return MakeFixnum(int64(raw[k]))
	case VecBit:
		byteIdx, bit := k/8, uint(k%8)
		v := (raw[byteIdx] >> bit) & 1
		return MakeFixnum(int64(v))
	}
	return NilTag
}

// SetSVRef writes element k of a vector in place.
func (h *Heap) SetSVRef(t Tag, k int, v Tag) {
	vt := h.VectorType(t)
	n := h.VectorLength(t)
	var byteLen int
	if vt == VecBit {
		byteLen = (n + 7) / 8
	} else {
		byteLen = n * vt.elementWidth()
	}
	raw := h.ImageDataSlice(t.ImageID(), vectorFixedSlots*8, byteLen)
	// the cache entry keyed by the old contents must not keep pointing here
	h.mu.Lock()
	if key := vectorCacheKey(vt, n, raw); h.vectorCache[key] == t {
		delete(h.vectorCache, key)
	}
	h.mu.Unlock()
	switch vt {
	case VecTag:
		binary.LittleEndian.PutUint64(raw[k*8:], uint64(v))
	case VecFixnum:
		binary.LittleEndian.PutUint64(raw[k*8:], uint64(FixnumValue(v)))
	case VecFloat:
		binary.LittleEndian.PutUint32(raw[k*4:], math.Float32bits(FloatValue(v)))
	case VecChar:
		raw[k] = CharValue(v)
	case VecByte:
		raw[k] = byte(FixnumValue(v))
	case VecBit:
		byteIdx, bit := k/8, uint(k%8)
		if FixnumValue(v) != 0 {
			raw[byteIdx] |= 1 << bit
		} else {
			raw[byteIdx] &^= 1 << bit
		}
	}
	h.WriteImageData(t.ImageID(), vectorFixedSlots*8, raw)
}

func (h *Heap) vectorEqual(a, b Tag) bool {
	if h.VectorType(a) != h.VectorType(b) || h.VectorLength(a) != h.VectorLength(b) {
		return false
	}
	return string(h.vectorRawBytes(a)) == string(h.vectorRawBytes(b))
}

// --- String / Keyword / ByteVector over Vector(char)/Vector(byte) ---

// MakeString builds a character-typed vector, direct (inline) when the
// string is 7 bytes or fewer, indirect (Vector of char) otherwise.
func (h *Heap) MakeString(s string) Tag {
	if t, ok := MakeInlineString(s); ok {
		return t
	}
	return h.MakeVector(VecChar, len(s), []byte(s))
}

// MakeKeyword interns a keyword. Per the glossary, a keyword is "a
// short symbol-like direct-tagged value": names over 7 bytes are
// rejected with a Range condition rather than silently truncated.
func (h *Heap) MakeKeyword(name string) (Tag, *Exception) {
	t, ok := MakeInlineKeyword(name)
	if !ok {
		return Tag(0), Raise(CondRange, "mu:intern", Tag(0))
	}
	return t, nil
}

// MustKeyword panics on a too-long keyword; used internally for
// well-known short keywords the implementation itself constructs.
func MustKeyword(name string) Tag {
	t, ok := MakeInlineKeyword(name)
	if !ok {
		panic("mu: internal keyword too long: " + name)
	}
	return t
}

// MakeByteVector builds a byte-typed vector, direct when <=7 bytes.
func (h *Heap) MakeByteVector(b []byte) Tag {
	if t, ok := MakeInlineByteVector(b); ok {
		return t
	}
	return h.MakeVector(VecByte, len(b), b)
}

func (h *Heap) stringBytes(t Tag) []byte {
	if t.IsDirect() {
		return inlineBytes(t)
	}
	return h.vectorRawBytes(t)
}

// StringValue renders a String/Keyword/ByteVector tag as a Go string.
func (h *Heap) StringValue(t Tag) string { return string(h.stringBytes(t)) }

func keywordName(h *Heap, t Tag) string { return h.StringValue(t) }
