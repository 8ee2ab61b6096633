package mu

import (
	"encoding/binary"
	"sync"
)

const defaultPageSize = 64 * 1024 // 64KiB pages, matching the config's page-count unit

// typeStat tracks per-image-type accounting for heap-stat (§4.2).
type typeStat struct {
	size  int // bytes ever allocated (sweep does not lower it)
	total int // images ever allocated
	free  int // bytes reclaimed by sweep (not reusable, non-compacting)
}

// HeapTypeStat is the read-only view of typeStat exposed to callers of
// HeapStat.
type HeapTypeStat struct {
	Size, Total, Free int
}

// Heap is a bump allocator over a contiguous, 8-byte-aligned arena of
// image bytes, generalizing the teacher's flat VM memory
// (backend_vm.go's vm.memory / ensureMemory / loadWord / storeWord) to
// the tagged-image layout of §3.
type Heap struct {
	mu sync.RWMutex

	memory   []byte
	unmap    func() error
	next     int // next free byte offset, always 8-byte aligned
	pages    int
	pageSize int

	stats [ImageType(7)]typeStat

	vectorCache map[string]Tag // canonical vector interning, §3 "vector cache"

	// onExhausted is invoked once by alloc when the arena is full,
	// before raising Over, so gc-mode "auto" gets a collection pass to
	// reclaim space first (§6 gc-mode, spec.md "Over after a GC
	// attempt"). Set by Env.New; nil under gc-mode "none".
	onExhausted func() bool
}

// NewHeap allocates an arena of the given number of pages.
func NewHeap(pages int) (*Heap, error) {
	if pages < 1 {
		pages = 1
	}
	size := pages * defaultPageSize
	mem, unmap, err := newArena(size)
	if err != nil {
		return nil, err
	}
	return &Heap{
		memory:      mem,
		unmap:       unmap,
		pages:       pages,
		pageSize:    defaultPageSize,
		vectorCache: make(map[string]Tag),
	}, nil
}

// Close releases the backing arena.
func (h *Heap) Close() error {
	if h.unmap != nil {
		return h.unmap()
	}
	return nil
}

func (h *Heap) capacity() int { return h.pages * h.pageSize }

// alloc append-allocates a header plus `slots` 8-byte slots, 8-byte
// aligned, and returns the new image's id. Fails with Condition Over
// when the region is exhausted (§4.2), unless onExhausted is set
// (gc-mode "auto"): then a single collection is run to try to make
// room before raising Over (spec.md: "Over after a GC attempt").
func (h *Heap) alloc(slots int, typ ImageType) (ImageID, *Exception) {
	need := (1 + slots) * 8

	if id, ok := h.tryAlloc(need, typ); ok {
		return id, nil
	}

	hook := h.onExhausted
	if hook == nil || !hook() {
		return 0, Raise(CondOver, "mu:heap-alloc", Tag(0))
	}
	if id, ok := h.tryAlloc(need, typ); ok {
		return id, nil
	}
	return 0, Raise(CondOver, "mu:heap-alloc", Tag(0))
}

// tryAlloc attempts a single allocation, returning ok=false without
// side effects if the arena has no room.
func (h *Heap) tryAlloc(need int, typ ImageType) (ImageID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.next+need > h.capacity() {
		return 0, false
	}
	id := ImageID(h.next / 8)
	hdr := imageHeader{mark: false, len: uint16(need - 8), typ: typ, reloc: 0}
	binary.LittleEndian.PutUint64(h.memory[h.next:], hdr.encode())
	h.next += need

	st := &h.stats[typ]
	st.size += need
	st.total++
	return id, true
}

func (h *Heap) wordOffset(id ImageID) int { return int(id) * 8 }

func (h *Heap) headerLocked(id ImageID) imageHeader {
	off := h.wordOffset(id)
	return decodeImageHeader(binary.LittleEndian.Uint64(h.memory[off:]))
}

// Header returns the decoded header of an image.
func (h *Heap) Header(id ImageID) imageHeader {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.headerLocked(id)
}

func (h *Heap) setHeaderLocked(id ImageID, hdr imageHeader) {
	off := h.wordOffset(id)
	binary.LittleEndian.PutUint64(h.memory[off:], hdr.encode())
}

// ImageSlice reads the raw 8-byte tag-valued slots of an image's body.
func (h *Heap) ImageSlice(id ImageID) []Tag {
	h.mu.RLock()
	defer h.mu.RUnlock()
	hdr := h.headerLocked(id)
	n := int(hdr.len) / 8
	out := make([]Tag, n)
	base := h.wordOffset(id) + 8
	for i := 0; i < n; i++ {
		out[i] = Tag(binary.LittleEndian.Uint64(h.memory[base+i*8:]))
	}
	return out
}

// WriteImage overwrites an image body's slots in place.
func (h *Heap) WriteImage(id ImageID, slots []Tag) {
	h.mu.Lock()
	defer h.mu.Unlock()
	base := h.wordOffset(id) + 8
	for i, s := range slots {
		binary.LittleEndian.PutUint64(h.memory[base+i*8:], uint64(s))
	}
}

// ImageDataSlice returns a byte-level window into an image's body,
// starting at byte offset (from the start of the body, i.e. after the
// fixed tag-valued prefix) for len bytes. Used by Vector bodies whose
// element width is not 8 bytes.
func (h *Heap) ImageDataSlice(id ImageID, offset, length int) []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	base := h.wordOffset(id) + 8 + offset
	out := make([]byte, length)
	copy(out, h.memory[base:base+length])
	return out
}

// WriteImageData writes a byte-level window into an image's body.
func (h *Heap) WriteImageData(id ImageID, offset int, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	base := h.wordOffset(id) + 8 + offset
	copy(h.memory[base:base+len(data)], data)
}

// --- GC mark support ---

func (h *Heap) GetMark(id ImageID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.headerLocked(id).mark
}

func (h *Heap) SetMark(id ImageID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hdr := h.headerLocked(id)
	hdr.mark = true
	h.setHeaderLocked(id, hdr)
}

// ClearMarks clears the mark bit of every allocated image.
func (h *Heap) ClearMarks() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for off := 0; off < h.next; {
		hdr := decodeImageHeader(binary.LittleEndian.Uint64(h.memory[off:]))
		hdr.mark = false
		binary.LittleEndian.PutUint64(h.memory[off:], hdr.encode())
		off += 8 + int(hdr.len)
	}
}

// Sweep walks every image header; any still unmarked has its bytes
// accounted as free. Headers of reclaimed records are not reused in
// place (non-compacting), per §4.8 step 6. free is recomputed from
// scratch on each call, not accumulated across calls, so repeated
// (gc) calls with nothing new to reclaim report the same total rather
// than an ever-growing one.
func (h *Heap) Sweep() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for t := range h.stats {
		h.stats[t].free = 0
	}
	for off := 0; off < h.next; {
		hdr := decodeImageHeader(binary.LittleEndian.Uint64(h.memory[off:]))
		size := 8 + int(hdr.len)
		if !hdr.mark {
			st := &h.stats[hdr.typ]
			st.free += size
		}
		off += size
	}
}

// HeapStat reports per-type (size, total, free) accounting.
func (h *Heap) HeapStat() map[string]HeapTypeStat {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]HeapTypeStat, len(h.stats))
	for t, st := range h.stats {
		out[ImageType(t).String()] = HeapTypeStat{Size: st.size, Total: st.total, Free: st.free}
	}
	return out
}

// HeapInfo returns (pageSize, pages).
func (h *Heap) HeapInfo() (int, int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pageSize, h.pages
}

// --- vector cache ---

// internVector returns the canonical tag for a value-identical vector
// of the given (type, length, raw bytes), allocating one if this is the
// first probe. Invariant 7: the cache never returns a tag whose
// contents differ by even one element/byte from the probe.
func (h *Heap) internVector(vt VectorType, length int, raw []byte) (Tag, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := vectorCacheKey(vt, length, raw)
	if t, ok := h.vectorCache[key]; ok {
		return t, true
	}
	return Tag(0), false
}

func (h *Heap) cacheVector(vt VectorType, length int, raw []byte, t Tag) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.vectorCache[vectorCacheKey(vt, length, raw)] = t
}

func vectorCacheKey(vt VectorType, length int, raw []byte) string {
	buf := make([]byte, 0, 9+len(raw))
	buf = append(buf, byte(vt))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(length))
	buf = append(buf, raw...)
	return string(buf)
}
