package mu

import (
	"io"
	"os"
	"sync"
)

// hostStream is the host-side backing for a Stream image: file, an
// in-memory byte queue (string stream), or a wrapped stdio handle.
// Stream images hold a fixnum index into env.streams rather than the
// Go object itself, since heap image slots may only carry raw tag bit
// patterns (§3's "Image slots hold raw tag bit patterns").
type hostStream struct {
	mu        sync.Mutex
	direction string // "input", "output", "bidir"
	kind      string // "file", "string", "stdio"
	file      *os.File
	data      []byte
	pos       int
	closed    bool
}

func (env *Env) registerStream(hs *hostStream) int {
	env.streamsMu.Lock()
	defer env.streamsMu.Unlock()
	env.streams = append(env.streams, hs)
	return len(env.streams) - 1
}

func (env *Env) hostStreamOf(t Tag) *hostStream {
	slots := env.Heap.ImageSlice(t.ImageID())
	idx := int(FixnumValue(slots[1]))
	env.streamsMu.Lock()
	defer env.streamsMu.Unlock()
	return env.streams[idx]
}

func (env *Env) makeStreamTag(direction string, hs *hostStream) Tag {
	idx := env.registerStream(hs)
	dirKw := MustKeyword(direction)
	id, exc := env.Heap.alloc(streamSlots, ImageStream)
	if exc != nil {
		panic(exc)
	}
	env.Heap.WriteImage(id, []Tag{dirKw, MakeFixnum(int64(idx)), NilTag, MakeFixnum(1)})
	return NewIndirect(0, id)
}

func (env *Env) registerStdioStream(f *os.File, direction string) Tag {
	return env.makeStreamTag(direction, &hostStream{direction: direction, kind: "stdio", file: f})
}

// OpenFileStream opens a file on disk as a Stream (mu:open with a
// :file type keyword).
func (env *Env) OpenFileStream(path, direction string) (Tag, *Exception) {
	var flag int
	switch direction {
	case "input":
		flag = os.O_RDONLY
	case "output":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "bidir":
		flag = os.O_RDWR | os.O_CREATE
	default:
		return Tag(0), Raise(CondStream, "mu:open", Tag(0))
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return Tag(0), Raise(CondOpen, "mu:open", Tag(0))
	}
	return env.makeStreamTag(direction, &hostStream{direction: direction, kind: "file", file: f}), nil
}

// OpenStringStream builds an in-memory byte-queue Stream, pre-seeded
// with initial content for input/bidir streams.
func (env *Env) OpenStringStream(direction, initial string) Tag {
	return env.makeStreamTag(direction, &hostStream{direction: direction, kind: "string", data: []byte(initial)})
}

func streamDirection(env *Env, t Tag) string {
	slots := env.Heap.ImageSlice(t.ImageID())
	return env.Heap.StringValue(slots[0])
}

func streamOpenP(env *Env, t Tag) bool {
	hs := env.hostStreamOf(t)
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return !hs.closed
}

// CloseStream closes a stream, releasing its file handle if any.
func (env *Env) CloseStream(t Tag) *Exception {
	hs := env.hostStreamOf(t)
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if hs.file != nil && hs.kind == "file" {
		hs.file.Close()
	}
	hs.closed = true
	return nil
}

// FlushStream flushes a stream's pending writes. Files are unbuffered here
// (os.File.Write is synchronous) so flush is a liveness check.
func (env *Env) FlushStream(t Tag) *Exception {
	hs := env.hostStreamOf(t)
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if hs.closed {
		return Raise(CondStream, "mu:flush", t)
	}
	return nil
}

func requireDirection(t Tag, dir string, want string, source string) *Exception {
	if dir != want && dir != "bidir" {
		return Raise(CondStream, source, t)
	}
	return nil
}

// ReadChar reads one character, honoring a pending unread-char slot.
func (env *Env) ReadChar(t Tag, eofErrorP bool, eofValue Tag) (Tag, *Exception) {
	if exc := requireDirection(t, streamDirection(env, t), "input", "mu:read-char"); exc != nil {
		return Tag(0), exc
	}
	slots := env.Heap.ImageSlice(t.ImageID())
	if !IsNil(slots[2]) {
		ch := slots[2]
		slots[2] = NilTag
		env.Heap.WriteImage(t.ImageID(), slots)
		return ch, nil
	}
	hs := env.hostStreamOf(t)
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if hs.closed {
		return Tag(0), Raise(CondStream, "mu:read-char", t)
	}
	var b byte
	var err error
	switch hs.kind {
	case "string":
		if hs.pos >= len(hs.data) {
			err = io.EOF
		} else {
			b = hs.data[hs.pos]
			hs.pos++
		}
	default:
		buf := make([]byte, 1)
		var n int
		n, err = hs.file.Read(buf)
		if n == 1 {
			b = buf[0]
		}
	}
	if err != nil {
		if eofErrorP {
			return Tag(0), Raise(CondEof, "mu:read-char", t)
		}
		return eofValue, nil
	}
	return MakeChar(b), nil
}

// UnreadChar pushes back one character (one-slot pushback per §4.10).
func (env *Env) UnreadChar(t, ch Tag) *Exception {
	slots := env.Heap.ImageSlice(t.ImageID())
	slots[2] = ch
	env.Heap.WriteImage(t.ImageID(), slots)
	return nil
}

// ReadByte reads one raw byte as a fixnum. It reads through ReadChar,
// so a character pushed back by UnreadChar is returned as its byte.
func (env *Env) ReadByte(t Tag, eofErrorP bool, eofValue Tag) (Tag, *Exception) {
	ch, exc := env.ReadChar(t, eofErrorP, eofValue)
	if exc != nil {
		return Tag(0), exc
	}
	if IsChar(ch) {
		return MakeFixnum(int64(CharValue(ch))), nil
	}
	return ch, nil
}

// WriteChar writes one character.
func (env *Env) WriteChar(t, ch Tag) *Exception {
	if exc := requireDirection(t, streamDirection(env, t), "output", "mu:write-char"); exc != nil {
		return exc
	}
	hs := env.hostStreamOf(t)
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if hs.closed {
		return Raise(CondStream, "mu:write-char", t)
	}
	b := CharValue(ch)
	switch hs.kind {
	case "string":
		hs.data = append(hs.data, b)
	default:
		hs.file.Write([]byte{b})
	}
	return nil
}

// WriteByte writes one raw byte.
func (env *Env) WriteByte(t, v Tag) *Exception {
	return env.WriteChar(t, MakeChar(byte(FixnumValue(v))))
}

// WriteString writes a Go string to a stream one byte at a time,
// matching WriteChar's direction/closed checks.
func (env *Env) WriteString(t Tag, s string) *Exception {
	for i := 0; i < len(s); i++ {
		if exc := env.WriteChar(t, MakeChar(s[i])); exc != nil {
			return exc
		}
	}
	return nil
}

// GetString snapshots a string stream's accumulated buffer.
func (env *Env) GetString(t Tag) (Tag, *Exception) {
	hs := env.hostStreamOf(t)
	hs.mu.Lock()
	defer hs.mu.Unlock()
	if hs.kind != "string" {
		return Tag(0), Raise(CondStream, "mu:get-string", t)
	}
	return env.Heap.MakeString(string(hs.data)), nil
}
