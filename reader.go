package mu

import "strconv"

// Reader macro markers. Comma and backtick are always-active reader
// dispatch characters (§4.3 Delimiters); the forms they produce are
// resolved by quasiExpand. %uq/%uqs stay under the 7-byte inline
// keyword limit, unlike the conventional `unquote`/`unquote-splicing`
// names, since they are never meant to be user-visible.
var (
	kwUnquote       = MustKeyword("%uq")
	kwUnquoteSplice = MustKeyword("%uqs")
)

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	if isWhitespace(c) {
		return true
	}
	switch c {
	case '(', ')', '"', ';', '\'', '`', ',':
		return true
	}
	return false
}

// readRaw reads one raw byte, reporting eof=true at end of stream
// instead of raising (ReadChar's own eofErrorP=false convention), using
// NilTag as the eof sentinel since MakeChar never produces it.
func (env *Env) readRaw(stream Tag) (byte, bool, *Exception) {
	ch, exc := env.ReadChar(stream, false, NilTag)
	if exc != nil {
		return 0, false, exc
	}
	if IsNil(ch) {
		return 0, true, nil
	}
	return CharValue(ch), false, nil
}

// skipAtmosphere consumes whitespace, `;` line comments, and `#|...|#`
// block comments, returning the first significant byte (eof=true if
// none remains).
func (env *Env) skipAtmosphere(stream Tag) (byte, bool, *Exception) {
	for {
		c, eof, exc := env.readRaw(stream)
		if exc != nil {
			return 0, false, exc
		}
		if eof {
			return 0, true, nil
		}
		if isWhitespace(c) {
			continue
		}
		if c == ';' {
			for {
				c2, eof2, exc2 := env.readRaw(stream)
				if exc2 != nil {
					return 0, false, exc2
				}
				if eof2 || c2 == '\n' {
					break
				}
			}
			continue
		}
		if c == '#' {
			next, eof2, exc2 := env.readRaw(stream)
			if exc2 != nil {
				return 0, false, exc2
			}
			if !eof2 && next == '|' {
				if exc3 := env.skipBlockComment(stream); exc3 != nil {
					return 0, false, exc3
				}
				continue
			}
			if !eof2 {
				_ = env.UnreadChar(stream, MakeChar(next))
			}
			return c, false, nil
		}
		return c, false, nil
	}
}

func (env *Env) skipBlockComment(stream Tag) *Exception {
	depth := 1
	var prev byte
	for depth > 0 {
		c, eof, exc := env.readRaw(stream)
		if exc != nil {
			return exc
		}
		if eof {
			return Raise(CondEof, "mu:read", stream)
		}
		if prev == '#' && c == '|' {
			depth++
			prev = 0
			continue
		}
		if prev == '|' && c == '#' {
			depth--
			prev = 0
			continue
		}
		prev = c
	}
	return nil
}

// ReadStream reads one form from stream (§4.3).
func (env *Env) ReadStream(stream Tag, eofErrorP bool, eofValue Tag, recursiveP bool) (Tag, *Exception) {
	c, eof, exc := env.skipAtmosphere(stream)
	if exc != nil {
		return Tag(0), exc
	}
	if eof {
		if eofErrorP {
			return Tag(0), Raise(CondEof, "mu:read", stream)
		}
		return eofValue, nil
	}
	if c == ')' {
		return Tag(0), Raise(CondSyntax, "mu:read", stream)
	}
	return env.readDispatch(stream, c)
}

// readFormOrEOL is ReadStream's recursive-descent sibling used inside
// list reading: a close paren is legal here and reported via eolTag
// instead of an error.
func (env *Env) readFormOrEOL(stream Tag) (Tag, *Exception) {
	c, eof, exc := env.skipAtmosphere(stream)
	if exc != nil {
		return Tag(0), exc
	}
	if eof {
		return Tag(0), Raise(CondEof, "mu:read", stream)
	}
	if c == ')' {
		return eolTag, nil
	}
	return env.readDispatch(stream, c)
}

// readRequiredForm reads exactly one form, rejecting both EOF and a
// stray close paren (used after `'`, `` ` ``, `,`, `,@`).
func (env *Env) readRequiredForm(stream Tag) (Tag, *Exception) {
	f, exc := env.readFormOrEOL(stream)
	if exc != nil {
		return Tag(0), exc
	}
	if f == eolTag {
		return Tag(0), Raise(CondSyntax, "mu:read", stream)
	}
	return f, nil
}

func (env *Env) readDispatch(stream Tag, c byte) (Tag, *Exception) {
	switch c {
	case '"':
		return env.readString(stream)
	case '(':
		return env.readList(stream)
	case '\'':
		form, exc := env.readRequiredForm(stream)
		if exc != nil {
			return Tag(0), exc
		}
		return env.Heap.List(kwQuote, form), nil
	case '`':
		form, exc := env.readRequiredForm(stream)
		if exc != nil {
			return Tag(0), exc
		}
		return env.quasiExpand(form)
	case ',':
		return env.readUnquote(stream)
	case '#':
		return env.readSharp(stream)
	default:
		return env.readAtom(stream, c)
	}
}

func (env *Env) readUnquote(stream Tag) (Tag, *Exception) {
	c, eof, exc := env.readRaw(stream)
	if exc != nil {
		return Tag(0), exc
	}
	splice := !eof && c == '@'
	if !splice && !eof {
		_ = env.UnreadChar(stream, MakeChar(c))
	}
	form, exc := env.readRequiredForm(stream)
	if exc != nil {
		return Tag(0), exc
	}
	if splice {
		return env.Heap.List(kwUnquoteSplice, form), nil
	}
	return env.Heap.List(kwUnquote, form), nil
}

// buildList constructs a possibly-dotted list from items and a tail
// (NilTag for a proper list).
func buildList(h *Heap, items []Tag, tail Tag) Tag {
	out := tail
	for i := len(items) - 1; i >= 0; i-- {
		out = h.Cons(items[i], out)
	}
	return out
}

func (env *Env) readList(stream Tag) (Tag, *Exception) {
	h := env.Heap
	var items []Tag
	tail := NilTag
	for {
		f, exc := env.readFormOrEOL(stream)
		if exc != nil {
			return Tag(0), exc
		}
		if f == eolTag {
			break
		}
		if h.TypeOf(f) == TypeSymbol && h.StringValue(h.SymbolName(f)) == "." {
			t, exc := env.readRequiredForm(stream)
			if exc != nil {
				return Tag(0), exc
			}
			tail = t
			closer, exc := env.readFormOrEOL(stream)
			if exc != nil {
				return Tag(0), exc
			}
			if closer != eolTag {
				return Tag(0), Raise(CondSyntax, "mu:read", stream)
			}
			break
		}
		items = append(items, f)
	}
	return buildList(h, items, tail), nil
}

func (env *Env) readString(stream Tag) (Tag, *Exception) {
	var buf []byte
	for {
		c, eof, exc := env.readRaw(stream)
		if exc != nil {
			return Tag(0), exc
		}
		if eof {
			return Tag(0), Raise(CondEof, "mu:read", stream)
		}
		if c == '"' {
			break
		}
		if c == '\\' {
			e, eof2, exc2 := env.readRaw(stream)
			if exc2 != nil {
				return Tag(0), exc2
			}
			if eof2 {
				return Tag(0), Raise(CondEof, "mu:read", stream)
			}
			buf = append(buf, unescapeChar(e))
			continue
		}
		buf = append(buf, c)
	}
	return env.Heap.MakeString(string(buf)), nil
}

func unescapeChar(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return c
	}
}

var charNames = map[string]byte{
	"space":    ' ',
	"tab":      '\t',
	"linefeed": '\n',
	"page":     '\f',
	"return":   '\r',
}

func (env *Env) readSharp(stream Tag) (Tag, *Exception) {
	c, eof, exc := env.readRaw(stream)
	if exc != nil {
		return Tag(0), exc
	}
	if eof {
		return Tag(0), Raise(CondEof, "mu:read", stream)
	}
	switch c {
	case '\\':
		return env.readCharLiteral(stream)
	case '(':
		return env.readSharpVector(stream)
	case '*':
		return env.readSharpBitVector(stream)
	case ':':
		tok, exc := env.readToken(stream)
		if exc != nil {
			return Tag(0), exc
		}
		return env.Heap.MakeSymbol(env.Heap.MakeString(tok)), nil
	default:
		return Tag(0), Raise(CondSyntax, "mu:read", stream)
	}
}

func (env *Env) readCharLiteral(stream Tag) (Tag, *Exception) {
	first, eof, exc := env.readRaw(stream)
	if exc != nil {
		return Tag(0), exc
	}
	if eof {
		return Tag(0), Raise(CondEof, "mu:read", stream)
	}
	if !isAlnum(first) {
		return MakeChar(first), nil
	}
	tok, exc := env.readTokenFrom(stream, first)
	if exc != nil {
		return Tag(0), exc
	}
	if len(tok) == 1 {
		return MakeChar(tok[0]), nil
	}
	if b, ok := charNames[tok]; ok {
		return MakeChar(b), nil
	}
	return Tag(0), Raise(CondSyntax, "mu:read", stream)
}

func (env *Env) readSharpVector(stream Tag) (Tag, *Exception) {
	lst, exc := env.readList(stream)
	if exc != nil {
		return Tag(0), exc
	}
	items := env.Heap.ListToSlice(lst)
	raw := make([]byte, 0, len(items)*8)
	for _, it := range items {
		var b8 [8]byte
		v := uint64(it)
		for i := 0; i < 8; i++ {
			b8[i] = byte(v >> (8 * i))
		}
		raw = append(raw, b8[:]...)
	}
	return env.Heap.MakeVector(VecTag, len(items), raw), nil
}

func (env *Env) readSharpBitVector(stream Tag) (Tag, *Exception) {
	tok, exc := env.readToken(stream)
	if exc != nil {
		return Tag(0), exc
	}
	n := len(tok)
	raw := make([]byte, (n+7)/8)
	for i, c := range tok {
		if c == '1' {
			raw[i/8] |= 1 << uint(i%8)
		}
	}
	return env.Heap.MakeVector(VecBit, n, raw), nil
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func (env *Env) readToken(stream Tag) (string, *Exception) {
	first, eof, exc := env.readRaw(stream)
	if exc != nil {
		return "", exc
	}
	if eof {
		return "", nil
	}
	return env.readTokenFrom(stream, first)
}

func (env *Env) readTokenFrom(stream Tag, first byte) (string, *Exception) {
	buf := []byte{first}
	for {
		c, eof, exc := env.readRaw(stream)
		if exc != nil {
			return "", exc
		}
		if eof {
			break
		}
		if isDelimiter(c) {
			_ = env.UnreadChar(stream, MakeChar(c))
			break
		}
		buf = append(buf, c)
	}
	return string(buf), nil
}

func (env *Env) readAtom(stream Tag, first byte) (Tag, *Exception) {
	tok, exc := env.readTokenFrom(stream, first)
	if exc != nil {
		return Tag(0), exc
	}
	return env.classifyAtom(stream, tok)
}

func (env *Env) classifyAtom(stream Tag, tok string) (Tag, *Exception) {
	if tok == ":" {
		// the bare colon is nil's printed form: a keyword whose name is
		// empty (invariant 5).
		return NilTag, nil
	}
	if len(tok) > 1 && tok[0] == ':' {
		kw, exc := env.Heap.MakeKeyword(tok[1:])
		if exc != nil {
			return Tag(0), exc
		}
		return kw, nil
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		if n < FixnumMin || n > FixnumMax {
			return Tag(0), Raise(CondOver, "mu:read", stream)
		}
		return MakeFixnum(n), nil
	}
	if looksFloat(tok) {
		if f, err := strconv.ParseFloat(tok, 32); err == nil {
			return MakeFloat(float32(f)), nil
		}
	}
	return env.Intern(env.NullNS, tok, UnboundTag), nil
}

func looksFloat(tok string) bool {
	for _, c := range tok {
		if c == '.' || c == 'e' || c == 'E' {
			return true
		}
	}
	return false
}
