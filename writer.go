package mu

import (
	"fmt"
	"strings"
)

var namedChars = map[byte]string{
	' ':  "space",
	'\t': "tab",
	'\n': "linefeed",
	'\f': "page",
	'\r': "return",
}

// Write renders tag to stream (§4.4). With escape true the output is
// readable by ReadStream except for Function/Stream/Async/Namespace,
// which have no surface syntax, and for byte vectors (#*[...]) and
// structs (#S(...)), which the reader rejects; bit vectors print as
// #(...) and read back as a tag vector.
func (env *Env) Write(tag Tag, escape bool, stream Tag) *Exception {
	return env.WriteString(stream, env.Repr(tag, escape))
}

// Repr renders tag to a Go string without touching a stream (used by
// mu:repr and internally by Write).
func (env *Env) Repr(tag Tag, escape bool) string {
	h := env.Heap
	switch h.TypeOf(tag) {
	case TypeFixnum:
		return fmt.Sprintf("%d", FixnumValue(tag))
	case TypeFloat:
		return fmt.Sprintf("%.4f", FloatValue(tag))
	case TypeChar:
		return reprChar(CharValue(tag), escape)
	case TypeString:
		return reprString(h.StringValue(tag), escape)
	case TypeKeyword, TypeNull:
		return ":" + h.StringValue(tag)
	case TypeByteVector:
		return reprByteVector(h.stringBytes(tag))
	case TypeCons:
		return env.reprList(tag, escape)
	case TypeVector:
		return env.reprVector(tag, escape)
	case TypeSymbol:
		return env.reprSymbol(tag)
	case TypeFunction:
		return env.reprFunction(tag)
	case TypeStruct:
		return env.reprStruct(tag, escape)
	case TypeStream:
		return "#<stream>"
	case TypeAsync:
		return "#<async>"
	case TypeNamespace:
		return "#<namespace " + h.StringValue(env.NamespaceName(tag)) + ">"
	default:
		return "#<unknown>"
	}
}

func reprChar(c byte, escape bool) string {
	if !escape {
		return string(c)
	}
	if name, ok := namedChars[c]; ok {
		return "#\\" + name
	}
	return "#\\" + string(c)
}

func reprString(s string, escape bool) string {
	if !escape {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func reprByteVector(b []byte) string {
	var parts []string
	for _, c := range b {
		parts = append(parts, fmt.Sprintf("%d", c))
	}
	return "#*[" + strings.Join(parts, " ") + "]"
}

func (env *Env) reprList(tag Tag, escape bool) string {
	h := env.Heap
	var parts []string
	cur := tag
	for h.IsCons(cur) {
		parts = append(parts, env.Repr(h.Car(cur), escape))
		cur = h.Cdr(cur)
	}
	if !IsNil(cur) {
		parts = append(parts, ".", env.Repr(cur, escape))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (env *Env) reprVector(tag Tag, escape bool) string {
	h := env.Heap
	n := h.VectorLength(tag)
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = env.Repr(h.SVRef(tag, i), escape)
	}
	return "#(" + strings.Join(parts, " ") + ")"
}

func (env *Env) reprSymbol(tag Tag) string {
	h := env.Heap
	name := h.StringValue(h.SymbolName(tag))
	if h.IsUninterned(tag) {
		return "#:" + name
	}
	return name
}

func (env *Env) reprFunction(tag Tag) string {
	h := env.Heap
	arity := h.FunctionArity(tag)
	kind := h.FunctionKind(tag)
	if kind == FunctionNative {
		pair := h.FunctionForm(tag)
		ns := h.StringValue(env.NamespaceName(h.Car(pair)))
		name := h.StringValue(h.Cdr(pair))
		return fmt.Sprintf("#<:function :%s [req:%d, form:%s]>", ns, arity, name)
	}
	return fmt.Sprintf("#<:function :lambda [req:%d, form:lambda]>", arity)
}

func (env *Env) reprStruct(tag Tag, escape bool) string {
	h := env.Heap
	stype := ":" + h.StringValue(h.StructType(tag))
	return "#S(" + stype + " " + env.Repr(h.StructVec(tag), escape) + ")"
}
