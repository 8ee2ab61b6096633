package mu

import "sync"

// Frame is one active function invocation: {func, argv, value} (§4.6,
// "Frame / Apply"). Compiled functions see a new Frame pushed onto
// their lexical frame stack for the duration of body evaluation;
// native functions receive one Frame and write straight into Value.
type Frame struct {
	Func  Tag
	Argv  []Tag
	Value Tag
}

type dynamicEntry struct {
	Func   Tag
	Offset int
}

// lexicalStacks is the per-function-id stack of active Frames (the
// "lexical-binding map: function-id → stack of Frames" of the
// Environment record in §3).
type lexicalStacks struct {
	mu    sync.RWMutex
	stack map[Tag][]*Frame
}

func newLexicalStacks() *lexicalStacks {
	return &lexicalStacks{stack: make(map[Tag][]*Frame)}
}

func (l *lexicalStacks) push(fn Tag, fr *Frame) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stack[fn] = append(l.stack[fn], fr)
	return len(l.stack[fn])
}

func (l *lexicalStacks) pop(fn Tag) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.stack[fn]
	if len(s) > 0 {
		l.stack[fn] = s[:len(s)-1]
	}
}

func (l *lexicalStacks) top(fn Tag) (*Frame, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s := l.stack[fn]
	if len(s) == 0 {
		return nil, false
	}
	return s[len(s)-1], true
}

func (l *lexicalStacks) depth(fn Tag) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.stack[fn])
}

// forEach calls visit for every currently-active Frame across all
// functions; used by the GC's root-discovery pass (§4.8 step 4).
func (l *lexicalStacks) forEach(visit func(*Frame)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, frames := range l.stack {
		for _, fr := range frames {
			visit(fr)
		}
	}
}

// FrameRef reads slot k of the top frame bound for func (§4.6 step 5).
func (env *Env) FrameRef(fn Tag, k int) Tag {
	fr, ok := env.lexical.top(fn)
	if !ok || k < 0 || k >= len(fr.Argv) {
		return NilTag
	}
	return fr.Argv[k]
}

// FrameStack lists the active dynamic-binding stack as a list of
// (func . offset) conses (mu:%frame-stack).
func (env *Env) FrameStack() Tag {
	env.dynMu.RLock()
	defer env.dynMu.RUnlock()
	var out []Tag
	for _, e := range env.dynamicStack {
		out = append(out, env.Heap.Cons(e.Func, MakeFixnum(int64(e.Offset))))
	}
	return env.Heap.List(out...)
}

func (env *Env) dynamicPush(fn Tag, offset int) {
	env.dynMu.Lock()
	defer env.dynMu.Unlock()
	env.dynamicStack = append(env.dynamicStack, dynamicEntry{Func: fn, Offset: offset})
}

func (env *Env) dynamicPop() {
	env.dynMu.Lock()
	defer env.dynMu.Unlock()
	if n := len(env.dynamicStack); n > 0 {
		env.dynamicStack = env.dynamicStack[:n-1]
	}
}

func (env *Env) dynamicDepth() int {
	env.dynMu.RLock()
	defer env.dynMu.RUnlock()
	return len(env.dynamicStack)
}

func (env *Env) dynamicTruncate(depth int) {
	env.dynMu.Lock()
	defer env.dynMu.Unlock()
	if depth < len(env.dynamicStack) {
		env.dynamicStack = env.dynamicStack[:depth]
	}
}

// ApplyValues applies fn to an already-evaluated argument vector,
// skipping argument evaluation (§4.7: "apply_ receives an already
// evaluated argument vector and skips evaluation").
func (env *Env) ApplyValues(fn Tag, argv []Tag) (Tag, *Exception) {
	if !env.Heap.IsFunction(fn) {
		return Tag(0), Raise(CondType, "mu:apply", fn)
	}
	arity := env.Heap.FunctionArity(fn)
	if arity >= 0 && len(argv) != arity {
		return Tag(0), Raise(CondArity, "mu:apply", fn)
	}

	fr := &Frame{Func: fn, Argv: argv, Value: NilTag}

	switch env.Heap.FunctionKind(fn) {
	case FunctionNative:
		pair := env.Heap.FunctionForm(fn)
		nsTag := env.Heap.Car(pair)
		name := env.Heap.StringValue(env.Heap.Cdr(pair))
		ns := env.namespaces.deref(nsTag)
		entry, ok := ns.lookupNative(name)
		if !ok {
			return Tag(0), Raise(CondUnbound, "mu:"+name, fn)
		}
		env.dynamicPush(fn, env.lexical.depth(fn))
		defer env.dynamicPop()
		if exc := entry.impl(env, fr); exc != nil {
			return Tag(0), exc
		}
		return fr.Value, nil

	default: // FunctionCompiled
		env.lexical.push(fn, fr)
		env.dynamicPush(fn, env.lexical.depth(fn))
		defer func() {
			env.lexical.pop(fn)
			env.dynamicPop()
		}()

		body := env.Heap.ListToSlice(env.Heap.FunctionForm(fn))
		var last Tag = NilTag
		for _, form := range body {
			v, exc := env.Eval(form)
			if exc != nil {
				return Tag(0), exc
			}
			last = v
		}
		fr.Value = last
		return last, nil
	}
}

// ApplyForm evaluates each argument form left-to-right, then applies
// fn (§4.7: "Apply of a form to args evaluates each argument
// left-to-right before invocation").
func (env *Env) ApplyForm(fn Tag, argForms []Tag) (Tag, *Exception) {
	argv := make([]Tag, len(argForms))
	for i, f := range argForms {
		v, exc := env.Eval(f)
		if exc != nil {
			return Tag(0), exc
		}
		argv[i] = v
	}
	return env.ApplyValues(fn, argv)
}

// Fix iterates x ← fn(x) until eq(prev, next), returning the fixed
// point (§4.6 step 4). Each iteration pushes then pops exactly one
// frame, so the lexical stack never grows beyond one frame regardless
// of iteration count ("tail-call-safe").
func (env *Env) Fix(fn, x Tag) (Tag, *Exception) {
	for {
		next, exc := env.ApplyValues(fn, []Tag{x})
		if exc != nil {
			return Tag(0), exc
		}
		if Eq(x, next) {
			return x, nil
		}
		x = next
	}
}
