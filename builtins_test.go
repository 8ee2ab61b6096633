package mu

import "testing"

func TestTypeOfKeywords(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		src  string
		want string
	}{
		{"3", "fixnum"},
		{"3.5", "float"},
		{`"hi"`, "string"},
		{":foo", "keyword"},
		{"(1 2)", "cons"},
		{":", "null"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			form := readOneString(t, env, c.src)
			kw := env.Heap.TypeOf(form).Keyword()
			if kw != c.want {
				t.Fatalf("TypeOf(%s).Keyword() = %q, want %q", c.src, kw, c.want)
			}
		})
	}
}

func TestVectorMakeAndRef(t *testing.T) {
	env := newTestEnv(t)
	v := env.Heap.MakeVector(VecFixnum, 3, make([]byte, 3*8))
	env.Heap.SetSVRef(v, 0, MakeFixnum(10))
	env.Heap.SetSVRef(v, 1, MakeFixnum(20))
	env.Heap.SetSVRef(v, 2, MakeFixnum(30))
	if env.Heap.VectorLength(v) != 3 {
		t.Fatalf("VectorLength = %d, want 3", env.Heap.VectorLength(v))
	}
	if FixnumValue(env.Heap.SVRef(v, 1)) != 20 {
		t.Fatalf("SVRef(1) = %v, want 20", env.Repr(env.Heap.SVRef(v, 1), true))
	}
}

func TestStructTypeAndVec(t *testing.T) {
	env := newTestEnv(t)
	vec := env.Heap.MakeVector(VecFixnum, 1, make([]byte, 8))
	stype := MustKeyword("point")
	s := env.Heap.MakeStruct(stype, vec)
	if env.Heap.StructType(s) != stype {
		t.Fatal("StructType mismatch")
	}
	if env.Heap.StructVec(s) != vec {
		t.Fatal("StructVec mismatch")
	}
}

func TestWithExceptionCatchesRaise(t *testing.T) {
	env := newTestEnv(t)
	handler := compileAndEval(t, env, "(:lambda (obj cond source) cond)")
	thunk := compileAndEval(t, env, "(:lambda () (div 1 0))")
	v, exc := env.ApplyValues(mustFindNative(t, env, "with-exception"), []Tag{handler, thunk})
	if exc != nil {
		t.Fatalf("with-exception: %v", exc)
	}
	if env.Heap.StringValue(v) != string(CondZeroDivide) {
		t.Fatalf("handler saw condition %q, want %q", env.Heap.StringValue(v), CondZeroDivide)
	}
}

func TestCarCdrRejectNonList(t *testing.T) {
	env := newTestEnv(t)
	car := mustFindNative(t, env, "car")
	cdr := mustFindNative(t, env, "cdr")
	a := MakeFixnum(3)

	if _, exc := env.ApplyValues(car, []Tag{a}); exc == nil {
		t.Fatal("(car 3) should raise a type condition")
	}
	if _, exc := env.ApplyValues(cdr, []Tag{a}); exc == nil {
		t.Fatal("(cdr 3) should raise a type condition")
	}

	pair := readOneString(t, env, "(1 . 2)")
	v, exc := env.ApplyValues(car, []Tag{pair})
	if exc != nil {
		t.Fatalf("(car (1 . 2)): %v", exc)
	}
	if FixnumValue(v) != 1 {
		t.Fatalf("(car (1 . 2)) = %v, want 1", env.Repr(v, true))
	}
}

func TestLengthAcceptsListsAndVectorLikes(t *testing.T) {
	env := newTestEnv(t)
	length := mustFindNative(t, env, "length")

	cases := []struct {
		src  string
		want int64
	}{
		{":", 0},
		{"(1 2 3)", 3},
		{`"abc"`, 3},
	}
	for _, c := range cases {
		form := readOneString(t, env, c.src)
		v, exc := env.ApplyValues(length, []Tag{form})
		if exc != nil {
			t.Fatalf("(length %s): %v", c.src, exc)
		}
		if FixnumValue(v) != c.want {
			t.Fatalf("(length %s) = %v, want %d", c.src, env.Repr(v, true), c.want)
		}
	}

	if _, exc := env.ApplyValues(length, []Tag{MakeFixnum(3)}); exc == nil {
		t.Fatal("(length 3) should raise a type condition")
	}
}

func mustFindNative(t *testing.T, env *Env, name string) Tag {
	t.Helper()
	sym, ok := env.Find(env.NullNS, name)
	if !ok {
		t.Fatalf("native %q not interned in the null namespace", name)
	}
	return env.Heap.SymbolValue(sym)
}
