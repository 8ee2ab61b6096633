package mu

import "testing"

func compileAndEval(t *testing.T, env *Env, src string) Tag {
	t.Helper()
	form := readOneString(t, env, src)
	compiled, exc := env.Compile(form)
	if exc != nil {
		t.Fatalf("Compile(%s): %v", src, exc)
	}
	v, exc := env.Eval(compiled)
	if exc != nil {
		t.Fatalf("Eval(%s): %v", src, exc)
	}
	return v
}

func TestArithmetic(t *testing.T) {
	env := newTestEnv(t)
	v := compileAndEval(t, env, "(add 2 3)")
	if FixnumValue(v) != 5 {
		t.Fatalf("(add 2 3) = %v, want 5", env.Repr(v, true))
	}
}

func TestZeroDivideRaises(t *testing.T) {
	env := newTestEnv(t)
	form := readOneString(t, env, "(div 7 0)")
	compiled, exc := env.Compile(form)
	if exc != nil {
		t.Fatalf("Compile: %v", exc)
	}
	_, exc = env.Eval(compiled)
	if exc == nil {
		t.Fatal("expected a ZeroDivide exception")
	}
	if exc.Condition != CondZeroDivide {
		t.Fatalf("Condition = %v, want %v", exc.Condition, CondZeroDivide)
	}
	if exc.Source != "mu:div" {
		t.Fatalf("Source = %q, want mu:div", exc.Source)
	}
}

func TestClosures(t *testing.T) {
	env := newTestEnv(t)
	outer := compileAndEval(t, env, "((:lambda (x) (:lambda (y) (add x y))) 10)")
	if env.Heap.TypeOf(outer) != TypeFunction {
		t.Fatalf("expected a Function value, got %v", env.Repr(outer, true))
	}
	v, exc := env.ApplyValues(outer, []Tag{MakeFixnum(5)})
	if exc != nil {
		t.Fatalf("apply: %v", exc)
	}
	if FixnumValue(v) != 15 {
		t.Fatalf("closure result = %v, want 15", env.Repr(v, true))
	}
}

func TestIfBranches(t *testing.T) {
	env := newTestEnv(t)
	v := compileAndEval(t, env, "(:if :t 1 2)")
	if FixnumValue(v) != 1 {
		t.Fatalf("then branch = %v, want 1", env.Repr(v, true))
	}
	v = compileAndEval(t, env, "(:if : 1 2)")
	if FixnumValue(v) != 2 {
		t.Fatalf("else branch = %v, want 2", env.Repr(v, true))
	}
}

func TestEqAndEqual(t *testing.T) {
	env := newTestEnv(t)
	// FixnumMax doesn't fit a direct cons half, forcing two separate
	// Indirect allocations even though the contents are identical.
	a := env.Heap.Cons(MakeFixnum(FixnumMax), MakeFixnum(2))
	b := env.Heap.Cons(MakeFixnum(FixnumMax), MakeFixnum(2))
	if Eq(a, b) {
		t.Fatal("Eq should not hold across two distinct heap allocations")
	}
	if !env.Heap.Equal(a, b) {
		t.Fatal("Equal should hold for structurally-equal conses")
	}
}

func TestFixIteratesToFixedPoint(t *testing.T) {
	env := newTestEnv(t)
	form := readOneString(t, env, "(:lambda (x) (:if (less-than x 10) (add x 1) x))")
	compiled, exc := env.Compile(form)
	if exc != nil {
		t.Fatalf("Compile: %v", exc)
	}
	fn, exc := env.Eval(compiled)
	if exc != nil {
		t.Fatalf("Eval: %v", exc)
	}
	v, exc := env.Fix(fn, MakeFixnum(0))
	if exc != nil {
		t.Fatalf("Fix: %v", exc)
	}
	if FixnumValue(v) != 10 {
		t.Fatalf("Fix result = %v, want 10", env.Repr(v, true))
	}
}

func TestQuasiquoteSplice(t *testing.T) {
	env := newTestEnv(t)
	v := compileAndEval(t, env, "`(1 ,(add 1 1) ,@(list 3 4) 5)")
	got := env.Heap.ListToSlice(v)
	want := []int64{1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d (%s)", len(got), len(want), env.Repr(v, true))
	}
	for i, w := range want {
		if FixnumValue(got[i]) != w {
			t.Fatalf("element %d = %v, want %d", i, env.Repr(got[i], true), w)
		}
	}
}
