package mu

import "testing"

func TestDeferAndForce(t *testing.T) {
	env := newTestEnv(t)
	fn := compileAndEval(t, env, "(:lambda () (add 1 2))")
	future := env.Defer(fn, nil)
	if env.Heap.TypeOf(future) != TypeAsync {
		t.Fatalf("Defer should return an Async value, got %v", env.Repr(future, true))
	}
	v, exc := env.Force(future)
	if exc != nil {
		t.Fatalf("Force: %v", exc)
	}
	if FixnumValue(v) != 3 {
		t.Fatalf("Force result = %v, want 3", env.Repr(v, true))
	}
}

func TestPollBeforeAndAfterCompletion(t *testing.T) {
	env := newTestEnv(t)
	fn := compileAndEval(t, env, "(:lambda () (add 1 2))")
	future := env.Defer(fn, nil)

	if v := env.Poll(future); !IsNil(v) {
		// The task may have already finished on a fast machine; either
		// outcome is acceptable as long as force agrees afterward.
		t.Logf("poll returned early: %v", env.Repr(v, true))
	}

	v, exc := env.Force(future)
	if exc != nil {
		t.Fatalf("Force: %v", exc)
	}
	if FixnumValue(v) != 3 {
		t.Fatalf("Force result = %v, want 3", env.Repr(v, true))
	}
	if polled := env.Poll(future); FixnumValue(polled) != 3 {
		t.Fatalf("Poll after completion = %v, want 3", env.Repr(polled, true))
	}
}

func TestDetachIsFireAndForget(t *testing.T) {
	env := newTestEnv(t)
	fn := compileAndEval(t, env, "(:lambda () (add 4 5))")
	future := env.Detach(fn, nil)
	v, exc := env.Force(future)
	if exc != nil {
		t.Fatalf("Force: %v", exc)
	}
	if FixnumValue(v) != 9 {
		t.Fatalf("Force result = %v, want 9", env.Repr(v, true))
	}
}
