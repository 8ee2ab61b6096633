package mu

import "testing"

// allocChainOfConses builds a singly-linked chain of n Indirect conses
// (forcing heap allocation rather than direct packing) and returns the
// head.
func allocChainOfConses(env *Env, n int) Tag {
	tail := NilTag
	for i := 0; i < n; i++ {
		tail = env.Heap.Cons(MakeFixnum(FixnumMax), tail)
	}
	return tail
}

func newBigTestEnv(t *testing.T) *Env {
	t.Helper()
	env, err := New(16, "auto")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { env.Close() })
	return env
}

func TestGCKeepsReachableConses(t *testing.T) {
	env := newBigTestEnv(t)
	const n = 1000

	chain := allocChainOfConses(env, n)
	sym := env.Intern(env.NullNS, "gc-test-chain", chain)

	env.GC()

	stat := env.Heap.HeapStat()["cons"]
	if stat.Total < n {
		t.Fatalf("cons total = %d, want >= %d", stat.Total, n)
	}
	if stat.Free > 0 {
		t.Fatalf("reachable chain should not be swept, free = %d bytes", stat.Free)
	}

	// keep sym alive for the compiler's benefit (avoid an unused warning
	// if the binding above is ever trimmed).
	if !env.Heap.BoundP(sym) {
		t.Fatal("expected the interned symbol to stay bound")
	}
}

func TestGCSweepsUnreachableConses(t *testing.T) {
	env := newBigTestEnv(t)
	const n = 1000

	chain := allocChainOfConses(env, n)
	sym := env.Intern(env.NullNS, "gc-test-unreachable", chain)
	env.Heap.SetSymbolValue(sym, UnboundTag)

	before := env.Heap.HeapStat()["cons"].Free

	env.GC()
	const consImageBytes = 24 // 8-byte header + 2 slots
	afterFirst := env.Heap.HeapStat()["cons"].Free
	if afterFirst-before < n*consImageBytes {
		t.Fatalf("free grew by %d bytes, want at least %d (n conses reclaimed)", afterFirst-before, n*consImageBytes)
	}

	env.GC() // second pass: free is recomputed, not accumulated
	afterSecond := env.Heap.HeapStat()["cons"].Free
	if afterSecond != afterFirst {
		t.Fatalf("free changed from %d to %d across a redundant GC pass, want a stable total", afterFirst, afterSecond)
	}
}

// fillHeapToExhaustion allocates conses until the arena's bump pointer
// can advance no further, which panics (Cons panics on a heap-alloc
// Over exception). The heap is non-compacting, so this always
// eventually panics regardless of gc-mode — a GC attempt on
// exhaustion can run Sweep but can never hand the bump allocator back
// space a prior sweep already walked past.
func fillHeapToExhaustion(t *testing.T, env *Env) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected allocation to eventually panic once the arena is full")
		}
	}()
	for i := 0; i < 1_000_000; i++ {
		env.Heap.Cons(MakeFixnum(FixnumMax), NilTag)
	}
}

func TestAllocAttemptsGCOnExhaustionInAutoMode(t *testing.T) {
	env, err := New(1, "auto")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer env.Close()

	// unreachable the moment it's built: nothing roots it, so a GC
	// attempt triggered by exhaustion has something real to sweep.
	_ = allocChainOfConses(env, 200)

	if before := env.Heap.HeapStat()["cons"].Free; before != 0 {
		t.Fatalf("free should start at 0 before any collection, got %d", before)
	}

	fillHeapToExhaustion(t, env)

	if after := env.Heap.HeapStat()["cons"].Free; after == 0 {
		t.Fatal("gc-mode auto should run a collection attempt on exhaustion, free stayed 0")
	}
}

func TestAllocSkipsGCRetryWhenModeIsNone(t *testing.T) {
	env, err := New(1, "none")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer env.Close()

	_ = allocChainOfConses(env, 200)
	fillHeapToExhaustion(t, env)

	if free := env.Heap.HeapStat()["cons"].Free; free != 0 {
		t.Fatalf("gc-mode none should never attempt a collection on exhaustion, free = %d", free)
	}
}
