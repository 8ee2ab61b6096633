package mu

import "testing"

func TestInternIsInjective(t *testing.T) {
	env := newTestEnv(t)
	ns := env.MakeNamespace("test-ns")

	a := env.Intern(ns, "widget", MakeFixnum(1))
	b := env.Intern(ns, "widget", MakeFixnum(99))
	if a != b {
		t.Fatal("interning the same name twice should return the same symbol")
	}
	if FixnumValue(env.Heap.SymbolValue(a)) != 1 {
		t.Fatal("second intern call should not overwrite the first binding")
	}

	env.Heap.SetSymbolValue(a, MakeFixnum(2))
	if FixnumValue(env.Heap.SymbolValue(b)) != 2 {
		t.Fatal("mutating through a should be visible through b: same symbol")
	}
}

func TestFindNamespaceAndMakeNamespace(t *testing.T) {
	env := newTestEnv(t)
	ns := env.MakeNamespace("another-ns")
	found, ok := env.FindNamespace("another-ns")
	if !ok || found != ns {
		t.Fatal("FindNamespace should return the namespace created by MakeNamespace")
	}
	if _, ok := env.FindNamespace("does-not-exist"); ok {
		t.Fatal("FindNamespace should report false for an unregistered name")
	}
}

func TestFindWithoutCreating(t *testing.T) {
	env := newTestEnv(t)
	ns := env.MakeNamespace("find-only")
	if _, ok := env.Find(ns, "ghost"); ok {
		t.Fatal("Find should not create a symbol that was never interned")
	}
	env.Intern(ns, "ghost", NilTag)
	if _, ok := env.Find(ns, "ghost"); !ok {
		t.Fatal("Find should see a symbol interned after the first lookup")
	}
}
