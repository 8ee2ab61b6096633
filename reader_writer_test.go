package mu

import "testing"

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	env, err := New(1, "auto")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { env.Close() })
	return env
}

func readOneString(t *testing.T, env *Env, src string) Tag {
	t.Helper()
	stream := env.OpenStringStream("input", src)
	form, exc := env.ReadStream(stream, true, NilTag, false)
	if exc != nil {
		t.Fatalf("ReadStream(%q): %v", src, exc)
	}
	return form
}

func TestReadWriteRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	cases := []string{
		"3",
		"-17",
		`"hello"`,
		":foo",
		"(1 2 3)",
		"(1 . 2)",
		"#\\a",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			form := readOneString(t, env, src)
			out := env.OpenStringStream("output", "")
			if exc := env.Write(form, true, out); exc != nil {
				t.Fatalf("Write: %v", exc)
			}
			printed, exc := env.GetString(out)
			if exc != nil {
				t.Fatalf("GetString: %v", exc)
			}
			reread := readOneString(t, env, env.Heap.StringValue(printed))
			if !env.Heap.Equal(form, reread) {
				t.Fatalf("round trip mismatch: %s -> %q -> not equal", src, env.Heap.StringValue(printed))
			}
		})
	}
}

func TestReadBareColonIsNil(t *testing.T) {
	env := newTestEnv(t)
	form := readOneString(t, env, ":")
	if !IsNil(form) {
		t.Fatalf("bare ':' should read as nil, got %v", env.Repr(form, true))
	}
}

func TestBlockComment(t *testing.T) {
	env := newTestEnv(t)
	form := readOneString(t, env, "#| skip this |# 42")
	if FixnumValue(form) != 42 {
		t.Fatalf("expected 42 after block comment, got %v", env.Repr(form, true))
	}
}

func TestQuoteReaderMacro(t *testing.T) {
	env := newTestEnv(t)
	form := readOneString(t, env, "'(a b)")
	if env.Heap.TypeOf(form) != TypeCons {
		t.Fatal("expected a cons form")
	}
	head := env.Heap.Car(form)
	if head != kwQuote {
		t.Fatalf("expected :quote head, got %v", env.Repr(head, true))
	}
}
