package mu

import "testing"

func TestStringStreamWriteCharGetString(t *testing.T) {
	env := newTestEnv(t)
	out := env.OpenStringStream("output", "")
	msg := "hi"
	for i := 0; i < len(msg); i++ {
		if exc := env.WriteChar(out, MakeChar(msg[i])); exc != nil {
			t.Fatalf("WriteChar: %v", exc)
		}
	}
	got, exc := env.GetString(out)
	if exc != nil {
		t.Fatalf("GetString: %v", exc)
	}
	if env.Heap.StringValue(got) != msg {
		t.Fatalf("GetString = %q, want %q", env.Heap.StringValue(got), msg)
	}
}

func TestUnreadCharPushback(t *testing.T) {
	env := newTestEnv(t)
	in := env.OpenStringStream("input", "ab")
	first, exc := env.ReadChar(in, true, NilTag)
	if exc != nil {
		t.Fatalf("ReadChar: %v", exc)
	}
	if exc := env.UnreadChar(in, first); exc != nil {
		t.Fatalf("UnreadChar: %v", exc)
	}
	again, exc := env.ReadChar(in, true, NilTag)
	if exc != nil {
		t.Fatalf("ReadChar after unread: %v", exc)
	}
	if again != first {
		t.Fatalf("expected pushed-back char to be re-read, got %v vs %v", again, first)
	}
}

func TestReadFormWriteFormValueRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	form := readOneString(t, env, `(a "b" 3.25 #\x)`)
	out := env.OpenStringStream("output", "")
	if exc := env.Write(form, true, out); exc != nil {
		t.Fatalf("Write: %v", exc)
	}
	printed, exc := env.GetString(out)
	if exc != nil {
		t.Fatalf("GetString: %v", exc)
	}
	want := `(a "b" 3.2500 #\x)`
	if got := env.Heap.StringValue(printed); got != want {
		t.Fatalf("printed = %q, want %q", got, want)
	}
	reread := readOneString(t, env, env.Heap.StringValue(printed))
	if !env.Heap.Equal(form, reread) {
		t.Fatal("reading the printed form back should be Equal to the original")
	}
}

func TestClosingStreamRejectsFurtherIO(t *testing.T) {
	env := newTestEnv(t)
	out := env.OpenStringStream("output", "")
	if exc := env.CloseStream(out); exc != nil {
		t.Fatalf("CloseStream: %v", exc)
	}
	if streamOpenP(env, out) {
		t.Fatal("stream should report closed after CloseStream")
	}
	if exc := env.WriteChar(out, MakeChar('x')); exc == nil {
		t.Fatal("writing to a closed stream should raise")
	}
}
