package mu

import "testing"

func TestDirectConsBoundary(t *testing.T) {
	cases := []struct {
		name    string
		v       int64
		wantFit bool
	}{
		{"max-1", consHalfMax - 1, true},
		{"max", consHalfMax, true},
		{"over-max", consHalfMax + 1, false},
		{"min", consHalfMin, true},
		{"under-min", consHalfMin - 1, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tag := Tag(uint64(c.v))
			if got := fitsConsHalf(tag); got != c.wantFit {
				t.Fatalf("fitsConsHalf(%d) = %v, want %v", c.v, got, c.wantFit)
			}
		})
	}
}

func TestMakeDirectConsFallback(t *testing.T) {
	small := MakeFixnum(1)
	big := MakeFixnum(FixnumMax)
	if _, ok := MakeDirectCons(small, small); !ok {
		t.Fatal("expected small cons to pack direct")
	}
	if _, ok := MakeDirectCons(big, small); ok {
		t.Fatal("expected oversized half to reject direct packing")
	}
}

func TestDirectConsRoundTrip(t *testing.T) {
	car, cdr := MakeFixnum(42), MakeFixnum(-17)
	tag, ok := MakeDirectCons(car, cdr)
	if !ok {
		t.Fatal("expected direct cons to pack")
	}
	if !IsDirectCons(tag) {
		t.Fatal("expected IsDirectCons")
	}
	if got := DirectConsCar(tag); got != car {
		t.Fatalf("car = %v, want %v", got, car)
	}
	if got := DirectConsCdr(tag); got != cdr {
		t.Fatalf("cdr = %v, want %v", got, cdr)
	}
}

func TestFixnumRangeRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, FixnumMax, FixnumMin} {
		tag := MakeFixnum(v)
		if got := FixnumValue(tag); got != v {
			t.Fatalf("FixnumValue(MakeFixnum(%d)) = %d", v, got)
		}
	}
}

func TestNilIsEmptyKeyword(t *testing.T) {
	h := &Heap{}
	if got := h.TypeOf(NilTag); got != TypeNull {
		t.Fatalf("TypeOf(NilTag) = %v, want TypeNull", got)
	}
	if !IsNil(NilTag) {
		t.Fatal("IsNil(NilTag) should be true")
	}
}
