package lane

import (
	"math"
	"testing"
)

func TestAdd(t *testing.T) {
	a := F32x8{0, 0, 0, 0, 1, 2, 3, 4}
	b := F32x8{5, 6, 7, 8, 0, 1, 2, 3}
	want := F32x8{5, 6, 7, 8, 1, 3, 5, 7}
	if got := a.Add(b); got != want {
		t.Fatalf("Add: got %v, want %v", got, want)
	}
}

func TestMulAdd(t *testing.T) {
	a := F32x8{0, 1, 0, 2, 1, 2, 3, 4}
	factor := F32x8{5, 6, 7, 8, 0, 1, 2, 3}
	term := F32x8{5, 6, 7, 8, 1, 3, 5, 7}
	want := F32x8{5, 12, 7, 24, 1, 5, 11, 19}
	if got := a.MulAdd(factor, term); got != want {
		t.Fatalf("MulAdd: got %v, want %v", got, want)
	}
}

func TestMulSub(t *testing.T) {
	a := F32x8{0, 1, 0, 2, 1, 2, 3, 4}
	factor := F32x8{5, 6, 7, 8, 0, 1, 2, 3}
	term := F32x8{5, 6, 7, 8, 1, 3, 5, 7}
	want := F32x8{-5, 0, -7, 8, -1, -1, 1, 5}
	if got := a.MulSub(factor, term); got != want {
		t.Fatalf("MulSub: got %v, want %v", got, want)
	}
}

func TestBroadcast(t *testing.T) {
	a := Broadcast(7)
	want := F32x8{7, 7, 7, 7, 7, 7, 7, 7}
	if a != want {
		t.Fatalf("Broadcast: got %v, want %v", a, want)
	}
}

func TestAnyPositiveMasked(t *testing.T) {
	negZero := BitcastFromU32(0x8000_0000)
	a := F32x8{-2, -1, negZero, 0, 1, 2, 3, 4}
	trueM := trueBitsPattern
	falseM := float32(0)

	cases := []struct {
		mask Mask8
		want bool
	}{
		{Mask8{trueM, falseM, trueM, trueM, trueM, falseM, falseM, falseM}, true},
		{Mask8{trueM, falseM, trueM, trueM, falseM, falseM, falseM, falseM}, true},
		{Mask8{trueM, falseM, trueM, falseM, falseM, falseM, falseM, falseM}, false},
		{Mask8{trueM, trueM, falseM, falseM, falseM, falseM, falseM, falseM}, false},
		{Mask8{trueM, falseM, falseM, trueM, falseM, falseM, falseM, falseM}, true},
	}
	for i, c := range cases {
		if got := a.AnyPositiveMasked(c.mask); got != c.want {
			t.Errorf("case %d: AnyPositiveMasked = %v, want %v", i, got, c.want)
		}
	}
}

func TestPick(t *testing.T) {
	a := Broadcast(1)
	b := Broadcast(2)
	mask := Mask8{trueBitsPattern, 0, trueBitsPattern, 0, trueBitsPattern, 0, trueBitsPattern, 0}
	got := Pick(a, b, mask)
	want := F32x8{2, 1, 2, 1, 2, 1, 2, 1}
	if got != want {
		t.Fatalf("Pick: got %v, want %v", got, want)
	}
}

func TestMaskAndOrNot(t *testing.T) {
	allTrue := MaskTrue()
	allFalse := MaskFalse()
	if !allTrue.All() {
		t.Fatal("MaskTrue().All() should be true")
	}
	if allFalse.Any() {
		t.Fatal("MaskFalse().Any() should be false")
	}
	if got := allTrue.And(allFalse); got.Any() {
		t.Fatal("true AND false should have no set lanes")
	}
	if got := allTrue.Or(allFalse); !got.All() {
		t.Fatal("true OR false should be all true")
	}
	if got := allTrue.Not(); got.Any() {
		t.Fatal("NOT true should be all false")
	}
}

func TestRecipZeroIsInf(t *testing.T) {
	r := Broadcast(0).Recip()
	for i, v := range r {
		if v != float32(math.Inf(1)) {
			t.Errorf("lane %d: recip(0) = %v, want +Inf", i, v)
		}
	}
}

func TestLeqGeqUnorderedOnNaN(t *testing.T) {
	a := Broadcast(1)
	bNaN := Broadcast(float32(nanValue()))
	leq := a.Leq(bNaN)
	geq := a.Geq(bNaN)
	if leq.Any() || geq.Any() {
		t.Fatal("comparisons against NaN must produce an all-false mask")
	}
}

func nanValue() float64 {
	var x float64
	return x / x // NaN, computed at runtime to avoid constant-fold panics.
}

func TestBitcastRoundTrip(t *testing.T) {
	const u = uint32(0x8000_0003)
	f := BitcastFromU32(u)
	if got := BitcastToU32(f); got != u {
		t.Fatalf("bitcast round trip: got %x, want %x", got, u)
	}
}
