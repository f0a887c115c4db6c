package dispatch

import "testing"

func TestIndexOfCachesAssignment(t *testing.T) {
	tbl := New(0, false, nil, nil)
	first := tbl.IndexOf("_f", "ii")
	second := tbl.IndexOf("_f", "ii")
	if first != second {
		t.Fatalf("IndexOf not cached: %d != %d", first, second)
	}
}

func TestReservedSlotsFilled(t *testing.T) {
	tbl := New(2, false, nil, nil)
	tbl.IndexOf("_f", "ii")
	final := tbl.Finalize()
	sig := final["ii"]
	minLen := 2 * (2 + 1)
	for i := 0; i < minLen && i < len(sig); i++ {
		if sig[i] == "_f" {
			t.Fatalf("function landed in reserved slot %d", i)
		}
	}
}

func TestFinalizeLengthIsPowerOfTwo(t *testing.T) {
	tbl := New(0, false, nil, nil)
	for i := 0; i < 5; i++ {
		tbl.IndexOf(string(rune('a'+i)), "ii")
	}
	final := tbl.Finalize()
	n := len(final["ii"])
	if n&(n-1) != 0 {
		t.Fatalf("table length %d is not a power of two", n)
	}
}

func TestNoAliasingForcesDistinctIndices(t *testing.T) {
	tbl := New(0, true, nil, nil)
	a := tbl.IndexOf("_a", "ii")
	b := tbl.IndexOf("_b", "v")
	if b <= a {
		t.Fatalf("no-aliasing mode should force b's index (%d) past a's (%d)", b, a)
	}
}

func TestAliasingAllowsSharedIndexAcrossSignatures(t *testing.T) {
	tbl := New(0, false, nil, nil)
	a := tbl.IndexOf("_a", "ii")
	b := tbl.IndexOf("_b", "v")
	if a != b {
		t.Fatalf("aliasing mode should allow the same index (%d vs %d) across different signature tables", a, b)
	}
}

func TestOnIndexedCalledOnce(t *testing.T) {
	calls := 0
	tbl := New(0, false, func(name string) { calls++ }, nil)
	tbl.IndexOf("_f", "ii")
	tbl.IndexOf("_f", "ii")
	if calls != 1 {
		t.Fatalf("onIndexed called %d times, want 1", calls)
	}
}
