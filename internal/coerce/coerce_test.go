package coerce

import (
	"strings"
	"testing"

	"jsgen/internal/ir"
)

func TestIntegerCoercions(t *testing.T) {
	cases := []struct {
		t ir.ScalarKind
		mode Mode
		want string
	}{
		{ir.I1, Unsigned, "(x&1)"},
		{ir.I1, Signed, "(x<<31>>31)"},
		{ir.I1, Nonspecific, "(x|0)"},
		{ir.I8, Unsigned, "(x&255)"},
		{ir.I8, Signed, "(x<<24>>24)"},
		{ir.I32, Signed, "(x|0)"},
		{ir.I32, Unsigned, "(x>>>0)"},
		{ir.Pointer, Signed, "(x|0)"},
		{ir.F64, Signed, "(+x)"},
		{ir.VecInt4, Signed, "SIMD_Int32x4_check(x)"},
		{ir.VecFloat4, Signed, "SIMD_Float32x4_check(x)"},
	}
	for _, c := range cases {
		if got := Get("x", c.t, c.mode, Options{}); got != c.want {
			t.Errorf("Get(x, %v, %v) = %q, want %q", c.t, c.mode, got, c.want)
		}
	}
}

func TestFloat32PreciseVsNot(t *testing.T) {
	if got, want := Get("x", ir.F32, Signed, Options{PreciseF32: false}), "(+x)"; got != want {
		t.Errorf("non-precise float32 = %q, want %q", got, want)
	}
	if got, want := Get("x", ir.F32, Signed, Options{PreciseF32: true}), "Math_fround(x)"; got != want {
		t.Errorf("precise float32 = %q, want %q", got, want)
	}
	if got, want := Get("x", ir.F32, FFIIn, Options{PreciseF32: true}), "Math_fround(+x)"; got != want {
		t.Errorf("precise float32 ffi-in = %q, want %q", got, want)
	}
}

func TestCoercionIdempotence(t *testing.T) {
	// Applying the canonical coercion twice changes nothing beyond the one
	// outer wrapper.
	kinds := []ir.ScalarKind{ir.I1, ir.I8, ir.I16, ir.I32, ir.Pointer, ir.F64}
	for _, k := range kinds {
		once := Get("x", k, Signed, Options{})
		twice := Get(once, k, Signed, Options{})
		if len(twice) < len(once) {
			t.Errorf("re-coercing %v shrank the expression: %q -> %q", k, once, twice)
		}
		if want := strings.Replace(once, "x", once, 1); twice != want {
			t.Errorf("re-coercing %v = %q, want %q (one more outer wrapper)", k, twice, want)
		}
	}
}
