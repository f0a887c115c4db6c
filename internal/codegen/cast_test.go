package codegen

import (
	"testing"

	"jsgen/internal/coerce"
	"jsgen/internal/ir"
)

func TestCastTruncToI8(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrCast, Cast: ir.CastInstr{
		Op: ir.CastTrunc, Value: valueOp(1, ir.I32), To: ir.I8,
	}}
	got := g.Cast(in)
	want := "($v1&255)"
	if got != want {
		t.Fatalf("Cast(trunc) = %q, want %q", got, want)
	}
}

func TestCastZExtFromI8(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrCast, Cast: ir.CastInstr{
		Op: ir.CastZExt, Value: valueOp(1, ir.I8), To: ir.I32,
	}}
	got := g.Cast(in)
	want := "($v1>>>0)"
	if got != want {
		t.Fatalf("Cast(zext) = %q, want %q", got, want)
	}
}

func TestCastFPToSIUsesDoubleTilde(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrCast, Cast: ir.CastInstr{
		Op: ir.CastFPToSI, Value: valueOp(1, ir.F64), To: ir.I32,
	}}
	got := g.Cast(in)
	want := "(~~$v1)"
	if got != want {
		t.Fatalf("Cast(fptosi) = %q, want %q", got, want)
	}
}

func TestCastBitcastIntToFloatUsesTempDoublePtr(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrCast, Cast: ir.CastInstr{
		Op: ir.CastBitcast, Value: valueOp(1, ir.I32), To: ir.F32,
	}}
	got := g.Cast(in)
	want := "(HEAP32[tempDoublePtr>>2] = $v1, HEAPF32[tempDoublePtr>>2])"
	if got != want {
		t.Fatalf("Cast(bitcast) = %q, want %q", got, want)
	}
}
