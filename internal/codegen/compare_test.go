package codegen

import (
	"testing"

	"jsgen/internal/coerce"
	"jsgen/internal/ir"
)

func TestCompareUnsignedLessThan(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrCompare, Compare: ir.CompareInstr{
		Pred: ir.PredULt, Left: valueOp(1, ir.I32), Right: valueOp(2, ir.I32),
	}}
	got := g.Compare(in)
	want := "(($v1>>>0) < ($v2>>>0))"
	if got != want {
		t.Fatalf("Compare(ult) = %q, want %q", got, want)
	}
}

func TestCompareSignedLessThan(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrCompare, Compare: ir.CompareInstr{
		Pred: ir.PredSLt, Left: valueOp(1, ir.I32), Right: valueOp(2, ir.I32),
	}}
	got := g.Compare(in)
	want := "(($v1|0) < ($v2|0))"
	if got != want {
		t.Fatalf("Compare(slt) = %q, want %q", got, want)
	}
}

func TestCompareOrderedEqualFloat(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrCompare, Compare: ir.CompareInstr{
		Pred: ir.PredOEq, Left: valueOp(1, ir.F64), Right: valueOp(2, ir.F64),
	}}
	got := g.Compare(in)
	want := "($v1 == $v2)"
	if got != want {
		t.Fatalf("Compare(oeq) = %q, want %q", got, want)
	}
}

func TestCompareUnorderedNotEqualIsTrueOnNaN(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrCompare, Compare: ir.CompareInstr{
		Pred: ir.PredUNe, Left: valueOp(1, ir.F64), Right: valueOp(2, ir.F64),
	}}
	got := g.Compare(in)
	want := "($v1 != $v2)"
	if got != want {
		t.Fatalf("Compare(une) = %q, want %q", got, want)
	}
}
