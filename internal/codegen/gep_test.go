package codegen

import (
	"testing"

	"jsgen/internal/coerce"
	"jsgen/internal/ir"
)

func TestGEPConstantOffsetOnly(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrGEP, GEP: ir.GEPInstr{
		Base: valueOp(1, ir.Pointer),
		Indices: []ir.GEPIndex{
			{IsConstant: true, ConstIndex: 3, ElemSize: 4},
		},
	}}
	got := g.GEP(in)
	want := "($v1 + 12|0)"
	if got != want {
		t.Fatalf("GEP(const) = %q, want %q", got, want)
	}
}

func TestGEPVariableIndexUsesImul(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrGEP, GEP: ir.GEPInstr{
		Base: valueOp(1, ir.Pointer),
		Indices: []ir.GEPIndex{
			{IsConstant: false, Index: valueOp(2, ir.I32), ElemSize: 8},
		},
	}}
	got := g.GEP(in)
	want := "($v1 + Math_imul($v2, 8)|0)"
	if got != want {
		t.Fatalf("GEP(variable) = %q, want %q", got, want)
	}
}
