package codegen

import (
	"testing"

	"jsgen/internal/coerce"
	"jsgen/internal/ir"
)

func TestVectorInsertElement(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrVector, Type: ir.VecInt4, VectorInst: ir.VectorInstr{
		Kind: ir.VecInsertElement, Vector: valueOp(1, ir.VecInt4), Lane: 1, Scalar: valueOp(2, ir.I32),
	}}
	got := g.Vector(in)
	want := "SIMD_Int32x4.withY($v1, $v2)"
	if got != want {
		t.Fatalf("Vector(insert) = %q, want %q", got, want)
	}
}

func TestVectorSwizzleWhenAllFromOneOperand(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrVector, Type: ir.VecFloat4, VectorInst: ir.VectorInstr{
		Kind: ir.VecShuffle, A: valueOp(1, ir.VecFloat4), Mask: [4]int{2, 1, 0, 3},
	}}
	got := g.Vector(in)
	want := "SIMD_Float32x4.swizzle($v1, 2, 1, 0, 3)"
	if got != want {
		t.Fatalf("Vector(swizzle) = %q, want %q", got, want)
	}
}

func TestVectorShuffleAcrossBothOperands(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrVector, Type: ir.VecFloat4, VectorInst: ir.VectorInstr{
		Kind: ir.VecShuffle, A: valueOp(1, ir.VecFloat4), B: valueOp(2, ir.VecFloat4), Mask: [4]int{0, 5, 2, 7},
	}}
	got := g.Vector(in)
	want := "SIMD_Float32x4.shuffle($v1, $v2, 0, 5, 2, 7)"
	if got != want {
		t.Fatalf("Vector(shuffle) = %q, want %q", got, want)
	}
}

func TestVectorBinaryAdd(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrVector, Type: ir.VecInt4, VectorInst: ir.VectorInstr{
		Kind: ir.VecBinary, Op: ir.OpAdd, Left: valueOp(1, ir.VecInt4), Right: valueOp(2, ir.VecInt4),
	}}
	got := g.Vector(in)
	want := "SIMD_Int32x4.add($v1, $v2)"
	if got != want {
		t.Fatalf("Vector(binary add) = %q, want %q", got, want)
	}
}
