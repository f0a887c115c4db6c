package codegen

import (
	"testing"

	"jsgen/internal/coerce"
	"jsgen/internal/ir"
)

func TestAtomicAddExpandsToLoadThenStore(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrAtomicRMW, Result: 5, Type: ir.I32, AtomicRMW: ir.AtomicRMWInstr{
		Op: ir.AtomicAdd, Ptr: valueOp(1, ir.Pointer), Value: valueOp(2, ir.I32), Size: 4,
	}}
	got, err := g.Atomic(in)
	if err != nil {
		t.Fatal(err)
	}
	want := "$v5 = HEAP32[$v1>>2]; HEAP32[$v1>>2] = (HEAP32[$v1>>2] + $v2);"
	if got != want {
		t.Fatalf("Atomic(add) = %q, want %q", got, want)
	}
}

func TestAtomicRejectsUnsupportedOp(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrAtomicRMW, AtomicRMW: ir.AtomicRMWInstr{
		Op: ir.AtomicOp(99), Ptr: valueOp(1, ir.Pointer), Value: valueOp(2, ir.I32), Size: 4,
	}}
	if _, err := g.Atomic(in); err == nil {
		t.Fatal("expected error for unsupported atomicrmw op")
	}
}

func TestFenceIsElided(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrFence}
	if got := g.Fence(in); got != "" {
		t.Fatalf("Fence = %q, want empty", got)
	}
}
