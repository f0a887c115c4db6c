package codegen

import (
	"testing"

	"jsgen/internal/coerce"
	"jsgen/internal/ir"
)

func TestLoadAlignedI32(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrLoad, Type: ir.I32, Load: ir.LoadInstr{
		Ptr: valueOp(1, ir.Pointer), Size: 4, Alignment: 4,
	}}
	got := g.Load(in)
	want := "HEAP32[$v1>>2]"
	if got != want {
		t.Fatalf("Load(aligned i32) = %q, want %q", got, want)
	}
}

// Matches scenario 5 exactly: `load i32, i32* %p, align 1`.
func TestLoadUnalignedI32(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrLoad, Type: ir.I32, Load: ir.LoadInstr{
		Ptr: valueOp(1, ir.Pointer), Size: 4, Alignment: 1,
	}}
	got := g.Load(in)
	want := "HEAPU8[$v1>>0] | (HEAPU8[$v1+1>>0]<<8) | (HEAPU8[$v1+2>>0]<<16) | (HEAPU8[$v1+3>>0]<<24)"
	if got != want {
		t.Fatalf("Load(unaligned i32) = %q, want %q", got, want)
	}
}

func TestLoadFromAbsolutePointerAborts(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrLoad, Type: ir.I32, Load: ir.LoadInstr{
		Ptr: valueOp(1, ir.Pointer), Size: 4, Alignment: 4, FromAbs: true,
	}}
	got := g.Load(in)
	want := "(HEAP32[$v1>>2], abort(), HEAP32[$v1>>2])"
	if got != want {
		t.Fatalf("Load(from-abs) = %q, want %q", got, want)
	}
}

func TestStoreAlignedI32(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrStore, Store: ir.StoreInstr{
		Ptr: valueOp(1, ir.Pointer), Value: valueOp(2, ir.I32), Size: 4, Alignment: 4,
	}}
	got := g.Store(in)
	want := "HEAP32[$v1>>2] = $v2"
	if got != want {
		t.Fatalf("Store(aligned i32) = %q, want %q", got, want)
	}
}
