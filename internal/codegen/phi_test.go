package codegen

import (
	"strings"
	"testing"

	"jsgen/internal/coerce"
	"jsgen/internal/ir"
)

func TestPhiPreludeSimpleAssignment(t *testing.T) {
	fn := &ir.Function{
		Locals: []ir.Local{{ID: 5, Name: "x", Type: ir.I32}, {ID: 9, Name: "p", Type: ir.I32}},
	}
	g := newTestGenerator(coerce.Options{})
	g.fn = fn
	to := &ir.BasicBlock{Instrs: []ir.Instr{
		{Kind: ir.InstrPhi, Result: 9, Type: ir.I32, Phi: ir.PhiInstr{Incoming: []ir.PhiIncoming{
			{Pred: 0, Value: valueOp(5, ir.I32)},
			{Pred: 1, Value: constI32(7)},
		}}},
	}}
	got := g.PhiPrelude(0, to)
	if !strings.Contains(got, "$p = $x;") {
		t.Fatalf("expected phi assignment from predecessor 0, got %q", got)
	}
	got1 := g.PhiPrelude(1, to)
	if !strings.Contains(got1, "$p = 7;") {
		t.Fatalf("expected phi assignment from predecessor 1, got %q", got1)
	}
}

func TestPhiPreludeBreaksCycleWithTemp(t *testing.T) {
	fn := &ir.Function{
		Locals: []ir.Local{{ID: 1, Name: "a", Type: ir.I32}, {ID: 2, Name: "b", Type: ir.I32}},
	}
	g := newTestGenerator(coerce.Options{})
	g.fn = fn
	// Classic swap: a := b, b := a, both fed from the same predecessor.
	to := &ir.BasicBlock{Instrs: []ir.Instr{
		{Kind: ir.InstrPhi, Result: 1, Type: ir.I32, Phi: ir.PhiInstr{Incoming: []ir.PhiIncoming{
			{Pred: 0, Value: valueOp(2, ir.I32)},
		}}},
		{Kind: ir.InstrPhi, Result: 2, Type: ir.I32, Phi: ir.PhiInstr{Incoming: []ir.PhiIncoming{
			{Pred: 0, Value: valueOp(1, ir.I32)},
		}}},
	}}
	got := g.PhiPrelude(0, to)
	if !strings.Contains(got, "$b$phi = $b;") {
		t.Fatalf("expected a $phi snapshot of $b before it is overwritten, got %q", got)
	}
	if !strings.Contains(got, "$a = $b$phi;") {
		t.Fatalf("expected $a to read the snapshot, got %q", got)
	}
}
