package emit

import (
	"strings"
	"testing"

	"jsgen/internal/coerce"
	"jsgen/internal/ir"
)

// addOneFn builds `function f(x) { x = x|0; return (x+1)|0; }` directly,
// with a single block and a TermRet, exercising the straight-line path
// with no relooper loop needed.
func addOneFn() *ir.Function {
	return &ir.Function{
		Name: "f",
		Params: []ir.ValueID{0},
		Result: ir.I32,
		Locals: []ir.Local{
			{ID: 0, Name: "x", Type: ir.I32},
			{ID: 1, Name: "r", Type: ir.I32},
		},
		Entry: 0,
		Blocks: []ir.BasicBlock{
			{
				ID: 0,
				Instrs: []ir.Instr{
					{
						Kind: ir.InstrBinary,
						Result: 1,
						Type: ir.I32,
						Binary: ir.BinaryInstr{
							Op: ir.OpAdd,
							Left: ir.ValueOperand(0, ir.I32),
							Right: ir.ConstOperand(ir.Constant{Kind: ir.ConstInt, IntVal: 1}, ir.I32),
						},
					},
				},
				Term: ir.Terminator{Kind: ir.TermRet, HasValue: true, Value: ir.ValueOperand(1, ir.I32)},
			},
		},
	}
}

func TestEmitFunctionStraightLine(t *testing.T) {
	fn := addOneFn()
	out, err := EmitFunction(fn, Config{Opt: coerce.Options{}}, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Sig != "ii" {
		t.Fatalf("expected signature %q, got %q", "ii", out.Sig)
	}
	if !strings.Contains(out.Text, "function _f($x) {") {
		t.Fatalf("missing function header: %q", out.Text)
	}
	if !strings.Contains(out.Text, "$x = ($x|0);") {
		t.Fatalf("missing parameter coercion: %q", out.Text)
	}
	if !strings.Contains(out.Text, "return") {
		t.Fatalf("missing return statement: %q", out.Text)
	}
}

// branchFn builds a two-block function with a conditional branch and a phi
// merge, exercising buildEdges' TermCondBr path and the phi prelude.
func branchFn() *ir.Function {
	return &ir.Function{
		Name: "g",
		Params: []ir.ValueID{0},
		Result: ir.I32,
		Locals: []ir.Local{
			{ID: 0, Name: "x", Type: ir.I32},
			{ID: 1, Name: "p", Type: ir.I32},
		},
		Entry: 0,
		Blocks: []ir.BasicBlock{
			{
				ID: 0,
				Term: ir.Terminator{
					Kind: ir.TermCondBr,
					Cond: ir.ValueOperand(0, ir.I32),
					True: 1,
					False: 2,
				},
			},
			{
				ID: 1,
				Term: ir.Terminator{Kind: ir.TermBr, Target: 2},
			},
			{
				ID: 2,
				Instrs: []ir.Instr{
					{
						Kind: ir.InstrPhi,
						Result: 1,
						Type: ir.I32,
						Phi: ir.PhiInstr{Incoming: []ir.PhiIncoming{
							{Pred: 0, Value: ir.ConstOperand(ir.Constant{Kind: ir.ConstInt, IntVal: 0}, ir.I32)},
							{Pred: 1, Value: ir.ConstOperand(ir.Constant{Kind: ir.ConstInt, IntVal: 1}, ir.I32)},
						}},
					},
				},
				Term: ir.Terminator{Kind: ir.TermRet, HasValue: true, Value: ir.ValueOperand(1, ir.I32)},
			},
		},
	}
}

func TestEmitFunctionCondBrWithPhi(t *testing.T) {
	fn := branchFn()
	out, err := EmitFunction(fn, Config{Opt: coerce.Options{}}, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.Text, "if (($x|0)) {") {
		t.Fatalf("missing condbr guard: %q", out.Text)
	}
	if !strings.Contains(out.Text, "$p = 0;") || !strings.Contains(out.Text, "$p = 1;") {
		t.Fatalf("missing phi assignments on both edges: %q", out.Text)
	}
}
