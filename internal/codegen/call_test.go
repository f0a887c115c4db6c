package codegen

import (
	"testing"

	"jsgen/internal/coerce"
	"jsgen/internal/dispatch"
	"jsgen/internal/ir"
)

func TestCallDirectWithNoHandlerUsesPlainExpression(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	in := &ir.Instr{Kind: ir.InstrCall, Call: ir.CallInstr{
		CalleeName: "_add", Args: []ir.Operand{valueOp(1, ir.I32), valueOp(2, ir.I32)},
	}}
	got := g.Call(in)
	want := "_add($v1, $v2)"
	if got != want {
		t.Fatalf("Call(direct) = %q, want %q", got, want)
	}
}

func TestCallHandlerCanRedirect(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	g.Handlers = map[string]CallHandler{
		"_malloc": func(gen *Generator, call *ir.CallInstr) (string, string) {
			return "_real_malloc(" + gen.operandExpr(&call.Args[0]) + ")", "_real_malloc"
		},
	}
	in := &ir.Instr{Kind: ir.InstrCall, Call: ir.CallInstr{
		CalleeName: "_malloc", Args: []ir.Operand{constI32(16)},
	}}
	got := g.Call(in)
	if got != "_real_malloc(16)" {
		t.Fatalf("Call(handler) = %q", got)
	}
	if g.Redirects["_malloc"] != "_real_malloc" {
		t.Fatalf("redirect not recorded: %v", g.Redirects)
	}
}

func TestCallIndirectUsesFunctionTable(t *testing.T) {
	g := newTestGenerator(coerce.Options{})
	tbl := dispatch.New(0, false, nil, nil)
	tbl.IndexOf("_f", "ii")
	g.Dispatch = tbl
	in := &ir.Instr{Kind: ir.InstrCall, Call: ir.CallInstr{
		Indirect: true, IndirectPtr: valueOp(1, ir.Pointer), Sig: "ii",
		Args: []ir.Operand{valueOp(2, ir.I32)},
	}}
	got := g.Call(in)
	want := "FUNCTION_TABLE_ii[$v1 & 3]($v2)"
	if got != want {
		t.Fatalf("Call(indirect) = %q, want %q", got, want)
	}
}
