package codegen

import (
	"fmt"

	"jsgen/internal/ir"
)

// Atomic lowers an InstrAtomicRMW into a load, then a store of
// `old OP operand`. It returns the sequence of
// two statements; when the instruction has a result, the first statement
// assigns the load's pre-update value (the result of an atomicrmw) to the
// result's local. Max/min
// and any op outside the supported set are rejected.
func (g *Generator) Atomic(in *ir.Instr) (stmt string, err error) {
	a := &in.AtomicRMW
	op, ok := atomicJSOp(a.Op)
	if !ok {
		return "", fmt.Errorf("codegen: unsupported atomicrmw op %d", a.Op)
	}
	ptr := g.operandExpr(&a.Ptr)
	val := g.operandExpr(&a.Value)
	view, shift := heapView(a.Size, false)
	load := fmt.Sprintf("%s[%s>>%d]", view, ptr, shift)

	var resultName string
	if in.HasResult() {
		resultName = g.NameOf(in.Result)
		g.declare(resultName, in.Type)
	}

	var newVal string
	if op == "xchg" {
		newVal = val
	} else {
		newVal = fmt.Sprintf("(%s %s %s)", load, op, val)
	}
	store := fmt.Sprintf("%s[%s>>%d] = %s", view, ptr, shift, newVal)

	if resultName == "" {
		return fmt.Sprintf("%s; %s;", load, store), nil
	}
	return fmt.Sprintf("%s = %s; %s;", resultName, load, store), nil
}

func atomicJSOp(op ir.AtomicOp) (string, bool) {
	switch op {
	case ir.AtomicXchg:
		return "xchg", true
	case ir.AtomicAdd:
		return "+", true
	case ir.AtomicSub:
		return "-", true
	case ir.AtomicAnd:
		return "&", true
	case ir.AtomicOr:
		return "|", true
	case ir.AtomicXor:
		return "^", true
	default:
		return "", false
	}
}

// Fence is always elided").
func (g *Generator) Fence(in *ir.Instr) string {
	return ""
}
