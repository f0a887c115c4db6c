package codegen

import (
	"jsgen/internal/coerce"
	"jsgen/internal/ir"
)

// newTestGenerator builds a bare Generator suitable for exercising one
// instruction at a time, with no globals or call handlers registered.
func newTestGenerator(opt coerce.Options) *Generator {
	fn := &ir.Function{Name: "f"}
	return NewGenerator(fn, opt, nil, nil, nil)
}

func constI32(n int64) ir.Operand {
	return ir.ConstOperand(ir.Constant{Kind: ir.ConstInt, IntVal: n}, ir.I32)
}

func constF64(v float64) ir.Operand {
	return ir.ConstOperand(ir.Constant{Kind: ir.ConstFloat, FloatVal: v}, ir.F64)
}

func valueOp(id ir.ValueID, t ir.ScalarKind) ir.Operand {
	return ir.ValueOperand(id, t)
}
