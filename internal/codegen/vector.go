package codegen

import (
	"fmt"
	"strings"

	"jsgen/internal/ir"
)

// simdTypeName picks the SIMD intrinsic family name for t.
func simdTypeName(t ir.ScalarKind) string {
	if t == ir.VecFloat4 {
		return "SIMD_Float32x4"
	}
	return "SIMD_Int32x4"
}

var laneName = [4]string{"X", "Y", "Z", "W"}

// Vector lowers an InstrVector onto the 4-lane SIMD intrinsic API.
func (g *Generator) Vector(in *ir.Instr) string {
	v := &in.VectorInst
	switch v.Kind {
	case ir.VecInsertElement:
		return g.insertElement(in.Type, v)
	case ir.VecExtractElement:
		return g.extractElement(v)
	case ir.VecShuffle:
		return g.shuffle(in.Type, v)
	case ir.VecBinary:
		return g.vectorBinary(in.Type, v)
	case ir.VecShiftByScalar:
		return g.vectorShift(in.Type, v)
	default:
		return "0"
	}
}

// insertElement emits a `withX/withY/withZ/withW` call on the base vector.
// Splats and all-lanes constructor chains are not recognized: every insert
// stays its own with* call.
func (g *Generator) insertElement(t ir.ScalarKind, v *ir.VectorInstr) string {
	base := g.operandExpr(&v.Vector)
	scalar := g.operandExpr(&v.Scalar)
	if v.Lane < 0 || v.Lane > 3 {
		return base
	}
	return fmt.Sprintf("%s.with%s(%s, %s)", simdTypeName(t), laneName[v.Lane], base, scalar)
}

func (g *Generator) extractElement(v *ir.VectorInstr) string {
	vec := g.operandExpr(&v.Vector)
	if v.Lane < 0 || v.Lane > 3 {
		return "0"
	}
	return fmt.Sprintf("%s.extractLane(%s, %d)", simdTypeName(ir.VecInt4), vec, v.Lane)
}

// shuffle distinguishes a single-operand swizzle from a general two-operand
// shuffle.
func (g *Generator) shuffle(t ir.ScalarKind, v *ir.VectorInstr) string {
	name := simdTypeName(t)
	a := g.operandExpr(&v.A)
	if allFromA(v.Mask) {
		lanes := make([]string, 4)
		for i, m := range v.Mask {
			lanes[i] = fmt.Sprintf("%d", m)
		}
		return fmt.Sprintf("%s.swizzle(%s, %s)", name, a, strings.Join(lanes, ", "))
	}
	b := g.operandExpr(&v.B)
	lanes := make([]string, 4)
	for i, m := range v.Mask {
		lanes[i] = fmt.Sprintf("%d", m)
	}
	return fmt.Sprintf("%s.shuffle(%s, %s, %s)", name, a, b, strings.Join(lanes, ", "))
}

func allFromA(mask [4]int) bool {
	for _, m := range mask {
		if m >= 4 {
			return false
		}
	}
	return true
}

func (g *Generator) vectorBinary(t ir.ScalarKind, v *ir.VectorInstr) string {
	name := simdTypeName(t)
	l := g.operandExpr(&v.Left)
	r := g.operandExpr(&v.Right)
	op := vectorBinaryOpName(v.Op)
	return fmt.Sprintf("%s.%s(%s, %s)", name, op, l, r)
}

func vectorBinaryOpName(op ir.BinaryOp) string {
	switch op {
	case ir.OpAdd, ir.OpFAdd:
		return "add"
	case ir.OpSub, ir.OpFSub:
		return "sub"
	case ir.OpMul, ir.OpFMul:
		return "mul"
	case ir.OpFDiv:
		return "div"
	case ir.OpAnd:
		return "and"
	case ir.OpOr:
		return "or"
	case ir.OpXor:
		return "xor"
	default:
		return "add"
	}
}

// vectorShift always emits the `shift*ByScalar` intrinsic with the IR's
// count operand. A count that is not a uniform splat is not unrolled into
// per-lane scalar shifts.
func (g *Generator) vectorShift(t ir.ScalarKind, v *ir.VectorInstr) string {
	name := simdTypeName(t)
	l := g.operandExpr(&v.Left)
	r := g.operandExpr(&v.Right)
	switch v.Op {
	case ir.OpShl:
		return fmt.Sprintf("%s.shiftLeftByScalar(%s, %s)", name, l, r)
	case ir.OpLShr:
		return fmt.Sprintf("%s.shiftRightLogicalByScalar(%s, %s)", name, l, r)
	case ir.OpAShr:
		return fmt.Sprintf("%s.shiftRightArithmeticByScalar(%s, %s)", name, l, r)
	default:
		return fmt.Sprintf("%s.shiftLeftByScalar(%s, %s)", name, l, r)
	}
}
