package codegen

import (
	"fmt"
	"math/bits"

	"jsgen/internal/coerce"
	"jsgen/internal/ir"
)

// Binary lowers an InstrBinary into its target-dialect expression, not
// including the `lhs = ` prefix or trailing semicolon.
func (g *Generator) Binary(in *ir.Instr) string {
	b := &in.Binary
	if in.Type.IsFloat() {
		return g.binaryFloat(in.Type, b)
	}
	return g.binaryInt(in.Type, b)
}

func (g *Generator) binaryFloat(t ir.ScalarKind, b *ir.BinaryInstr) string {
	l := g.operandExpr(&b.Left)
	r := g.operandExpr(&b.Right)

	// fsub with a constant -0.0 LHS is unary negation.
	if b.Op == ir.OpFSub && b.Left.Kind == ir.OperandConst && b.Left.Const.Kind == ir.ConstFloat && b.Left.Const.FloatVal == 0 {
		expr := fmt.Sprintf("(-%s)", r)
		if t == ir.F32 && g.Opt.PreciseF32 {
			return fmt.Sprintf("Math_fround(%s)", expr)
		}
		return expr
	}

	var op string
	switch b.Op {
	case ir.OpFAdd:
		op = "+"
	case ir.OpFSub:
		op = "-"
	case ir.OpFMul:
		op = "*"
	case ir.OpFDiv:
		op = "/"
	default:
		op = "+"
	}
	expr := fmt.Sprintf("(%s %s %s)", l, op, r)
	if t == ir.F32 && g.Opt.PreciseF32 {
		return fmt.Sprintf("Math_fround(%s)", expr)
	}
	return expr
}

func (g *Generator) binaryInt(t ir.ScalarKind, b *ir.BinaryInstr) string {
	switch b.Op {
	case ir.OpAdd:
		l := g.operandExpr(&b.Left)
		r := g.operandExpr(&b.Right)
		return coerce.Get(fmt.Sprintf("%s + %s", l, r), t, coerce.Nonspecific, g.Opt)
	case ir.OpSub:
		l := g.operandExpr(&b.Left)
		r := g.operandExpr(&b.Right)
		return coerce.Get(fmt.Sprintf("%s - %s", l, r), t, coerce.Nonspecific, g.Opt)
	case ir.OpMul:
		return g.multiply(t, b)
	case ir.OpSDiv, ir.OpSRem:
		l := coerce.Get(g.operandExpr(&b.Left), t, coerce.Signed, g.Opt)
		r := coerce.Get(g.operandExpr(&b.Right), t, coerce.Signed, g.Opt)
		op := "/"
		if b.Op == ir.OpSRem {
			op = "%"
		}
		return fmt.Sprintf("((%s %s %s)&-1)", l, op, r)
	case ir.OpUDiv, ir.OpURem:
		l := coerce.Get(g.operandExpr(&b.Left), t, coerce.Unsigned, g.Opt)
		r := coerce.Get(g.operandExpr(&b.Right), t, coerce.Unsigned, g.Opt)
		op := "/"
		if b.Op == ir.OpURem {
			op = "%"
		}
		return fmt.Sprintf("((%s %s %s)&-1)", l, op, r)
	case ir.OpAnd, ir.OpOr, ir.OpXor:
		l := g.operandExpr(&b.Left)
		r := g.operandExpr(&b.Right)
		var op string
		switch b.Op {
		case ir.OpAnd:
			op = "&"
		case ir.OpOr:
			op = "|"
		default:
			op = "^"
		}
		return coerce.Get(fmt.Sprintf("%s %s %s", l, op, r), t, coerce.Nonspecific, g.Opt)
	case ir.OpShl:
		return g.shift(t, b, "<<", false)
	case ir.OpLShr:
		return g.shift(t, b, ">>>", true)
	case ir.OpAShr:
		return g.shift(t, b, ">>", false)
	default:
		return "0"
	}
}

// multiply picks Math_imul, a shift, or a plain `|0` multiply: it uses
// Math_imul(a,b)|0 unless one operand is a constant that is 0, 1, a small
// power of 2 (emit shift), or <2^20 (emit (a*c)|0).
func (g *Generator) multiply(t ir.ScalarKind, b *ir.BinaryInstr) string {
	l := g.operandExpr(&b.Left)
	r := g.operandExpr(&b.Right)

	if const_, varExpr, ok := constSide(&b.Left, &b.Right, l, r); ok {
		if const_.IsZero() {
			return "0"
		}
		if const_.Kind == ir.ConstInt {
			n := const_.IntVal
			if n == 1 {
				return coerce.Get(varExpr, t, coerce.Nonspecific, g.Opt)
			}
			if n > 0 && n < (1<<20) && n&(n-1) == 0 {
				shift := bits.TrailingZeros64(uint64(n))
				return fmt.Sprintf("(%s<<%d)", varExpr, shift)
			}
			if n > -(1<<20) && n < (1<<20) {
				return fmt.Sprintf("(%s*%d|0)", varExpr, n)
			}
		}
	}
	return fmt.Sprintf("(Math_imul(%s, %s)|0)", l, r)
}

// constSide returns the constant operand and the other operand's already
// rendered expression, when exactly one side of a binary op is an inline
// int constant.
func constSide(left, right *ir.Operand, lExpr, rExpr string) (ir.Constant, string, bool) {
	if left.Kind == ir.OperandConst && left.Const.Kind == ir.ConstInt {
		return left.Const, rExpr, true
	}
	if right.Kind == ir.OperandConst && right.Const.Kind == ir.ConstInt {
		return right.Const, lExpr, true
	}
	return ir.Constant{}, "", false
}

// shift lowers shl/lshr/ashr.
func (g *Generator) shift(t ir.ScalarKind, b *ir.BinaryInstr, jsOp string, unsignedShift bool) string {
	r := g.operandExpr(&b.Right)
	if t.Bits() >= 32 || t.Bits() == 0 {
		l := g.operandExpr(&b.Left)
		return fmt.Sprintf("(%s %s %s)", l, jsOp, r)
	}
	mode := coerce.Signed
	if jsOp == "<<" || unsignedShift {
		mode = coerce.Unsigned
	}
	l := coerce.Get(g.operandExpr(&b.Left), t, mode, g.Opt)
	return fmt.Sprintf("(%s %s %s)", l, jsOp, r)
}
