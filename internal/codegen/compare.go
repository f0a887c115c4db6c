package codegen

import (
	"fmt"

	"jsgen/internal/coerce"
	"jsgen/internal/ir"
)

// Compare lowers an InstrCompare. Integer
// predicates pick signed or unsigned coercion on both operands and a single
// relational operator; float predicates map ordered/unordered forms onto
// explicit NaN tests.
func (g *Generator) Compare(in *ir.Instr) string {
	c := &in.Compare
	opType := c.Left.Type
	if opType.IsFloat() {
		return g.compareFloat(c)
	}
	return g.compareInt(opType, c)
}

func (g *Generator) compareInt(t ir.ScalarKind, c *ir.CompareInstr) string {
	mode := coerce.Signed
	switch c.Pred {
	case ir.PredULt, ir.PredULe, ir.PredUGt, ir.PredUGe:
		mode = coerce.Unsigned
	}
	l := coerce.Get(g.operandExpr(&c.Left), t, mode, g.Opt)
	r := coerce.Get(g.operandExpr(&c.Right), t, mode, g.Opt)
	op, ok := intRelOp(c.Pred)
	if !ok {
		return "0"
	}
	return fmt.Sprintf("(%s %s %s)", l, op, r)
}

func intRelOp(p ir.Predicate) (string, bool) {
	switch p {
	case ir.PredEq:
		return "==", true
	case ir.PredNe:
		return "!=", true
	case ir.PredSLt, ir.PredULt:
		return "<", true
	case ir.PredSLe, ir.PredULe:
		return "<=", true
	case ir.PredSGt, ir.PredUGt:
		return ">", true
	case ir.PredSGe, ir.PredUGe:
		return ">=", true
	default:
		return "", false
	}
}

func (g *Generator) compareFloat(c *ir.CompareInstr) string {
	l := g.operandExpr(&c.Left)
	r := g.operandExpr(&c.Right)
	switch c.Pred {
	case ir.PredOEq:
		return fmt.Sprintf("(%s == %s)", l, r)
	case ir.PredONe:
		// Ordered not-equal is false when either side is NaN.
		return fmt.Sprintf("(%s == %s & %s == %s & %s != %s)", l, l, r, r, l, r)
	case ir.PredOLt:
		return fmt.Sprintf("(%s < %s)", l, r)
	case ir.PredOLe:
		return fmt.Sprintf("(%s <= %s)", l, r)
	case ir.PredOGt:
		return fmt.Sprintf("(%s > %s)", l, r)
	case ir.PredOGe:
		return fmt.Sprintf("(%s >= %s)", l, r)
	case ir.PredUEq:
		return fmt.Sprintf("(%s != %s | %s != %s | %s == %s)", l, l, r, r, l, r)
	case ir.PredUNe:
		return fmt.Sprintf("(%s != %s)", l, r)
	case ir.PredULtF:
		return fmt.Sprintf("(!(%s >= %s))", l, r)
	case ir.PredULeF:
		return fmt.Sprintf("(!(%s > %s))", l, r)
	case ir.PredUGtF:
		return fmt.Sprintf("(!(%s <= %s))", l, r)
	case ir.PredUGeF:
		return fmt.Sprintf("(!(%s < %s))", l, r)
	default:
		return "0"
	}
}
