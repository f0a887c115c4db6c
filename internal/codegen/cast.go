package codegen

import (
	"fmt"

	"jsgen/internal/coerce"
	"jsgen/internal/ir"
)

// Cast lowers an InstrCast. `ptrtoint`/`inttoptr`
// are no-ops; the narrowing/widening integer casts get a canonical
// wrapper; `bitcast` between int32 and float32 goes through the shared
// tempDoublePtr staging buffer.
func (g *Generator) Cast(in *ir.Instr) string {
	c := &in.Cast
	v := g.operandExpr(&c.Value)
	switch c.Op {
	case ir.CastPtrToInt, ir.CastIntToPtr:
		return coerce.Get(v, c.To, coerce.Nonspecific, g.Opt)
	case ir.CastTrunc:
		return coerce.Get(v, c.To, coerce.Unsigned, g.Opt)
	case ir.CastZExt:
		return coerce.Get(v, c.To, coerce.Unsigned, g.Opt)
	case ir.CastSExt:
		return coerce.Get(v, c.To, coerce.Signed, g.Opt)
	case ir.CastFPExt, ir.CastFPTrunc:
		return coerce.Get(v, c.To, coerce.Nonspecific, g.Opt)
	case ir.CastSIToFP:
		if c.To == ir.F32 && g.Opt.PreciseF32 {
			return fmt.Sprintf("Math_fround(%s)", v)
		}
		return fmt.Sprintf("(+%s)", v)
	case ir.CastUIToFP:
		uv := coerce.Get(v, ir.I32, coerce.Unsigned, g.Opt)
		if c.To == ir.F32 && g.Opt.PreciseF32 {
			return fmt.Sprintf("Math_fround(%s)", uv)
		}
		return fmt.Sprintf("(+%s)", uv)
	case ir.CastFPToSI:
		return fmt.Sprintf("(~~%s)", v)
	case ir.CastFPToUI:
		return fmt.Sprintf("(~~%s>>>0)", v)
	case ir.CastBitcast:
		return g.bitcast(v, c)
	default:
		return v
	}
}

// bitcast reinterprets an int32<->float32 pattern via the shared
// tempDoublePtr scratch pointer, the only staging area the target dialect
// offers for punning bit patterns across view types.
func (g *Generator) bitcast(v string, c *ir.CastInstr) string {
	switch {
	case c.To == ir.F32:
		return fmt.Sprintf("(HEAP32[tempDoublePtr>>2] = %s, HEAPF32[tempDoublePtr>>2])", v)
	case c.To.IsInteger():
		return fmt.Sprintf("(HEAPF32[tempDoublePtr>>2] = %s, HEAP32[tempDoublePtr>>2])", v)
	default:
		return v
	}
}
