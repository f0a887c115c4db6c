package codegen

import (
	"fmt"

	"jsgen/internal/ir"
)

// GEP walks the index chain of an InstrGEP, folding constant indices into a
// running byte offset and building `imul(index, size)` terms for variable
// ones.
func (g *Generator) GEP(in *ir.Instr) string {
	gi := &in.GEP
	base := g.operandExpr(&gi.Base)

	var constOffset int64
	var varTerms []string
	for _, idx := range gi.Indices {
		if idx.IsConstant {
			constOffset += idx.ConstIndex * int64(idx.ElemSize)
			continue
		}
		iexpr := g.operandExpr(&idx.Index)
		if idx.ElemSize == 1 {
			varTerms = append(varTerms, iexpr)
		} else {
			varTerms = append(varTerms, fmt.Sprintf("Math_imul(%s, %d)", iexpr, idx.ElemSize))
		}
	}

	expr := base
	for _, term := range varTerms {
		expr = fmt.Sprintf("(%s + %s|0)", expr, term)
	}
	if constOffset != 0 || len(varTerms) == 0 {
		expr = fmt.Sprintf("(%s + %d|0)", expr, constOffset)
	}
	return expr
}
