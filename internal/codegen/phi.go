package codegen

import (
	"fmt"
	"strings"

	"jsgen/internal/ir"
)

// phiAssign is one phi node of to that receives a value from the edge
// out of from.
type phiAssign struct {
	lhs string
	rhs string
}

// PhiPrelude computes the edge prelude performing every phi-assignment in
// the destination block to that takes its incoming value from the
// predecessor from.
func (g *Generator) PhiPrelude(from ir.BlockID, to *ir.BasicBlock) string {
	var assigns []phiAssign
	lhsSet := make(map[string]bool)
	for i := range to.Instrs {
		in := &to.Instrs[i]
		if in.Kind != ir.InstrPhi || !in.HasResult() {
			continue
		}
		for _, inc := range in.Phi.Incoming {
			if inc.Pred != from {
				continue
			}
			lhs := g.NameOf(in.Result)
			g.declare(lhs, in.Type)
			rhs := g.operandExpr(&inc.Value)
			assigns = append(assigns, phiAssign{lhs: lhs, rhs: rhs})
			lhsSet[lhs] = true
			break
		}
	}
	if len(assigns) == 0 {
		return ""
	}

	// A rhs that is itself another phi's target in this same batch would
	// read the wrong (already-overwritten) value once that phi's own
	// assignment runs; break the cycle with a one-off "$phi" snapshot
	// taken before any assignment in the batch executes.
	needsTemp := make(map[string]bool)
	var tempOrder []string
	for _, a := range assigns {
		if a.rhs != a.lhs && lhsSet[a.rhs] && !needsTemp[a.rhs] {
			needsTemp[a.rhs] = true
			tempOrder = append(tempOrder, a.rhs)
		}
	}

	var buf strings.Builder
	for _, name := range tempOrder {
		fmt.Fprintf(&buf, "%s$phi = %s;\n", name, name)
	}
	for _, a := range assigns {
		rhs := a.rhs
		if needsTemp[rhs] {
			rhs += "$phi"
		}
		fmt.Fprintf(&buf, "%s = %s;\n", a.lhs, rhs)
	}
	return buf.String()
}
