package codegen

import (
	"fmt"
	"strings"

	"jsgen/internal/ir"
)

// Call lowers an InstrCall. Direct calls are delegated to the registered
// call-handler keyed by the callee's mangled name;
// a handler may return an empty expression (skip the call) or set a
// redirect, recorded in g.Redirects for the module emitter's metadata.
// Indirect calls dispatch through the call's own signature's table.
func (g *Generator) Call(in *ir.Instr) string {
	c := &in.Call
	if !c.Indirect {
		if h, ok := g.Handlers[c.CalleeName]; ok {
			expr, redirect := h(g, c)
			if redirect != "" {
				g.Redirects[c.CalleeName] = redirect
			}
			return expr
		}
	}
	return g.defaultCallExpr(c)
}

// defaultCallExpr renders a plain call expression when no handler claims
// the callee: `_name(args)` for direct calls, or
// `FUNCTION_TABLE_sig[ptr & mask](args)` for indirect calls.
func (g *Generator) defaultCallExpr(c *ir.CallInstr) string {
	args := make([]string, 0, len(c.Args))
	for i := range c.Args {
		args = append(args, g.operandExpr(&c.Args[i]))
	}
	argList := strings.Join(args, ", ")

	if !c.Indirect {
		return fmt.Sprintf("%s(%s)", c.CalleeName, argList)
	}
	ptr := g.operandExpr(&c.IndirectPtr)
	tblLen := 2
	if g.Dispatch != nil {
		if t := g.Dispatch.Finalize()[c.Sig]; len(t) > 0 {
			tblLen = len(t)
		}
	}
	return fmt.Sprintf("FUNCTION_TABLE_%s[%s & %d](%s)", c.Sig, ptr, tblLen-1, argList)
}

// WrapInvoke renders expr wrapped in the preInvoke/postInvoke pair, used by
// call handlers for callees that may throw across the module boundary.
func (g *Generator) WrapInvoke(resultAssign, expr string) string {
	pre := g.preInvoke()
	full := resultAssign + expr + ";"
	post := g.postInvoke("")
	return pre + " " + full + " " + post
}
