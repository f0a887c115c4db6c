package codegen

// InvokeState models the three-state `preInvoke()` / call / `postInvoke()`
// pattern used for exception-throwing calls. It belongs to the
// generator's current emission context, not to the module, and is reset at
// the entry of every basic block.
type InvokeState uint8

const (
	InvokeIdle InvokeState = iota
	InvokePre
	InvokePost
)

// ResetBlock resets the invoke state at the start of a new basic block.
func (g *Generator) ResetBlock() {
	g.invoke = InvokeIdle
}

// preInvoke emits the preInvoke() statement and moves the state machine to
// InvokePre; it does not inspect the callee.
func (g *Generator) preInvoke() string {
	g.invoke = InvokePre
	return "invoke_state = preInvoke();"
}

func (g *Generator) postInvoke(resultExpr string) string {
	g.invoke = InvokePost
	if resultExpr == "" {
		return "postInvoke(invoke_state);"
	}
	return resultExpr + " postInvoke(invoke_state);"
}
