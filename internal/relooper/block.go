// Package relooper reconstructs structured control flow — nested `if`,
// labeled `while(1)` loops with `continue`/`break`, and `switch` — from an
// arbitrary control-flow graph of abstract blocks. It knows nothing about IR instructions: each
// Block carries its body as an already-rendered string and exposes its
// outgoing edges; this keeps the instruction walker and the CFG-shaping
// pass independently testable.
package relooper

// Edge is one outgoing control-flow edge from a Block.
type Edge struct {
	To int

	// Cond is the rendered boolean expression guarding this edge. Empty
	// means unconditional (the last edge of a CondBr, or a Br's sole
	// edge, or a switch/indirect-br default).
	Cond string

	// Labels carries the switch case constants that select this edge,
	// when the source block ends in a Switch or IndirectBr terminator.
	// Empty for a CondBr/Br edge.
	Labels []int64

	// PhiPrelude performs the destination's phi-assignments for this
	// edge and is emitted immediately before the branch.
	PhiPrelude string
}

// Block is one CFG node: a pre-emitted body plus its outgoing edges in
// terminator-declaration order.
type Block struct {
	ID int
	Body string

	// Cond, when non-empty, is the rendered condition-value expression a
	// Switch or IndirectBr terminator dispatches on; the Multiple builder
	// emits `switch (Cond)` when IsSwitch is also set. The density
	// heuristic (UseSwitch) is applied by the caller that sets IsSwitch.
	Cond string

	// IsSwitch distinguishes a dense-range Switch terminator (eligible
	// for a native `switch` statement) from an IndirectBr or an if/else
	// chain candidate.
	IsSwitch bool

	Edges []Edge
}
