package relooper

import (
	"bytes"
	"fmt"
	"sync"
)

// bufPool backs the "one process-wide output buffer... reused" resource
// describes; a fresh Builder checks one out per function and
// returns it when Release is called.
var bufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 1<<20) // 1 MiB by contract.
		return bytes.NewBuffer(buf)
	},
}

// Builder structures one function's CFG. A Builder is single-use: create
// one per function via New, call Build once, then Release.
type Builder struct {
	blocks map[int]*Block
	buf *bytes.Buffer
	labels int
}

// New creates a Builder over the given blocks, keyed by Block.ID.
func New(blocks []*Block) *Builder {
	m := make(map[int]*Block, len(blocks))
	for _, b := range blocks {
		m[b.ID] = b
	}
	return &Builder{blocks: m, buf: bufPool.Get().(*bytes.Buffer)}
}

// Release returns the Builder's output buffer to the pool. Call it once
// Build's result string has been copied out.
func (rl *Builder) Release() {
	rl.buf.Reset()
	bufPool.Put(rl.buf)
	rl.buf = nil
}

func (rl *Builder) order(entry int) []int {
	var order []int
	seen := make(map[int]bool)
	var visit func(id int)
	visit = func(id int) {
		if seen[id] {
			return
		}
		seen[id] = true
		order = append(order, id)
		blk, ok := rl.blocks[id]
		if !ok {
			return
		}
		for _, e := range blk.Edges {
			visit(e.To)
		}
	}
	visit(entry)
	return order
}

// needsDispatch reports whether any edge in order requires a label jump —
// i.e. its target is not the literal next block in code.
func needsDispatch(order []int, pos map[int]int, blocks map[int]*Block) bool {
	for i, id := range order {
		blk := blocks[id]
		if blk == nil {
			continue
		}
		for _, e := range blk.Edges {
			if pos[e.To] != i+1 {
				return true
			}
		}
	}
	return false
}

// Build produces the structured program for the function whose entry block
// is entry. Every block reachable from entry is emitted
// exactly once.
func (rl *Builder) Build(entry int) (string, error) {
	order := rl.order(entry)
	if len(order) == 0 {
		return "", fmt.Errorf("relooper: entry block %d not found", entry)
	}
	pos := make(map[int]int, len(order))
	for i, id := range order {
		pos[id] = i
	}

	if !needsDispatch(order, pos, rl.blocks) {
		return rl.buildStraightLine(order, pos)
	}
	return rl.buildDispatchLoop(order, pos)
}

// buildStraightLine handles the case where every edge targets the literal
// next block in order (see needsDispatch) — no label variable or loop is
// needed.
func (rl *Builder) buildStraightLine(order []int, pos map[int]int) (string, error) {
	rl.buf.Reset()
	for i, id := range order {
		blk := rl.blocks[id]
		rl.buf.WriteString(blk.Body)
		switch len(blk.Edges) {
		case 0:
			// Ret/Unreachable: body already contains the exit.
		case 1:
			rl.buf.WriteString(blk.Edges[0].PhiPrelude)
			// Fallthrough to i+1 requires no statement.
		case 2:
			if err := rl.writeCondBr(blk, i, pos, ""); err != nil {
				return "", err
			}
		default:
			if err := rl.writeMultiple(blk, i, pos, ""); err != nil {
				return "", err
			}
		}
	}
	return rl.buf.String(), nil
}

// buildDispatchLoop wraps the whole function body in one labeled while(1),
// gating each block on a `label` dispatch variable that defaults to 0 and
// is reset to 0 immediately after a gate matches, so that blocks following
// in textual order execute as ordinary fallthrough.
func (rl *Builder) buildDispatchLoop(order []int, pos map[int]int) (string, error) {
	rl.buf.Reset()
	rl.labels++
	loopLabel := fmt.Sprintf("L%d", rl.labels)
	rl.buf.WriteString("label = 0;\n")
	rl.buf.WriteString(loopLabel)
	rl.buf.WriteString(": while(1) {\n")
	for i, id := range order {
		blk := rl.blocks[id]
		fmt.Fprintf(rl.buf, "if ((label|0) == 0 | (label|0) == %d) {\n", id)
		rl.buf.WriteString("label = 0;\n")
		rl.buf.WriteString(blk.Body)
		switch len(blk.Edges) {
		case 0:
		case 1:
			rl.buf.WriteString(blk.Edges[0].PhiPrelude)
			rl.writeJumpOrFallthrough(blk.Edges[0], i, pos, loopLabel)
		case 2:
			if err := rl.writeCondBr(blk, i, pos, loopLabel); err != nil {
				return "", err
			}
		default:
			if err := rl.writeMultiple(blk, i, pos, loopLabel); err != nil {
				return "", err
			}
		}
		rl.buf.WriteString("}\n")
	}
	rl.buf.WriteString("}\n")
	return rl.buf.String(), nil
}

// writeJumpOrFallthrough emits nothing when e's target is the literal next
// block, else a label assignment and a continue to loopLabel, reporting
// whether a jump was written. loopLabel must be non-empty whenever a jump
// is actually required.
func (rl *Builder) writeJumpOrFallthrough(e Edge, i int, pos map[int]int, loopLabel string) bool {
	if pos[e.To] == i+1 {
		return false
	}
	fmt.Fprintf(rl.buf, "label = %d; continue %s;\n", e.To, loopLabel)
	return true
}

// writeCondBr renders a two-edge block as `if (cond) {...} else {...}`
//").
func (rl *Builder) writeCondBr(blk *Block, i int, pos map[int]int, loopLabel string) error {
	trueEdge, falseEdge := blk.Edges[0], blk.Edges[1]
	fmt.Fprintf(rl.buf, "if (%s) {\n", trueEdge.Cond)
	rl.buf.WriteString(trueEdge.PhiPrelude)
	rl.writeJumpOrFallthrough(trueEdge, i, pos, loopLabel)
	rl.buf.WriteString("} else {\n")
	rl.buf.WriteString(falseEdge.PhiPrelude)
	rl.writeJumpOrFallthrough(falseEdge, i, pos, loopLabel)
	rl.buf.WriteString("}\n")
	return nil
}

// writeMultiple renders a block with more than two outgoing edges either as
// a native switch (dense-range heuristic) or as a chained if/else over
// each edge's pre-joined disjunction of conditions.
func (rl *Builder) writeMultiple(blk *Block, i int, pos map[int]int, loopLabel string) error {
	if blk.IsSwitch && blk.Cond != "" {
		fmt.Fprintf(rl.buf, "switch (%s) {\n", blk.Cond)
		var defaultEdge *Edge
		for idx := range blk.Edges {
			e := &blk.Edges[idx]
			if len(e.Labels) == 0 {
				defaultEdge = e
				continue
			}
			for _, v := range e.Labels {
				fmt.Fprintf(rl.buf, "case %d:\n", v)
			}
			rl.buf.WriteString(e.PhiPrelude)
			// Breaking out of the switch always lands on the enclosing
			// gate's closing brace, i.e. the next gate in program order —
			// exactly the fallthrough target when no jump was written.
			rl.writeJumpOrFallthrough(*e, i, pos, loopLabel)
			rl.buf.WriteString("break;\n")
		}
		rl.buf.WriteString("default:\n")
		if defaultEdge != nil {
			rl.buf.WriteString(defaultEdge.PhiPrelude)
			rl.writeJumpOrFallthrough(*defaultEdge, i, pos, loopLabel)
		}
		rl.buf.WriteString("}\n")
		return nil
	}

	first := true
	var defaultEdge *Edge
	for idx := range blk.Edges {
		e := &blk.Edges[idx]
		if e.Cond == "" {
			defaultEdge = e
			continue
		}
		if first {
			fmt.Fprintf(rl.buf, "if (%s) {\n", e.Cond)
			first = false
		} else {
			fmt.Fprintf(rl.buf, "else if (%s) {\n", e.Cond)
		}
		rl.buf.WriteString(e.PhiPrelude)
		rl.writeJumpOrFallthrough(*e, i, pos, loopLabel)
		rl.buf.WriteString("}\n")
	}
	if defaultEdge != nil {
		rl.buf.WriteString("else {\n")
		rl.buf.WriteString(defaultEdge.PhiPrelude)
		rl.writeJumpOrFallthrough(*defaultEdge, i, pos, loopLabel)
		rl.buf.WriteString("}\n")
	}
	return nil
}
