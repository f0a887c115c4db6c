// Package dispatch implements the function-pointer indexer:
// it partitions functions by signature letter-code and assigns each
// indexed function a slot in its signature's dispatch table, honoring
// reserved runtime slots and an optional no-aliasing mode.
package dispatch

import (
	"sort"

	"jsgen/internal/ir"
)

// SigLetter returns the signature letter for t, resolving the float/double
// ambiguity: float32 only gets its own letter `f` when precise-f32 is
// active; otherwise float32 and double share `d`.
func SigLetter(t ir.ScalarKind, preciseF32 bool) byte {
	if t == ir.F32 {
		if preciseF32 {
			return 'f'
		}
		return 'd'
	}
	return t.SigLetter()
}

// Sig returns the full signature letter-code string for fn.
func Sig(fn *ir.Function, preciseF32 bool) string {
	s := make([]byte, 0, 1+len(fn.Params))
	s = append(s, SigLetter(fn.Result, preciseF32))
	for _, pid := range fn.Params {
		local, ok := fn.LocalByID(pid)
		if !ok {
			continue
		}
		s = append(s, SigLetter(local.Type, preciseF32))
	}
	return string(s)
}

// CallHandler is invoked once per function the first time it is indexed,
// "in indexed-only mode so handlers can register redirects even for
// never-called indexable functions". It is a
// no-op hook unless the caller has registered call-site handling for name.
type CallHandler func(name string)

// Table implements the function-pointer assignment policy and the
// FunctionTable/DispatchIndex invariants.
type Table struct {
	reserved int
	noAliasing bool
	nextFree int // no-aliasing mode: next globally-free slot
	tables map[string][]string
	assigned map[string]int // mangled name -> index
	onIndexed CallHandler
	alignmentOf func(name string) int
}

// New creates a Table. reserved is the `reserved-function-pointers` option
//; noAliasing is `no-aliasing-function-pointers`.
func New(reserved int, noAliasing bool, onIndexed CallHandler, alignmentOf func(name string) int) *Table {
	if alignmentOf == nil {
		alignmentOf = func(string) int { return 1 }
	}
	if onIndexed == nil {
		onIndexed = func(string) {}
	}
	return &Table{
		reserved: reserved,
		noAliasing: noAliasing,
		tables: make(map[string][]string),
		assigned: make(map[string]int),
		onIndexed: onIndexed,
		alignmentOf: alignmentOf,
	}
}

func (t *Table) ensureTable(sig string) []string {
	tbl, ok := t.tables[sig]
	if ok {
		return tbl
	}
	minLen := 2 * (t.reserved + 1)
	if minLen < 1 {
		minLen = 1
	}
	tbl = make([]string, minLen)
	for i := range tbl {
		tbl[i] = "0"
	}
	t.tables[sig] = tbl
	return tbl
}

func padTo(tbl []string, n int) []string {
	for len(tbl) < n {
		tbl = append(tbl, "0")
	}
	return tbl
}

// IndexOf assigns (or returns the cached) dispatch index for the function
// named name with signature sig.
func (t *Table) IndexOf(name, sig string) int {
	if idx, ok := t.assigned[name]; ok {
		return idx
	}
	tbl := t.ensureTable(sig)

	if t.noAliasing {
		tbl = padTo(tbl, t.nextFree)
	}
	align := t.alignmentOf(name)
	if align < 1 {
		align = 1
	}
	idx := len(tbl)
	if align > 1 {
		padded := idx
		if r := padded % align; r != 0 {
			padded += align - r
		}
		tbl = padTo(tbl, padded)
		idx = padded
	}
	tbl = append(tbl, name)
	t.tables[sig] = tbl
	t.assigned[name] = idx
	if t.noAliasing {
		t.nextFree = idx + 1
	}
	t.onIndexed(name)
	return idx
}

// Assigned reports whether name already has a dispatch index, without
// assigning one.
func (t *Table) Assigned(name string) (int, bool) {
	idx, ok := t.assigned[name]
	return idx, ok
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// Finalize right-pads every table with "0" up to a power-of-two length
// and returns the padded tables keyed by signature. The map has no order;
// Signatures gives the sorted signature list for deterministic emission.
func (t *Table) Finalize() map[string][]string {
	out := make(map[string][]string, len(t.tables))
	for sig, tbl := range t.tables {
		n := nextPowerOfTwo(len(tbl))
		out[sig] = padTo(append([]string(nil), tbl...), n)
	}
	return out
}

// Signatures returns the set of signatures with at least one table,
// sorted for deterministic iteration.
func (t *Table) Signatures() []string {
	out := make([]string, 0, len(t.tables))
	for sig := range t.tables {
		out = append(out, sig)
	}
	sort.Strings(out)
	return out
}
