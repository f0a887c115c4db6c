package heap

import "fmt"

// PostSet is a deferred heap assignment emitted because its right-hand
// side is not a compile-time constant — typically the address of an
// external global not yet defined at lowering time.
type PostSet struct {
	AbsAddr int
	Expr string // already-mangled name, e.g. "_foo"
}

// String renders the PostSet statement exactly as it appears in
// runPostSets.
func (p PostSet) String() string {
	return fmt.Sprintf("HEAP32[%d>>2] = %s;", p.AbsAddr, p.Expr)
}
