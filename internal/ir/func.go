package ir

// Function is an IR function: argument list, basic-block graph, result
// type, and the attributes the generator cares about.
type Function struct {
	ID FuncID
	Name string

	// Params names the Locals (by index into Locals) that are incoming
	// arguments, in declaration order.
	Params []ValueID
	Result ScalarKind

	// Locals holds every named SSA value in the function: parameters
	// first, then instruction results and phi results in the order they
	// are first produced.
	Locals []Local

	Blocks []BasicBlock
	Entry BlockID

	// Alignment is the IR-declared required alignment of the function's
	// address when taken as a function pointer. Honored faithfully here;
	// see DESIGN.md for the Open Question this resolves.
	Alignment int

	// IsImported marks a function declared but not defined in this module:
	// the module emitter emits no body for it and lists it under the
	// metadata record's declares.
	IsImported bool
}

// LocalByID looks up a Local by ValueID, returning false if not found.
func (f *Function) LocalByID(id ValueID) (Local, bool) {
	for i := range f.Locals {
		if f.Locals[i].ID == id {
			return f.Locals[i], true
		}
	}
	return Local{}, false
}

// Block returns the BasicBlock with the given ID, or nil.
func (f *Function) Block(id BlockID) *BasicBlock {
	for i := range f.Blocks {
		if f.Blocks[i].ID == id {
			return &f.Blocks[i]
		}
	}
	return nil
}

// Sig returns the function's signature letter code per,
// without the precise-f32 distinction (see dispatch.SigLetter for that).
func (f *Function) Sig() string {
	s := make([]byte, 0, 1+len(f.Params))
	s = append(s, f.Result.SigLetter())
	for _, pid := range f.Params {
		local, ok := f.LocalByID(pid)
		if !ok {
			continue
		}
		s = append(s, local.Type.SigLetter())
	}
	return string(s)
}
