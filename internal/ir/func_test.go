package ir

import "testing"

func TestFunctionSig(t *testing.T) {
	f := &Function{
		Result: I32,
		Params: []ValueID{0, 1},
		Locals: []Local{
			{ID: 0, Name: "a", Type: I32},
			{ID: 1, Name: "b", Type: F64},
		},
	}
	if got, want := f.Sig(), "iid"; got != want {
		t.Fatalf("Sig() = %q, want %q", got, want)
	}
}

func TestBasicBlockTerminated(t *testing.T) {
	var b BasicBlock
	if b.Terminated() {
		t.Fatal("zero-value block should not be terminated")
	}
	b.Term.Kind = TermRet
	if !b.Terminated() {
		t.Fatal("block with TermRet should be terminated")
	}
	var nilBlock *BasicBlock
	if !nilBlock.Terminated() {
		t.Fatal("nil block should report terminated")
	}
}
