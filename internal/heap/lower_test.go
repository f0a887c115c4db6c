package heap

import (
	"testing"

	"jsgen/internal/ir"
)

type stubIndexer struct{ next int }

func (s *stubIndexer) IndexOf(name, sig string) int {
	s.next++
	return s.next
}

func mangleID(s string) string { return "_" + s }

func TestLowerStringConstant(t *testing.T) {
	// @s = private constant [6 x i8] c"hello\00".
	mod := &ir.Module{
		Globals: []ir.Global{
			{
				ID: 0,
				Name: "s",
				Init: &ir.GlobalInit{
					Kind: ir.GIBytes,
					Bytes: []byte("hello\x00"),
				},
			},
		},
	}
	lw := NewLowerer(8, &stubIndexer{}, mangleID)
	res, err := lw.Run(mod)
	if err != nil {
		t.Fatal(err)
	}
	addr, ok := res.Alloc.Lookup("_s")
	if !ok {
		t.Fatal("global _s not allocated")
	}
	abs := res.Alloc.AbsoluteOf(addr)
	if abs != res.Alloc.GlobalBase() {
		t.Fatalf("absolute address = %d, want %d (first HEAP8 global)", abs, res.Alloc.GlobalBase())
	}
	init := res.Alloc.MemoryInitializer()
	off := abs - res.Alloc.GlobalBase() + res.Alloc.RegionSize(Heap64) + res.Alloc.RegionSize(Heap32)
	got := init[off: off+6]
	want := []byte{104, 101, 108, 108, 111, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestLowerFunctionPointerInStruct(t *testing.T) {
	mod := &ir.Module{
		Functions: []ir.Function{
			{ID: 0, Name: "f", Result: ir.I32, Params: []ir.ValueID{0},
				Locals: []ir.Local{{ID: 0, Type: ir.I32}}},
		},
		Globals: []ir.Global{
			{
				ID: 0,
				Name: "g",
				Init: &ir.GlobalInit{
					Kind: ir.GIStruct,
					Fields: []ir.GlobalInit{
						{Kind: ir.GIPointerToFunc, TargetFunc: 0},
					},
				},
			},
		},
	}
	idx := &stubIndexer{}
	lw := NewLowerer(8, idx, mangleID)
	res, err := lw.Run(mod)
	if err != nil {
		t.Fatal(err)
	}
	addr, _ := res.Alloc.Lookup("_g")
	if addr.Region() != Heap32 {
		t.Fatalf("expected function-pointer struct in HEAP32, got %v", addr.Region())
	}
	init := res.Alloc.MemoryInitializer()
	off := res.Alloc.RegionSize(Heap64) + addr.Offset
	val := uint32(init[off]) | uint32(init[off+1])<<8 | uint32(init[off+2])<<16 | uint32(init[off+3])<<24
	if val != 1 {
		t.Fatalf("FUNCTION_TABLE index encoded = %d, want 1", val)
	}
}

func TestLowerExternPointerProducesPostSet(t *testing.T) {
	mod := &ir.Module{
		Globals: []ir.Global{
			{
				ID: 0,
				Name: "g",
				Init: &ir.GlobalInit{
					Kind: ir.GIStruct,
					Fields: []ir.GlobalInit{
						{Kind: ir.GIExternPointer, ExternName: "ext"},
					},
				},
			},
		},
	}
	lw := NewLowerer(8, &stubIndexer{}, mangleID)
	res, err := lw.Run(mod)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.PostSets) != 1 {
		t.Fatalf("expected 1 PostSet, got %d", len(res.PostSets))
	}
	if res.PostSets[0].Expr != "_ext" {
		t.Fatalf("PostSet expr = %q, want %q", res.PostSets[0].Expr, "_ext")
	}
}
