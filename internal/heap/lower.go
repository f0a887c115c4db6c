package heap

import (
	"encoding/binary"
	"fmt"
	"math"

	"jsgen/internal/ir"
)

// FuncIndexer resolves a function to its dispatch-table slot, assigning one
// on first use. Implemented by internal/dispatch.Table.
type FuncIndexer interface {
	IndexOf(name, sig string) int
}

// Result is everything the constant lowerer produces for a module.
type Result struct {
	Alloc *Allocator
	PostSets []PostSet
	InitArray []string // __init_array_start members, in order
	FiniArray []string // __fini_array_start members, in order
	Exports []string // llvm.used members, in order
}

// Lowerer walks every initialized module global twice: phase
// calculate reserves heap space and serializes self-contained constants;
// phase emit resolves cross-references or records a PostSet.
type Lowerer struct {
	Alloc *Allocator
	Funcs FuncIndexer
	Mangle func(string) string
	pending []int // indices into mod.Globals awaiting phase emit
	postSets []PostSet
}

// NewLowerer builds a Lowerer over a fresh Allocator starting at globalBase.
func NewLowerer(globalBase int, funcs FuncIndexer, mangle func(string) string) *Lowerer {
	return &Lowerer{Alloc: NewAllocator(globalBase), Funcs: funcs, Mangle: mangle}
}

// Run executes both phases over mod and returns the combined result.
func (l *Lowerer) Run(mod *ir.Module) (*Result, error) {
	var initArray, finiArray, exports []string

	for gi := range mod.Globals {
		g := &mod.Globals[gi]
		name := l.Mangle(g.Name)

		if g.Special != ir.GlobalOrdinary {
			members := l.specialMembers(g, mod)
			switch g.Special {
			case ir.GlobalInitArray:
				initArray = append(initArray, members...)
			case ir.GlobalFiniArray:
				finiArray = append(finiArray, members...)
			case ir.GlobalUsedArray:
				exports = append(exports, members...)
			}
			continue
		}

		if g.Init == nil {
			// Undefined external: no heap space, resolved lazily by
			// whoever references its address (phase emit, PostSet path).
			continue
		}

		size, align := sizeAlign(g.Init)
		width := widthForAlign(align)
		l.Alloc.Alloc(name, width, size)

		if selfContained(g.Init) {
			bytes, err := serialize(g.Init, nil)
			if err != nil {
				return nil, fmt.Errorf("global %q: %w", g.Name, err)
			}
			if err := l.Alloc.WriteBytes(name, 0, bytes); err != nil {
				return nil, err
			}
		} else {
			l.pending = append(l.pending, gi)
		}
	}

	// Phase emit: every defined global now has an address, so
	// cross-references can resolve even to globals later in module order.
	for _, gi := range l.pending {
		g := &mod.Globals[gi]
		name := l.Mangle(g.Name)
		resolve := func(field *ir.GlobalInit) (int, bool, string) {
			switch field.Kind {
			case ir.GIPointerToFunc:
				fn := &mod.Functions[field.TargetFunc]
				idx := l.Funcs.IndexOf(l.Mangle(fn.Name), fn.Sig())
				return idx, true, ""
			case ir.GIPointerToBlock:
				return int(field.TargetBlock), true, ""
			case ir.GIPointerToGlobal:
				target := &mod.Globals[field.TargetGlobal]
				targetName := l.Mangle(target.Name)
				if abs, ok := l.Alloc.AbsoluteOfName(targetName); ok {
					return abs + int(field.Addend), true, ""
				}
				return 0, false, targetName
			case ir.GIExternPointer:
				return 0, false, l.Mangle(field.ExternName)
			default:
				return 0, true, ""
			}
		}
		bytes, err := serialize(g.Init, resolve)
		if err != nil {
			return nil, fmt.Errorf("global %q: %w", g.Name, err)
		}
		if err := l.Alloc.WriteBytes(name, 0, bytes); err != nil {
			return nil, err
		}
		l.collectPostSets(g.Init, l.Alloc.AbsoluteOf(mustAddr(l.Alloc, name)), resolve)
	}

	return &Result{
		Alloc: l.Alloc,
		PostSets: l.postSets,
		InitArray: initArray,
		FiniArray: finiArray,
		Exports: exports,
	}, nil
}

func mustAddr(a *Allocator, name string) Address {
	addr, _ := a.Lookup(name)
	return addr
}

// collectPostSets walks init's byte-offset-bearing leaves a second time
// (lightweight compared to serialize) purely to emit a PostSet for any
// GIExternPointer or not-yet-resolvable GIPointerToGlobal leaf, at its
// absolute byte offset within the owning global.
func (l *Lowerer) collectPostSets(init *ir.GlobalInit, baseAbs int, resolve func(*ir.GlobalInit) (int, bool, string)) {
	var walk func(n *ir.GlobalInit, offset int)
	walk = func(n *ir.GlobalInit, offset int) {
		switch n.Kind {
		case ir.GIStruct:
			off := 0
			for i := range n.Fields {
				f := &n.Fields[i]
				fsize, falign := sizeAlign(f)
				if !n.Packed {
					off = roundUp(off, falign)
				}
				walk(f, offset+off)
				off += fsize
			}
		case ir.GIPointerToGlobal, ir.GIExternPointer:
			if _, ok, externName := resolve(n); !ok {
				l.postSets = append(l.postSets, PostSet{AbsAddr: baseAbs + offset, Expr: externName})
			}
		}
	}
	walk(init, 0)
}

func widthForAlign(align int) int {
	switch {
	case align >= 8:
		return 64
	case align >= 4:
		return 32
	default:
		return 8
	}
}

// sizeAlign computes the serialized size and required alignment of a
// GlobalInit tree.
func sizeAlign(n *ir.GlobalInit) (size, align int) {
	switch n.Kind {
	case ir.GIZero:
		return n.ZeroSize, 1
	case ir.GIInt:
		b := n.IntBits / 8
		if b == 0 {
			b = 4
		}
		return b, b
	case ir.GIFloat:
		b := n.FloatBits / 8
		if b == 0 {
			b = 8
		}
		return b, b
	case ir.GIBytes:
		return len(n.Bytes), 1
	case ir.GIPointerToGlobal, ir.GIPointerToFunc, ir.GIPointerToBlock, ir.GIExternPointer:
		return 4, 4
	case ir.GIStruct:
		if n.Packed {
			size := 0
			for i := range n.Fields {
				fs, _ := sizeAlign(&n.Fields[i])
				size += fs
			}
			return size, 1
		}
		size, align := 0, 1
		for i := range n.Fields {
			fs, fa := sizeAlign(&n.Fields[i])
			size = roundUp(size, fa)
			size += fs
			if fa > align {
				align = fa
			}
		}
		return roundUp(size, align), align
	default:
		return 0, 1
	}
}

// selfContained reports whether init's tree contains no cross-global,
// cross-function, or external reference.
func selfContained(n *ir.GlobalInit) bool {
	switch n.Kind {
	case ir.GIPointerToGlobal, ir.GIPointerToFunc, ir.GIPointerToBlock, ir.GIExternPointer:
		return false
	case ir.GIStruct:
		for i := range n.Fields {
			if !selfContained(&n.Fields[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// serialize produces the little-endian byte encoding of n. resolve is nil during phase
// calculate, where it is only ever called on self-contained trees and thus
// never needed; it is non-nil during phase emit.
func serialize(n *ir.GlobalInit, resolve func(*ir.GlobalInit) (int, bool, string)) ([]byte, error) {
	switch n.Kind {
	case ir.GIZero:
		return make([]byte, n.ZeroSize), nil
	case ir.GIInt:
		bits := n.IntBits
		if bits == 0 {
			bits = 32
		}
		buf := make([]byte, bits/8)
		switch bits {
		case 8:
			buf[0] = byte(n.IntVal)
		case 16:
			binary.LittleEndian.PutUint16(buf, uint16(n.IntVal))
		case 32:
			binary.LittleEndian.PutUint32(buf, uint32(n.IntVal))
		case 64:
			binary.LittleEndian.PutUint64(buf, uint64(n.IntVal))
		default:
			return nil, fmt.Errorf("unsupported integer width %d", bits)
		}
		return buf, nil
	case ir.GIFloat:
		if n.FloatBits == 32 {
			buf := make([]byte, 4)
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(n.FloatVal)))
			return buf, nil
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(n.FloatVal))
		return buf, nil
	case ir.GIBytes:
		return append([]byte(nil), n.Bytes...), nil
	case ir.GIPointerToGlobal, ir.GIPointerToFunc, ir.GIPointerToBlock, ir.GIExternPointer:
		val := 0
		if resolve != nil {
			if v, ok, _ := resolve(n); ok {
				val = v
			}
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(val))
		return buf, nil
	case ir.GIStruct:
		size, _ := sizeAlign(n)
		out := make([]byte, size)
		off := 0
		for i := range n.Fields {
			f := &n.Fields[i]
			fsize, falign := sizeAlign(f)
			if !n.Packed {
				off = roundUp(off, falign)
			}
			fb, err := serialize(f, resolve)
			if err != nil {
				return nil, err
			}
			copy(out[off:], fb)
			off += fsize
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown GlobalInit kind %d", n.Kind)
	}
}

// specialMembers extracts the flattened, mangled member names (after
// stripping bitcast wrappers, already done upstream) of an
// __init_array_start / __fini_array_start / llvm.used-style global.
func (l *Lowerer) specialMembers(g *ir.Global, mod *ir.Module) []string {
	if g.Init == nil || g.Init.Kind != ir.GIStruct {
		return nil
	}
	names := make([]string, 0, len(g.Init.Fields))
	for i := range g.Init.Fields {
		f := &g.Init.Fields[i]
		switch f.Kind {
		case ir.GIPointerToFunc:
			names = append(names, l.Mangle(mod.Functions[f.TargetFunc].Name))
		case ir.GIExternPointer:
			names = append(names, l.Mangle(f.ExternName))
		}
	}
	return names
}
