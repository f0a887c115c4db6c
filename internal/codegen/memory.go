package codegen

import (
	"fmt"

	"jsgen/internal/ir"
)

// heapView returns the view name and element-size shift for an aligned
// access of size bytes.
func heapView(size int, signed bool) (view string, shift int) {
	switch size {
	case 1:
		if signed {
			return "HEAP8", 0
		}
		return "HEAPU8", 0
	case 2:
		if signed {
			return "HEAP16", 1
		}
		return "HEAPU16", 1
	case 4:
		return "HEAP32", 2
	default:
		return "HEAP32", 2
	}
}

// Load lowers an InstrLoad. Aligned loads become a
// single typed view access; unaligned loads decompose into single-byte
// HEAPU8 reads whatever the alignment (halfword reads are not used),
// assembled with bitwise OR (integer) or tempDoublePtr staging
// (float/double). A load through an absolute constant pointer is followed
// by an abort() (segfault-by-design).
func (g *Generator) Load(in *ir.Instr) string {
	l := &in.Load
	if name, ok := g.nativizedOperand(&l.Ptr); ok {
		return name
	}
	ptr := g.operandExpr(&l.Ptr)
	var expr string
	if l.Alignment >= l.Size {
		if in.Type.IsFloat() {
			expr = g.loadFloatAligned(in.Type, ptr)
		} else {
			expr = g.loadIntAligned(l, ptr)
		}
	} else {
		g.warnUnaligned(ptr, l.Size, l.Alignment)
		if in.Type.IsFloat() {
			expr = g.loadFloatUnaligned(in.Type, l, ptr)
		} else {
			expr = g.loadIntUnaligned(l, ptr)
		}
	}
	if l.FromAbs {
		return fmt.Sprintf("(%s, abort(), %s)", expr, expr)
	}
	return expr
}

func (g *Generator) loadIntAligned(l *ir.LoadInstr, ptr string) string {
	view, shift := heapView(l.Size, l.Signed)
	return fmt.Sprintf("%s[%s>>%d]", view, ptr, shift)
}

func (g *Generator) loadFloatAligned(t ir.ScalarKind, ptr string) string {
	if t == ir.F32 {
		return fmt.Sprintf("HEAPF32[%s>>2]", ptr)
	}
	return fmt.Sprintf("HEAPF64[%s>>3]", ptr)
}

// loadIntUnaligned decomposes a sub-alignment integer load into
// byte-at-a-time HEAPU8 reads OR'd together, matching 
// scenario 5 exactly for a 4-byte, 1-byte-aligned load.
func (g *Generator) loadIntUnaligned(l *ir.LoadInstr, ptr string) string {
	n := l.Size
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		addr := ptr
		if i > 0 {
			addr = fmt.Sprintf("%s+%d", ptr, i)
		}
		term := fmt.Sprintf("HEAPU8[%s>>0]", addr)
		if i > 0 {
			term = fmt.Sprintf("(%s<<%d)", term, i*8)
		}
		parts = append(parts, term)
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out = fmt.Sprintf("%s | %s", out, p)
	}
	if l.Signed && n < 4 {
		shift := 32 - n*8
		return fmt.Sprintf("(%s<<%d>>%d)", out, shift, shift)
	}
	return out
}

// loadFloatUnaligned stages an unaligned float/double load through the
// byte-at-a-time integer assembly followed by a tempDoublePtr punning read.
func (g *Generator) loadFloatUnaligned(t ir.ScalarKind, l *ir.LoadInstr, ptr string) string {
	intParts := g.loadIntUnaligned(&ir.LoadInstr{Ptr: l.Ptr, Size: l.Size, Alignment: l.Alignment}, ptr)
	if t == ir.F32 {
		return fmt.Sprintf("(HEAP32[tempDoublePtr>>2] = %s, HEAPF32[tempDoublePtr>>2])", intParts)
	}
	lo := fmt.Sprintf("HEAPU8[%s>>0] | (HEAPU8[%s+1>>0]<<8) | (HEAPU8[%s+2>>0]<<16) | (HEAPU8[%s+3>>0]<<24)", ptr, ptr, ptr, ptr)
	hi := fmt.Sprintf("HEAPU8[%s+4>>0] | (HEAPU8[%s+5>>0]<<8) | (HEAPU8[%s+6>>0]<<16) | (HEAPU8[%s+7>>0]<<24)", ptr, ptr, ptr, ptr)
	return fmt.Sprintf("(HEAP32[tempDoublePtr>>2] = %s, HEAP32[tempDoublePtr+4>>2] = %s, HEAPF64[tempDoublePtr>>3])", lo, hi)
}

// Store lowers an InstrStore symmetrically to Load.
func (g *Generator) Store(in *ir.Instr) string {
	s := &in.Store
	val := g.operandExpr(&s.Value)
	if name, ok := g.nativizedOperand(&s.Ptr); ok {
		return fmt.Sprintf("%s = %s", name, val)
	}
	ptr := g.operandExpr(&s.Ptr)
	t := s.Value.Type
	if s.Alignment >= s.Size {
		if t.IsFloat() {
			if t == ir.F32 {
				return fmt.Sprintf("HEAPF32[%s>>2] = %s", ptr, val)
			}
			return fmt.Sprintf("HEAPF64[%s>>3] = %s", ptr, val)
		}
		view, shift := heapView(s.Size, false)
		return fmt.Sprintf("%s[%s>>%d] = %s", view, ptr, shift, val)
	}
	g.warnUnaligned(ptr, s.Size, s.Alignment)
	return g.storeUnaligned(t, s, ptr, val)
}

// warnUnaligned reports a sub-alignment access through the generator's
// optional hook.
func (g *Generator) warnUnaligned(ptr string, size, alignment int) {
	if g.WarnUnaligned == nil {
		return
	}
	g.WarnUnaligned(fmt.Sprintf("unaligned access of %d bytes to address %s, alignment %d", size, ptr, alignment))
}

func (g *Generator) storeUnaligned(t ir.ScalarKind, s *ir.StoreInstr, ptr, val string) string {
	if t.IsFloat() {
		if t == ir.F32 {
			stage := fmt.Sprintf("HEAPF32[tempDoublePtr>>2] = %s", val)
			return fmt.Sprintf("(%s, %s)", stage, g.storeIntBytes(s.Size, ptr, "HEAP32[tempDoublePtr>>2]"))
		}
		stage := fmt.Sprintf("HEAPF64[tempDoublePtr>>3] = %s", val)
		lo := g.storeIntBytes(4, ptr, "HEAP32[tempDoublePtr>>2]")
		hi := g.storeIntBytes(4, fmt.Sprintf("(%s+4|0)", ptr), "HEAP32[tempDoublePtr+4>>2]")
		return fmt.Sprintf("(%s, %s, %s)", stage, lo, hi)
	}
	return g.storeIntBytes(s.Size, ptr, val)
}

func (g *Generator) storeIntBytes(size int, ptr, val string) string {
	stmts := make([]string, 0, size)
	for i := 0; i < size; i++ {
		shift := i * 8
		byteExpr := val
		if shift > 0 {
			byteExpr = fmt.Sprintf("(%s>>%d)", val, shift)
		}
		stmts = append(stmts, fmt.Sprintf("HEAP8[%s+%d>>0] = %s&255", ptr, i, byteExpr))
	}
	out := stmts[0]
	for _, s := range stmts[1:] {
		out = fmt.Sprintf("%s, %s", out, s)
	}
	return out
}
