// Package codegen implements the instruction expression generator
//: for each IR instruction it emits one typed target-dialect
// expression with the coercions the type & coercion engine requires.
package codegen

import (
	"fmt"

	"jsgen/internal/coerce"
	"jsgen/internal/dispatch"
	"jsgen/internal/ir"
	"jsgen/internal/mangle"
)

// GlobalResolver answers address queries for module globals, used when an
// operand is a ConstGlobalAddr.
type GlobalResolver interface {
	AbsoluteOfName(name string) (int, bool)
}

// CallHandler is looked up by the callee's mangled name. It returns the full call expression to emit, or "" to skip the
// call entirely, or sets Redirect to register a wrapper name in the
// module's metadata.
type CallHandler func(g *Generator, call *ir.CallInstr) (expr string, redirect string)

// Generator lowers one function's instructions into target-dialect source
// lines. A fresh Generator is used per function; its caches are dropped
// with it.
type Generator struct {
	Opt coerce.Options
	Globals GlobalResolver
	Dispatch *dispatch.Table
	Handlers map[string]CallHandler
	// GlobalName resolves a GlobalID to its mangled heap-namespace name.
	GlobalName func(id ir.GlobalID) string

	fn *ir.Function
	valueName map[ir.ValueID]string
	usedVars map[string]ir.ScalarKind // declared-local name -> type, in first-seen order via usedOrder
	usedOrder []string

	Alloca *AllocaPlan
	Nativized NativizedVarSet
	WarnUnaligned func(msg string)

	invoke InvokeState

	Redirects map[string]string // callee name -> redirect wrapper name
}

// NewGenerator starts a fresh per-function Generator.
func NewGenerator(fn *ir.Function, opt coerce.Options, globals GlobalResolver, dt *dispatch.Table, handlers map[string]CallHandler) *Generator {
	return &Generator{
		Opt: opt,
		Globals: globals,
		Dispatch: dt,
		Handlers: handlers,
		fn: fn,
		valueName: make(map[ir.ValueID]string),
		usedVars: make(map[string]ir.ScalarKind),
		Redirects: make(map[string]string),
	}
}

// NameOf returns (and caches) the mangled local-namespace name of a value.
func (g *Generator) NameOf(id ir.ValueID) string {
	if n, ok := g.valueName[id]; ok {
		return n
	}
	local, ok := g.fn.LocalByID(id)
	name := mangle.Local(fmt.Sprintf("v%d", id))
	if ok && local.Name != "" {
		name = mangle.Local(local.Name)
	}
	g.valueName[id] = name
	return name
}

func (g *Generator) typeOf(id ir.ValueID) ir.ScalarKind {
	if local, ok := g.fn.LocalByID(id); ok {
		return local.Type
	}
	return ir.I32
}

// declare records that name (of type t) must be declared with a default
// value in the function's batch local-variable declarations.
func (g *Generator) declare(name string, t ir.ScalarKind) {
	if _, ok := g.usedVars[name]; ok {
		return
	}
	g.usedVars[name] = t
	g.usedOrder = append(g.usedOrder, name)
}

// UsedVars returns the declared local names in first-use order, for the
// module emitter's batch declaration statement; VarType gives each name's
// type.
func (g *Generator) UsedVars() []string {
	return append([]string(nil), g.usedOrder...)
}

func (g *Generator) VarType(name string) ir.ScalarKind {
	return g.usedVars[name]
}

// DefaultValue returns the canonical zero-value literal for t, used both
// when declaring a local and when defaulting a missing return.
func DefaultValue(t ir.ScalarKind) string {
	switch t {
	case ir.F64:
		return "+0"
	case ir.F32:
		return "Math_fround(0)"
	case ir.VecInt4:
		return "SIMD_Int32x4(0,0,0,0)"
	case ir.VecFloat4:
		return "SIMD_Float32x4(0,0,0,0)"
	default:
		return "0"
	}
}

// OperandExprPublic renders op exactly as operandExpr does, for callers
// outside the package that need to render a terminator operand (the
// relooper's CFG-shaping pass lives in internal/emit, which has no other
// way to reach a value's rendered name or inline constant).
func (g *Generator) OperandExprPublic(op *ir.Operand) string {
	return g.operandExpr(op)
}

// operandExpr renders op's raw JS text without forcing any particular
// coercion; values are assumed already in their canonical form.
func (g *Generator) operandExpr(op *ir.Operand) string {
	switch op.Kind {
	case ir.OperandValue:
		if !g.isNativizedAlloca(op.Value) {
			if g.Alloca != nil {
				if ofs, ok := g.Alloca.FrameOffset(op.Value); ok {
					return fmt.Sprintf("(sp + %d|0)", ofs)
				}
			}
		}
		name := g.NameOf(op.Value)
		g.declare(name, g.typeOf(op.Value))
		return name
	case ir.OperandConst:
		return g.constExpr(op.Const, op.Type)
	default:
		return "0"
	}
}

func (g *Generator) constExpr(c ir.Constant, t ir.ScalarKind) string {
	switch c.Kind {
	case ir.ConstInt:
		return fmt.Sprintf("%d", c.IntVal)
	case ir.ConstFloat:
		if t == ir.F32 {
			return fmt.Sprintf("Math_fround(%v)", c.FloatVal)
		}
		return fmt.Sprintf("%v", c.FloatVal)
	case ir.ConstFuncAddr:
		return "0" // resolved at the caller via dispatch index, not here
	case ir.ConstBlockAddr:
		return fmt.Sprintf("%d", c.Block)
	case ir.ConstGlobalAddr:
		if g.GlobalName != nil && g.Globals != nil {
			name := g.GlobalName(c.Global)
			if abs, ok := g.Globals.AbsoluteOfName(name); ok {
				if c.Addend == 0 {
					return fmt.Sprintf("%d", abs)
				}
				return fmt.Sprintf("(%d + %d|0)", abs, c.Addend)
			}
		}
		return "0"
	default:
		return "0"
	}
}

func (g *Generator) isNativizedAlloca(id ir.ValueID) bool {
	_, ok := g.Nativized[id]
	return ok
}

// nativizedOperand reports whether op directly references a nativized
// alloca: when it does, the alloca's "address" never escapes the
// load/store that reads or writes it, so that load/store is the scalar
// local-variable access nativization promotes it to, not a heap access.
func (g *Generator) nativizedOperand(op *ir.Operand) (string, bool) {
	if op.Kind != ir.OperandValue || !g.isNativizedAlloca(op.Value) {
		return "", false
	}
	name := g.NameOf(op.Value)
	g.declare(name, g.Nativized[op.Value])
	return name, true
}

// Lower renders the complete statement for one instruction, including the
// `lhs = ` prefix when the instruction has a used result. Phi nodes and allocas never emit
// inline: phi assignments happen on the incoming edge (see phi.go), and
// allocas are either nativized (declared only) or coalesced into the
// function's single frame bump (see the module emitter).
func (g *Generator) Lower(in *ir.Instr) (string, error) {
	switch in.Kind {
	case ir.InstrPhi, ir.InstrAlloca:
		if in.HasResult() {
			if t, ok := g.Nativized[in.Result]; ok {
				name := g.NameOf(in.Result)
				g.declare(name, t)
			}
		}
		return "", nil
	case ir.InstrFence:
		return "", nil
	case ir.InstrStore:
		return g.Store(in) + ";\n", nil
	case ir.InstrAtomicRMW:
		return g.Atomic(in)
	case ir.InstrCall:
		expr := g.Call(in)
		if expr == "" {
			return "", nil
		}
		if !in.HasResult() {
			return expr + ";\n", nil
		}
		name := g.NameOf(in.Result)
		g.declare(name, in.Type)
		return fmt.Sprintf("%s = %s;\n", name, expr), nil
	default:
		var expr string
		switch in.Kind {
		case ir.InstrBinary:
			expr = g.Binary(in)
		case ir.InstrCompare:
			expr = g.Compare(in)
		case ir.InstrCast:
			expr = g.Cast(in)
		case ir.InstrLoad:
			expr = g.Load(in)
		case ir.InstrGEP:
			expr = g.GEP(in)
		case ir.InstrVector:
			expr = g.Vector(in)
		default:
			return "", fmt.Errorf("codegen: unhandled instruction kind %d", in.Kind)
		}
		if !in.HasResult() {
			return expr + ";\n", nil
		}
		name := g.NameOf(in.Result)
		g.declare(name, in.Type)
		return fmt.Sprintf("%s = %s;\n", name, expr), nil
	}
}
