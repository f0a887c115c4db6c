// Package emit implements the module emitter: it drives the
// per-function code-generation/relooper pipeline, then assembles their
// output together with the memory initializer, dispatch tables, and
// metadata record into a single output text stream.
package emit

import (
	"fmt"
	"regexp"
	"strings"

	"jsgen/internal/coerce"
	"jsgen/internal/codegen"
	"jsgen/internal/diag"
	"jsgen/internal/dispatch"
	"jsgen/internal/ir"
	"jsgen/internal/mangle"
	"jsgen/internal/relooper"
	"jsgen/internal/trace"
)

// Config bundles the run settings the per-function and per-module drivers
// both consult.
type Config struct {
	Opt coerce.Options
	WarnUnaligned bool
	Assertions int
	ReservedFuncPtrs int
	NoAliasingFuncPtrs bool
	GlobalBase int

	// Nativize enables alloca nativization; an implementation only runs it
	// at the lowest optimization level.
	Nativize bool

	// Tracer receives phase/module spans as Module and EmitFunction run,
	// letting a hung or slow emission on a large module be diagnosed after
	// the fact. Nil is treated as trace.Nop.
	Tracer trace.Tracer

	// EmitTimings adds an advisory diagnostic summarizing per-phase wall
	// time (heap lowering, function emission, assembly) after Module runs.
	EmitTimings bool
}

// FunctionOutput is everything one function's emission produces for the
// module driver.
type FunctionOutput struct {
	Name string // mangled function name
	Sig string // signature letter code
	Text string // rendered `function _name(...) {...}` definition
	Redirects map[string]string
}

// trailingReturnRe recognizes a `return...;` as the very last statement of
// a rendered function body, used to decide whether a defaulted trailing
// return must be appended.
var trailingReturnRe = regexp.MustCompile(`return[^;{}]*;\s*$`)

// EmitFunction renders one IR function into its complete target-dialect
// definition. reporter may be nil; when it is set and cfg.WarnUnaligned is
// true, every sub-alignment memory access in fn is reported through it as a
// KindAdvisory diagnostic.
func EmitFunction(fn *ir.Function, cfg Config, globals codegen.GlobalResolver, dt *dispatch.Table, handlers map[string]codegen.CallHandler, globalName func(ir.GlobalID) string, reporter diag.Reporter) (*FunctionOutput, error) {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	span := trace.Begin(tracer, trace.ScopeModule, "emit:"+fn.Name, 0)
	defer span.End("")

	name := mangle.Global(fn.Name)
	sig := dispatch.Sig(fn, cfg.Opt.PreciseF32)

	var nativized codegen.NativizedVarSet
	if cfg.Nativize {
		nativized = codegen.BuildNativizedVarSet(fn)
	}
	plan := codegen.BuildAllocaPlan(fn, nativized)

	g := codegen.NewGenerator(fn, cfg.Opt, globals, dt, handlers)
	g.Alloca = plan
	g.Nativized = nativized
	g.GlobalName = globalName
	if cfg.WarnUnaligned && reporter != nil {
		g.WarnUnaligned = func(msg string) {
			diag.ReportWarning(reporter, name, msg)
		}
	}

	blocks, err := buildBlocks(g, fn, cfg.Opt)
	if err != nil {
		return nil, err
	}

	rl := relooper.New(blocks)
	defer rl.Release()
	bodyText, err := rl.Build(int(fn.Entry))
	if err != nil {
		return nil, fmt.Errorf("emit: function %q: %w", fn.Name, err)
	}

	paramNames := make(map[string]bool, len(fn.Params))
	paramList := make([]string, 0, len(fn.Params))
	for _, pid := range fn.Params {
		pname := g.NameOf(pid)
		paramNames[pname] = true
		paramList = append(paramList, pname)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "function %s(%s) {\n", name, strings.Join(paramList, ", "))
	for _, pid := range fn.Params {
		local, ok := fn.LocalByID(pid)
		if !ok {
			continue
		}
		pname := g.NameOf(pid)
		fmt.Fprintf(&out, "%s = %s;\n", pname, coerce.Get(pname, local.Type, coerce.Signed, cfg.Opt))
	}

	var decls []string
	for _, v := range g.UsedVars() {
		if paramNames[v] {
			continue
		}
		decls = append(decls, fmt.Sprintf("%s = %s", v, codegen.DefaultValue(g.VarType(v))))
	}
	if len(decls) > 0 {
		fmt.Fprintf(&out, "var %s;\n", strings.Join(decls, ", "))
	}

	if plan.FrameSize() > 0 {
		out.WriteString("sp = STACKTOP;\n")
		if plan.MaxAlign() > 8 {
			fmt.Fprintf(&out, "sp_a = (STACKTOP + %d | 0) & -%d;\n", plan.MaxAlign()-1, plan.MaxAlign())
		}
		if cfg.Assertions > 0 {
			out.WriteString("if ((STACKTOP | 0) >= (STACK_MAX | 0)) abort();\n")
		}
		fmt.Fprintf(&out, "STACKTOP = STACKTOP + %d | 0;\n", plan.FrameSize())
	}

	out.WriteString(bodyText)

	if fn.Result != ir.KindVoid && !trailingReturnRe.MatchString(bodyText) {
		fmt.Fprintf(&out, "return %s;\n", codegen.DefaultValue(fn.Result))
	}
	out.WriteString("}\n")

	return &FunctionOutput{Name: name, Sig: sig, Text: out.String(), Redirects: g.Redirects}, nil
}

// buildBlocks lowers every instruction of fn and converts each IR
// terminator into the relooper's abstract Edge form.
func buildBlocks(g *codegen.Generator, fn *ir.Function, opt coerce.Options) ([]*relooper.Block, error) {
	blocks := make([]*relooper.Block, 0, len(fn.Blocks))
	for bi := range fn.Blocks {
		bb := &fn.Blocks[bi]
		g.ResetBlock()

		var body strings.Builder
		for ii := range bb.Instrs {
			stmt, err := g.Lower(&bb.Instrs[ii])
			if err != nil {
				return nil, fmt.Errorf("emit: function %q, block %d: %w", fn.Name, bb.ID, err)
			}
			body.WriteString(stmt)
		}

		switch bb.Term.Kind {
		case ir.TermRet:
			if bb.Term.HasValue {
				v := g.OperandExprPublic(&bb.Term.Value)
				body.WriteString("return " + coerce.Get(v, fn.Result, coerce.Signed, opt) + ";\n")
			} else {
				body.WriteString("return;\n")
			}
		}

		edges, cond, isSwitch, err := buildEdges(g, fn, bb, opt)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, &relooper.Block{
			ID: int(bb.ID),
			Body: body.String(),
			Cond: cond,
			IsSwitch: isSwitch,
			Edges: edges,
		})
	}
	return blocks, nil
}

func buildEdges(g *codegen.Generator, fn *ir.Function, bb *ir.BasicBlock, opt coerce.Options) (edges []relooper.Edge, cond string, isSwitch bool, err error) {
	term := &bb.Term
	switch term.Kind {
	case ir.TermRet, ir.TermUnreachable:
		return nil, "", false, nil

	case ir.TermBr:
		dest := fn.Block(term.Target)
		if dest == nil {
			return nil, "", false, fmt.Errorf("emit: function %q: br to unknown block %d", fn.Name, term.Target)
		}
		return []relooper.Edge{{To: int(term.Target), PhiPrelude: g.PhiPrelude(bb.ID, dest)}}, "", false, nil

	case ir.TermCondBr:
		trueDest, falseDest := fn.Block(term.True), fn.Block(term.False)
		if trueDest == nil || falseDest == nil {
			return nil, "", false, fmt.Errorf("emit: function %q: condbr to unknown block", fn.Name)
		}
		condExpr := coerce.Get(g.OperandExprPublic(&term.Cond), ir.I32, coerce.Nonspecific, opt)
		return []relooper.Edge{
			{To: int(term.True), Cond: condExpr, PhiPrelude: g.PhiPrelude(bb.ID, trueDest)},
			{To: int(term.False), PhiPrelude: g.PhiPrelude(bb.ID, falseDest)},
		}, "", false, nil

	case ir.TermSwitch:
		condExpr := coerce.Get(g.OperandExprPublic(&term.SwitchValue), ir.I32, coerce.Nonspecific, opt)
		values := make([]int64, 0, len(term.Cases))
		byTarget := make(map[ir.BlockID][]int64)
		var order []ir.BlockID
		for _, c := range term.Cases {
			values = append(values, c.Value)
			if _, ok := byTarget[c.Block]; !ok {
				order = append(order, c.Block)
			}
			byTarget[c.Block] = append(byTarget[c.Block], c.Value)
		}
		useSwitch := relooper.UseSwitch(values)
		es := make([]relooper.Edge, 0, len(order)+1)
		for _, blk := range order {
			dest := fn.Block(blk)
			labels := byTarget[blk]
			prelude := g.PhiPrelude(bb.ID, dest)
			if useSwitch {
				es = append(es, relooper.Edge{To: int(blk), Labels: labels, PhiPrelude: prelude})
			} else {
				es = append(es, relooper.Edge{To: int(blk), Cond: disjunction(condExpr, labels), PhiPrelude: prelude})
			}
		}
		defDest := fn.Block(term.Default)
		es = append(es, relooper.Edge{To: int(term.Default), PhiPrelude: g.PhiPrelude(bb.ID, defDest)})
		return es, condExpr, useSwitch, nil

	case ir.TermIndirectBr:
		addrExpr := coerce.Get(g.OperandExprPublic(&term.Address), ir.I32, coerce.Nonspecific, opt)
		es := make([]relooper.Edge, 0, len(term.Destinations))
		for i, dest := range term.Destinations {
			d := fn.Block(dest)
			prelude := g.PhiPrelude(bb.ID, d)
			if i == 0 {
				es = append(es, relooper.Edge{To: int(dest), PhiPrelude: prelude})
				continue
			}
			es = append(es, relooper.Edge{To: int(dest), Labels: []int64{int64(dest)}, PhiPrelude: prelude})
		}
		return es, addrExpr, true, nil

	default:
		return nil, "", false, fmt.Errorf("emit: function %q: block %d is unterminated", fn.Name, bb.ID)
	}
}

func disjunction(condExpr string, values []int64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("(%s == %d)", condExpr, v)
	}
	return strings.Join(parts, " | ")
}
