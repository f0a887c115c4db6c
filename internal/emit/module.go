package emit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"jsgen/internal/codegen"
	"jsgen/internal/diag"
	"jsgen/internal/dispatch"
	"jsgen/internal/heap"
	"jsgen/internal/ir"
	"jsgen/internal/mangle"
	"jsgen/internal/observ"
	"jsgen/internal/trace"
)

// metadata mirrors the EMSCRIPTEN_METADATA record, field for field.
type metadata struct {
	Declares []string `json:"declares"`
	Redirects map[string]string `json:"redirects"`
	Externs []string `json:"externs"`
	ImplementedFunctions []string `json:"implementedFunctions"`
	Tables map[string]string `json:"tables"`
	Initializers []string `json:"initializers"`
	Exports []string `json:"exports"`
	CantValidate string `json:"cantValidate"`
	Simd bool `json:"simd"`
	NamedGlobals map[string]int `json:"namedGlobals"`
}

// Module renders mod into the complete target-dialect output text. The
// returned Bag holds every advisory collected along the way; a non-nil
// error means a fatal diagnostic (kinds 1-3) aborted emission.
func Module(mod *ir.Module, cfg Config) (string, *diag.Bag, error) {
	bag := diag.NewBag(4096)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	driverSpan := trace.Begin(tracer, trace.ScopeDriver, "emit.Module", 0)
	defer driverSpan.End("")

	timer := observ.NewTimer()

	dt := dispatch.New(cfg.ReservedFuncPtrs, cfg.NoAliasingFuncPtrs, nil, func(name string) int {
		for i := range mod.Functions {
			if mangle.Global(mod.Functions[i].Name) == name {
				return mod.Functions[i].Alignment
			}
		}
		return 1
	})

	lowerSpan := trace.Begin(tracer, trace.ScopePass, "heap.Lower", driverSpan.ID())
	lowerTimer := timer.Begin("heap lowering")
	lowerer := heap.NewLowerer(cfg.GlobalBase, dt, mangle.Global)
	heapResult, err := lowerer.Run(mod)
	timer.End(lowerTimer, "")
	lowerSpan.End("")
	if err != nil {
		diag.ReportError(reporter, diag.KindInvariantViolation, "module", err.Error())
		return "", bag, err
	}

	globalNameOf := func(id ir.GlobalID) string {
		if int(id) < 0 || int(id) >= len(mod.Globals) {
			return ""
		}
		return mangle.Global(mod.Globals[id].Name)
	}

	handlers := map[string]codegen.CallHandler{}

	var implemented []string
	var namedGlobals = map[string]int{}
	var redirects = map[string]string{}
	functionText := make([]string, 0, len(mod.Functions))

	fnPhaseSpan := trace.Begin(tracer, trace.ScopePass, "function emission", driverSpan.ID())
	fnTimer := timer.Begin("function emission")
	for fi := range mod.Functions {
		fn := &mod.Functions[fi]
		if fn.IsImported {
			continue
		}
		fnCfg := cfg
		fnCfg.Tracer = tracer
		out, err := EmitFunction(fn, fnCfg, heapResult.Alloc, dt, handlers, globalNameOf, reporter)
		if err != nil {
			diag.ReportError(reporter, diag.KindLegalizationFailure, fn.Name, err.Error())
			return "", bag, err
		}
		dt.IndexOf(out.Name, out.Sig)
		implemented = append(implemented, out.Name)
		functionText = append(functionText, out.Text)
		for from, to := range out.Redirects {
			redirects[from] = to
		}
	}
	timer.End(fnTimer, fmt.Sprintf("%d functions", len(implemented)))
	fnPhaseSpan.End("")

	for name, addr := range allocatorNames(heapResult.Alloc, mod) {
		namedGlobals[name] = addr
	}

	assembleSpan := trace.Begin(tracer, trace.ScopePass, "assemble", driverSpan.ID())
	assembleTimer := timer.Begin("assembly")

	var body strings.Builder
	body.WriteString("// EMSCRIPTEN_START_FUNCTIONS\n")
	for _, text := range functionText {
		body.WriteString(text)
	}
	body.WriteString("// EMSCRIPTEN_END_FUNCTIONS\n")

	body.WriteString(runPostSets(heapResult.PostSets))
	body.WriteString(dispatchTableLiterals(dt))
	body.WriteString(memoryInitializerLiteral(heapResult.Alloc, cfg.GlobalBase))

	md := metadata{
		Declares: declares(mod),
		Redirects: redirects,
		Externs: externs(mod),
		ImplementedFunctions: implemented,
		Tables: tableLiteralNames(dt),
		Initializers: heapResult.InitArray,
		Exports: heapResult.Exports,
		CantValidate: "",
		Simd: usesSimd(mod),
		NamedGlobals: namedGlobals,
	}
	mdBytes, err := json.Marshal(md)
	if err != nil {
		diag.ReportError(reporter, diag.KindInvariantViolation, "module", "metadata record: "+err.Error())
		return "", bag, err
	}
	fmt.Fprintf(&body, "// EMSCRIPTEN_METADATA\n%s\n", mdBytes)

	timer.End(assembleTimer, "")
	assembleSpan.End("")
	if cfg.EmitTimings {
		diag.ReportWarning(reporter, "module", timer.Summary())
	}

	bag.Sort()
	return body.String(), bag, nil
}

// runPostSets renders the `function runPostSets() {...}` helper executed
// once after the memory initializer lands.
func runPostSets(sets []heap.PostSet) string {
	if len(sets) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("function runPostSets() {\n")
	for _, s := range sets {
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return b.String()
}

// dispatchTableLiterals renders one `var FUNCTION_TABLE_sig = [...];` per
// signature with at least one indexed function.
func dispatchTableLiterals(dt *dispatch.Table) string {
	finalized := dt.Finalize()
	var b strings.Builder
	for _, sig := range dt.Signatures() {
		tbl := finalized[sig]
		fmt.Fprintf(&b, "var FUNCTION_TABLE_%s = [%s];\n", sig, strings.Join(tbl, ","))
	}
	return b.String()
}

func tableLiteralNames(dt *dispatch.Table) map[string]string {
	out := make(map[string]string)
	for _, sig := range dt.Signatures() {
		out[sig] = "FUNCTION_TABLE_" + sig
	}
	return out
}

// memoryInitializerLiteral renders the single `/* static data */
// allocate([...], "i8", ALLOC_NONE, <globalBase>)` statement seeding static
// memory; the last argument is the numeric global base.
func memoryInitializerLiteral(alloc *heap.Allocator, globalBase int) string {
	bytes := alloc.MemoryInitializer()
	parts := make([]string, len(bytes))
	for i, b := range bytes {
		parts[i] = fmt.Sprintf("%d", b)
	}
	return fmt.Sprintf("/* static data */ allocate([%s], \"i8\", ALLOC_NONE, %d);\n", strings.Join(parts, ","), globalBase)
}

func allocatorNames(alloc *heap.Allocator, mod *ir.Module) map[string]int {
	out := make(map[string]int, len(mod.Globals))
	for i := range mod.Globals {
		name := mangle.Global(mod.Globals[i].Name)
		if abs, ok := alloc.AbsoluteOfName(name); ok {
			out[name] = abs
		}
	}
	return out
}

func declares(mod *ir.Module) []string {
	var out []string
	for i := range mod.Functions {
		if mod.Functions[i].IsImported {
			out = append(out, mangle.Global(mod.Functions[i].Name))
		}
	}
	sort.Strings(out)
	return out
}

func externs(mod *ir.Module) []string {
	var out []string
	for i := range mod.Globals {
		if mod.Globals[i].IsExternal {
			out = append(out, mangle.Global(mod.Globals[i].Name))
		}
	}
	sort.Strings(out)
	return out
}

func usesSimd(mod *ir.Module) bool {
	for fi := range mod.Functions {
		fn := &mod.Functions[fi]
		for bi := range fn.Blocks {
			for ii := range fn.Blocks[bi].Instrs {
				if fn.Blocks[bi].Instrs[ii].Kind == ir.InstrVector {
					return true
				}
			}
		}
	}
	return false
}
