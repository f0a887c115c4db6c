package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"jsgen/internal/cache"
	"jsgen/internal/config"
	"jsgen/internal/diag"
	"jsgen/internal/emit"
	"jsgen/internal/ir/decode"
	"jsgen/internal/trace"
)

var (
	compilePreciseF32 bool
	compileWarnUnaligned bool
	compileNativize bool
	compileNoCache bool
	compileOut string
	compileTracePath string
	compileTraceLevel string
	compileTimings bool
)

func init() {
	compileCmd.Flags().BoolVar(&compilePreciseF32, "precise-f32", false, "round float32 arithmetic through Math_fround")
	compileCmd.Flags().BoolVar(&compileWarnUnaligned, "warn-unaligned", false, "report every sub-alignment memory access")
	compileCmd.Flags().BoolVar(&compileNativize, "nativize", false, "nativize allocas instead of coalescing them (lowest optimization level only)")
	compileCmd.Flags().BoolVar(&compileNoCache, "no-cache", false, "bypass the incremental disk cache")
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "", "output file path for a single module (default: stdout for one module, <name>.js alongside each module for several)")
	compileCmd.Flags().StringVar(&compileTracePath, "trace", "", `trace output path ("-" for stderr), empty disables tracing`)
	compileCmd.Flags().StringVar(&compileTraceLevel, "trace-level", "phase", "trace verbosity: off|error|phase|detail|debug")
	compileCmd.Flags().BoolVar(&compileTimings, "timings", false, "report per-phase wall time as an advisory diagnostic")
}

var compileCmd = &cobra.Command{
	Use: "compile <module.json>...",
	Short: "Lower one or more IR modules into asm.js-dialect source",
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

// runCompile drives one or more independent compilations concurrently: each
// module has its own cache key, dispatch table, and heap allocator, so there
// is no shared mutable state between them beyond the tracer and disk cache,
// both of which are safe for concurrent use.
func runCompile(cmd *cobra.Command, args []string) error {
	if len(args) > 1 && compileOut != "" {
		return fmt.Errorf("jsgen: --out cannot be used with more than one input module")
	}

	opt, err := config.Load(".")
	if err != nil {
		return err
	}
	precise := cmd.Flags().Changed("precise-f32")
	warn := cmd.Flags().Changed("warn-unaligned")
	nativize := cmd.Flags().Changed("nativize")
	opt = config.Overrides{
		PreciseF32: boolPtrIf(precise, compilePreciseF32),
		WarnUnaligned: boolPtrIf(warn, compileWarnUnaligned),
		Nativize: boolPtrIf(nativize, compileNativize),
	}.Apply(opt)

	tracer, err := newCompileTracer()
	if err != nil {
		return err
	}
	if tracer != nil {
		defer tracer.Close()
	}

	var disk *cache.Disk
	if !compileNoCache {
		disk, _ = cache.Open("jsgen")
	}

	single := len(args) == 1
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, path := range args {
		path := path
		g.Go(func() error {
			return compileOne(path, opt, tracer, disk, single)
		})
	}
	return g.Wait()
}

func compileOne(path string, opt config.Options, tracer trace.Tracer, disk *cache.Disk, single bool) error {
	mod, err := decode.LoadFile(path)
	if err != nil {
		return err
	}

	cfg := emit.Config{
		Opt: opt.Coerce(),
		WarnUnaligned: opt.WarnUnaligned,
		Assertions: opt.Assertions,
		ReservedFuncPtrs: opt.ReservedFunctionPointers,
		NoAliasingFuncPtrs: opt.NoAliasingFunctionPointers,
		GlobalBase: opt.GlobalBase,
		Nativize: opt.Nativize,
		Tracer: tracer,
		EmitTimings: compileTimings,
	}

	var key cache.Key
	if disk != nil {
		if key, err = cache.KeyFor(mod, opt); err == nil {
			var payload cache.Payload
			if hit, _ := disk.Get(key, &payload); hit {
				return writeOutput(path, payload.Text, single)
			}
		}
	}

	text, bag, err := emit.Module(mod, cfg)
	printDiagnostics(bag)
	if err != nil {
		return err
	}
	if bag.HasErrors() {
		return fmt.Errorf("jsgen: %s: emission aborted by a fatal diagnostic", path)
	}

	if disk != nil {
		_ = disk.Put(key, &cache.Payload{Text: text})
	}
	return writeOutput(path, text, single)
}

// newCompileTracer builds the tracer --trace/--trace-level select, or nil
// when tracing is disabled.
func newCompileTracer() (trace.Tracer, error) {
	if compileTracePath == "" {
		return nil, nil
	}
	level, err := trace.ParseLevel(compileTraceLevel)
	if err != nil {
		return nil, err
	}
	return trace.New(trace.Config{
		Level: level,
		Mode: trace.ModeStream,
		OutputPath: compileTracePath,
	})
}

func boolPtrIf(changed bool, v bool) *bool {
	if !changed {
		return nil
	}
	return &v
}

// writeOutput writes a single module's output text. An explicit --out (only
// valid for a single input) always wins. With no --out, a single module goes
// to stdout to preserve the simple pipe-friendly common case; several
// modules each get a sibling ".js" file since stdout can't hold more than one.
func writeOutput(inputPath, text string, single bool) error {
	if compileOut != "" {
		return os.WriteFile(compileOut, []byte(text), 0o644)
	}
	if single {
		_, err := fmt.Print(text)
		return err
	}
	out := strings.TrimSuffix(inputPath, ".json") + ".js"
	return os.WriteFile(out, []byte(text), 0o644)
}

// printDiagnostics prints every collected advisory to stderr, colored red
// for errors and yellow for warnings, one line per diagnostic — matching
// JSBackend's prettyWarning() convention.
func printDiagnostics(bag *diag.Bag) {
	for _, d := range bag.Items() {
		label := severityLabel(d.Severity)
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", label, d.Location, d.Message)
	}
}

func severityLabel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return color.RedString("error")
	case diag.SevWarning:
		return color.YellowString("warning")
	default:
		return "info"
	}
}
