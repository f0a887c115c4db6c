package emit

import (
	"strings"
	"testing"

	"jsgen/internal/coerce"
	"jsgen/internal/ir"
)

// identityModule builds a one-function module: `function _id(x) { x = x|0;
// return (x)|0; }`, no globals, exercising Module's full assembly path with
// an otherwise-empty heap and dispatch table.
func identityModule() *ir.Module {
	fn := ir.Function{
		Name: "id",
		Params: []ir.ValueID{0},
		Result: ir.I32,
		Locals: []ir.Local{{ID: 0, Name: "x", Type: ir.I32}},
		Entry: 0,
		Blocks: []ir.BasicBlock{
			{ID: 0, Term: ir.Terminator{Kind: ir.TermRet, HasValue: true, Value: ir.ValueOperand(0, ir.I32)}},
		},
	}
	return &ir.Module{Functions: []ir.Function{fn}}
}

func TestModuleAssemblesIdentityFunction(t *testing.T) {
	mod := identityModule()
	cfg := Config{Opt: coerce.Options{}, GlobalBase: 8}
	text, bag, err := Module(mod, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected errors in bag: %v", bag.Items())
	}
	if !strings.Contains(text, "// EMSCRIPTEN_START_FUNCTIONS") || !strings.Contains(text, "// EMSCRIPTEN_END_FUNCTIONS") {
		t.Fatalf("missing function markers: %q", text)
	}
	if !strings.Contains(text, "function _id($x) {") {
		t.Fatalf("missing emitted function: %q", text)
	}
	if !strings.Contains(text, "// EMSCRIPTEN_METADATA") {
		t.Fatalf("missing metadata record: %q", text)
	}
	if !strings.Contains(text, `"implementedFunctions":["_id"]`) {
		t.Fatalf("expected _id in implementedFunctions metadata: %q", text)
	}
}

func TestModuleSkipsImportedFunctions(t *testing.T) {
	mod := identityModule()
	mod.Functions = append(mod.Functions, ir.Function{Name: "imported_fn", IsImported: true, Result: ir.KindVoid})
	cfg := Config{Opt: coerce.Options{}, GlobalBase: 8}
	text, _, err := Module(mod, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(text, "function _imported_fn(") {
		t.Fatalf("imported function body should not be emitted: %q", text)
	}
	if !strings.Contains(text, `"declares":["_imported_fn"]`) {
		t.Fatalf("imported function should be declared in metadata: %q", text)
	}
}
