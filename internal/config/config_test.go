package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReturnsDefaultWhenNoFile(t *testing.T) {
	dir := t.TempDir()
	opt, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if opt != Default() {
		t.Fatalf("expected defaults, got %+v", opt)
	}
}

func TestLoadParsesJsgenToml(t *testing.T) {
	dir := t.TempDir()
	toml := "[jsgen]\nprecise-f32 = true\nglobal-base = 1024\nassertions = 2\n"
	if err := os.WriteFile(filepath.Join(dir, "jsgen.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	opt, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !opt.PreciseF32 {
		t.Fatal("expected precise-f32 to be true")
	}
	if opt.GlobalBase != 1024 {
		t.Fatalf("expected global-base 1024, got %d", opt.GlobalBase)
	}
	if opt.Assertions != 2 {
		t.Fatalf("expected assertions 2, got %d", opt.Assertions)
	}
}

func TestOverridesApply(t *testing.T) {
	base := Default()
	precise := true
	gb := 2048
	ov := Overrides{PreciseF32: &precise, GlobalBase: &gb}
	got := ov.Apply(base)
	if !got.PreciseF32 || got.GlobalBase != 2048 {
		t.Fatalf("overrides not applied: %+v", got)
	}
	if got.Assertions != base.Assertions {
		t.Fatalf("unset override field should be unchanged, got %d", got.Assertions)
	}
}
