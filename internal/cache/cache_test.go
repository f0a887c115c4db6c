package cache

import (
	"path/filepath"
	"testing"

	"jsgen/internal/config"
	"jsgen/internal/ir"
)

func testModule() *ir.Module {
	return &ir.Module{Functions: []ir.Function{{Name: "f", Result: ir.I32}}}
}

func TestKeyForIsStableAndSensitiveToOptions(t *testing.T) {
	mod := testModule()
	k1, err := KeyFor(mod, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	k2, err := KeyFor(mod, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if k1 != k2 {
		t.Fatal("identical module+options should hash identically")
	}

	other := config.Default()
	other.PreciseF32 = true
	k3, err := KeyFor(mod, other)
	if err != nil {
		t.Fatal(err)
	}
	if k1 == k3 {
		t.Fatal("changed options should change the key")
	}
}

func newTestDisk(t *testing.T) *Disk {
	t.Helper()
	return &Disk{dir: filepath.Join(t.TempDir(), "jsgen")}
}

func TestDiskPutGetRoundTrip(t *testing.T) {
	d := newTestDisk(t)
	k, err := KeyFor(testModule(), config.Default())
	if err != nil {
		t.Fatal(err)
	}
	want := &Payload{Text: "function _f() { return 0; }\n"}
	if err := d.Put(k, want); err != nil {
		t.Fatal(err)
	}

	var got Payload
	ok, err := d.Get(k, &got)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.Text != want.Text {
		t.Fatalf("round-trip mismatch: got %q want %q", got.Text, want.Text)
	}
}

func TestDiskGetMissReturnsFalse(t *testing.T) {
	d := newTestDisk(t)
	k, err := KeyFor(testModule(), config.Default())
	if err != nil {
		t.Fatal(err)
	}
	var got Payload
	ok, err := d.Get(k, &got)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected a cache miss on an empty cache")
	}
}

func TestDiskInvalidateRemovesEntry(t *testing.T) {
	d := newTestDisk(t)
	k, err := KeyFor(testModule(), config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Put(k, &Payload{Text: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := d.Invalidate(k); err != nil {
		t.Fatal(err)
	}
	var got Payload
	ok, err := d.Get(k, &got)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected a miss after invalidation")
	}
}
