// Package config loads the emitter's run settings, with a jsgen.toml file
// providing defaults and CLI flags overriding them — the same two-layer
// precedence a project manifest plus cobra flags give a CLI command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"jsgen/internal/coerce"
)

// Options is the full settings table.
type Options struct {
	PreciseF32 bool `toml:"precise-f32"`
	WarnUnaligned bool `toml:"warn-unaligned"`
	ReservedFunctionPointers int `toml:"reserved-function-pointers"`
	Assertions int `toml:"assertions"`
	NoAliasingFunctionPointers bool `toml:"no-aliasing-function-pointers"`
	GlobalBase int `toml:"global-base"`

	// Nativize is not a table entry: it selects alloca
	// nativization over coalescing and is only ever true at the lowest
	// optimization level. It has no jsgen.toml key
	// of its own; the CLI sets it from its --nativize flag.
	Nativize bool `toml:"-"`
}

// Default matches the Emscripten fastcomp JSBackend.cpp defaults:
// global-base 8, assertions off, aliasing allowed.
func Default() Options {
	return Options{GlobalBase: 8}
}

// Coerce returns the coerce.Options view of o's precise-f32 flag, the only
// field the coercion engine consults.
func (o Options) Coerce() coerce.Options {
	return coerce.Options{PreciseF32: o.PreciseF32}
}

type fileConfig struct {
	Jsgen Options `toml:"jsgen"`
}

// Load reads jsgen.toml starting at dir and walking up to the filesystem
// root, the same upward search findSurgeToml performs. A missing file is
// not an error: Load then returns Default().
func Load(dir string) (Options, error) {
	path, ok, err := findConfigFile(dir)
	if err != nil {
		return Options{}, err
	}
	if !ok {
		return Default(), nil
	}
	var fc fileConfig
	fc.Jsgen = Default()
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return Options{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return fc.Jsgen, nil
}

func findConfigFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "jsgen.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Overrides captures the subset of flags a CLI invocation set explicitly;
// zero-value fields are left at whatever Load produced, so passing no flags
// is a no-op.
type Overrides struct {
	PreciseF32 *bool
	WarnUnaligned *bool
	ReservedFunctionPointers *int
	Assertions *int
	NoAliasingFunctionPointers *bool
	GlobalBase *int
	Nativize *bool
}

// Apply layers non-nil override fields onto base, returning the merged
// Options.
func (ov Overrides) Apply(base Options) Options {
	if ov.PreciseF32 != nil {
		base.PreciseF32 = *ov.PreciseF32
	}
	if ov.WarnUnaligned != nil {
		base.WarnUnaligned = *ov.WarnUnaligned
	}
	if ov.ReservedFunctionPointers != nil {
		base.ReservedFunctionPointers = *ov.ReservedFunctionPointers
	}
	if ov.Assertions != nil {
		base.Assertions = *ov.Assertions
	}
	if ov.NoAliasingFunctionPointers != nil {
		base.NoAliasingFunctionPointers = *ov.NoAliasingFunctionPointers
	}
	if ov.GlobalBase != nil {
		base.GlobalBase = *ov.GlobalBase
	}
	if ov.Nativize != nil {
		base.Nativize = *ov.Nativize
	}
	return base
}
