// Package decode provides a JSON encoding for ir.Module, standing in for
// the out-of-scope upstream compiler pass that legalizes and serializes
// the input IR. It exists so the CLI and tests have a concrete way to
// read a Module from disk.
package decode

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"jsgen/internal/ir"
)

// LoadFile reads and decodes a Module from the JSON file at path.
func LoadFile(path string) (*ir.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a Module from r's JSON encoding.
func Decode(r io.Reader) (*ir.Module, error) {
	var mod ir.Module
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&mod); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &mod, nil
}

// Encode writes mod's JSON encoding to w, matching the field names Decode
// reads (round-trips exactly; used by tests and by `jsgen dump-ir`-style
// tooling rather than by the emitter itself).
func Encode(w io.Writer, mod *ir.Module) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	if err := enc.Encode(mod); err != nil {
		return fmt.Errorf("decode: encode: %w", err)
	}
	return nil
}
