// Package cache implements the incremental disk cache 
// describes: a module's rendered output is keyed on the SHA-256 of its
// serialized IR plus the active config.Options, so an unchanged module run
// with unchanged settings skips emission entirely. Grounded on the
// teacher's internal/driver.DiskCache, msgpack-encoded the same way.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"jsgen/internal/config"
	"jsgen/internal/ir"
)

const schemaVersion uint16 = 1

// Key identifies one (module, options) pair.
type Key [32]byte

// String renders k as a hex digest, used for the on-disk filename.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// KeyFor hashes mod's JSON encoding together with opt, so any change to
// either invalidates the cache entry.
func KeyFor(mod *ir.Module, opt config.Options) (Key, error) {
	modBytes, err := json.Marshal(mod)
	if err != nil {
		return Key{}, err
	}
	optBytes, err := json.Marshal(opt)
	if err != nil {
		return Key{}, err
	}
	h := sha256.New()
	h.Write(modBytes)
	h.Write([]byte{0}) // separator, so a module/options byte-boundary collision can't alias
	h.Write(optBytes)
	var k Key
	copy(k[:], h.Sum(nil))
	return k, nil
}

// Payload is what one cache entry stores: the rendered output text plus
// the advisories collected while producing it.
type Payload struct {
	Schema uint16
	Text string
	Diagnostics []PayloadDiagnostic
}

// PayloadDiagnostic is diag.Diagnostic flattened to plain fields so it
// round-trips through msgpack without depending on diag's package-private
// layout.
type PayloadDiagnostic struct {
	Severity uint8
	Kind uint8
	Location string
	Message string
}

// Disk is a thread-safe, content-addressed disk cache rooted at dir.
type Disk struct {
	mu sync.RWMutex
	dir string
}

// Open initializes a Disk cache at the standard XDG cache location under
// app (e.g. "jsgen"), creating it if absent.
func Open(app string) (*Disk, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

func (d *Disk) pathFor(k Key) string {
	return filepath.Join(d.dir, "modules", k.String()+".mp")
}

// Put writes payload under k, replacing any existing entry atomically.
func (d *Disk) Put(k Key, payload *Payload) error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	payload.Schema = schemaVersion
	p := d.pathFor(k)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		os.Remove(tmpName)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, p)
}

// Get reads the entry for k into out, returning false if no entry exists
// or its schema is stale.
func (d *Disk) Get(k Key, out *Payload) (bool, error) {
	if d == nil {
		return false, nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	f, err := os.Open(d.pathFor(k))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != schemaVersion {
		return false, nil
	}
	return true, nil
}

// Invalidate removes the entry for k, if any.
func (d *Disk) Invalidate(k Key) error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	err := os.Remove(d.pathFor(k))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
