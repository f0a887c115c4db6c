// Package mangle deterministically maps IR symbol names to target-dialect
// identifiers. Globals live in the `_`-prefixed namespace,
// locals in the `$`-prefixed namespace; the two never collide because every
// mangled name carries its namespace's sigil in position 0.
package mangle

import "fmt"

func isAlnumOrUnderscore(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '_':
		return true
	default:
		return false
	}
}

// Global mangles an IR global or function name into the `_`-prefixed
// namespace: prepend `_`, then replace every disallowed byte (positions
// >= 1 in the source name) with `_`.
func Global(name string) string {
	out := make([]byte, 0, len(name)+1)
	out = append(out, '_')
	for i := 0; i < len(name); i++ {
		b := name[i]
		if isAlnumOrUnderscore(b) {
			out = append(out, b)
		} else {
			out = append(out, '_')
		}
	}
	return string(out)
}

// Local mangles an IR local (SSA value, parameter, phi result) name into
// the `$`-prefixed namespace. Alphanumeric and `_` bytes pass through
// untouched; every other byte becomes `$`, except that a run of illegal
// bytes is made reversible by appending, after the whole name, one two-hex
// digit escape per replaced byte (in order), with one `Z` emitted first for
// each `.` seen among them — `.` is common in IR-level disambiguated names
// (e.g. "x.1") and is otherwise indistinguishable from other illegal bytes
// once replaced by `$`.
func Local(name string) string {
	out := make([]byte, 0, len(name)+1)
	out = append(out, '$')
	var suffix []byte
	queuedDots := 0
	for i := 0; i < len(name); i++ {
		b := name[i]
		if isAlnumOrUnderscore(b) {
			out = append(out, b)
			continue
		}
		out = append(out, '$')
		if b == '.' {
			queuedDots++
			continue
		}
		for; queuedDots > 0; queuedDots-- {
			suffix = append(suffix, 'Z')
		}
		suffix = append(suffix, []byte(fmt.Sprintf("%02x", b))...)
	}
	for; queuedDots > 0; queuedDots-- {
		suffix = append(suffix, 'Z')
	}
	out = append(out, suffix...)
	return string(out)
}
