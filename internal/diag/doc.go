// Package diag defines the diagnostic model shared by the emitter's passes.
//
// # Purpose
//
// - Provide a deterministic, serialisable Diagnostic record that captures
// findings from the lowering, relooping, and emission passes.
// - Offer light-weight utilities (Reporter, Bag) that let a pass report a
// diagnostic without coupling to how it is ultimately stored or printed.
//
// # Scope
//
// Package diag performs no formatting or IO; rendering diagnostics to the
// console with color lives in cmd/jsgen.
//
// # Data model
//
// Diagnostic carries a Severity, a Kind,
// a Location (the mangled function name and, where useful, a block or
// instruction index — the IR has no source positions of its own; those
// belong to the out-of-scope upstream parser), and a Message.
//
// The first three kinds (legalization failure, unsupported construct,
// internal invariant violation) are always SevError and abort emission for
// the enclosing module. The fourth kind, advisory, is non-fatal and is
// collected in a Bag for the caller to print or ignore.
//
// # Emitting diagnostics
//
// Passes report through the Reporter interface via ReportError /
// ReportWarning, decoupling emission from storage. BagReporter adapts a Bag
// to Reporter; DedupReporter wraps another Reporter and suppresses exact
// repeats, which matters for advisories like unaligned access that would
// otherwise recur once per loop iteration unrolled in the IR.
package diag
