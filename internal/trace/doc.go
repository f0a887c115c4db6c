// Package trace provides a tracing subsystem for the jsgen emitter.
//
// The trace package enables tracking of emission phases, per-module
// processing, and per-function lowering to help diagnose performance issues
// and hangs on large modules.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	jsgen compile --trace=- --trace-level=phase module.json
//
// # Architecture
//
// The package provides several tracer implementations:
//
// - Nop (nopTracer): Zero-overhead no-op tracer when disabled
// - StreamTracer: Immediate write to output (file/stderr)
// - RingTracer: Circular buffer for crash dumps
// - MultiTracer: Combines multiple tracers
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
// - LevelOff: No tracing
// - LevelError: Only crash dumps
// - LevelPhase: Driver and pass boundaries (lowering, relooping, emitting)
// - LevelDetail: Module-level events
// - LevelDebug: Everything including per-instruction events
//
// # Scopes
//
// Events are categorized by scope:
//
// - ScopeDriver: Top-level CLI operations
// - ScopeModule: Per-module processing
// - ScopePass: Emission passes (heap lowering, relooping, function emit)
// - ScopeNode: Per-instruction level (future)
//
// # Context Propagation
//
// Tracers are propagated through the emission pipeline via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "relooper", parentID)
//	defer span.End("")
package trace
