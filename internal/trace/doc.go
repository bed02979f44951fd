// Package trace records what a stripgen run did, for diagnosing slow or
// surprising batches.
//
// # Usage
//
//	stripgen strip --trace=- --trace-level=file target/generated-sources
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: failed files only
//   - LevelPhase: driver boundaries (expand, normalize batch)
//   - LevelFile: one span per processed file
//   - LevelDebug: everything, including cache lookups
//
// # Context Propagation
//
// The active Tracer travels in context.Context; FromContext returns Nop when
// none is attached, so callers never need a nil check.
package trace
