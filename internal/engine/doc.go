// Package engine implements the tape machine interpreter.
//
// The engine is the driver the tape core assumes: it walks a compiled
// instruction tree and calls tape operations to move the cursor, mutate
// cells, and stage input bytes.
//
// ARCHITECTURE:
//
// Single-threaded execution:
// A Machine runs one program to completion on the calling goroutine. The
// tape, the input stager, and the run report are unsynchronized mutable
// state owned by the machine; nothing here is safe for concurrent use.
// The only suspension points are blocking reads inside Input instructions
// and cancellation checks at loop back-edges.
//
// Error model:
//   - Pointer underflow (leftward movement past cell 0) stops the run
//     with a structured RuntimeError; the tape reports it, the engine
//     decides it is fatal for the program.
//   - End of input is not an error: the configured EOFMode decides what
//     happens to the current cell, and execution continues.
//   - Step quota exhaustion stops the run with a RuntimeError, guarding
//     against non-terminating programs in tests and the harness.
//   - I/O failures on the output stream are wrapped and propagated.
//
// Every run is stamped with a run token (UUIDv7 in production, fixed
// sequences in tests) so recorded runs can be correlated later.
package engine
