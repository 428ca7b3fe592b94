// Package ir defines the instruction set executed by the tape machine.
//
// This package contains type definitions and serialization only. All other
// internal packages import ir; ir imports nothing internal. This keeps the
// instruction set the foundational layer with no circular dependencies.
//
// Instructions form a tree: Loop and WithMultiplier carry nested bodies,
// everything else is a leaf with at most one integer argument. The compiler
// produces instruction slices; the engine walks them.
//
// Serialization constraints:
//   - Canonical JSON only for dumps and hashing (sorted keys, NFC strings)
//   - No floats anywhere - cell values and counts are integers
//   - All JSON tags use snake_case
package ir
