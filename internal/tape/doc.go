// Package tape implements the memory model of the tape machine: a linear,
// dynamically growable array of byte cells with a movable cursor, plus the
// line-buffered input stager that feeds bytes into cells.
//
// ARCHITECTURE:
//
// Growth policy:
// Capacity is always a power of two and always strictly greater than the
// cursor. Rightward movement past the end reallocates to the next power of
// two that fits, zero-fills exactly the new region, and preserves every
// previously written byte. Capacity never shrinks.
//
// Scan termination:
// Rightward scans stop on the first zero cell. Because freshly grown cells
// read as zero, a scan that steps into unallocated territory terminates on
// its first step there - growth happens at most once per scan. Leftward
// scans never grow and fail explicitly when a step would cross index 0.
//
// Input staging:
// The InputStager reads one line at a time from its stream and serves bytes
// one at a time into whatever cell it is handed. It knows nothing about
// tape capacity or growth; callers pass the already-resident target cell.
//
// Thread-safety: none. The tape and stager are unsynchronized mutable state
// owned by a single machine instance, matching the engine's single-threaded
// execution model.
package tape
