// Package harness executes conformance scenarios against the interpreter.
//
// A scenario is a YAML file naming a program (inline source or a file),
// the bytes fed to its input stream, the machine configuration, and the
// expected outcome: output bytes on success, or an error category.
//
// Scenarios run on a fully wired Machine with a fixed run token, so
// results are deterministic and can be compared against golden snapshot
// files (testdata/golden/*.golden). Golden snapshots use canonical JSON;
// regenerate them with:
//
//	go test ./internal/harness -update
//
// Every scenario runs under a step quota so a broken program fails fast
// instead of hanging the test suite.
package harness
