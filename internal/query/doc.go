// Package query describes filters over the run archive.
//
// A filter is a small predicate tree - equality tests, numeric lower
// bounds, and conjunctions - over the columns of the runs table. The tree
// is a sealed IR: construct it programmatically (the CLI builds it from
// flags), validate it against the known columns, and compile it to a
// parameterized SQL fragment.
//
// Two rules hold for every compiled filter:
//   - values are always parameterized, never interpolated
//   - column names only come from the package's allowlist
//
// so a filter can never smuggle SQL into the archive, and results stay
// deterministic because the store orders by run token.
package query
