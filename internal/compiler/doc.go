// Package compiler turns tape machine source text into executable
// instructions.
//
// The pipeline has three stages:
//
//	Scanner  - source text to tokens; everything that is not one of the
//	           eight command characters is a comment and is skipped
//	Parser   - tokens to an instruction tree; folds runs of repeated
//	           moves and cell changes into single instructions
//	Optimizer - optional loop rewriting: scans, cell clears, value moves
//	           and multiplication loops
//
// Parse errors carry source positions (line:column). The optimizer is
// purely structural - it never needs source positions and never fails.
package compiler
