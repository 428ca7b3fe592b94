package compiler

import (
	"fmt"

	"github.com/tburk/tapevm/internal/ir"
)

// ParseError reports a malformed program with the source position of the
// offending bracket.
type ParseError struct {
	Pos Pos
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Msg, e.Pos)
}

// Compile is the front door: it scans, parses, and - when optimize is set -
// optimizes src into an executable program.
func Compile(src string, optimize bool) ([]ir.Instruction, error) {
	program, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if optimize {
		program = Optimize(program)
	}
	return program, nil
}

// Parse builds the instruction tree for src.
//
// Runs of repeated moves fold into one instruction with the run length as
// its argument; runs of +/- fold with the amount wrapping modulo 256,
// matching single-byte cell semantics. Loop brackets must balance: a stray
// ] or an unclosed [ is a ParseError positioned at the bracket.
func Parse(src string) ([]ir.Instruction, error) {
	p := &parser{s: NewScanner(src)}
	program, err := p.sequence(nil)
	if err != nil {
		return nil, err
	}
	return program, nil
}

type parser struct {
	s      *Scanner
	peeked *Token
}

func (p *parser) next() (Token, bool) {
	if p.peeked != nil {
		tok := *p.peeked
		p.peeked = nil
		return tok, true
	}
	return p.s.Next()
}

// nextIf consumes and reports the next token only when it has the wanted
// kind. Drives run-length folding.
func (p *parser) nextIf(kind TokenKind) bool {
	if p.peeked == nil {
		tok, ok := p.s.Next()
		if !ok {
			return false
		}
		p.peeked = &tok
	}
	if p.peeked.Kind != kind {
		return false
	}
	p.peeked = nil
	return true
}

// sequence parses instructions until end of input, or until the matching ]
// when loopStart is set.
func (p *parser) sequence(loopStart *Pos) ([]ir.Instruction, error) {
	var out []ir.Instruction

	for {
		tok, ok := p.next()
		if !ok {
			if loopStart != nil {
				return nil, &ParseError{Pos: *loopStart, Msg: "expected loop end for start"}
			}
			return out, nil
		}

		switch tok.Kind {
		case TokMoveRight:
			out = append(out, ir.Instruction{Op: ir.OpMoveRight, Arg: p.runLength(TokMoveRight)})
		case TokMoveLeft:
			out = append(out, ir.Instruction{Op: ir.OpMoveLeft, Arg: p.runLength(TokMoveLeft)})
		case TokIncrement:
			out = append(out, ir.Instruction{Op: ir.OpIncrement, Arg: int(p.wrappingRunLength(TokIncrement))})
		case TokDecrement:
			out = append(out, ir.Instruction{Op: ir.OpDecrement, Arg: int(p.wrappingRunLength(TokDecrement))})
		case TokOutput:
			out = append(out, ir.Instruction{Op: ir.OpOutput})
		case TokInput:
			out = append(out, ir.Instruction{Op: ir.OpInput})
		case TokLoopStart:
			body, err := p.sequence(&tok.Pos)
			if err != nil {
				return nil, err
			}
			out = append(out, ir.Instruction{Op: ir.OpLoop, Body: body})
		case TokLoopEnd:
			if loopStart != nil {
				return out, nil
			}
			return nil, &ParseError{Pos: tok.Pos, Msg: "unexpected loop end"}
		}
	}
}

// runLength counts the remaining tokens of an already-consumed run.
func (p *parser) runLength(kind TokenKind) int {
	amount := 1
	for p.nextIf(kind) {
		amount++
	}
	return amount
}

// wrappingRunLength is runLength with modulo-256 wrap-around: 256 plusses
// in a row are a no-op on a byte cell.
func (p *parser) wrappingRunLength(kind TokenKind) uint8 {
	var amount uint8 = 1
	for p.nextIf(kind) {
		amount++
	}
	return amount
}
