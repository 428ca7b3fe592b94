package compiler

import (
	"fmt"
	"unicode/utf8"
)

// TokenKind identifies one of the eight command characters.
type TokenKind int

const (
	TokMoveRight TokenKind = iota // >
	TokMoveLeft                   // <
	TokIncrement                  // +
	TokDecrement                  // -
	TokOutput                     // .
	TokInput                      // ,
	TokLoopStart                  // [
	TokLoopEnd                    // ]
)

var tokenNames = [...]string{
	TokMoveRight: "MoveRight",
	TokMoveLeft:  "MoveLeft",
	TokIncrement: "Increment",
	TokDecrement: "Decrement",
	TokOutput:    "Output",
	TokInput:     "Input",
	TokLoopStart: "LoopStart",
	TokLoopEnd:   "LoopEnd",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// kindOf maps a command character to its token kind. Every other rune is
// a comment.
func kindOf(r rune) (TokenKind, bool) {
	switch r {
	case '>':
		return TokMoveRight, true
	case '<':
		return TokMoveLeft, true
	case '+':
		return TokIncrement, true
	case '-':
		return TokDecrement, true
	case '.':
		return TokOutput, true
	case ',':
		return TokInput, true
	case '[':
		return TokLoopStart, true
	case ']':
		return TokLoopEnd, true
	}
	return 0, false
}

// Pos is a 1-based source location.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a command character with its source location.
type Token struct {
	Kind TokenKind
	Pos  Pos
}

// Scanner walks source text and produces command tokens, skipping
// everything else while tracking line and column. Columns count runes,
// not bytes, so positions stay right in commented UTF-8 source.
type Scanner struct {
	src  string
	off  int
	line int
	col  int
}

// NewScanner creates a scanner over src positioned at 1:1.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src, line: 1, col: 1}
}

// Next returns the next command token. ok is false at end of source.
func (s *Scanner) Next() (tok Token, ok bool) {
	for s.off < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.off:])
		s.off += size

		if kind, isCmd := kindOf(r); isCmd {
			tok = Token{Kind: kind, Pos: Pos{Line: s.line, Col: s.col}}
			s.col++
			return tok, true
		}

		if r == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
	}
	return Token{}, false
}
