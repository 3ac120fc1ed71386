package roll

import (
	"fmt"
	"unicode/utf8"
)

const eof rune = 0

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenDie      // "d"
	TokenKeepHigh // "k" or "kh"
	TokenKeepLow  // "kl"
	TokenDropHigh // "dh"
	TokenDropLow  // "dl"
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenOpenParen
	TokenCloseParen
)

var operatorTable = map[rune]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'%': TokenPercent,
	'(': TokenOpenParen,
	')': TokenCloseParen,
}

// Token is one lexical element of a dice expression. Pos is the byte
// offset of the token in the input.
type Token struct {
	Typ   TokenType
	Value string
	Pos   int
}

type stateFunc func(l *Lexer) stateFunc

// Lexer splits a dice-notation string into tokens. Space and tab are
// insignificant between tokens; any other unexpected rune is an error.
type Lexer struct {
	input string
	pos   int
	toks  []Token
	err   *ParseError
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Run tokenizes the whole input. On success the returned slice always
// ends with a TokenEOF entry.
func (l *Lexer) Run() ([]Token, error) {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	if l.err != nil {
		return nil, l.err
	}

	return l.toks, nil
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == eof:
			l.emit(TokenEOF, "", l.pos)
			return nil
		case r == ' ' || r == '\t':
			l.next()
		case '0' <= r && r <= '9':
			return numberState
		case r == 'd':
			return dieState
		case r == 'k':
			return keepState
		default:
			return operatorState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	start := l.pos
	for r := l.peek(); '0' <= r && r <= '9'; r = l.peek() {
		l.next()
	}

	return l.emit(TokenNumber, l.input[start:l.pos], start)
}

// dieState lexes "d", "dh" and "dl". A bare "d" doubles as the dice
// operator and the drop-low prefix; the parser decides by position.
func dieState(l *Lexer) stateFunc {
	start := l.pos
	l.next()

	switch l.peek() {
	case 'h':
		l.next()
		return l.emit(TokenDropHigh, "dh", start)
	case 'l':
		l.next()
		return l.emit(TokenDropLow, "dl", start)
	}

	return l.emit(TokenDie, "d", start)
}

// keepState lexes "k", "kh" and "kl". A bare "k" means keep-high.
func keepState(l *Lexer) stateFunc {
	start := l.pos
	l.next()

	switch l.peek() {
	case 'h':
		l.next()
		return l.emit(TokenKeepHigh, "kh", start)
	case 'l':
		l.next()
		return l.emit(TokenKeepLow, "kl", start)
	}

	return l.emit(TokenKeepHigh, "k", start)
}

func operatorState(l *Lexer) stateFunc {
	start := l.pos
	r := l.next()
	if tok, ok := operatorTable[r]; ok {
		return l.emit(tok, string(r), start)
	}

	return l.errorf(start, "invalid symbol %q", r)
}

func (l *Lexer) emit(t TokenType, val string, pos int) stateFunc {
	l.toks = append(l.toks, Token{Typ: t, Value: val, Pos: pos})
	return defaultState
}

func (l *Lexer) errorf(pos int, format string, args ...any) stateFunc {
	l.err = &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
	return nil
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return eof
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		return eof
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	return r
}
