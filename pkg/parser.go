package roll

import (
	"fmt"
	"strconv"
	"strings"
)

// maxNestingDepth bounds parser recursion so a pathological run of
// parentheses cannot exhaust the stack.
const maxNestingDepth = 512

// Parse turns a dice-notation string into its syntax tree. The input is
// trimmed of surrounding whitespace first. Parsing performs no semantic
// validation; range checks happen during evaluation.
func Parse(input string) (Expr, error) {
	toks, err := NewLexer(strings.TrimSpace(input)).Run()
	if err != nil {
		return nil, err
	}

	p := &Parser{toks: toks}
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Typ != TokenEOF {
		return nil, p.errorf(tok, "unexpected %q", tok.Value)
	}

	return expr, nil
}

// Parser is a recursive-descent parser over the token slice, one method
// per grammar rule.
type Parser struct {
	toks  []Token
	pos   int
	depth int
}

func (p *Parser) peek() Token {
	return p.toks[p.pos]
}

// peekAt looks n tokens past the current one without consuming.
func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.pos+n]
}

func (p *Parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Typ != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

func (p *Parser) errorf(tok Token, format string, args ...any) error {
	return &ParseError{Pos: tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

// expression := term (("+"|"-") term)*
func (p *Parser) expression() (Expr, error) {
	lhs, err := p.term()
	if err != nil {
		return nil, err
	}

	for {
		var op Op
		switch p.peek().Typ {
		case TokenPlus:
			op = OpAdd
		case TokenMinus:
			op = OpSub
		default:
			return lhs, nil
		}

		p.next()
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
	}
}

// term := factor (("*"|"/"|"%") factor)*
func (p *Parser) term() (Expr, error) {
	lhs, err := p.factor()
	if err != nil {
		return nil, err
	}

	for {
		var op Op
		switch p.peek().Typ {
		case TokenStar:
			op = OpMul
		case TokenSlash:
			op = OpDiv
		case TokenPercent:
			op = OpMod
		default:
			return lhs, nil
		}

		p.next()
		rhs, err := p.factor()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
	}
}

// factor := diceRoll | integer | "(" expression ")"
//
// A dice roll is recognized before a plain integer or group, so "d4" and
// "3d4" bind to the roll rather than failing on the bare "d".
func (p *Parser) factor() (Expr, error) {
	switch tok := p.peek(); tok.Typ {
	case TokenMinus:
		p.next()
		f, err := p.factor()
		if err != nil {
			return nil, err
		}

		if n, ok := f.(*NumberExpr); ok {
			return &NumberExpr{Value: -n.Value}, nil
		}

		// Negating anything else multiplies it by -1.
		return &BinaryExpr{Op: OpMul, LHS: &NumberExpr{Value: -1}, RHS: f}, nil
	case TokenDie:
		return p.diceRoll(nil)
	case TokenNumber:
		n, err := p.number()
		if err != nil {
			return nil, err
		}

		if p.check(TokenDie) {
			return p.diceRoll(n)
		}

		return n, nil
	case TokenOpenParen:
		g, err := p.group()
		if err != nil {
			return nil, err
		}

		if p.check(TokenDie) {
			return p.diceRoll(g)
		}

		return g, nil
	default:
		return nil, p.errorf(tok, "expected expression, got %s", describe(tok))
	}
}

// diceRoll := rollExpr? "d" rollExpr keep? drop?
//
// count has already been parsed by the caller (nil when absent) and the
// current token is the "d".
func (p *Parser) diceRoll(count Expr) (Expr, error) {
	p.next()

	sides, err := p.rollExpr()
	if err != nil {
		return nil, err
	}

	dice := &DiceExpr{Count: count, Sides: sides}

	// keep := ("k"|"kh"|"kl") rollExpr
	if tok := p.peek(); (tok.Typ == TokenKeepHigh || tok.Typ == TokenKeepLow) && p.rollExprFollows(1) {
		p.next()

		amount, err := p.rollExpr()
		if err != nil {
			return nil, err
		}

		dir := High
		if tok.Typ == TokenKeepLow {
			dir = Low
		}

		dice.Keep = &FilterExpr{Dir: dir, Amount: amount}
	}

	// drop := ("d"|"dl"|"dh") rollExpr
	if tok := p.peek(); (tok.Typ == TokenDie || tok.Typ == TokenDropLow || tok.Typ == TokenDropHigh) && p.rollExprFollows(1) {
		p.next()

		amount, err := p.rollExpr()
		if err != nil {
			return nil, err
		}

		dir := Low
		if tok.Typ == TokenDropHigh {
			dir = High
		}

		dice.Drop = &FilterExpr{Dir: dir, Amount: amount}
	}

	return dice, nil
}

// rollExprFollows reports whether the token n past the current one can
// start a rollExpr. Keep and drop clauses only attach when their operand
// actually follows; otherwise the token is left for the caller, which
// reports it as trailing input.
func (p *Parser) rollExprFollows(n int) bool {
	typ := p.peekAt(n).Typ
	return typ == TokenNumber || typ == TokenOpenParen
}

// rollExpr := number | "(" expression ")"
func (p *Parser) rollExpr() (Expr, error) {
	switch tok := p.peek(); tok.Typ {
	case TokenNumber:
		return p.number()
	case TokenOpenParen:
		return p.group()
	default:
		return nil, p.errorf(tok, "expected a number or parenthesized expression, got %s", describe(tok))
	}
}

func (p *Parser) number() (Expr, error) {
	tok := p.next()
	v, err := strconv.Atoi(tok.Value)
	if err != nil {
		return nil, p.errorf(tok, "number %s out of range", tok.Value)
	}

	return &NumberExpr{Value: v}, nil
}

func (p *Parser) group() (Expr, error) {
	open := p.next()

	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxNestingDepth {
		return nil, p.errorf(open, "expression nested too deeply")
	}

	inner, err := p.expression()
	if err != nil {
		return nil, err
	}

	if tok := p.next(); tok.Typ != TokenCloseParen {
		return nil, p.errorf(tok, "expected closing parenthesis, got %s", describe(tok))
	}

	return &GroupExpr{Inner: inner}, nil
}

func describe(tok Token) string {
	if tok.Typ == TokenEOF {
		return "end of input"
	}

	return strconv.Quote(tok.Value)
}
