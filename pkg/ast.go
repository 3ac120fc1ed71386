package roll

// Expr is a node of a parsed dice expression. The set of implementations
// is closed: NumberExpr, GroupExpr, BinaryExpr and DiceExpr. Nodes are
// immutable once parsed.
type Expr interface {
	exprNode()
}

type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpMod Op = "%"
)

// NumberExpr is an integer literal. A leading minus sign is part of the
// literal, not a separate negation node.
type NumberExpr struct {
	Value int
}

// GroupExpr is a parenthesized sub-expression.
type GroupExpr struct {
	Inner Expr
}

// BinaryExpr applies Op to two operands. Chains of operators at the same
// precedence level parse into left-leaning trees, so operands evaluate
// left to right.
type BinaryExpr struct {
	Op  Op
	LHS Expr
	RHS Expr
}

// Direction selects which end of the result-sorted dice a keep or drop
// filter acts on.
type Direction int

const (
	High Direction = iota
	Low
)

// FilterExpr is a keep or drop clause attached to a dice roll. Amount is
// restricted by the grammar to a number or a parenthesized expression.
type FilterExpr struct {
	Dir    Direction
	Amount Expr
}

// DiceExpr rolls Count dice with Sides faces, then applies the optional
// Keep and Drop filters, in that order. A nil Count means one die.
type DiceExpr struct {
	Count Expr
	Sides Expr
	Keep  *FilterExpr
	Drop  *FilterExpr
}

func (*NumberExpr) exprNode() {}
func (*GroupExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*DiceExpr) exprNode()   {}
