// Package roll evaluates tabletop dice-notation expressions, such as
// "3d20k2+5" or "1d(4+2)*3", into a total plus a breakdown of every die
// rolled and whether it was kept.
//
// The grammar, from lowest to highest precedence:
//
//	Expression := Term (("+"|"-") Term)*
//	Term       := Factor (("*"|"/"|"%") Factor)*
//	Factor     := DiceRoll | Integer | "(" Expression ")"
//	DiceRoll   := RollExpr? "d" RollExpr Keep? Drop?
//	RollExpr   := Number | "(" Expression ")"
//	Keep       := "kl" RollExpr | ("k"|"kh") RollExpr
//	Drop       := "dh" RollExpr | ("d"|"dl") RollExpr
//	Integer    := "-"? Number
//	Number     := digit+
//
// Space and tab are insignificant between tokens. Keep marks everything
// but the highest (or lowest) dice as discarded; drop marks the lowest
// (or highest) as discarded after keep has run.
package roll

// Eval parses expression and evaluates it, drawing dice from src. The
// returned error is either a *ParseError or one of the semantic
// sentinels (ErrInvalidCount, ErrDivideByZero, ...).
func Eval(src Source, expression string) (Output, error) {
	expr, err := Parse(expression)
	if err != nil {
		return Output{}, err
	}

	return Evaluate(src, expr)
}
