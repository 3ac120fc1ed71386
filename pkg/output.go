package roll

// Roll is one physical die: its face value and whether it still counts
// toward the total. Result is always at least 1.
type Roll struct {
	Result int
	Keep   bool
}

// Output is the result of evaluating an expression: every die rolled, in
// roll order, plus the signed total. A fresh Output is produced by each
// evaluation.
type Output struct {
	Rolls []Roll
	Total int
}

// combine merges two evaluation results: rolls concatenate left to right
// and op applies to the totals. Division and modulo fail on a zero right
// total; the other operators are total.
func combine(left, right Output, op Op) (Output, error) {
	var total int
	switch op {
	case OpAdd:
		total = left.Total + right.Total
	case OpSub:
		total = left.Total - right.Total
	case OpMul:
		total = left.Total * right.Total
	case OpDiv:
		if right.Total == 0 {
			return Output{}, ErrDivideByZero
		}
		total = left.Total / right.Total
	case OpMod:
		if right.Total == 0 {
			return Output{}, ErrDivideByZero
		}
		total = left.Total % right.Total
	default:
		return Output{}, ErrInvalidExpression
	}

	rolls := left.Rolls
	if len(right.Rolls) > 0 {
		rolls = make([]Roll, 0, len(left.Rolls)+len(right.Rolls))
		rolls = append(rolls, left.Rolls...)
		rolls = append(rolls, right.Rolls...)
	}

	return Output{Rolls: rolls, Total: total}, nil
}
