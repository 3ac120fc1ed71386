package roll

import "sort"

// Evaluate walks the tree depth-first, drawing any needed dice from src.
// Sub-expressions evaluate left to right, so dice contribute to the
// output in the order they appear in the source text.
func Evaluate(src Source, expr Expr) (Output, error) {
	switch e := expr.(type) {
	case *NumberExpr:
		return Output{Total: e.Value}, nil
	case *GroupExpr:
		return Evaluate(src, e.Inner)
	case *BinaryExpr:
		left, err := Evaluate(src, e.LHS)
		if err != nil {
			return Output{}, err
		}

		right, err := Evaluate(src, e.RHS)
		if err != nil {
			return Output{}, err
		}

		return combine(left, right, e.Op)
	case *DiceExpr:
		return evalDice(src, e)
	default:
		// Not reachable from any parsed input.
		return Output{}, ErrInvalidExpression
	}
}

// evalDice rolls the dice and applies the keep and drop filters, in that
// order. Count, sides and filter operands contribute only their totals;
// Output.Rolls holds just the physical dice, in roll order.
func evalDice(src Source, e *DiceExpr) (Output, error) {
	count := 1
	if e.Count != nil {
		out, err := Evaluate(src, e.Count)
		if err != nil {
			return Output{}, err
		}
		if out.Total <= 0 {
			return Output{}, ErrInvalidCount
		}
		count = out.Total
	}

	out, err := Evaluate(src, e.Sides)
	if err != nil {
		return Output{}, err
	}
	if out.Total <= 1 {
		return Output{}, ErrInvalidSides
	}
	sides := out.Total

	rolls := rollDice(src, count, sides)

	if e.Keep != nil {
		out, err := Evaluate(src, e.Keep.Amount)
		if err != nil {
			return Output{}, err
		}
		if out.Total <= 0 {
			return Output{}, ErrInvalidKeep
		}
		applyKeep(rolls, e.Keep.Dir, out.Total)
	}

	if e.Drop != nil {
		out, err := Evaluate(src, e.Drop.Amount)
		if err != nil {
			return Output{}, err
		}
		if out.Total <= 0 {
			return Output{}, ErrInvalidDrop
		}
		applyDrop(rolls, e.Drop.Dir, out.Total)
	}

	total := 0
	for _, r := range rolls {
		if r.Keep {
			total += r.Result
		}
	}

	return Output{Rolls: rolls, Total: total}, nil
}

// rollDice draws count uniform results in [1, sides]. All dice start
// kept.
func rollDice(src Source, count, sides int) []Roll {
	rolls := make([]Roll, count)
	for i := range rolls {
		rolls[i] = Roll{Result: src.Intn(sides) + 1, Keep: true}
	}

	return rolls
}

// sortedIndex returns roll indices ordered by result, stable so ties
// preserve roll order. High puts the largest results first.
func sortedIndex(rolls []Roll, dir Direction) []int {
	idx := make([]int, len(rolls))
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		if dir == High {
			return rolls[idx[a]].Result > rolls[idx[b]].Result
		}
		return rolls[idx[a]].Result < rolls[idx[b]].Result
	})

	return idx
}

// applyKeep un-keeps every die beyond the first n in sorted order.
func applyKeep(rolls []Roll, dir Direction, n int) {
	idx := sortedIndex(rolls, dir)
	if n > len(idx) {
		return
	}

	for _, i := range idx[n:] {
		rolls[i].Keep = false
	}
}

// applyDrop un-keeps the first n dice in sorted order. The sort is by
// result alone, ignoring marks a preceding keep left behind, so drop can
// re-mark an already excluded die instead of one of keep's survivors.
func applyDrop(rolls []Roll, dir Direction, n int) {
	idx := sortedIndex(rolls, dir)
	if n > len(idx) {
		n = len(idx)
	}

	for _, i := range idx[:n] {
		rolls[i].Keep = false
	}
}
