package roll

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParser(t *testing.T) {
	cases := []struct {
		data   string
		expect Expr
	}{
		{
			"1",
			&NumberExpr{Value: 1},
		},
		{
			"-6",
			&NumberExpr{Value: -6},
		},
		{
			"d4",
			&DiceExpr{Sides: &NumberExpr{Value: 4}},
		},
		{
			"3d4k2",
			&DiceExpr{
				Count: &NumberExpr{Value: 3},
				Sides: &NumberExpr{Value: 4},
				Keep:  &FilterExpr{Dir: High, Amount: &NumberExpr{Value: 2}},
			},
		},
		{
			"4d6kl2",
			&DiceExpr{
				Count: &NumberExpr{Value: 4},
				Sides: &NumberExpr{Value: 6},
				Keep:  &FilterExpr{Dir: Low, Amount: &NumberExpr{Value: 2}},
			},
		},
		{
			"3d20k2d1",
			&DiceExpr{
				Count: &NumberExpr{Value: 3},
				Sides: &NumberExpr{Value: 20},
				Keep:  &FilterExpr{Dir: High, Amount: &NumberExpr{Value: 2}},
				Drop:  &FilterExpr{Dir: Low, Amount: &NumberExpr{Value: 1}},
			},
		},
		{
			"2d6dh1",
			&DiceExpr{
				Count: &NumberExpr{Value: 2},
				Sides: &NumberExpr{Value: 6},
				Drop:  &FilterExpr{Dir: High, Amount: &NumberExpr{Value: 1}},
			},
		},
		{
			"1 + 2 * 3",
			&BinaryExpr{
				Op:  OpAdd,
				LHS: &NumberExpr{Value: 1},
				RHS: &BinaryExpr{
					Op:  OpMul,
					LHS: &NumberExpr{Value: 2},
					RHS: &NumberExpr{Value: 3},
				},
			},
		},
		{
			// Same-precedence chains lean left.
			"1 - 2 + 3",
			&BinaryExpr{
				Op: OpAdd,
				LHS: &BinaryExpr{
					Op:  OpSub,
					LHS: &NumberExpr{Value: 1},
					RHS: &NumberExpr{Value: 2},
				},
				RHS: &NumberExpr{Value: 3},
			},
		},
		{
			"2 + -1",
			&BinaryExpr{
				Op:  OpAdd,
				LHS: &NumberExpr{Value: 2},
				RHS: &NumberExpr{Value: -1},
			},
		},
		{
			"-(1+3)",
			&BinaryExpr{
				Op:  OpMul,
				LHS: &NumberExpr{Value: -1},
				RHS: &GroupExpr{
					Inner: &BinaryExpr{
						Op:  OpAdd,
						LHS: &NumberExpr{Value: 1},
						RHS: &NumberExpr{Value: 3},
					},
				},
			},
		},
		{
			"1d(4 + 2)",
			&DiceExpr{
				Count: &NumberExpr{Value: 1},
				Sides: &GroupExpr{
					Inner: &BinaryExpr{
						Op:  OpAdd,
						LHS: &NumberExpr{Value: 4},
						RHS: &NumberExpr{Value: 2},
					},
				},
			},
		},
		{
			"(2)d6",
			&DiceExpr{
				Count: &GroupExpr{Inner: &NumberExpr{Value: 2}},
				Sides: &NumberExpr{Value: 6},
			},
		},
		{
			"1 + (2d4)",
			&BinaryExpr{
				Op:  OpAdd,
				LHS: &NumberExpr{Value: 1},
				RHS: &GroupExpr{
					Inner: &DiceExpr{
						Count: &NumberExpr{Value: 2},
						Sides: &NumberExpr{Value: 4},
					},
				},
			},
		},
		{
			"  1d20 \t",
			&DiceExpr{
				Count: &NumberExpr{Value: 1},
				Sides: &NumberExpr{Value: 20},
			},
		},
	}

	for _, c := range cases {
		expr, err := Parse(c.data)
		assert.NoError(t, err, c.data)
		assert.Equal(t, c.expect, expr, c.data)
	}
}

func TestParserErrors(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"1 +",
		"(1",
		"d",
		"3d",
		"1d6k",
		"@",
		"1 2",
		"6 //2",
		"1d6)",
	}

	for _, data := range cases {
		_, err := Parse(data)
		assert.Error(t, err, data)

		var perr *ParseError
		assert.ErrorAs(t, err, &perr, data)
	}
}

func TestParserTrailingInputPosition(t *testing.T) {
	_, err := Parse("1d6 kh")

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, 4, perr.Pos)
}

func TestParserNestingLimit(t *testing.T) {
	depth := maxNestingDepth + 1
	data := strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth)

	_, err := Parse(data)

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Msg, "nested too deeply")

	// One level below the limit still parses.
	depth = maxNestingDepth - 1
	data = strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth)
	_, err = Parse(data)
	assert.NoError(t, err)
}
