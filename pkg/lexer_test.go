package roll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Token
	}{
		{
			"3d20k2+5",
			false,
			[]Token{
				{TokenNumber, "3", 0},
				{TokenDie, "d", 1},
				{TokenNumber, "20", 2},
				{TokenKeepHigh, "k", 4},
				{TokenNumber, "2", 5},
				{TokenPlus, "+", 6},
				{TokenNumber, "5", 7},
				{TokenEOF, "", 8},
			},
		},
		{
			"1 d4 kl2",
			false,
			[]Token{
				{TokenNumber, "1", 0},
				{TokenDie, "d", 2},
				{TokenNumber, "4", 3},
				{TokenKeepLow, "kl", 5},
				{TokenNumber, "2", 7},
				{TokenEOF, "", 8},
			},
		},
		{
			"2d6dh1",
			false,
			[]Token{
				{TokenNumber, "2", 0},
				{TokenDie, "d", 1},
				{TokenNumber, "6", 2},
				{TokenDropHigh, "dh", 3},
				{TokenNumber, "1", 5},
				{TokenEOF, "", 6},
			},
		},
		{
			"4d8dl1",
			false,
			[]Token{
				{TokenNumber, "4", 0},
				{TokenDie, "d", 1},
				{TokenNumber, "8", 2},
				{TokenDropLow, "dl", 3},
				{TokenNumber, "1", 5},
				{TokenEOF, "", 6},
			},
		},
		{
			"(1 + 3) * 5 % 2 / 1 - 4",
			false,
			[]Token{
				{TokenOpenParen, "(", 0},
				{TokenNumber, "1", 1},
				{TokenPlus, "+", 3},
				{TokenNumber, "3", 5},
				{TokenCloseParen, ")", 6},
				{TokenStar, "*", 8},
				{TokenNumber, "5", 10},
				{TokenPercent, "%", 12},
				{TokenNumber, "2", 14},
				{TokenSlash, "/", 16},
				{TokenNumber, "1", 18},
				{TokenMinus, "-", 20},
				{TokenNumber, "4", 22},
				{TokenEOF, "", 23},
			},
		},
		{
			"kh2",
			false,
			[]Token{
				{TokenKeepHigh, "kh", 0},
				{TokenNumber, "2", 2},
				{TokenEOF, "", 3},
			},
		},
		{
			"",
			false,
			[]Token{
				{TokenEOF, "", 0},
			},
		},
		{
			"2d6 & 1",
			true,
			nil,
		},
		{
			"1.5",
			true,
			nil,
		},
	}

	for _, c := range cases {
		toks, err := NewLexer(c.data).Run()
		if c.fail {
			assert.Error(t, err, c.data)
		} else {
			assert.NoError(t, err, c.data)
		}

		assert.Equal(t, c.expect, toks, c.data)
	}
}

func TestLexerErrorPosition(t *testing.T) {
	_, err := NewLexer("2d6 & 1").Run()

	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, 4, perr.Pos)
}
