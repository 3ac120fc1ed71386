package bot

import (
	"strconv"
	"strings"

	roll "github.com/zshift/tabletop-bot/pkg"
)

// FormatOutput renders an evaluation as Discord markdown: the total
// followed by every die in roll order, kept dice in bold. Dice-free
// expressions render as the bare total.
func FormatOutput(out roll.Output) string {
	if len(out.Rolls) == 0 {
		return strconv.Itoa(out.Total)
	}

	var b strings.Builder
	b.WriteString(strconv.Itoa(out.Total))
	b.WriteString(" [")
	for i, r := range out.Rolls {
		if i > 0 {
			b.WriteString(", ")
		}
		if r.Keep {
			b.WriteString("**")
			b.WriteString(strconv.Itoa(r.Result))
			b.WriteString("**")
		} else {
			b.WriteString(strconv.Itoa(r.Result))
		}
	}
	b.WriteString("]")

	return b.String()
}
