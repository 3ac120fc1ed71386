// Command roll evaluates a dice-notation expression and prints the
// result, e.g. "roll 3d20k2+5".
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/zshift/tabletop-bot/internal/bot"
	roll "github.com/zshift/tabletop-bot/pkg"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: roll <expression>")
		os.Exit(2)
	}

	expression := strings.Join(os.Args[1:], " ")
	out, err := roll.Eval(roll.DefaultSource(), expression)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roll: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(bot.FormatOutput(out))
}
