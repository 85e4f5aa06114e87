// Command layoutdemo drives the solver through a small box-padding layout:
// a screen width/height and a padding are edit variables, and a single
// child box is kept inset from the screen edges by the padding amount.
// Resizing the screen or the padding mid-run shows the box geometry
// re-solving incrementally rather than from scratch.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tinylayout/cassowary"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	s := cassowary.NewSolver(cassowary.WithLogger(cassowary.NewZapLogger(logger)))

	screenWidth := s.NewVariable("screen_width")
	screenHeight := s.NewVariable("screen_height")
	padding := s.NewVariable("padding")

	x := s.NewVariable("x")
	y := s.NewVariable("y")
	width := s.NewVariable("width")
	height := s.NewVariable("height")

	must(s.AddEditVar(screenWidth, cassowary.StrongStrength))
	must(s.AddEditVar(screenHeight, cassowary.StrongStrength))
	must(s.AddEditVar(padding, cassowary.StrongStrength))

	must(s.BeginEdit())
	must(s.SuggestValue(screenWidth, 800))
	must(s.SuggestValue(screenHeight, 600))
	must(s.SuggestValue(padding, 20))
	must(s.Resolve())

	// x >= padding
	// x + width + padding <= screen_width
	// y >= padding
	// y + height + padding <= screen_height
	addRequired(s, cassowary.NewInequality(cassowary.NewLinearExpression(0, x.Term(1), padding.Term(-1))))
	addRequired(s, cassowary.NewInequality(cassowary.NewLinearExpression(0, x.Term(-1), width.Term(-1), padding.Term(-1), screenWidth.Term(1))))
	addRequired(s, cassowary.NewInequality(cassowary.NewLinearExpression(0, y.Term(1), padding.Term(-1))))
	addRequired(s, cassowary.NewInequality(cassowary.NewLinearExpression(0, y.Term(-1), height.Term(-1), padding.Term(-1), screenHeight.Term(1))))

	printBox("initial", x, y, width, height)

	must(s.SuggestValue(padding, 40))
	must(s.Resolve())
	printBox("padding widened to 40", x, y, width, height)

	must(s.SuggestValue(screenWidth, 1024))
	must(s.Resolve())
	printBox("screen widened to 1024", x, y, width, height)

	must(s.EndEdit())
}

func addRequired(s *cassowary.Solver, c cassowary.Constraint) {
	if _, err := s.AddConstraint(c); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printBox(label string, x, y, width, height *cassowary.Variable) {
	fmt.Printf("%-24s box = {x:%.1f y:%.1f w:%.1f h:%.1f}\n", label, x.Value(), y.Value(), width.Value(), height.Value())
}
