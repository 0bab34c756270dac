package solve_test

import (
	"fmt"

	"github.com/cwbudde/algo-nitrate/nitrate/solve"
)

func ExampleSolver_Solve() {
	wl := []float64{230, 235, 240}
	eno3 := []float64{0.5, 0.2, 0.1}
	abs := make([]float64, len(wl))
	for i := range wl {
		abs[i] = 5*eno3[i] + 0.1 + 0.001*wl[i]
	}

	s, _ := solve.New(wl, eno3)
	res, _ := s.Solve(abs)
	fmt.Printf("no3=%.3f b=%.3f m=%.4f\n", res.Concentration, res.BaselineIntercept, res.BaselineSlope)

	// Output:
	// no3=5.000 b=0.100 m=0.0010
}
