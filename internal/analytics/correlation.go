package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Pearson computes the Pearson correlation coefficient between xs and ys
// together with the two-sided p-value from the t-distribution with n-2
// degrees of freedom. At least three paired samples are required.
func Pearson(xs, ys []float64) (r, p float64, err error) {
	if len(xs) != len(ys) {
		return 0, 0, fmt.Errorf("mismatched sample lengths: %d vs %d", len(xs), len(ys))
	}
	n := len(xs)
	if n < 3 {
		return 0, 0, fmt.Errorf("need at least 3 samples for correlation, got %d", n)
	}

	r = stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0, 0, fmt.Errorf("correlation undefined (constant input series)")
	}

	// Guard against |r| == 1 blowing up the t statistic.
	if 1-r*r < 1e-15 {
		return r, 0, nil
	}
	t := r * math.Sqrt(float64(n-2)/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	p = 2 * dist.CDF(-math.Abs(t))
	return r, p, nil
}
