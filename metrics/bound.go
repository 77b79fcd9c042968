package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/YuminosukeSato/scitree/pkg/errors"
)

// exactBinomialLimit is the largest n for which combin.Binomial fits in an int.
const exactBinomialLimit = 60

// MajorityVoteError returns the probability that a strict majority of n
// independent voters, each wrong with probability p, is wrong:
//
//	Σ_{k > n/2} C(n, k) p^k (1-p)^(n-k)
//
// For even n an exact tie is not counted as an error.
func MajorityVoteError(n int, p float64) (float64, error) {
	if n < 1 {
		return 0, errors.NewConfigError("n", "must be >= 1", n)
	}
	if p < 0 || p > 1 || math.IsNaN(p) {
		return 0, errors.NewConfigError("p", "must be in [0, 1]", p)
	}

	total := 0.0
	for k := n/2 + 1; k <= n; k++ {
		total += binomial(n, k) * math.Pow(p, float64(k)) * math.Pow(1-p, float64(n-k))
	}
	return total, nil
}

func binomial(n, k int) float64 {
	if n <= exactBinomialLimit {
		return float64(combin.Binomial(n, k))
	}
	return combin.GeneralizedBinomial(float64(n), float64(k))
}
