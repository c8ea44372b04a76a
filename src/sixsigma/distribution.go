// Package sixsigma evaluates process-quality samples using the Six Sigma
// approach: a defect rate derived from test/fail counts is mapped through the
// inverse CDF of a shifted normal distribution to a sigma value, which is
// classified into an ordered set of quality tiers.
//
// Design notes:
//   - The reference distribution N(mu=Loc, sigma=1) is fixed at startup and
//     never mutated, so all functions here are safe for concurrent use.
//   - defect_rate=0 and defect_rate=1 are legitimate inputs: the quantile is
//     +Inf / -Inf respectively, never an error. Downstream consumers clamp
//     (chart fill) or substitute sentinels (JSON transport) as needed.
package sixsigma

import "gonum.org/v1/gonum/stat/distuv"

// Loc is the location (mu) of the reference normal distribution.
const Loc = 1.5

// reference is the fixed normal continuous random variable with unit scale.
var reference = distuv.Normal{Mu: Loc, Sigma: 1}

// Quantile is the percent-point function (inverse CDF) of the reference
// distribution. Quantile(0) is -Inf and Quantile(1) is +Inf; both are the
// exact mathematical limits, not errors.
func Quantile(p float64) float64 {
	return reference.Quantile(p)
}

// PDF returns the probability density of the reference distribution at x.
func PDF(x float64) float64 {
	return reference.Prob(x)
}
