package stats

import "gonum.org/v1/gonum/stat/distuv"

// ZVal returns the two-tailed Z-value for a confidence level given in
// percent, e.g. 95 -> 1.96.
func ZVal(confidence float64) float64 {
	dist := distuv.UnitNormal
	return dist.Quantile((1 + confidence/100) / 2)
}

// Interval returns the half-width of the confidence interval around the
// mean of s.
func Interval(s *Statistic, confidence float64) float64 {
	return ZVal(confidence) * s.StandardError()
}
