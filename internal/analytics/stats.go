package analytics

import "math"

// ResolutionRate is the share of handled cases an officer has resolved, as a
// percentage rounded to two decimals. Zero assignments means a zero rate, not
// a division error.
func ResolutionRate(resolved, assigned int64) float64 {
	if assigned <= 0 {
		return 0
	}
	rate := float64(resolved) / float64(assigned) * 100
	return math.Round(rate*100) / 100
}
