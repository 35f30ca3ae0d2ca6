package analytics

import "math"

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ratio is n/d to one decimal, 0 when d is 0.
func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return round1(float64(n) / float64(d))
}

// percent is 100*n/d to one decimal, 0 when d is 0.
func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return round1(float64(n) * 100 / float64(d))
}
