package playback

// RateLadder lists the playback rates CycleRate steps through.
var RateLadder = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0}

const rateEpsilon = 1e-6

// NextRate returns the ladder value after current, wrapping from the top
// back to the bottom. A rate between ladder steps moves to the next larger
// step.
func NextRate(current float64) float64 {
	for i, step := range RateLadder {
		if current < step-rateEpsilon {
			return step
		}
		if current <= step+rateEpsilon {
			return RateLadder[(i+1)%len(RateLadder)]
		}
	}
	return RateLadder[0]
}
