package domain

// RemixStrength controls how aggressively a remix may depart from literal
// fidelity to its parents. Values are always clamped to [0, 1]; out-of-range
// input is a correction, not a rejection.
type RemixStrength float64

// DefaultRemixStrength is applied when a request omits the scalar.
const DefaultRemixStrength RemixStrength = 0.7

// ClampStrength maps any float onto the valid strength range.
func ClampStrength(v float64) RemixStrength {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return RemixStrength(v)
	}
}
