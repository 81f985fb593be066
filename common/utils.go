package common

// Clamp restricts v to the closed range [lo, hi].
func Clamp[T ~float32 | ~float64 | ~int](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
