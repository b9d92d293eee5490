package aeno

import (
	"math"

	"github.com/beorn7/floats"
)

// Epsilon is the default tolerance passed to Near
const Epsilon = 1e-9

// Near reports whether a and b agree within a relative eps, or within an
// absolute eps when either side is close to zero
func Near(a, b, eps float64) bool {
	return floats.AlmostEqual(a, b, eps) || math.Abs(a-b) < eps
}

func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

func Degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func ClampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
