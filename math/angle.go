package math

import "math"

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float32) float32 {
	return deg * math.Pi / 180
}

func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapDegrees maps any angle into [0, 360).
func WrapDegrees(deg float32) float32 {
	w := float32(math.Mod(float64(deg), 360))
	if w < 0 {
		w += 360
	}
	if w >= 360 {
		w -= 360
	}
	return w
}

// SignedDegrees maps any angle into [-180, 180).
func SignedDegrees(deg float32) float32 {
	return WrapDegrees(deg+180) - 180
}

// FloorDiv returns floor(v / size). Negative values round toward -inf,
// so -0.1 with size 10 lands in -1, not 0.
func FloorDiv(v, size float32) int {
	return int(math.Floor(float64(v) / float64(size)))
}
