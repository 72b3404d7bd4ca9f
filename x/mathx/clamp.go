package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs for signed integers.
func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// Scale maps v in [0,inMax] onto [0,outMax] with integer maths, clamping v.
func Scale[T constraints.Integer](v, inMax, outMax T) T {
	if inMax <= 0 {
		return 0
	}
	v = Clamp(v, 0, inMax)
	return T(int64(v) * int64(outMax) / int64(inMax))
}
