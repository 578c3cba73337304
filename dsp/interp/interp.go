package interp

import "sort"

// Linear2 computes 2-point linear interpolation between x0 and x1.
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// At reads data at a fractional index with linear interpolation.
// Positions outside [0, len-1] clamp to the first or last sample.
func At(data []float64, pos float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}

	if pos <= 0 {
		return data[0]
	}

	if pos >= float64(n-1) {
		return data[n-1]
	}

	i := int(pos)

	return Linear2(pos-float64(i), data[i], data[i+1])
}

// Linear evaluates the piecewise-linear function through (xp[i], fp[i]) at x.
// xp must be increasing. Values left of xp[0] return fp[0] and values right
// of the last point return the last fp.
func Linear(x float64, xp, fp []float64) float64 {
	n := len(xp)
	if n == 0 || len(fp) < n {
		return 0
	}

	if x <= xp[0] {
		return fp[0]
	}

	if x >= xp[n-1] {
		return fp[n-1]
	}

	j := sort.SearchFloat64s(xp, x)
	if xp[j] == x {
		return fp[j]
	}

	x0, x1 := xp[j-1], xp[j]
	if x1 == x0 {
		return fp[j]
	}

	return Linear2((x-x0)/(x1-x0), fp[j-1], fp[j])
}

// LinearInto evaluates Linear for every element of xs and writes to dst.
func LinearInto(dst, xs, xp, fp []float64) {
	for i := range dst {
		dst[i] = Linear(xs[i], xp, fp)
	}
}

// ResampleLinear stretches src to newLen samples by linear interpolation on
// evenly spaced positions from 0 to len(src)-1 inclusive.
func ResampleLinear(src []float64, newLen int) []float64 {
	if newLen <= 0 || len(src) == 0 {
		return nil
	}

	out := make([]float64, newLen)
	if newLen == 1 {
		out[0] = src[0]
		return out
	}

	step := float64(len(src)-1) / float64(newLen-1)
	for i := range out {
		out[i] = At(src, float64(i)*step)
	}

	return out
}

// ResampleRatio resamples src from srcRate to dstRate by linear
// interpolation. The output length is floor(len(src) * dstRate / srcRate).
func ResampleRatio(src []float64, srcRate, dstRate int) []float64 {
	if srcRate <= 0 || dstRate <= 0 {
		return nil
	}

	if srcRate == dstRate {
		return append([]float64(nil), src...)
	}

	return ResampleLinear(src, int(float64(len(src))*float64(dstRate)/float64(srcRate)))
}
