package signal

import "math"

// resonator is a constant 0 dB peak gain bandpass biquad in transposed
// direct form II.
type resonator struct {
	b0, b2, a1, a2 float64
	d0, d1         float64
}

func newResonator(freq, q, sampleRate float64) *resonator {
	if freq <= 0 || freq >= sampleRate/2 || q <= 0 {
		return &resonator{}
	}

	w0 := 2 * math.Pi * freq / sampleRate
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha

	return &resonator{
		b0: alpha / a0,
		b2: -alpha / a0,
		a1: -2 * math.Cos(w0) / a0,
		a2: (1 - alpha) / a0,
	}
}

func (r *resonator) process(x float64) float64 {
	y := r.b0*x + r.d0
	r.d0 = -r.a1*y + r.d1
	r.d1 = r.b2*x - r.a2*y
	return y
}
