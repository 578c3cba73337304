package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Stats holds time-domain signal statistics.
//
//nolint:revive
type Stats struct {
	Length         int
	Duration       float64 // seconds, zero when no sample rate is known
	DC             float64 // mean
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max |x|
	Peak_dB        float64
	CrestFactor    float64 // peak / RMS (linear)
	CrestFactor_dB float64
	ZeroCrossings  int
	Clipped        int // samples with |x| >= 1
}

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

func emptyStats() Stats {
	return Stats{
		RMS_dB:         math.Inf(-1),
		Peak_dB:        math.Inf(-1),
		CrestFactor_dB: math.Inf(-1),
	}
}

// Calculate computes the time-domain statistics of signal. sampleRate is
// only used for Duration and may be zero.
func Calculate(signal []float64, sampleRate float64) Stats {
	n := len(signal)
	if n == 0 {
		return emptyStats()
	}

	rms := RMS(signal)
	peak := Peak(signal)

	crest := 0.0
	if rms > 0 {
		crest = peak / rms
	}

	clipped := 0
	for _, x := range signal {
		if math.Abs(x) >= 1 {
			clipped++
		}
	}

	dur := 0.0
	if sampleRate > 0 {
		dur = float64(n) / sampleRate
	}

	return Stats{
		Length:         n,
		Duration:       dur,
		DC:             DC(signal),
		RMS:            rms,
		RMS_dB:         ampTodB(rms),
		Peak:           peak,
		Peak_dB:        ampTodB(peak),
		CrestFactor:    crest,
		CrestFactor_dB: ampTodB(crest),
		ZeroCrossings:  ZeroCrossings(signal),
		Clipped:        clipped,
	}
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(vecmath.DotProduct(signal, signal) / float64(len(signal)))
}

// DC returns the mean (DC offset) of the signal.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	// Use Kahan summation for numerical stability.
	var sum, c float64
	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(signal))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return vecmath.MaxAbs(signal)
}

// ZeroCrossings returns the number of zero crossings in the signal.
// A crossing is counted when consecutive samples have opposite signs.
func ZeroCrossings(signal []float64) int {
	if len(signal) < 2 {
		return 0
	}

	var count int

	for i := 1; i < len(signal); i++ {
		if signal[i-1]*signal[i] < 0 {
			count++
		}
	}

	return count
}

// MatchRMS scales signal in place so that its RMS equals target and returns
// the applied gain. The gain is limited to maxGain (ignored when <= 0) and a
// silent signal is left untouched with gain 1.
func MatchRMS(signal []float64, target, maxGain float64) float64 {
	cur := RMS(signal)
	if cur == 0 || target <= 0 {
		return 1
	}

	gain := target / cur
	if maxGain > 0 && gain > maxGain {
		gain = maxGain
	}

	vecmath.ScaleBlockInPlace(signal, gain)
	return gain
}

// ActiveRatio returns the fraction of non-overlapping frames of frameLen
// samples whose RMS exceeds threshold.
func ActiveRatio(signal []float64, frameLen int, threshold float64) float64 {
	if frameLen <= 0 || len(signal) < frameLen {
		return 0
	}

	frames := len(signal) / frameLen
	active := 0
	for i := 0; i < frames; i++ {
		if RMS(signal[i*frameLen:(i+1)*frameLen]) > threshold {
			active++
		}
	}

	return float64(active) / float64(frames)
}
