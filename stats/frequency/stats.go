package frequency

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Stats holds shape descriptors of a one-sided magnitude spectrum or
// spectral envelope.
type Stats struct {
	BinCount int
	PeakFreq float64 // frequency of the largest bin (Hz)
	Centroid float64 // spectral centroid (Hz)
	Spread   float64 // spectral spread (Hz)
	Flatness float64 // spectral flatness (Wiener entropy), 0..1
	Rolloff  float64 // frequency below which 85% energy (Hz)
}

// binFreq returns the frequency in Hz of a given bin index.
// fftSize = 2 * (len(magnitude) - 1).
func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// Calculate computes the shape descriptors of a magnitude spectrum
// (linear scale, NOT dB) with bins from DC to Nyquist.
func Calculate(magnitude []float64, sampleRate float64) Stats {
	n := len(magnitude)
	if n < 2 {
		return Stats{BinCount: n}
	}

	peak := 0
	for i, v := range magnitude {
		if v > magnitude[peak] {
			peak = i
		}
	}

	sum := vecmath.Sum(magnitude)
	cent := centroid(magnitude, sampleRate, sum)

	return Stats{
		BinCount: n,
		PeakFreq: binFreq(peak, sampleRate, n),
		Centroid: cent,
		Spread:   spread(magnitude, sampleRate, cent, sum),
		Flatness: Flatness(magnitude),
		Rolloff:  Rolloff(magnitude, sampleRate, 0.85),
	}
}

// Centroid returns the spectral centroid in Hz.
//
//	centroid = sum(f_i * |X_i|) / sum(|X_i|)
func Centroid(magnitude []float64, sampleRate float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}
	return centroid(magnitude, sampleRate, vecmath.Sum(magnitude))
}

func centroid(magnitude []float64, sampleRate float64, sumMag float64) float64 {
	n := len(magnitude)
	if n < 2 || sumMag == 0 {
		return 0
	}
	weightedSum := 0.0
	for i, v := range magnitude {
		weightedSum += binFreq(i, sampleRate, n) * v
	}
	return weightedSum / sumMag
}

func spread(magnitude []float64, sampleRate float64, cent float64, sumMag float64) float64 {
	n := len(magnitude)
	if n < 2 || sumMag == 0 {
		return 0
	}
	weightedSqSum := 0.0
	for i, v := range magnitude {
		diff := binFreq(i, sampleRate, n) - cent
		weightedSqSum += diff * diff * v
	}
	return math.Sqrt(weightedSqSum / sumMag)
}

// Flatness returns the spectral flatness (Wiener entropy) in the range 0..1.
// The DC bin is excluded. Any zero bin yields 0.
func Flatness(magnitude []float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	sumLin := 0.0
	sumLog := 0.0

	for i := 1; i < n; i++ {
		v := magnitude[i]
		if v <= 0 {
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}

	bins := float64(n - 1)

	return math.Exp(sumLog/bins) / (sumLin / bins)
}

// Rolloff returns the frequency below which the specified fraction (0..1) of
// spectral energy lies.
func Rolloff(magnitude []float64, sampleRate float64, percent float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	total := vecmath.DotProduct(magnitude, magnitude)
	if total == 0 {
		return 0
	}

	threshold := percent * total
	cum := 0.0
	for i, v := range magnitude {
		cum += v * v
		if cum >= threshold {
			return binFreq(i, sampleRate, n)
		}
	}
	return binFreq(n-1, sampleRate, n)
}

// BandEnergy returns the summed squared magnitude of the bins whose centre
// frequency lies in [loHz, hiHz].
func BandEnergy(magnitude []float64, sampleRate, loHz, hiHz float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	e := 0.0
	for i, v := range magnitude {
		f := binFreq(i, sampleRate, n)
		if f >= loHz && f <= hiHz {
			e += v * v
		}
	}
	return e
}

// Mean averages equally sized frames bin by bin. Frames with a different
// length from the first are skipped.
func Mean(frames [][]float64) []float64 {
	if len(frames) == 0 {
		return nil
	}

	out := make([]float64, len(frames[0]))
	count := 0
	for _, f := range frames {
		if len(f) != len(out) {
			continue
		}
		vecmath.AddBlockInPlace(out, f)
		count++
	}

	if count > 0 {
		vecmath.ScaleBlockInPlace(out, 1/float64(count))
	}
	return out
}
