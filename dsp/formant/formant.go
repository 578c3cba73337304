package formant

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-voice/dsp/interp"
)

// ErrInvalidRatio is returned for ratios that are not finite and positive.
var ErrInvalidRatio = errors.New("formant: ratio must be finite and > 0")

// Band is a frequency range in Hz.
type Band struct {
	Lo, Hi float64
}

// Formant bands used by ShiftIndependent.
var (
	F1 = Band{Lo: 200, Hi: 1000}
	F2 = Band{Lo: 800, Hi: 2500}
	F3 = Band{Lo: 2000, Hi: 4000}
)

// Bands lists F1, F2 and F3 in order.
var Bands = [3]Band{F1, F2, F3}

const (
	minFadeBand = 10
	maxFade     = 5
)

func checkRatio(r float64) error {
	if !(r > 0) || math.IsInf(r, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRatio, r)
	}
	return nil
}

// ShiftFrame writes src remapped by ratio into dst. dst and src must have
// the same length and must not overlap.
func ShiftFrame(dst, src []float64, ratio float64) {
	for j := range dst {
		dst[j] = interp.At(src, float64(j)/ratio)
	}
}

// ShiftLinked returns a new envelope grid with every frame remapped by ratio.
func ShiftLinked(env [][]float64, ratio float64) ([][]float64, error) {
	if err := checkRatio(ratio); err != nil {
		return nil, err
	}

	out := make([][]float64, len(env))
	for i, row := range env {
		out[i] = make([]float64, len(row))
		ShiftFrame(out[i], row, ratio)
	}

	return out, nil
}

// Shifter remaps single frames band by band. The zero value is not usable;
// create one with NewShifter. A Shifter is not safe for concurrent use.
type Shifter struct {
	nyquist float64
	ratios  [3]float64

	sum   []float64
	count []int
}

// NewShifter returns a Shifter for envelopes spanning 0 Hz to nyquist with
// the given F1, F2 and F3 ratios.
func NewShifter(nyquist float64, ratios [3]float64) (*Shifter, error) {
	if !(nyquist > 0) {
		return nil, fmt.Errorf("formant: nyquist must be > 0: %v", nyquist)
	}
	for _, r := range ratios {
		if err := checkRatio(r); err != nil {
			return nil, err
		}
	}

	return &Shifter{nyquist: nyquist, ratios: ratios}, nil
}

// bandBins returns the first and last bin whose frequency lies in b. The
// bins are evenly spaced from 0 Hz to nyquist.
func bandBins(b Band, bins int, nyquist float64) (lo, hi int) {
	if bins < 2 {
		return 0, -1
	}

	df := nyquist / float64(bins-1)
	lo = int(math.Ceil(b.Lo/df - 1e-9))
	hi = int(math.Floor(b.Hi/df + 1e-9))
	lo = max(lo, 0)
	hi = min(hi, bins-1)

	return lo, hi
}

// fadeWeight is the weight of the shifted value at offset k of a band of
// length l, ramping linearly over the first and last fade bins.
func fadeWeight(k, l int) float64 {
	if l <= minFadeBand {
		return 1
	}

	fade := min(maxFade, l/4)
	w := 1.0

	if k < fade {
		w = ramp(k, fade)
	}
	if r := l - 1 - k; r < fade {
		w = math.Min(w, ramp(r, fade))
	}

	return w
}

// ramp is the k-th of n evenly spaced values from 0 to 1.
func ramp(k, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(k) / float64(n-1)
}

// Frame writes src with each band remapped by its own ratio into dst. A band
// is remapped on its own bin axis and reads only its own bins, clamping at
// its edges. Bins outside every band are copied unchanged.
func (s *Shifter) Frame(dst, src []float64) {
	n := len(src)
	if cap(s.sum) < n {
		s.sum = make([]float64, n)
		s.count = make([]int, n)
	}
	sum, count := s.sum[:n], s.count[:n]
	clear(sum)
	clear(count)

	for b, band := range Bands {
		lo, hi := bandBins(band, n, s.nyquist)
		l := hi - lo + 1
		if l <= 0 {
			continue
		}
		ratio := s.ratios[b]
		local := src[lo : hi+1]

		for j := lo; j <= hi; j++ {
			w := fadeWeight(j-lo, l)
			shifted := interp.At(local, float64(j-lo)/ratio)
			sum[j] += (1-w)*src[j] + w*shifted
			count[j]++
		}
	}

	for j := range dst[:n] {
		if count[j] == 0 {
			dst[j] = src[j]
			continue
		}
		dst[j] = sum[j] / float64(count[j])
	}
}

// ShiftIndependent returns a new envelope grid with the F1, F2 and F3 bands
// of every frame remapped by their own ratios. sampleRate fixes the band
// positions on the bin axis.
func ShiftIndependent(env [][]float64, sampleRate int, ratios [3]float64) ([][]float64, error) {
	s, err := NewShifter(float64(sampleRate)/2, ratios)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(env))
	for i, row := range env {
		out[i] = make([]float64, len(row))
		s.Frame(out[i], row)
	}

	return out, nil
}
