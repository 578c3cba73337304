package vocoder

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-voice/dsp/interp"
	timestats "github.com/cwbudde/algo-voice/stats/time"
)

// Synthesize renders the waveform described by a. The output has
// a.OutputLength() samples and its RMS is matched to a.RMS.
func (v *Vocoder) Synthesize(a *Analysis) ([]float64, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	s, err := newSynthesizer(a, v.cfg.seed)
	if err != nil {
		return nil, err
	}

	out, err := s.render()
	if err != nil {
		return nil, err
	}

	if a.RMS > 0 {
		timestats.MatchRMS(out, a.RMS, maxOutputGain)
	}

	return out, nil
}

type synthesizer struct {
	a    *Analysis
	fs   float64
	n    int
	rng  *rand.Rand
	mp   *minPhase
	plan plans

	env      []float64
	ap       []float64
	periodic []float64
	noisy    []float64

	perSpec   []complex128
	noiseSpec []complex128
	noise     []complex128
	response  []complex128
}

func newSynthesizer(a *Analysis, seed int64) (*synthesizer, error) {
	p := plans{}
	n := a.FFTSize

	mp, err := newMinPhase(p, n)
	if err != nil {
		return nil, err
	}

	bins := a.Bins()

	return &synthesizer{
		a:         a,
		fs:        float64(a.SampleRate),
		n:         n,
		rng:       rand.New(rand.NewSource(seed)),
		mp:        mp,
		plan:      p,
		env:       make([]float64, bins),
		ap:        make([]float64, bins),
		periodic:  make([]float64, bins),
		noisy:     make([]float64, bins),
		perSpec:   make([]complex128, n),
		noiseSpec: make([]complex128, n),
		noise:     make([]complex128, n),
		response:  make([]complex128, n),
	}, nil
}

// render walks the output sample by sample, emitting a pulse whenever the
// accumulated phase of the local F0 completes a cycle.
func (s *synthesizer) render() ([]float64, error) {
	length := s.a.OutputLength()
	out := make([]float64, length)

	phase := 1.0
	for p := 0; p < length; p++ {
		pos := float64(p) / s.fs / s.a.FramePeriod
		f0, voiced := s.f0At(pos)
		if !voiced {
			f0 = defaultUnvoicedF0
		}

		phase += f0 / s.fs
		if phase < 1 {
			continue
		}
		phase -= math.Floor(phase)

		if err := s.pulse(out, p, pos, f0, voiced); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// f0At interpolates F0 between the frames around the fractional frame
// position pos. Across a voicing boundary the nearer frame decides.
func (s *synthesizer) f0At(pos float64) (float64, bool) {
	f0 := s.a.F0
	last := len(f0) - 1

	i0 := min(int(pos), last)
	i1 := min(i0+1, last)
	frac := pos - float64(i0)

	a, b := f0[i0], f0[i1]
	switch {
	case a > 0 && b > 0:
		return interp.Linear2(frac, a, b), true
	case frac < 0.5:
		return a, a > 0
	default:
		return b, b > 0
	}
}

// frameAt linearly interpolates a spectral grid at frame position pos.
func frameAt(dst []float64, grid [][]float64, pos float64) {
	last := len(grid) - 1
	i0 := min(int(pos), last)
	i1 := min(i0+1, last)
	frac := pos - float64(i0)

	a, b := grid[i0], grid[i1]
	for k := range dst {
		dst[k] = interp.Linear2(frac, a[k], b[k])
	}
}

// pulse overlap-adds one pitch period at sample p: a minimum-phase impulse
// response for the periodic part plus a period of shaped noise.
func (s *synthesizer) pulse(out []float64, p int, pos, f0 float64, voiced bool) error {
	frameAt(s.env, s.a.Envelope, pos)
	frameAt(s.ap, s.a.Aperiodicity, pos)

	for k := range s.env {
		ap := math.Min(math.Max(s.ap[k], 0), 1)
		s.periodic[k] = s.env[k] * math.Sqrt(1-ap*ap)
		s.noisy[k] = s.env[k] * ap
	}

	for k := range s.response {
		s.response[k] = 0
	}

	if voiced {
		if err := s.mp.spectrum(s.periodic, s.perSpec); err != nil {
			return err
		}
		copy(s.response, s.perSpec)
	}

	if err := s.mp.spectrum(s.noisy, s.noiseSpec); err != nil {
		return err
	}

	// A period of unit-power noise scaled by 1/sqrt(T) carries the same
	// power per sample as one impulse per period.
	period := max(int(math.Round(s.fs/f0)), 1)
	scale := 1 / math.Sqrt(float64(period))
	for j := range s.noise {
		s.noise[j] = 0
		if j < period {
			s.noise[j] = complex(s.rng.NormFloat64()*scale, 0)
		}
	}

	plan, err := s.plan.get(s.n)
	if err != nil {
		return err
	}

	if err := plan.Forward(s.noise, s.noise); err != nil {
		return fmt.Errorf("vocoder: noise forward FFT: %w", err)
	}

	for k := range s.response {
		s.response[k] += s.noiseSpec[k] * s.noise[k]
	}
	// Drop DC.
	s.response[0] = 0

	if err := plan.Inverse(s.response, s.response); err != nil {
		return fmt.Errorf("vocoder: synthesis inverse FFT: %w", err)
	}

	for j := 0; j < s.n && p+j < len(out); j++ {
		out[p+j] += real(s.response[j])
	}

	return nil
}
