package voice

import (
	"errors"
	"sync"

	"github.com/cwbudde/algo-voice/dsp/vocoder"
)

const stubFFT = 16

// stubVocoder produces a constant 100 Hz analysis with a ramp envelope and
// synthesises a constant signal of F0[0]/1000. It records the last analysis
// it was asked to synthesise.
type stubVocoder struct {
	mu   sync.Mutex
	last *vocoder.Analysis

	fftSize      int // stubFFT when zero
	analyzeErr   error
	analyzePanic bool
	unvoiced     map[int]bool

	entered chan struct{}
	gate    chan struct{}
}

func (s *stubVocoder) Analyze(x []float64, sampleRate int) (*vocoder.Analysis, error) {
	if s.analyzePanic {
		panic("stub analysis panic")
	}
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	if len(x) == 0 {
		return nil, errors.New("stub: empty")
	}

	const period = 0.005
	frames := int(float64(len(x))/float64(sampleRate)/period+1e-9) + 1
	fft := stubFFT
	if s.fftSize > 0 {
		fft = s.fftSize
	}
	bins := fft/2 + 1

	a := &vocoder.Analysis{
		F0:           make([]float64, frames),
		Envelope:     make([][]float64, frames),
		Aperiodicity: make([][]float64, frames),
		TimeAxis:     make([]float64, frames),
		SampleRate:   sampleRate,
		FFTSize:      fft,
		FramePeriod:  period,
	}
	for i := range frames {
		if !s.unvoiced[i] {
			a.F0[i] = 100
		}
		a.TimeAxis[i] = float64(i) * period
		a.Envelope[i] = make([]float64, bins)
		a.Aperiodicity[i] = make([]float64, bins)
		for k := range bins {
			a.Envelope[i][k] = float64(k)
		}
	}

	return a, nil
}

func (s *stubVocoder) Synthesize(a *vocoder.Analysis) ([]float64, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}

	s.mu.Lock()
	s.last = a
	s.mu.Unlock()

	out := make([]float64, a.OutputLength())
	for i := range out {
		out[i] = a.F0[0] / 1000
	}
	return out, nil
}

func (s *stubVocoder) lastAnalysis() *vocoder.Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
