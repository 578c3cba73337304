package voice

import (
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/formant"
	"github.com/cwbudde/algo-voice/dsp/vocoder"
)

// processedCache is the single render slot. gen counts invalidations so a
// render started before a parameter change is never stored as valid.
type processedCache struct {
	mu    sync.Mutex
	buf   []float32
	valid bool
	gen   uint64
}

func (c *processedCache) get() ([]float32, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buf, c.gen, c.valid
}

func (c *processedCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
	c.buf = nil
	c.gen++
}

// store keeps buf if no invalidation happened since gen was read.
func (c *processedCache) store(buf []float32, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false
	}

	c.buf, c.valid = buf, true
	return true
}

// snapshot is the render input, copied out under paramMu.
type snapshot struct {
	params   Parameters
	bypass   bool
	original []float64
	analysis *vocoder.Analysis
}

// ProcessedAudio returns the transformed clip, rendering it first if a
// parameter changed since the last call. It returns an empty slice when no
// audio is loaded. Concurrent callers wait for a single render. The slice is
// shared and must not be modified.
func (e *Engine) ProcessedAudio() []float32 {
	if buf, _, ok := e.cache.get(); ok {
		return buf
	}

	e.renderMu.Lock()
	defer e.renderMu.Unlock()

	e.paramMu.RLock()
	buf, gen, ok := e.cache.get()
	snap := snapshot{
		params:   e.params,
		bypass:   e.bypass,
		original: e.original,
		analysis: e.analysis,
	}
	e.paramMu.RUnlock()

	if ok {
		return buf
	}

	start := time.Now()
	buf, err := e.render(snap)
	if err != nil {
		e.log.Error("render failed", "error", err)
		buf = []float32{}
	}
	e.renders.Add(1)

	stored := e.cache.store(buf, gen)
	e.log.Debug("rendered", "samples", len(buf), "elapsed", time.Since(start), "stored", stored)

	return buf
}

// Renders returns how many times the processed audio was recomputed.
func (e *Engine) Renders() int64 {
	return e.renders.Load()
}

func (e *Engine) render(s snapshot) (out []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("voice: render panic: %v", r)
		}
	}()

	if len(s.original) == 0 || s.analysis == nil {
		return []float32{}, nil
	}

	if s.bypass {
		return core.Float32(s.original), nil
	}

	a, err := transform(s.analysis, s.params)
	if err != nil {
		return nil, err
	}

	y, err := e.vocoder.Synthesize(a)
	if err != nil {
		return nil, fmt.Errorf("voice: synthesize: %w", err)
	}

	return core.Float32(y), nil
}

var unitRatios = FormantRatios{F1: 1, F2: 1, F3: 1}

// transform scales F0 and remaps the envelope of a. The aperiodicity grid is
// shared with a.
func transform(a *vocoder.Analysis, p Parameters) (*vocoder.Analysis, error) {
	f0 := make([]float64, len(a.F0))
	for i, f := range a.F0 {
		f0[i] = f * p.F0Ratio
	}

	env := a.Envelope
	var err error

	switch {
	case p.FormantLink:
		if p.Formants.F1 != 1 {
			env, err = formant.ShiftLinked(a.Envelope, p.Formants.F1)
		}
	case p.Formants != unitRatios:
		env, err = formant.ShiftIndependent(a.Envelope, a.SampleRate, p.Formants.Array())
	}
	if err != nil {
		return nil, fmt.Errorf("voice: formant shift: %w", err)
	}

	return a.WithF0(f0).WithEnvelope(env), nil
}
