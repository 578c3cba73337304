package voice

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-voice/audiofile"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/interp"
	"github.com/cwbudde/algo-voice/dsp/vocoder"
)

// Load replaces the current clip. samples are interleaved with the given
// channel count at sourceRate; they are averaged to mono, resampled to the
// working rate and analysed. On error the previous clip stays loaded.
func (e *Engine) Load(samples []float64, channels, sourceRate int) error {
	if err := e.load(samples, channels, sourceRate); err != nil {
		e.log.Error("load failed", "error", err)
		return err
	}
	return nil
}

// LoadFile decodes path with audiofile.Read and loads it.
func (e *Engine) LoadFile(path string) error {
	clip, err := audiofile.Read(path)
	if err != nil {
		e.log.Error("load failed", "file", path, "error", err)
		return fmt.Errorf("voice: load %s: %w", path, err)
	}

	return e.Load(clip.Samples, clip.Channels, clip.SampleRate)
}

func (e *Engine) load(samples []float64, channels, sourceRate int) error {
	if channels < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if sourceRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sourceRate)
	}

	mono := core.Downmix(samples, channels)
	if sourceRate != e.sampleRate {
		mono = interp.ResampleRatio(mono, sourceRate, e.sampleRate)
	}
	if len(mono) == 0 {
		return ErrEmptyInput
	}

	start := time.Now()
	a, err := e.analyze(mono)
	if err != nil {
		return err
	}

	e.paramMu.Lock()
	e.original, e.analysis = mono, a
	e.invalidateLocked()
	e.paramMu.Unlock()

	e.log.Info("loaded",
		"samples", len(mono),
		"rate", e.sampleRate,
		"frames", a.Frames(),
		"voiced", fmt.Sprintf("%.0f%%", 100*a.VoicedRatio()),
		"elapsed", time.Since(start))

	return nil
}

func (e *Engine) analyze(x []float64) (a *vocoder.Analysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			a, err = nil, fmt.Errorf("%w: panic: %v", ErrAnalysisFailed, r)
		}
	}()

	a, err = e.vocoder.Analyze(x, e.sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: no result", ErrAnalysisFailed)
	}

	return a, nil
}
