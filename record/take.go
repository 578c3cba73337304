package record

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-voice/audiofile"
	"github.com/cwbudde/algo-voice/dsp/core"
)

// Loader accepts interleaved PCM. *voice.Engine implements it.
type Loader interface {
	Load(samples []float64, channels, sourceRate int) error
}

// LoadClip hands a take to l.
func LoadClip(l Loader, clip *audiofile.Clip) error {
	if clip == nil || len(clip.Samples) == 0 {
		return ErrNoData
	}
	return l.Load(clip.Samples, clip.Channels, clip.SampleRate)
}

// Save writes a take to path as mono WAV. Multichannel takes are
// downmixed.
func Save(path string, clip *audiofile.Clip) error {
	if clip == nil || len(clip.Samples) == 0 {
		return ErrNoData
	}
	mono := core.Downmix(clip.Samples, clip.Channels)
	if err := audiofile.WriteWAVFile(path, core.Float32(mono), clip.SampleRate); err != nil {
		return fmt.Errorf("record: save: %w", err)
	}
	return nil
}

// FileName returns the default name for a take started at t.
func FileName(t time.Time) string {
	return "recording_" + t.Format("20060102_150405") + ".wav"
}
