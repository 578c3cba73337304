package voice

import (
	"fmt"
	"io"

	"github.com/cwbudde/algo-voice/audiofile"
	"github.com/cwbudde/algo-voice/dsp/core"
)

// Export writes the processed or the original clip to path as a WAV file at
// the working sample rate.
func (e *Engine) Export(path string, processed bool) error {
	buf, err := e.exportBuffer(processed)
	if err != nil {
		return err
	}

	if err := audiofile.WriteWAVFile(path, buf, e.sampleRate); err != nil {
		e.log.Error("export failed", "file", path, "error", err)
		return fmt.Errorf("voice: export: %w", err)
	}

	e.log.Info("exported", "file", path, "samples", len(buf), "processed", processed)
	return nil
}

// ExportTo writes the processed or the original clip to w as WAV.
func (e *Engine) ExportTo(w io.WriteSeeker, processed bool) error {
	buf, err := e.exportBuffer(processed)
	if err != nil {
		return err
	}

	if err := audiofile.WriteWAV(w, buf, e.sampleRate); err != nil {
		return fmt.Errorf("voice: export: %w", err)
	}
	return nil
}

func (e *Engine) exportBuffer(processed bool) ([]float32, error) {
	var buf []float32
	if processed {
		buf = e.ProcessedAudio()
	} else {
		buf = core.Float32(e.Original())
	}

	if len(buf) == 0 {
		return nil, ErrNoAudio
	}
	return buf, nil
}
