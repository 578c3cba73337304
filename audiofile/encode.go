package audiofile

import (
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth = 32
	fullScale   = 1<<(wavBitDepth-1) - 1
)

// WriteWAV writes mono samples as 32-bit integer PCM. Values outside
// [-1, 1] are clipped.
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	if len(samples) == 0 {
		return ErrEmpty
	}
	if sampleRate <= 0 {
		return fmt.Errorf("audiofile: invalid sample rate %d", sampleRate)
	}

	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = quantize(float64(v))
	}

	enc := wav.NewEncoder(w, sampleRate, wavBitDepth, 1, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audiofile: write WAV: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: finish WAV: %w", err)
	}

	return nil
}

// WriteWAVFile creates path and writes samples to it with WriteWAV.
func WriteWAVFile(path string, samples []float32, sampleRate int) (err error) {
	if len(samples) == 0 {
		return ErrEmpty
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: create: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("audiofile: close: %w", cerr)
		}
	}()

	return WriteWAV(f, samples, sampleRate)
}

func quantize(v float64) int {
	if v != v {
		return 0
	}
	v = math.Max(-1, math.Min(1, v))
	return int(math.Round(v * fullScale))
}
