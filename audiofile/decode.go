package audiofile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

const (
	wavFormatPCM = 1
	readChunk    = 8192
)

func decodeWAV(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a WAV file", ErrInvalidFile)
	}

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: WAV audio format %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	depth := int(dec.BitDepth)
	clip := intClip(buf, depth, int(dec.SampleRate), int(dec.NumChans))

	// 8-bit WAV is unsigned.
	if depth == 8 {
		for i := range clip.Samples {
			clip.Samples[i] -= 1
		}
	}

	return clip, nil
}

func decodeAIFF(r io.ReadSeeker) (*Clip, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not an AIFF file", ErrInvalidFile)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	return intClip(buf, int(dec.BitDepth), dec.SampleRate, int(dec.NumChans)), nil
}

// intClip normalises integer PCM of the given bit depth.
func intClip(buf *goaudio.IntBuffer, depth, sampleRate, channels int) *Clip {
	if buf.Format != nil {
		if buf.Format.NumChannels > 0 {
			channels = buf.Format.NumChannels
		}
		if buf.Format.SampleRate > 0 {
			sampleRate = buf.Format.SampleRate
		}
	}
	if depth <= 0 {
		depth = 16
	}

	scale := 1 / float64(int64(1)<<(depth-1))
	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) * scale
	}

	return &Clip{Samples: samples, Channels: channels, SampleRate: sampleRate}
}

// go-mp3 always produces 16-bit little-endian stereo.
func decodeMP3(r io.Reader) (*Clip, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	var samples []float64
	if n := dec.Length(); n > 0 {
		samples = make([]float64, 0, n/2)
	}

	raw := make([]byte, readChunk)
	for {
		n, err := dec.Read(raw)
		for i := 0; i+1 < n; i += 2 {
			v := int16(binary.LittleEndian.Uint16(raw[i:]))
			samples = append(samples, float64(v)/32768)
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}
		if n == 0 {
			break
		}
	}

	return &Clip{Samples: samples, Channels: 2, SampleRate: dec.SampleRate()}, nil
}

func decodeOgg(r io.Reader) (*Clip, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	var samples []float64
	buf := make([]float32, readChunk)
	for {
		n, err := dec.Read(buf)
		for _, v := range buf[:n] {
			samples = append(samples, float64(v))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}
		if n == 0 {
			break
		}
	}

	return &Clip{Samples: samples, Channels: dec.Channels(), SampleRate: dec.SampleRate()}, nil
}
