package audiofile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a container/codec.
type Format int

const (
	FormatUnknown Format = iota
	FormatWAV
	FormatAIFF
	FormatMP3
	FormatOgg
)

func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatAIFF:
		return "aiff"
	case FormatMP3:
		return "mp3"
	case FormatOgg:
		return "ogg"
	default:
		return "unknown"
	}
}

// FormatFromPath picks a Format from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return FormatWAV
	case ".aif", ".aiff":
		return FormatAIFF
	case ".mp3":
		return FormatMP3
	case ".ogg", ".oga":
		return FormatOgg
	default:
		return FormatUnknown
	}
}

// Clip is decoded interleaved PCM.
type Clip struct {
	Samples    []float64
	Channels   int
	SampleRate int
}

// Frames returns the number of sample frames.
func (c *Clip) Frames() int {
	if c.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(c.Frames()) / float64(c.SampleRate)
}

// Read decodes the file at path.
func Read(path string) (*Clip, error) {
	format := FormatFromPath(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: open: %w", err)
	}
	defer f.Close()

	clip, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %s: %w", filepath.Base(path), err)
	}

	return clip, nil
}

// Decode reads a whole stream of the given format.
func Decode(r io.ReadSeeker, format Format) (*Clip, error) {
	var (
		clip *Clip
		err  error
	)

	switch format {
	case FormatWAV:
		clip, err = decodeWAV(r)
	case FormatAIFF:
		clip, err = decodeAIFF(r)
	case FormatMP3:
		clip, err = decodeMP3(r)
	case FormatOgg:
		clip, err = decodeOgg(r)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if len(clip.Samples) == 0 || clip.Channels <= 0 {
		return nil, ErrEmpty
	}
	if clip.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidFile, clip.SampleRate)
	}

	return clip, nil
}
