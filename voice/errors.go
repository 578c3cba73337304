package voice

import "errors"

var (
	// ErrEmptyInput is returned when Load receives no samples.
	ErrEmptyInput = errors.New("voice: empty input")
	// ErrInvalidChannels is returned for a channel count below 1.
	ErrInvalidChannels = errors.New("voice: invalid channel count")
	// ErrInvalidSampleRate is returned for a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("voice: invalid sample rate")
	// ErrAnalysisFailed wraps vocoder analysis failures.
	ErrAnalysisFailed = errors.New("voice: analysis failed")
	// ErrNoAudio is returned by Export when there is nothing to write.
	ErrNoAudio = errors.New("voice: no audio")
)
