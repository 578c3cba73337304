package vocoder

import "errors"

var (
	// ErrEmptySignal is returned when analysis gets no samples.
	ErrEmptySignal = errors.New("vocoder: empty signal")
	// ErrInvalidSampleRate is returned for non-positive sample rates.
	ErrInvalidSampleRate = errors.New("vocoder: invalid sample rate")
	// ErrShapeMismatch is returned when the tracks of an Analysis disagree
	// in frame or bin count.
	ErrShapeMismatch = errors.New("vocoder: analysis shape mismatch")
)
