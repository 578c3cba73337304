package record

import "errors"

var (
	// ErrDevice wraps failures to open or start a capture stream.
	ErrDevice = errors.New("record: audio device failure")
	// ErrNotRecording is returned by Stop when no stream is open.
	ErrNotRecording = errors.New("record: not recording")
	// ErrNoData is returned by Stop when nothing was captured.
	ErrNoData = errors.New("record: no audio captured")
)
