package playback

// Source provides the audio a Scheduler plays.
type Source interface {
	// ProcessedAudio returns the current mono output buffer. It must not be
	// modified by the caller.
	ProcessedAudio() []float32
	// SampleRate returns the nominal rate of the buffer.
	SampleRate() int
	// Duration returns the original clip length in seconds.
	Duration() float64
}

// FillFunc renders the next block into out.
type FillFunc func(out []float32)

// Stream is an open output stream.
type Stream interface {
	Start() error
	Pause() error
	Close() error
}

// StreamOpener opens mono float32 output streams that call fill for every
// block of blockSize frames.
type StreamOpener interface {
	OpenStream(sampleRate, blockSize int, fill FillFunc) (Stream, error)
}
