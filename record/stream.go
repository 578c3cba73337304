package record

// CaptureFunc receives the next block of interleaved input frames. The
// slice is reused by the stream after the call returns.
type CaptureFunc func(in []float32)

// Stream is an open capture stream.
type Stream interface {
	Start() error
	Close() error
}

// StreamOpener opens float32 capture streams that call capture for every
// block of up to blockSize frames.
type StreamOpener interface {
	OpenCapture(sampleRate, channels, blockSize int, capture CaptureFunc) (Stream, error)
}
