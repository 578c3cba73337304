package record

import (
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

type fakeStream struct {
	mu      sync.Mutex
	started int
	closed  int
	failOn  string
}

func (s *fakeStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn == "start" {
		return errors.New("start failed")
	}
	s.started++
	return nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeStream) counts() (started, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started, s.closed
}

type fakeOpener struct {
	mu        sync.Mutex
	opened    int
	rate      int
	channels  int
	blockSize int
	capture   CaptureFunc
	stream    *fakeStream
	openErr   error
	failOn    string
}

func (o *fakeOpener) OpenCapture(sampleRate, channels, blockSize int, capture CaptureFunc) (Stream, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.openErr != nil {
		return nil, o.openErr
	}
	o.opened++
	o.rate, o.channels, o.blockSize = sampleRate, channels, blockSize
	o.capture = capture
	o.stream = &fakeStream{failOn: o.failOn}
	return o.stream, nil
}

// deliver feeds one block through the registered callback the way a device
// thread would, reusing the caller's buffer afterwards.
func (o *fakeOpener) deliver(block []float32) {
	o.mu.Lock()
	fn := o.capture
	o.mu.Unlock()
	buf := append([]float32(nil), block...)
	fn(buf)
	for i := range buf {
		buf[i] = 99
	}
}

type fakeLoader struct {
	samples  []float64
	channels int
	rate     int
	err      error
}

func (l *fakeLoader) Load(samples []float64, channels, sourceRate int) error {
	l.samples, l.channels, l.rate = samples, channels, sourceRate
	return l.err
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}
