package playback

import (
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/cwbudde/algo-voice/internal/testutil"
)

type fakeSource struct {
	mu       sync.Mutex
	buf      []float32
	rate     int
	duration float64
	panics   bool
}

func newRampSource(n, rate int) *fakeSource {
	return &fakeSource{buf: testutil.Ramp32(n), rate: rate, duration: float64(n) / float64(rate)}
}

func (f *fakeSource) ProcessedAudio() []float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("source failure")
	}
	return f.buf
}

func (f *fakeSource) SampleRate() int   { return f.rate }
func (f *fakeSource) Duration() float64 { return f.duration }

type fakeStream struct {
	mu      sync.Mutex
	started int
	paused  int
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

func (s *fakeStream) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused++
	return nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeStream) counts() (started, paused, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started, s.paused, s.closed
}

type fakeOpener struct {
	mu      sync.Mutex
	opened  int
	fill    FillFunc
	stream  *fakeStream
	openErr error
	failOn  string
}

func (o *fakeOpener) OpenStream(sampleRate, blockSize int, fill FillFunc) (Stream, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.openErr != nil {
		return nil, o.openErr
	}
	o.opened++
	o.fill = fill
	o.stream = &fakeStream{failOn: o.failOn}
	return o.stream, nil
}

func (o *fakeOpener) callback() FillFunc {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fill
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}
