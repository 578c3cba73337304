package record

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cwbudde/algo-voice/audiofile"
	"github.com/cwbudde/algo-voice/dsp/core"
	timestats "github.com/cwbudde/algo-voice/stats/time"
)

const (
	defaultSampleRate    = 44100
	defaultBlockDuration = 50 * time.Millisecond
	maxChannels          = 2
)

// State is the recorder state.
type State int

const (
	Idle State = iota
	Recording
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// LevelFunc receives the RMS level of each captured block in [0, 1].
type LevelFunc func(level float64)

// Option configures a Recorder.
type Option func(*config)

type config struct {
	sampleRate int
	channels   int
	block      time.Duration
	gain       float64
	level      LevelFunc
	logger     *log.Logger
}

func defaultConfig() config {
	return config{
		sampleRate: defaultSampleRate,
		channels:   1,
		block:      defaultBlockDuration,
		gain:       1,
	}
}

// WithSampleRate sets the capture rate in Hz.
func WithSampleRate(rate int) Option {
	return func(c *config) {
		if rate > 0 {
			c.sampleRate = rate
		}
	}
}

// WithChannels sets the capture channel count, 1 or 2.
func WithChannels(n int) Option {
	return func(c *config) {
		if n >= 1 && n <= maxChannels {
			c.channels = n
		}
	}
}

// WithBlockDuration sets the length of the blocks requested from the device.
func WithBlockDuration(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.block = d
		}
	}
}

// WithGain sets the linear input gain. Negative values are ignored.
func WithGain(g float64) Option {
	return func(c *config) {
		if g >= 0 {
			c.gain = g
		}
	}
}

// WithLevelFunc registers a level meter callback. It runs on the capture
// thread and must not block.
func WithLevelFunc(fn LevelFunc) Option {
	return func(c *config) { c.level = fn }
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Recorder captures interleaved float32 frames from a Stream.
//
// mu guards state, the captured samples and the last level; the capture
// callback holds it only while appending. ctrlMu serialises Start, Pause and
// Stop and guards the stream handle.
type Recorder struct {
	opener     StreamOpener
	sampleRate int
	channels   int
	blockSize  int
	gain       float64
	levelFn    LevelFunc
	log        *log.Logger

	mu      sync.Mutex
	state   State
	samples []float32
	level   float64
	scratch []float64

	ctrlMu sync.Mutex
	stream Stream
}

// New returns an idle Recorder.
func New(opener StreamOpener, opts ...Option) *Recorder {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = log.Default()
	}

	block := int(cfg.block * time.Duration(cfg.sampleRate) / time.Second)
	if block < 1 {
		block = 1
	}

	return &Recorder{
		opener:     opener,
		sampleRate: cfg.sampleRate,
		channels:   cfg.channels,
		blockSize:  block,
		gain:       cfg.gain,
		levelFn:    cfg.level,
		log:        cfg.logger,
	}
}

// SampleRate returns the capture rate in Hz.
func (r *Recorder) SampleRate() int { return r.sampleRate }

// Channels returns the capture channel count.
func (r *Recorder) Channels() int { return r.channels }

// BlockSize returns the frames per block requested from the device.
func (r *Recorder) BlockSize() int { return r.blockSize }

// State returns the current state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Level returns the RMS level of the last block captured while recording.
func (r *Recorder) Level() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.level
}

// Duration returns the captured length in seconds. Paused time is not
// counted because paused blocks are dropped.
func (r *Recorder) Duration() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return float64(len(r.samples)/r.channels) / float64(r.sampleRate)
}

// Start begins a new take, or resumes a paused one. It is a no-op while
// recording. On error the recorder stays idle.
func (r *Recorder) Start() error {
	r.ctrlMu.Lock()
	defer r.ctrlMu.Unlock()

	r.mu.Lock()
	switch r.state {
	case Recording:
		r.mu.Unlock()
		return nil
	case Paused:
		r.state = Recording
		r.mu.Unlock()
		r.log.Debug("recording resumed")
		return nil
	}
	r.samples = r.samples[:0]
	r.level = 0
	r.mu.Unlock()

	st, err := r.opener.OpenCapture(r.sampleRate, r.channels, r.blockSize, r.capture)
	if err != nil {
		r.log.Error("open capture failed", "error", err)
		return fmt.Errorf("%w: open: %w", ErrDevice, err)
	}

	// Mark recording before Start so the first block is kept.
	r.setState(Recording)
	if err := st.Start(); err != nil {
		r.setState(Idle)
		r.log.Error("start capture failed", "error", err)
		if cerr := st.Close(); cerr != nil {
			r.log.Warn("close capture failed", "error", cerr)
		}
		return fmt.Errorf("%w: start: %w", ErrDevice, err)
	}

	r.stream = st
	r.log.Debug("recording started", "rate", r.sampleRate, "channels", r.channels, "block", r.blockSize)
	return nil
}

// Pause stops keeping captured blocks without closing the stream. It
// reports whether the recorder was recording.
func (r *Recorder) Pause() bool {
	r.ctrlMu.Lock()
	defer r.ctrlMu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Recording {
		return false
	}
	r.state = Paused
	r.log.Debug("recording paused")
	return true
}

// Stop closes the stream and returns the take. ErrNotRecording is returned
// when idle and ErrNoData when the stream delivered nothing.
func (r *Recorder) Stop() (*audiofile.Clip, error) {
	r.ctrlMu.Lock()
	defer r.ctrlMu.Unlock()

	if r.stream == nil {
		return nil, ErrNotRecording
	}

	r.setState(Idle)
	if err := r.stream.Close(); err != nil {
		r.log.Warn("close capture failed", "error", err)
	}
	r.stream = nil

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.samples) == 0 {
		return nil, ErrNoData
	}

	clip := &audiofile.Clip{
		Samples:    core.Float64(r.samples),
		Channels:   r.channels,
		SampleRate: r.sampleRate,
	}
	r.samples = nil
	r.log.Info("recording stopped", "seconds", fmt.Sprintf("%.2f", clip.Duration()))
	return clip, nil
}

func (r *Recorder) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// capture runs on the device thread.
func (r *Recorder) capture(in []float32) {
	if len(in) == 0 {
		return
	}

	r.mu.Lock()
	if r.state != Recording {
		r.mu.Unlock()
		return
	}

	start := len(r.samples)
	r.samples = append(r.samples, in...)
	block := r.samples[start:]
	if r.gain != 1 {
		for i, v := range block {
			block[i] = v * float32(r.gain)
		}
	}

	r.scratch = core.EnsureLen(r.scratch, len(block))
	for i, v := range block {
		r.scratch[i] = float64(v)
	}
	level := min(timestats.RMS(r.scratch), 1)
	r.level = level
	fn := r.levelFn
	r.mu.Unlock()

	if fn != nil {
		fn(level)
	}
}
