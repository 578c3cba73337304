package playback

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/cwbudde/algo-voice/dsp/core"
)

const (
	defaultCrossfadeMs = 50
	maxCrossfadeMs     = 500
)

// Option configures a Scheduler.
type Option func(*config)

type config struct {
	blockSize   int
	logger      *log.Logger
	volume      float64
	loop        bool
	crossfadeMs float64
}

func defaultConfig() config {
	return config{
		blockSize:   core.DefaultBlockSize,
		volume:      1,
		loop:        true,
		crossfadeMs: defaultCrossfadeMs,
	}
}

// WithBlockSize sets the frames per Fill call requested from the stream.
func WithBlockSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.blockSize = n
		}
	}
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithVolume sets the initial volume, clamped to [0, 1].
func WithVolume(v float64) Option {
	return func(c *config) { c.volume = core.Clamp(v, 0, 1) }
}

// WithLoop sets whether playback loops initially.
func WithLoop(enabled bool) Option {
	return func(c *config) { c.loop = enabled }
}

// WithCrossfade sets the initial loop crossfade in milliseconds, clamped to
// [0, 500].
func WithCrossfade(ms float64) Option {
	return func(c *config) { c.crossfadeMs = core.Clamp(ms, 0, maxCrossfadeMs) }
}

// Scheduler plays a Source through a Stream.
//
// mu guards the position and loop fields and is held only while Fill updates
// them, never across a ProcessedAudio call. ctrlMu serialises Start, Stop,
// Pause and Resume and guards the stream handle.
type Scheduler struct {
	src       Source
	opener    StreamOpener
	blockSize int
	log       *log.Logger

	mu          sync.Mutex
	position    int
	loopStart   int
	loopEnd     int
	loopEnabled bool
	crossfadeMs float64
	volume      float64

	ctrlMu  sync.Mutex
	stream  Stream
	playing atomic.Bool
	session atomic.Uint64
}

// New returns a stopped Scheduler.
func New(src Source, opener StreamOpener, opts ...Option) *Scheduler {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = log.Default()
	}

	return &Scheduler{
		src:         src,
		opener:      opener,
		blockSize:   cfg.blockSize,
		log:         cfg.logger,
		loopEnabled: cfg.loop,
		crossfadeMs: cfg.crossfadeMs,
		volume:      cfg.volume,
	}
}

// BlockSize returns the frames per block requested from the stream.
func (s *Scheduler) BlockSize() int {
	return s.blockSize
}

// Start opens and starts a stream. It is a no-op while playing; a paused
// stream is resumed. On error nothing changes and IsPlaying stays false.
func (s *Scheduler) Start() error {
	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()

	if s.playing.Load() {
		return nil
	}
	if s.stream != nil {
		return s.resumeLocked()
	}

	sess := s.session.Add(1)
	fill := func(out []float32) {
		if s.fill(out) {
			go s.stopSession(sess)
		}
	}

	st, err := s.opener.OpenStream(s.src.SampleRate(), s.blockSize, fill)
	if err != nil {
		s.log.Error("open stream failed", "error", err)
		return fmt.Errorf("%w: open: %w", ErrDevice, err)
	}

	if err := st.Start(); err != nil {
		s.log.Error("start stream failed", "error", err)
		if cerr := st.Close(); cerr != nil {
			s.log.Warn("close stream failed", "error", cerr)
		}
		return fmt.Errorf("%w: start: %w", ErrDevice, err)
	}

	s.stream = st
	s.playing.Store(true)
	s.log.Debug("playback started", "rate", s.src.SampleRate(), "block", s.blockSize)

	return nil
}

// Stop closes the stream and rewinds to 0. It is a no-op when no stream is
// open.
func (s *Scheduler) Stop() {
	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()

	s.stopLocked()
}

func (s *Scheduler) stopSession(sess uint64) {
	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()

	if s.session.Load() != sess {
		return
	}
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.stream == nil {
		return
	}

	st := s.stream
	s.stream = nil
	s.playing.Store(false)
	s.session.Add(1)

	if err := st.Close(); err != nil {
		s.log.Warn("close stream failed", "error", err)
	}

	s.mu.Lock()
	s.position = 0
	s.mu.Unlock()

	s.log.Debug("playback stopped")
}

// Pause halts the stream and keeps the position.
func (s *Scheduler) Pause() {
	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()

	if s.stream == nil || !s.playing.Load() {
		return
	}

	if err := s.stream.Pause(); err != nil {
		s.log.Warn("pause stream failed", "error", err)
	}
	s.playing.Store(false)
}

// Resume restarts a paused stream from the kept position.
func (s *Scheduler) Resume() error {
	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()

	if s.stream == nil || s.playing.Load() {
		return nil
	}
	return s.resumeLocked()
}

func (s *Scheduler) resumeLocked() error {
	if err := s.stream.Start(); err != nil {
		s.log.Error("resume stream failed", "error", err)
		return fmt.Errorf("%w: resume: %w", ErrDevice, err)
	}
	s.playing.Store(true)
	return nil
}

// IsPlaying reports whether the stream is running.
func (s *Scheduler) IsPlaying() bool {
	return s.playing.Load()
}

// SetVolume sets the output gain, clamped to [0, 1].
func (s *Scheduler) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = core.Clamp(v, 0, 1)
}

// Volume returns the output gain.
func (s *Scheduler) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.volume
}

// SetLoop turns looping on or off.
func (s *Scheduler) SetLoop(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loopEnabled = enabled
}

// Loop reports whether looping is on.
func (s *Scheduler) Loop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loopEnabled
}

// SetLoopCrossfade sets the loop crossfade in milliseconds, clamped to
// [0, 500].
func (s *Scheduler) SetLoopCrossfade(ms float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.crossfadeMs = core.Clamp(ms, 0, maxCrossfadeMs)
}

// LoopCrossfade returns the loop crossfade in milliseconds.
func (s *Scheduler) LoopCrossfade() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.crossfadeMs
}

// effectiveRate converts between seconds and processed samples.
func (s *Scheduler) effectiveRate(length int) float64 {
	if d := s.src.Duration(); d > 0 && length > 0 {
		return float64(length) / d
	}
	return float64(s.src.SampleRate())
}

// EffectiveSampleRate returns processed length divided by the original
// duration, or the nominal rate when nothing is loaded.
func (s *Scheduler) EffectiveSampleRate() float64 {
	return s.effectiveRate(len(s.src.ProcessedAudio()))
}

// Position returns the play position in seconds.
func (s *Scheduler) Position() float64 {
	rate := s.EffectiveSampleRate()

	s.mu.Lock()
	defer s.mu.Unlock()

	return float64(s.position) / rate
}

// Seek moves the play position, clamped to the processed buffer.
func (s *Scheduler) Seek(sec float64) {
	length := len(s.src.ProcessedAudio())
	rate := s.effectiveRate(length)

	s.mu.Lock()
	defer s.mu.Unlock()

	if length == 0 {
		s.position = 0
		return
	}
	s.position = clampInt(sampleIndex(sec, rate, length), 0, length-1)
}

// SetLoopRegion sets the loop region in seconds. endSec <= 0 loops to the
// end of the audio. A region given backwards is swapped. Without audio the
// region is reset.
func (s *Scheduler) SetLoopRegion(startSec, endSec float64) {
	length := len(s.src.ProcessedAudio())
	rate := s.effectiveRate(length)

	s.mu.Lock()
	defer s.mu.Unlock()

	if length == 0 {
		s.loopStart, s.loopEnd = 0, 0
		return
	}

	start := sampleIndex(startSec, rate, length)
	end := 0
	if endSec > 0 {
		end = sampleIndex(endSec, rate, length)
	}

	if end > 0 && end < start {
		start, end = end, start
	}

	start = clampInt(start, 0, length-1)
	if end > 0 {
		end = max(start+1, min(end, length))
	}

	s.loopStart, s.loopEnd = start, end
}

// ClearLoopRegion loops the whole buffer.
func (s *Scheduler) ClearLoopRegion() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loopStart, s.loopEnd = 0, 0
}

// LoopRegion returns the loop region in seconds. An end of 0 means the end
// of the audio.
func (s *Scheduler) LoopRegion() (startSec, endSec float64) {
	length := len(s.src.ProcessedAudio())
	if length == 0 {
		return 0, 0
	}
	rate := s.effectiveRate(length)

	s.mu.Lock()
	defer s.mu.Unlock()

	startSec = float64(s.loopStart) / rate
	if s.loopEnd > 0 {
		endSec = float64(s.loopEnd) / rate
	}
	return startSec, endSec
}

// sampleIndex converts sec to a sample index in [0, length]. The clamp
// happens before the float to int conversion, so NaN, infinite and huge
// inputs saturate instead of wrapping.
func sampleIndex(sec, rate float64, length int) int {
	v := sec * rate
	if !(v > 0) {
		return 0
	}
	return int(min(v, float64(length)))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
