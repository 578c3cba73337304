package playback

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	otoReadyTimeout = 5 * time.Second
	bytesPerSample  = 4
)

// OtoOpener opens mono float32 streams on the default output device. oto
// allows one context per process, so the first OpenStream fixes the sample
// rate for the opener's lifetime.
type OtoOpener struct {
	mu   sync.Mutex
	ctx  *oto.Context
	rate int
}

// NewOtoOpener returns an opener that creates its context lazily.
func NewOtoOpener() *OtoOpener {
	return &OtoOpener{}
}

func (o *OtoOpener) context(sampleRate, blockSize int) (*oto.Context, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ctx != nil {
		if o.rate != sampleRate {
			return nil, fmt.Errorf("playback: device already open at %d Hz, requested %d Hz", o.rate, sampleRate)
		}
		return o.ctx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(2*blockSize) * time.Second / time.Duration(sampleRate),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("playback: create audio context: %w", err)
	}

	select {
	case <-ready:
	case <-time.After(otoReadyTimeout):
		return nil, fmt.Errorf("playback: audio context not ready after %v", otoReadyTimeout)
	}

	o.ctx, o.rate = ctx, sampleRate
	return ctx, nil
}

// OpenStream implements StreamOpener.
func (o *OtoOpener) OpenStream(sampleRate, blockSize int, fill FillFunc) (Stream, error) {
	if sampleRate <= 0 || blockSize <= 0 {
		return nil, fmt.Errorf("playback: invalid stream format %d Hz / %d frames", sampleRate, blockSize)
	}

	ctx, err := o.context(sampleRate, blockSize)
	if err != nil {
		return nil, err
	}

	r := newBlockReader(fill, blockSize)
	p := ctx.NewPlayer(r)
	p.SetBufferSize(2 * blockSize * bytesPerSample)

	return &otoStream{player: p}, nil
}

type otoStream struct {
	player *oto.Player
}

func (s *otoStream) Start() error {
	s.player.Play()
	return s.player.Err()
}

func (s *otoStream) Pause() error {
	s.player.Pause()
	return nil
}

func (s *otoStream) Close() error {
	s.player.Pause()
	return s.player.Close()
}

// blockReader adapts a FillFunc to the io.Reader oto pulls from. cursor is
// the read index into the current block; a new block is rendered when it
// reaches the end.
type blockReader struct {
	fill   FillFunc
	block  []float32
	cursor int
}

func newBlockReader(fill FillFunc, blockSize int) *blockReader {
	return &blockReader{
		fill:   fill,
		block:  make([]float32, blockSize),
		cursor: blockSize,
	}
}

func (r *blockReader) Read(p []byte) (int, error) {
	n := 0
	for n+bytesPerSample <= len(p) {
		if r.cursor == len(r.block) {
			r.fill(r.block)
			r.cursor = 0
		}

		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(r.block[r.cursor]))
		r.cursor++
		n += bytesPerSample
	}

	return n, nil
}
