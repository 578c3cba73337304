package record

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
)

const bytesPerSample = 4

// MalgoOpener opens float32 capture streams on the default input device.
// The miniaudio context is created on first use and shared by every stream
// until Close.
type MalgoOpener struct {
	mu  sync.Mutex
	ctx *malgo.AllocatedContext
}

// NewMalgoOpener returns an opener that creates its context lazily.
func NewMalgoOpener() *MalgoOpener {
	return &MalgoOpener{}
}

func (o *MalgoOpener) context() (*malgo.AllocatedContext, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ctx != nil {
		return o.ctx, nil
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("record: create audio context: %w", err)
	}
	o.ctx = ctx
	return ctx, nil
}

// OpenCapture implements StreamOpener.
func (o *MalgoOpener) OpenCapture(sampleRate, channels, blockSize int, capture CaptureFunc) (Stream, error) {
	if sampleRate <= 0 || channels <= 0 || blockSize <= 0 {
		return nil, fmt.Errorf("record: invalid capture format %d Hz / %d ch / %d frames", sampleRate, channels, blockSize)
	}

	ctx, err := o.context()
	if err != nil {
		return nil, err
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatF32
	cfg.Capture.Channels = uint32(channels)
	cfg.SampleRate = uint32(sampleRate)
	cfg.PeriodSizeInFrames = uint32(blockSize)
	cfg.Alsa.NoMMap = 1

	d := newBlockDecoder(capture, blockSize*channels)
	dev, err := malgo.InitDevice(ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: func(_, in []byte, _ uint32) { d.decode(in) },
	})
	if err != nil {
		return nil, fmt.Errorf("record: open capture device: %w", err)
	}

	return &malgoStream{device: dev}, nil
}

// Close releases the shared context. Streams must be closed first.
func (o *MalgoOpener) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.ctx == nil {
		return nil
	}
	err := o.ctx.Uninit()
	o.ctx.Free()
	o.ctx = nil
	return err
}

type malgoStream struct {
	device *malgo.Device
}

func (s *malgoStream) Start() error {
	return s.device.Start()
}

func (s *malgoStream) Close() error {
	err := s.device.Stop()
	s.device.Uninit()
	return err
}

// blockDecoder turns little-endian float32 bytes into samples for a
// CaptureFunc. buf grows if the device delivers more than one period.
type blockDecoder struct {
	capture CaptureFunc
	buf     []float32
}

func newBlockDecoder(capture CaptureFunc, size int) *blockDecoder {
	return &blockDecoder{capture: capture, buf: make([]float32, size)}
}

func (d *blockDecoder) decode(p []byte) {
	n := len(p) / bytesPerSample
	if n == 0 {
		return
	}
	if cap(d.buf) < n {
		d.buf = make([]float32, n)
	}
	out := d.buf[:n]
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[i*bytesPerSample:]))
	}
	d.capture(out)
}
