package record

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/algo-voice/audiofile"
	"github.com/cwbudde/algo-voice/internal/testutil"
	"github.com/cwbudde/algo-voice/voice"
)

func TestSaveDownmixesStereo(t *testing.T) {
	clip := &audiofile.Clip{
		Samples:    []float64{0.5, -0.5, 0.25, 0.75, -1, 0},
		Channels:   2,
		SampleRate: 8000,
	}
	path := filepath.Join(t.TempDir(), FileName(time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)))

	if err := Save(path, clip); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := audiofile.Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Channels != 1 || got.SampleRate != 8000 {
		t.Fatalf("saved clip = %d ch / %d Hz, want 1 ch / 8000 Hz", got.Channels, got.SampleRate)
	}
	testutil.RequireSliceNearlyEqual(t, got.Samples, []float64{0, 0.5, -0.5}, 1e-4)
}

func TestSaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	if err := Save(path, &audiofile.Clip{Channels: 1, SampleRate: 8000}); !errors.Is(err, ErrNoData) {
		t.Fatalf("Save() error = %v, want ErrNoData", err)
	}
}

func TestLoadClip(t *testing.T) {
	clip := &audiofile.Clip{Samples: []float64{0.1, 0.2, 0.3, 0.4}, Channels: 2, SampleRate: 48000}

	l := &fakeLoader{}
	if err := LoadClip(l, clip); err != nil {
		t.Fatalf("LoadClip() error = %v", err)
	}
	if l.channels != 2 || l.rate != 48000 || len(l.samples) != 4 {
		t.Fatalf("Load(%d samples, %d, %d), want (4, 2, 48000)", len(l.samples), l.channels, l.rate)
	}

	l.err = errors.New("rejected")
	if err := LoadClip(l, clip); !errors.Is(err, l.err) {
		t.Fatalf("LoadClip() error = %v, want loader error", err)
	}
	if err := LoadClip(l, nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("LoadClip(nil) error = %v, want ErrNoData", err)
	}
}

func TestRecordedTakeLoadsIntoEngine(t *testing.T) {
	o := &fakeOpener{}
	r := New(o, WithSampleRate(8000), WithBlockDuration(10*time.Millisecond), WithLogger(quietLogger()))
	if err := r.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	tone := testutil.DeterministicSine(220, 8000, 0.5, 800)
	for i := 0; i < len(tone); i += r.BlockSize() {
		block := make([]float32, r.BlockSize())
		for j := range block {
			block[j] = float32(tone[i+j])
		}
		o.deliver(block)
	}

	clip, err := r.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	e := voice.New(voice.WithSampleRate(8000), voice.WithLogger(quietLogger()))
	if err := LoadClip(e, clip); err != nil {
		t.Fatalf("LoadClip() error = %v", err)
	}
	if got := e.Duration(); got != 0.1 {
		t.Fatalf("Duration() = %v, want 0.1", got)
	}
	testutil.RequireSliceNearlyEqual(t, e.Original(), tone, 1e-6)
}

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC))
	if want := "recording_20240309_140507.wav"; got != want {
		t.Fatalf("FileName() = %q, want %q", got, want)
	}
}
