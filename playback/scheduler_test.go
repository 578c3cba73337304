package playback

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-voice/internal/testutil"
)

func newTestScheduler(src Source, opts ...Option) (*Scheduler, *fakeOpener) {
	op := &fakeOpener{}
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(src, op, opts...), op
}

func ramp(from, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(from + i)
	}
	return out
}

func requireBlock(t *testing.T, got, want []float32) {
	t.Helper()
	testutil.RequireFinite32(t, got)
	testutil.RequireSlice32NearlyEqual(t, got, want, 1e-4)
}

func TestDefaults(t *testing.T) {
	s, _ := newTestScheduler(newRampSource(10, 1000))

	if !s.Loop() || s.Volume() != 1 || s.LoopCrossfade() != 50 || s.BlockSize() != 512 || s.IsPlaying() {
		t.Fatalf("unexpected defaults: loop=%v volume=%v crossfade=%v block=%d",
			s.Loop(), s.Volume(), s.LoopCrossfade(), s.BlockSize())
	}
}

func TestFillWithoutAudioIsSilent(t *testing.T) {
	s, _ := newTestScheduler(&fakeSource{rate: 1000})

	out := []float32{1, 2, 3}
	s.Fill(out)
	requireBlock(t, out, []float32{0, 0, 0})

	if s.Position() != 0 {
		t.Fatalf("Position() = %v, want 0", s.Position())
	}
}

func TestFillCopiesWithVolume(t *testing.T) {
	s, _ := newTestScheduler(newRampSource(100, 1000), WithVolume(0.5))

	out := make([]float32, 10)
	s.Fill(out)
	requireBlock(t, out, []float32{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5})

	s.Fill(out)
	if out[0] != 5 {
		t.Fatalf("second block out[0] = %v, want 5", out[0])
	}
}

func TestFillLoopRegionCrossfade(t *testing.T) {
	src := newRampSource(3000, 1000)
	s, _ := newTestScheduler(src)

	s.SetLoopRegion(1.0, 2.0)
	s.Seek(1.9505)

	out := make([]float32, 100)
	s.Fill(out)

	// 50 ms crossfade over the last 50 samples before the loop end.
	if out[0] != 1950 {
		t.Fatalf("out[0] = %v, want 1950", out[0])
	}
	if out[49] != 1049 {
		t.Fatalf("out[49] = %v, want 1049", out[49])
	}
	mid := float32(1975)*(1-25.0/49) + float32(1025)*(25.0/49)
	if math.Abs(float64(out[25]-mid)) > 1e-2 {
		t.Fatalf("out[25] = %v, want %v", out[25], mid)
	}

	requireBlock(t, out[50:], ramp(1000, 50))

	if got := s.Position(); math.Abs(got-1.05) > 1e-9 {
		t.Fatalf("Position() = %v, want 1.05", got)
	}
}

func TestFillLoopShorterThanBlock(t *testing.T) {
	src := newRampSource(100, 1000)
	s, _ := newTestScheduler(src, WithCrossfade(0))

	s.SetLoopRegion(0.0105, 0.0405)
	s.Seek(0.0305)

	out := make([]float32, 50)
	s.Fill(out)

	want := append(ramp(30, 10), ramp(10, 30)...)
	want = append(want, ramp(10, 10)...)
	requireBlock(t, out, want)

	if got := s.Position(); math.Abs(got-0.020) > 1e-9 {
		t.Fatalf("Position() = %v, want 0.020", got)
	}
}

func TestFillPastLoopEndWrapsImmediately(t *testing.T) {
	src := newRampSource(100, 1000)
	s, _ := newTestScheduler(src)

	s.Seek(0.0905)
	s.SetLoopRegion(0.0105, 0.0505)

	out := make([]float32, 5)
	s.Fill(out)
	requireBlock(t, out, ramp(10, 5))
}

func TestFillEntersLoopWithoutCrossfade(t *testing.T) {
	src := newRampSource(200, 1000)
	s, _ := newTestScheduler(src)

	s.SetLoopRegion(0.1005, 0)
	s.Seek(0.0505)

	out := make([]float32, 200)
	s.Fill(out)

	want := append(ramp(50, 150), ramp(100, 50)...)
	requireBlock(t, out, want)

	if got := s.Position(); math.Abs(got-0.150) > 1e-9 {
		t.Fatalf("Position() = %v, want 0.150", got)
	}
}

func TestFillWithoutLoopStopsAtEnd(t *testing.T) {
	src := newRampSource(100, 1000)
	s, op := newTestScheduler(src, WithLoop(false))

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Seek(0.0955)

	out := make([]float32, 10)
	op.callback()(out)

	want := append(ramp(95, 5), make([]float32, 5)...)
	requireBlock(t, out, want)

	deadline := time.Now().Add(2 * time.Second)
	for s.IsPlaying() {
		if time.Now().After(deadline) {
			t.Fatal("playback did not stop at the end of the audio")
		}
		time.Sleep(time.Millisecond)
	}

	if _, _, closed := op.stream.counts(); closed != 1 {
		t.Fatalf("stream closed %d times, want 1", closed)
	}
	if s.Position() != 0 {
		t.Fatalf("Position() after stop = %v, want 0", s.Position())
	}
}

func TestFillRecoversFromPanic(t *testing.T) {
	src := newRampSource(100, 1000)
	s, _ := newTestScheduler(src)
	src.panics = true

	out := testutil.Const32(1, 3)
	s.Fill(out)
	requireBlock(t, out, make([]float32, 3))
}

func TestSetLoopRegion(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		wantStart  float64
		wantEnd    float64
	}{
		{name: "plain", start: 1, end: 2, wantStart: 1, wantEnd: 2},
		{name: "swapped", start: 2, end: 1, wantStart: 1, wantEnd: 2},
		{name: "negative start", start: -1, end: 2, wantStart: 0, wantEnd: 2},
		{name: "open end", start: 1, end: 0, wantStart: 1, wantEnd: 0},
		{name: "negative end", start: 1, end: -3, wantStart: 1, wantEnd: 0},
		{name: "end past audio", start: 1, end: 10, wantStart: 1, wantEnd: 3},
		{name: "start past audio", start: 5, end: 0, wantStart: 2.999, wantEnd: 0},
		{name: "empty region", start: 1.5, end: 1.5, wantStart: 1.5, wantEnd: 1.501},
		{name: "huge end", start: 1, end: 1e300, wantStart: 1, wantEnd: 3},
		{name: "infinite start", start: math.Inf(1), end: 0, wantStart: 2.999, wantEnd: 0},
		{name: "infinite end", start: 1, end: math.Inf(1), wantStart: 1, wantEnd: 3},
		{name: "NaN start", start: math.NaN(), end: 2, wantStart: 0, wantEnd: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestScheduler(newRampSource(3000, 1000))
			s.SetLoopRegion(tt.start, tt.end)

			gotStart, gotEnd := s.LoopRegion()
			if math.Abs(gotStart-tt.wantStart) > 1e-9 || math.Abs(gotEnd-tt.wantEnd) > 1e-9 {
				t.Fatalf("LoopRegion() = (%v, %v), want (%v, %v)", gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}

			if gotEnd > 0 && !(gotStart < gotEnd) {
				t.Fatalf("LoopRegion() start %v not before end %v", gotStart, gotEnd)
			}
		})
	}
}

func TestLoopRegionWithoutAudio(t *testing.T) {
	s, _ := newTestScheduler(&fakeSource{rate: 1000})
	s.SetLoopRegion(1, 2)

	if a, b := s.LoopRegion(); a != 0 || b != 0 {
		t.Fatalf("LoopRegion() = (%v, %v), want zeros", a, b)
	}

	s.Seek(1)
	if s.Position() != 0 {
		t.Fatalf("Position() = %v, want 0", s.Position())
	}
}

func TestClearLoopRegion(t *testing.T) {
	s, _ := newTestScheduler(newRampSource(3000, 1000))
	s.SetLoopRegion(1, 2)
	s.ClearLoopRegion()

	if a, b := s.LoopRegion(); a != 0 || b != 0 {
		t.Fatalf("LoopRegion() = (%v, %v), want zeros", a, b)
	}
}

func TestEffectiveSampleRate(t *testing.T) {
	src := newRampSource(1010, 1000)
	src.duration = 1.0
	s, _ := newTestScheduler(src)

	if got := s.EffectiveSampleRate(); got != 1010 {
		t.Fatalf("EffectiveSampleRate() = %v, want 1010", got)
	}

	s.Seek(0.5)
	out := make([]float32, 1)
	s.Fill(out)
	if out[0] != 505 {
		t.Fatalf("sample after Seek(0.5) = %v, want 505", out[0])
	}

	s.Seek(99)
	s.Fill(out)
	if out[0] != 1009 {
		t.Fatalf("sample after Seek(99) = %v, want 1009", out[0])
	}

	empty, _ := newTestScheduler(&fakeSource{rate: 8000})
	if got := empty.EffectiveSampleRate(); got != 8000 {
		t.Fatalf("EffectiveSampleRate() without audio = %v, want 8000", got)
	}
}

func TestSeekSaturates(t *testing.T) {
	s, _ := newTestScheduler(newRampSource(1000, 1000))

	tests := []struct {
		sec  float64
		want float32
	}{
		{sec: 1e300, want: 999},
		{sec: math.Inf(1), want: 999},
		{sec: -1e300, want: 0},
		{sec: math.Inf(-1), want: 0},
		{sec: math.NaN(), want: 0},
	}

	out := make([]float32, 1)
	for _, tt := range tests {
		s.Seek(tt.sec)
		s.Fill(out)
		if out[0] != tt.want {
			t.Fatalf("sample after Seek(%v) = %v, want %v", tt.sec, out[0], tt.want)
		}
	}
}

func TestClamping(t *testing.T) {
	s, _ := newTestScheduler(newRampSource(10, 1000))

	tests := []struct {
		set  func()
		get  func() float64
		want float64
	}{
		{set: func() { s.SetLoopCrossfade(600) }, get: s.LoopCrossfade, want: 500},
		{set: func() { s.SetLoopCrossfade(-50) }, get: s.LoopCrossfade, want: 0},
		{set: func() { s.SetLoopCrossfade(120) }, get: s.LoopCrossfade, want: 120},
		{set: func() { s.SetVolume(1.5) }, get: s.Volume, want: 1},
		{set: func() { s.SetVolume(-1) }, get: s.Volume, want: 0},
		{set: func() { s.SetVolume(0.3) }, get: s.Volume, want: 0.3},
	}

	for i, tt := range tests {
		tt.set()
		if got := tt.get(); got != tt.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tt.want)
		}
	}
}

func TestLifecycle(t *testing.T) {
	s, op := newTestScheduler(newRampSource(1000, 1000))

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(); err != nil || op.opened != 1 {
		t.Fatalf("second Start() error = %v, opened = %d", err, op.opened)
	}
	if !s.IsPlaying() {
		t.Fatal("IsPlaying() = false after Start()")
	}

	out := make([]float32, 100)
	op.callback()(out)

	s.Pause()
	if s.IsPlaying() {
		t.Fatal("IsPlaying() = true after Pause()")
	}
	if got := s.Position(); math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("Position() after Pause() = %v, want 0.1", got)
	}

	if err := s.Resume(); err != nil || !s.IsPlaying() {
		t.Fatalf("Resume() error = %v, playing = %v", err, s.IsPlaying())
	}

	s.Stop()
	if s.IsPlaying() || s.Position() != 0 {
		t.Fatalf("after Stop(): playing = %v, position = %v", s.IsPlaying(), s.Position())
	}

	started, paused, closed := op.stream.counts()
	if started != 2 || paused != 1 || closed != 1 {
		t.Fatalf("stream calls start/pause/close = %d/%d/%d, want 2/1/1", started, paused, closed)
	}

	s.Stop()
	if _, _, closed := op.stream.counts(); closed != 1 {
		t.Fatal("Stop() while stopped closed the stream again")
	}

	if err := s.Resume(); err != nil || s.IsPlaying() {
		t.Fatal("Resume() without a stream should do nothing")
	}
}

func TestStartFailures(t *testing.T) {
	s, op := newTestScheduler(newRampSource(10, 1000))
	op.openErr = errors.New("no device")

	if err := s.Start(); !errors.Is(err, ErrDevice) {
		t.Fatalf("Start() error = %v, want ErrDevice", err)
	}
	if s.IsPlaying() {
		t.Fatal("IsPlaying() = true after failed open")
	}

	op.openErr = nil
	op.failOn = "start"
	if err := s.Start(); !errors.Is(err, ErrDevice) {
		t.Fatalf("Start() error = %v, want ErrDevice", err)
	}
	if s.IsPlaying() {
		t.Fatal("IsPlaying() = true after failed start")
	}
	if _, _, closed := op.stream.counts(); closed != 1 {
		t.Fatalf("failed stream closed %d times, want 1", closed)
	}
}

func TestStaleStopDoesNotStopNewSession(t *testing.T) {
	s, op := newTestScheduler(newRampSource(10, 1000))

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	sess := s.session.Load()
	s.Stop()

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	s.stopSession(sess)

	if !s.IsPlaying() || op.opened != 2 {
		t.Fatalf("stale stop affected the new session: playing = %v", s.IsPlaying())
	}
}
