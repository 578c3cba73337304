package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
)

func TestSineLength(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))
	s, err := g.Sine(1000, 1, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}
	if len(s) != 64 {
		t.Fatalf("len = %d, want 64", len(s))
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGeneratorWithOptions(nil, WithSeed(42))
	g2 := NewGeneratorWithOptions(nil, WithSeed(42))

	n1, err := g1.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	n2, err := g2.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}

	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}
	}
}

func TestSweepFades(t *testing.T) {
	g := NewGenerator()
	s, err := g.Sweep(100, 1000, g.Samples(1))
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if len(s) != 44100 {
		t.Fatalf("len = %d, want 44100", len(s))
	}

	if s[0] != 0 || s[len(s)-1] != 0 {
		t.Fatalf("edges = %v, %v, want 0", s[0], s[len(s)-1])
	}

	peak := 0.0
	for _, v := range s {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak > testAmplitude+1e-12 || peak < testAmplitude*0.9 {
		t.Fatalf("peak = %v, want ~%v", peak, testAmplitude)
	}
}

func TestVoiceFundamental(t *testing.T) {
	g := NewGenerator()
	v, err := g.VoiceWith(220, nil, 16384)
	if err != nil {
		t.Fatalf("VoiceWith() error = %v", err)
	}

	f, err := spectrum.PeakFrequency(v, 44100, 100)
	if err != nil {
		t.Fatalf("PeakFrequency() error = %v", err)
	}

	// Vibrato of +/-10 Hz smears the fundamental.
	if math.Abs(f-220) > 15 {
		t.Fatalf("fundamental = %v, want ~220", f)
	}
}

func TestVoicePeakNormalized(t *testing.T) {
	g := NewGenerator()
	v, err := g.Voice(g.Samples(0.5))
	if err != nil {
		t.Fatalf("Voice() error = %v", err)
	}

	peak := 0.0
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Fatal("non-finite voice sample")
		}
		peak = math.Max(peak, math.Abs(x))
	}

	if math.Abs(peak-testAmplitude) > 1e-9 {
		t.Fatalf("peak = %v, want %v", peak, testAmplitude)
	}
}

func TestGeneratorErrors(t *testing.T) {
	g := NewGenerator()
	if _, err := g.Sine(440, 1, 0); err == nil {
		t.Fatal("expected error for zero-length sine")
	}
	if _, err := g.WhiteNoise(-1, 8); err == nil {
		t.Fatal("expected error for negative amplitude")
	}
	if _, err := g.VoiceWith(0, nil, 8); err == nil {
		t.Fatal("expected error for zero f0")
	}
	if _, err := Normalize(nil, 1); err == nil {
		t.Fatal("expected error for empty normalize input")
	}
}

func TestResonatorPeakGain(t *testing.T) {
	const fs = 44100.0
	r := newResonator(1000, 5, fs)

	g := NewGenerator()
	x, _ := g.Sine(1000, 1, 44100)

	peak := 0.0
	for i, v := range x {
		y := r.process(v)
		if i > 22050 {
			peak = math.Max(peak, math.Abs(y))
		}
	}

	if math.Abs(peak-1) > 0.02 {
		t.Fatalf("peak gain at centre = %v, want ~1", peak)
	}
}
