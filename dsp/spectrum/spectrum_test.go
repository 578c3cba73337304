package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-voice/internal/testutil"
)

func TestMagnitudePower(t *testing.T) {
	bins := []complex128{3 + 4i, -1 - 1i, 0}

	mag := Magnitude(bins)
	if len(mag) != len(bins) {
		t.Fatalf("Magnitude length mismatch: got=%d want=%d", len(mag), len(bins))
	}

	if math.Abs(mag[0]-5) > 1e-12 {
		t.Fatalf("Magnitude[0]=%f want=5", mag[0])
	}

	pow := Power(bins)
	if math.Abs(pow[0]-25) > 1e-12 || math.Abs(pow[1]-2) > 1e-12 {
		t.Fatalf("Power = %v, want [25 2 0]", pow)
	}

	if Magnitude(nil) != nil || Power(nil) != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestPowerIntoPartial(t *testing.T) {
	bins := []complex128{1, 2i, 3, 4}
	dst := make([]float64, 2)

	PowerInto(dst, bins)

	if dst[0] != 1 || dst[1] != 4 {
		t.Fatalf("PowerInto() = %v, want [1 4]", dst)
	}
}

func TestPeakFrequency(t *testing.T) {
	const fs = 44100.0

	for _, freq := range []float64{220, 440, 880, 1500} {
		x := testutil.DeterministicSine(freq, fs, 0.5, 8192)

		got, err := PeakFrequency(x, fs, 50)
		if err != nil {
			t.Fatalf("PeakFrequency() error = %v", err)
		}

		if math.Abs(got-freq) > 3 {
			t.Fatalf("PeakFrequency(%v) = %v", freq, got)
		}
	}
}

func TestPeakFrequencyErrors(t *testing.T) {
	if _, err := PeakFrequency(nil, 44100, 0); err == nil {
		t.Fatal("expected error for empty input")
	}

	if _, err := PeakFrequency([]float64{1, 2}, 0, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}
