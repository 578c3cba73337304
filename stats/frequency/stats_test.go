package frequency

import (
	"math"
	"testing"
)

func TestCalculateShortInput(t *testing.T) {
	s := Calculate([]float64{1}, 44100)
	if s.BinCount != 1 || s.Centroid != 0 {
		t.Fatalf("Calculate(single) = %+v", s)
	}
}

func TestCalculatePeak(t *testing.T) {
	mag := make([]float64, 1025)
	mag[100] = 1

	s := Calculate(mag, 44100)

	want := 100 * 44100.0 / 2048
	if math.Abs(s.PeakFreq-want) > 1e-9 {
		t.Fatalf("PeakFreq = %v, want %v", s.PeakFreq, want)
	}

	if math.Abs(s.Centroid-want) > 1e-9 {
		t.Fatalf("Centroid = %v, want %v", s.Centroid, want)
	}

	if s.Spread != 0 {
		t.Fatalf("Spread = %v, want 0", s.Spread)
	}

	if s.Flatness != 0 {
		t.Fatalf("Flatness = %v, want 0 with zero bins", s.Flatness)
	}
}

func TestCentroidMovesUp(t *testing.T) {
	low := []float64{0, 4, 2, 1, 0.5}
	high := []float64{0, 0.5, 1, 2, 4}

	if Centroid(low, 8000) >= Centroid(high, 8000) {
		t.Fatal("centroid of high-tilted spectrum should be larger")
	}
}

func TestBandEnergy(t *testing.T) {
	mag := []float64{1, 1, 1, 1, 1}
	// Bins at 0, 1000, 2000, 3000, 4000 Hz.
	if got := BandEnergy(mag, 8000, 900, 3100); got != 3 {
		t.Fatalf("BandEnergy() = %v, want 3", got)
	}
}

func TestMean(t *testing.T) {
	got := Mean([][]float64{{1, 2}, {3, 4}, {9}})
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("Mean() = %v, want [2 3]", got)
	}

	if Mean(nil) != nil {
		t.Fatal("Mean(nil) should be nil")
	}
}

func TestRolloffSilent(t *testing.T) {
	if got := Rolloff([]float64{0, 0, 0}, 8000, 0.85); got != 0 {
		t.Fatalf("Rolloff(silent) = %v, want 0", got)
	}
}
