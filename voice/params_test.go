package voice

import (
	"math"
	"testing"
)

func TestParseFormant(t *testing.T) {
	tests := []struct {
		in      string
		want    Formant
		wantErr bool
	}{
		{in: "f1", want: F1},
		{in: "F2", want: F2},
		{in: " f3 ", want: F3},
		{in: "f4", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormant(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseFormant(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Fatalf("ParseFormant(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if err == nil && got.String() != tt.want.String() {
			t.Fatalf("String() = %q", got.String())
		}
	}
}

func TestClampRatio(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{in: 3, want: 2},
		{in: 0.1, want: 0.5},
		{in: 1, want: 1},
		{in: math.NaN(), want: 1},
	}

	for _, tt := range tests {
		if got := ClampRatio(tt.in); got != tt.want {
			t.Fatalf("ClampRatio(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestApplyUpdate(t *testing.T) {
	unlinked := DefaultParameters()
	unlinked.FormantLink = false

	tests := []struct {
		name  string
		start Parameters
		u     ParameterUpdate
		want  Parameters
	}{
		{
			name:  "partial f0",
			start: DefaultParameters(),
			u:     ParameterUpdate{F0Ratio: Float(9)},
			want:  Parameters{F0Ratio: 2, Formants: FormantRatios{1, 1, 1}, FormantLink: true},
		},
		{
			name:  "linked takes first present ratio",
			start: DefaultParameters(),
			u:     ParameterUpdate{F2: Float(1.3), F3: Float(0.7)},
			want:  Parameters{F0Ratio: 1, Formants: FormantRatios{1.3, 1.3, 1.3}, FormantLink: true},
		},
		{
			name:  "unlinked keeps each ratio",
			start: unlinked,
			u:     ParameterUpdate{F2: Float(1.3), F3: Float(0.2)},
			want:  Parameters{F0Ratio: 1, Formants: FormantRatios{1, 1.3, 0.5}},
		},
		{
			name:  "link on without ratios copies f1",
			start: Parameters{F0Ratio: 1, Formants: FormantRatios{0.9, 1.2, 1.5}},
			u:     ParameterUpdate{FormantLink: Bool(true)},
			want:  Parameters{F0Ratio: 1, Formants: FormantRatios{0.9, 0.9, 0.9}, FormantLink: true},
		},
		{
			name:  "link off with ratios",
			start: DefaultParameters(),
			u:     ParameterUpdate{FormantLink: Bool(false), F1: Float(1.1), F3: Float(1.6)},
			want:  Parameters{F0Ratio: 1, Formants: FormantRatios{1.1, 1, 1.6}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.start.apply(tt.u); got != tt.want {
				t.Fatalf("apply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParameterUpdateEmpty(t *testing.T) {
	if !(ParameterUpdate{}).Empty() {
		t.Fatal("zero update should be empty")
	}
	if (ParameterUpdate{Bypass: Bool(false)}).Empty() {
		t.Fatal("update with bypass should not be empty")
	}
}
