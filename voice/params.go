package voice

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-voice/dsp/core"
)

// Ratio limits for F0 and formant ratios.
const (
	MinRatio = 0.5
	MaxRatio = 2.0
)

// Formant names one of the three formant bands.
type Formant int

const (
	F1 Formant = iota
	F2
	F3
)

func (f Formant) String() string {
	switch f {
	case F1:
		return "f1"
	case F2:
		return "f2"
	case F3:
		return "f3"
	default:
		return fmt.Sprintf("Formant(%d)", int(f))
	}
}

// ParseFormant parses "f1", "f2" or "f3", ignoring case.
func ParseFormant(s string) (Formant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f1":
		return F1, nil
	case "f2":
		return F2, nil
	case "f3":
		return F3, nil
	}
	return 0, fmt.Errorf("voice: unknown formant %q", s)
}

// FormantRatios holds one ratio per formant band.
type FormantRatios struct {
	F1 float64 `json:"f1"`
	F2 float64 `json:"f2"`
	F3 float64 `json:"f3"`
}

// Get returns the ratio of f, or 0 for an unknown formant.
func (r FormantRatios) Get(f Formant) float64 {
	switch f {
	case F1:
		return r.F1
	case F2:
		return r.F2
	case F3:
		return r.F3
	}
	return 0
}

func (r *FormantRatios) set(f Formant, v float64) {
	switch f {
	case F1:
		r.F1 = v
	case F2:
		r.F2 = v
	case F3:
		r.F3 = v
	}
}

// Array returns the ratios as [F1, F2, F3].
func (r FormantRatios) Array() [3]float64 {
	return [3]float64{r.F1, r.F2, r.F3}
}

// Uniform reports whether all three ratios are equal.
func (r FormantRatios) Uniform() bool {
	return r.F1 == r.F2 && r.F2 == r.F3
}

// Parameters is the transform state of an Engine.
type Parameters struct {
	F0Ratio     float64
	Formants    FormantRatios
	FormantLink bool
}

// DefaultParameters returns unit ratios with link on.
func DefaultParameters() Parameters {
	return Parameters{
		F0Ratio:     1,
		Formants:    unitRatios,
		FormantLink: true,
	}
}

// Identity reports whether p leaves pitch and formants unchanged.
func (p Parameters) Identity() bool {
	return p.F0Ratio == 1 && p.Formants == unitRatios
}

// ParameterUpdate is a partial parameter change. Nil fields are left as
// they are.
type ParameterUpdate struct {
	F0Ratio     *float64
	F1          *float64
	F2          *float64
	F3          *float64
	FormantLink *bool
	Bypass      *bool
}

// Float returns a pointer to v, for building a ParameterUpdate.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for building a ParameterUpdate.
func Bool(v bool) *bool { return &v }

// Empty reports whether u changes nothing.
func (u ParameterUpdate) Empty() bool {
	return u.F0Ratio == nil && u.F1 == nil && u.F2 == nil && u.F3 == nil &&
		u.FormantLink == nil && u.Bypass == nil
}

// ClampRatio limits r to [MinRatio, MaxRatio]. NaN maps to 1.
func ClampRatio(r float64) float64 {
	if r != r {
		return 1
	}
	return core.Clamp(r, MinRatio, MaxRatio)
}

// apply returns p with u applied. When link ends up on, the three formant
// ratios take the first ratio present in u (F1, then F2, then F3) or the
// current F1.
func (p Parameters) apply(u ParameterUpdate) Parameters {
	if u.F0Ratio != nil {
		p.F0Ratio = ClampRatio(*u.F0Ratio)
	}

	var lead *float64
	for f, v := range []*float64{u.F1, u.F2, u.F3} {
		if v == nil {
			continue
		}
		r := ClampRatio(*v)
		p.Formants.set(Formant(f), r)
		if lead == nil {
			lead = &r
		}
	}

	if u.FormantLink != nil {
		p.FormantLink = *u.FormantLink
	}

	if p.FormantLink {
		r := p.Formants.F1
		if lead != nil {
			r = *lead
		}
		p.Formants = FormantRatios{F1: r, F2: r, F3: r}
	}

	return p
}
