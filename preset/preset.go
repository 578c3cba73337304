package preset

import (
	"strings"

	"github.com/cwbudde/algo-voice/voice"
)

// Preset is a named parameter set. The JSON field names are the on-disk
// format used by preset files.
type Preset struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	F0Ratio     float64             `json:"f0_ratio"`
	Formants    voice.FormantRatios `json:"formant_ratios"`
	FormantLink bool                `json:"formant_link"`
}

// ParameterSetter receives bulk parameter updates. *voice.Engine
// implements it.
type ParameterSetter interface {
	SetParameters(u voice.ParameterUpdate)
}

func linked(name, description string, f0, formant float64) Preset {
	return Preset{
		Name:        name,
		Description: description,
		F0Ratio:     f0,
		Formants:    voice.FormantRatios{F1: formant, F2: formant, F3: formant},
		FormantLink: true,
	}
}

// Builtin returns the built-in presets in display order.
func Builtin() []Preset {
	return []Preset{
		linked("Original", "Unmodified voice", 1.0, 1.0),
		linked("Cute 1", "Slightly higher, cute voice", 1.2, 1.3),
		linked("Cute 2", "Cute voice with emphasised formants", 1.15, 1.4),
		linked("Anime", "Anime character voice", 1.3, 1.5),
		linked("Robot", "Mechanical voice", 1.0, 0.8),
	}
}

// Lookup finds a built-in preset by name, ignoring case.
func Lookup(name string) (Preset, bool) {
	for _, p := range Builtin() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// Update returns the update that sets every field of p.
func (p Preset) Update() voice.ParameterUpdate {
	return voice.ParameterUpdate{
		F0Ratio:     voice.Float(p.F0Ratio),
		F1:          voice.Float(p.Formants.F1),
		F2:          voice.Float(p.Formants.F2),
		F3:          voice.Float(p.Formants.F3),
		FormantLink: voice.Bool(p.FormantLink),
	}
}

// Parameters returns p as engine parameters, clamped and with the link
// rule applied.
func (p Preset) Parameters() voice.Parameters {
	params := voice.Parameters{
		F0Ratio: voice.ClampRatio(p.F0Ratio),
		Formants: voice.FormantRatios{
			F1: voice.ClampRatio(p.Formants.F1),
			F2: voice.ClampRatio(p.Formants.F2),
			F3: voice.ClampRatio(p.Formants.F3),
		},
		FormantLink: p.FormantLink,
	}
	if params.FormantLink {
		f1 := params.Formants.F1
		params.Formants.F2, params.Formants.F3 = f1, f1
	}
	return params
}

// Apply sets target to p.
func Apply(target ParameterSetter, p Preset) {
	target.SetParameters(p.Update())
}

// FromParameters captures p as a preset.
func FromParameters(name, description string, p voice.Parameters) Preset {
	return Preset{
		Name:        name,
		Description: description,
		F0Ratio:     p.F0Ratio,
		Formants:    p.Formants,
		FormantLink: p.FormantLink,
	}
}
