package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-voice/preset"
	"github.com/cwbudde/algo-voice/voice"
)

var formantFlags = [3]struct{ flag, key string }{
	{"f1", "formant_ratios.f1"},
	{"f2", "formant_ratios.f2"},
	{"f3", "formant_ratios.f3"},
}

// addTransformFlags registers the flags shared by process and play.
func addTransformFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("preset", "", "start from a built-in preset (see `kawaii presets`)")
	f.Float64("f0", 1.0, "pitch ratio in [0.5, 2.0]")
	f.Float64("f1", 1.0, "F1 formant ratio in [0.5, 2.0]")
	f.Float64("f2", 1.0, "F2 formant ratio in [0.5, 2.0]")
	f.Float64("f3", 1.0, "F3 formant ratio in [0.5, 2.0]")
	f.Bool("link", true, "move all formant bands together")
	f.Bool("bypass", false, "skip processing and use the original audio")
}

// bindTransformFlags points the config keys at cmd's flags. It runs per
// command since process and play register flags of the same name.
func bindTransformFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	_ = viper.BindPFlag("f0_ratio", f.Lookup("f0"))
	for _, ff := range formantFlags {
		_ = viper.BindPFlag(ff.key, f.Lookup(ff.flag))
	}
	_ = viper.BindPFlag("formant_link", f.Lookup("link"))
}

// transformUpdate resolves the parameters for cmd. A preset replaces the
// configured transform; explicit flags override either. When any formant
// flag is given only the given bands are set, so with link on the first of
// them leads.
func transformUpdate(cmd *cobra.Command) (voice.ParameterUpdate, error) {
	f := cmd.Flags()

	var u voice.ParameterUpdate
	if name, _ := f.GetString("preset"); name != "" {
		p, ok := preset.Lookup(name)
		if !ok {
			return u, fmt.Errorf("unknown preset %q", name)
		}
		u = p.Update()
	} else {
		u = voice.ParameterUpdate{
			F0Ratio:     voice.Float(viper.GetFloat64("f0_ratio")),
			F1:          voice.Float(viper.GetFloat64("formant_ratios.f1")),
			F2:          voice.Float(viper.GetFloat64("formant_ratios.f2")),
			F3:          voice.Float(viper.GetFloat64("formant_ratios.f3")),
			FormantLink: voice.Bool(viper.GetBool("formant_link")),
		}
	}

	if f.Changed("f0") {
		v, _ := f.GetFloat64("f0")
		u.F0Ratio = voice.Float(v)
	}
	if f.Changed("f1") || f.Changed("f2") || f.Changed("f3") {
		bands := [3]**float64{&u.F1, &u.F2, &u.F3}
		for i, ff := range formantFlags {
			*bands[i] = nil
			if f.Changed(ff.flag) {
				v, _ := f.GetFloat64(ff.flag)
				*bands[i] = voice.Float(v)
			}
		}
	}
	if f.Changed("link") {
		v, _ := f.GetBool("link")
		u.FormantLink = voice.Bool(v)
	}
	if v, _ := f.GetBool("bypass"); v {
		u.Bypass = voice.Bool(true)
	}
	return u, nil
}

// newEngine builds an engine at the configured sample rate and applies the
// resolved parameters.
func newEngine(cmd *cobra.Command) (*voice.Engine, error) {
	u, err := transformUpdate(cmd)
	if err != nil {
		return nil, err
	}
	e := voice.New(voice.WithSampleRate(viper.GetInt("sample_rate")))
	e.SetParameters(u)
	return e, nil
}

func describe(p voice.Parameters, bypass bool) string {
	if bypass {
		return "bypass"
	}
	link := "independent"
	if p.FormantLink {
		link = "linked"
	}
	return fmt.Sprintf("f0 x%.2f, formants x%.2f/%.2f/%.2f (%s)",
		p.F0Ratio, p.Formants.F1, p.Formants.F2, p.Formants.F3, link)
}
