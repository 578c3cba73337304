// Package preset maps named parameter sets onto a voice engine.
//
// Presets and settings slots carry the F0 ratio, the three formant ratios
// and the link flag. Applying one goes through voice.ParameterUpdate, so
// the engine's clamping and link rules hold no matter what the stored
// values are.
package preset
