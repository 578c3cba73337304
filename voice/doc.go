// Package voice implements the voice transformation engine.
//
// An [Engine] holds one loaded clip, its vocoder analysis and the transform
// parameters: an F0 ratio, three formant ratios (F1, F2, F3) and the link
// and bypass flags. Ratios are clamped to [MinRatio, MaxRatio]. With link
// on, the three formant ratios are always equal.
//
// [Engine.ProcessedAudio] is the single read path. It resynthesises lazily
// after any parameter change and caches the result until the next one, so
// callers on a real-time thread pay for at most one render per change.
//
//	e := voice.New()
//	if err := e.LoadFile("in.wav"); err != nil {
//		return err
//	}
//	e.SetF0Ratio(1.2)
//	e.SetFormantRatio(voice.F1, 1.3)
//	out := e.ProcessedAudio()
package voice
