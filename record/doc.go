// Package record captures audio from an input device into memory.
//
// A [Recorder] opens a capture [Stream] through a [StreamOpener] and
// appends every delivered block while recording. Pausing keeps the stream
// open and drops blocks, so resuming is instant and paused time never
// counts toward [Recorder.Duration]. [Recorder.Stop] closes the stream and
// returns the take as an *audiofile.Clip, which [Save] writes as WAV and
// [LoadClip] hands to a *voice.Engine.
//
// [MalgoOpener] is the device-backed [StreamOpener] built on
// github.com/gen2brain/malgo.
package record
