// Package playback streams processed audio to an output device with an
// optional crossfaded loop region.
//
// A [Scheduler] pulls blocks from a [Source] (usually a *voice.Engine)
// through [Scheduler.Fill], which an output [Stream] calls on its real-time
// thread. Fill never blocks on I/O; the only potentially slow step is the
// first ProcessedAudio call after a parameter change, which renders once.
//
// Times passed to Seek and SetLoopRegion are converted to sample indices
// with the effective sample rate, processed length divided by the original
// duration, because resynthesis may change the sample count slightly.
//
// [OtoOpener] is the device-backed [StreamOpener] built on
// github.com/ebitengine/oto/v3.
package playback
