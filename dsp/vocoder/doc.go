// Package vocoder implements a WORLD-style source-filter vocoder.
//
// Analysis decomposes a mono signal into three frame-synchronous tracks
// sampled every frame period (5 ms by default):
//
//   - F0: fundamental frequency in Hz, 0 for unvoiced frames. Estimated
//     with a cumulative-mean-normalized difference function and refined
//     from the instantaneous frequency of the first harmonics.
//   - Envelope: pitch-adaptive spectral envelope (magnitude), obtained by
//     smoothing a 3-period power spectrum in frequency and then liftering
//     its cepstrum.
//   - Aperiodicity: per-bin ratio in [0,1] of noise-like to total energy,
//     measured between harmonics.
//
// Synthesis places one minimum-phase response per pitch pulse, mixing the
// periodic part with envelope-shaped noise according to the aperiodicity.
//
// A [Vocoder] is safe for concurrent use; every call builds its own FFT plans
// and scratch.
package vocoder
