// Package signal generates deterministic test material: sines, noise,
// sweeps and a vowel-like formant signal for exercising the vocoder.
package signal
