// Package buffer provides pooled FFT scratch frames so that per-frame
// spectral analysis does not allocate in its inner loop.
package buffer
