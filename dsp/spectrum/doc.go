// Package spectrum provides spectrum-domain utilities: magnitude and power of
// complex bins using vectorized kernels, and dominant-frequency estimation.
package spectrum
