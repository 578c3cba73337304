// Package interp provides the linear interpolation primitives used for
// sample-rate conversion, frame lookup and spectral remapping.
//
//   - [Linear2]: 2-point linear interpolation
//   - [At]: fractional index into a slice, clamped at the edges
//   - [Linear]: piecewise-linear evaluation over (xp, fp) breakpoints
//   - [ResampleLinear] and [ResampleRatio]: time-axis stretching
package interp
