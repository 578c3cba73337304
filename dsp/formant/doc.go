// Package formant moves formants by remapping a spectral envelope along the
// frequency axis.
//
// A ratio r reads output bin j from source bin j/r, so r > 1 raises every
// resonance and r < 1 lowers it. Reads past the last bin repeat the edge
// value.
//
// [ShiftLinked] applies one ratio to the whole envelope. [ShiftIndependent]
// remaps the three bands F1, F2 and F3 with their own ratios, averages bins
// covered by two bands and fades each band into the unshifted envelope at
// its edges.
package formant
