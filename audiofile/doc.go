// Package audiofile decodes audio files into float64 PCM and writes WAV.
//
// Supported inputs, chosen by file extension:
//
//   - .wav via github.com/go-audio/wav (integer PCM, 8 to 32 bit)
//   - .aif and .aiff via github.com/go-audio/aiff
//   - .mp3 via github.com/hajimehoshi/go-mp3 (always stereo)
//   - .ogg via github.com/jfreymuth/oggvorbis
//
// Decoded samples are interleaved and normalised to [-1, 1). WriteWAV stores
// mono float32 samples as 32-bit integer PCM, which keeps a decode of the
// written file within float32 rounding of the input.
package audiofile
