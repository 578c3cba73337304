package buffer

// Frame is per-frame scratch for FFT-based analysis: a complex time-domain
// input, its spectrum and a real work area of the same size.
type Frame struct {
	time []complex128
	freq []complex128
	work []float64
}

// NewFrame returns a zero-filled Frame of the given FFT size.
func NewFrame(size int) *Frame {
	if size < 0 {
		size = 0
	}
	return &Frame{
		time: make([]complex128, size),
		freq: make([]complex128, size),
		work: make([]float64, size),
	}
}

// Size returns the FFT size of the frame.
func (f *Frame) Size() int {
	return len(f.time)
}

// Time returns the time-domain scratch slice.
func (f *Frame) Time() []complex128 {
	return f.time
}

// Freq returns the spectrum scratch slice.
func (f *Frame) Freq() []complex128 {
	return f.freq
}

// Work returns the real-valued scratch slice.
func (f *Frame) Work() []float64 {
	return f.work
}

// Resize sets the frame size to n, reusing existing capacity when possible.
func (f *Frame) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n <= cap(f.time) {
		f.time = f.time[:n]
		f.freq = f.freq[:n]
		f.work = f.work[:n]
		return
	}
	f.time = make([]complex128, n)
	f.freq = make([]complex128, n)
	f.work = make([]float64, n)
}

// Zero clears all scratch slices.
func (f *Frame) Zero() {
	for i := range f.time {
		f.time[i] = 0
		f.freq[i] = 0
		f.work[i] = 0
	}
}

// Load zeroes the frame and copies src into the real part of the
// time-domain slice starting at index 0. Excess input is dropped.
func (f *Frame) Load(src []float64) {
	f.Zero()
	n := min(len(src), len(f.time))
	for i := 0; i < n; i++ {
		f.time[i] = complex(src[i], 0)
	}
}
