package buffer

import "sync"

// Pool provides sync.Pool-based Frame reuse to reduce GC pressure
// when frames are analysed concurrently.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Frame{}
			},
		},
	}
}

// Get returns a Frame with the requested size. The frame is zeroed.
// Callers must return it via Put when done.
func (p *Pool) Get(size int) *Frame {
	f := p.pool.Get().(*Frame)
	f.Resize(size)
	f.Zero()
	return f
}

// Put returns a Frame to the pool for reuse.
// The caller must not use the frame after calling Put.
func (p *Pool) Put(f *Frame) {
	if f == nil {
		return
	}
	p.pool.Put(f)
}
