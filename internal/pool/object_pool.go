// Package pool provides object pooling on top of sync.Pool.
package pool

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// maxPooledBufferSize keeps one oversized encoding from pinning memory.
const maxPooledBufferSize = 1 << 20

// Pool is a generic object pool.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T)
	keep  func(T) bool

	gets atomic.Int64
	puts atomic.Int64
	news atomic.Int64
}

// NewPool creates a new object pool. resetFunc may be nil.
func NewPool[T any](newFunc func() T, resetFunc func(*T)) *Pool[T] {
	p := &Pool[T]{reset: resetFunc}
	p.pool.New = func() any {
		p.news.Add(1)
		return newFunc()
	}
	return p
}

// Get retrieves an object from the pool.
func (p *Pool[T]) Get() T {
	p.gets.Add(1)
	return p.pool.Get().(T)
}

// Put resets obj and returns it to the pool. Objects rejected by the keep
// filter are dropped.
func (p *Pool[T]) Put(obj T) {
	if p.keep != nil && !p.keep(obj) {
		return
	}
	p.puts.Add(1)
	if p.reset != nil {
		p.reset(&obj)
	}
	p.pool.Put(obj)
}

// Stats returns pool statistics.
func (p *Pool[T]) Stats() PoolStats {
	return PoolStats{
		Gets: p.gets.Load(),
		Puts: p.puts.Load(),
		News: p.news.Load(),
	}
}

// PoolStats contains pool statistics.
type PoolStats struct {
	Gets int64 `json:"gets"`
	Puts int64 `json:"puts"`
	News int64 `json:"news"`
}

// HitRate returns the share of Get calls served without allocating.
func (s PoolStats) HitRate() float64 {
	if s.Gets == 0 {
		return 0
	}
	return float64(s.Gets-s.News) / float64(s.Gets)
}

// ByteBufferPool provides pooled byte buffers for JSON encoding.
var ByteBufferPool = newBufferPool()

func newBufferPool() *Pool[*bytes.Buffer] {
	p := NewPool(
		func() *bytes.Buffer {
			return bytes.NewBuffer(make([]byte, 0, 256))
		},
		func(b **bytes.Buffer) {
			(*b).Reset()
		},
	)
	p.keep = func(b *bytes.Buffer) bool { return b.Cap() <= maxPooledBufferSize }
	return p
}
