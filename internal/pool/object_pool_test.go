package pool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_GetPut(t *testing.T) {
	p := NewPool(func() []int { return make([]int, 0, 4) }, func(s *[]int) { *s = (*s)[:0] })

	s := p.Get()
	s = append(s, 1, 2)
	p.Put(s)

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Gets)
	assert.Equal(t, int64(1), stats.Puts)
	assert.Equal(t, int64(1), stats.News)
	assert.Zero(t, stats.HitRate())
}

func TestPoolStats_HitRate(t *testing.T) {
	assert.Zero(t, PoolStats{}.HitRate())
	assert.InDelta(t, 0.75, PoolStats{Gets: 4, News: 1}.HitRate(), 1e-9)
}

func TestByteBufferPool_ResetsBuffers(t *testing.T) {
	p := newBufferPool()
	buf := p.Get()
	buf.WriteString("payload")
	p.Put(buf)

	again := p.Get()
	assert.Zero(t, again.Len())
}

func TestByteBufferPool_DropsOversizedBuffers(t *testing.T) {
	p := newBufferPool()
	big := bytes.NewBuffer(make([]byte, 0, maxPooledBufferSize+1))
	p.Put(big)
	assert.Zero(t, p.Stats().Puts)
}

func TestByteBufferPool_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				buf := ByteBufferPool.Get()
				buf.WriteString("x")
				ByteBufferPool.Put(buf)
			}
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, ByteBufferPool.Stats().Gets, int64(1600))
}
