package http

import (
	"errors"
	"runtime"
	"sync/atomic"
)

// ContextPoolSize bounds the number of idle request contexts kept around.
// Must be a power of two.
const ContextPoolSize = 1024

var (
	ErrFull  = errors.New("ring buffer is full")
	ErrEmpty = errors.New("ring buffer is empty")
)

// ContextPool recycles request contexts between connections. Acquire never
// blocks: an empty pool allocates, a full pool drops the released context.
type ContextPool struct {
	ready          *RingBuffer[*RequestCtx]
	readBufferSize int
}

func NewContextPool(readBufferSize int) *ContextPool {
	return &ContextPool{
		ready:          NewRingBuffer[*RequestCtx](),
		readBufferSize: readBufferSize,
	}
}

func (p *ContextPool) Acquire() *RequestCtx {
	reqCtx, err := p.ready.Dequeue()
	if err != nil {
		return newRequestCtx(p.readBufferSize)
	}
	return reqCtx
}

func (p *ContextPool) Release(reqCtx *RequestCtx) {
	reqCtx.Reset(nil)
	_ = p.ready.Enqueue(reqCtx)
}

// RingBuffer is a bounded lock-free MPMC queue.
type RingBuffer[T any] struct {
	slots  [ContextPoolSize]slot[T]
	mask   uint64
	enqPos atomic.Uint64
	deqPos atomic.Uint64
}

type slot[T any] struct {
	sequence atomic.Uint64
	value    T
}

func NewRingBuffer[T any]() *RingBuffer[T] {
	q := &RingBuffer[T]{}
	for i := range q.slots {
		q.slots[i].sequence.Store(uint64(i))
	}
	q.mask = ContextPoolSize - 1
	return q
}

func (q *RingBuffer[T]) Enqueue(val T) error {
	for {
		pos := q.enqPos.Load()
		s := &q.slots[pos&q.mask]

		switch delta := int64(s.sequence.Load()) - int64(pos); {
		case delta == 0:
			if q.enqPos.CompareAndSwap(pos, pos+1) {
				s.value = val
				s.sequence.Store(pos + 1)
				return nil
			}
		case delta < 0:
			return ErrFull
		default:
			runtime.Gosched()
		}
	}
}

func (q *RingBuffer[T]) Dequeue() (T, error) {
	var zero T
	for {
		pos := q.deqPos.Load()
		s := &q.slots[pos&q.mask]

		switch delta := int64(s.sequence.Load()) - int64(pos+1); {
		case delta == 0:
			if q.deqPos.CompareAndSwap(pos, pos+1) {
				val := s.value
				s.value = zero
				s.sequence.Store(pos + q.mask + 1)
				return val, nil
			}
		case delta < 0:
			return zero, ErrEmpty
		default:
			runtime.Gosched()
		}
	}
}
