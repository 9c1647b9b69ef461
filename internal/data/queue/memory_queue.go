// Package queue buffers inventory snapshots between the live code base and
// the exporter that persists them.
package queue

import (
	"context"
	"io"
	"sync"
	"time"

	"symtab/internal/core/ports"
)

// ExportRequest is one full inventory snapshot waiting to be written.
type ExportRequest struct {
	Reason  string
	Records []ports.SymbolRecord
	TakenAt time.Time
}

type EnqueueResult string

const (
	EnqueueAccepted EnqueueResult = "accepted"
	EnqueueDropped  EnqueueResult = "dropped"
)

// MemoryQueue is a bounded FIFO. Enqueue never blocks: a full or closed
// queue drops the request.
type MemoryQueue struct {
	ch     chan ExportRequest
	mu     sync.RWMutex
	closed bool
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemoryQueue{ch: make(chan ExportRequest, capacity)}
}

func (q *MemoryQueue) Enqueue(req ExportRequest) EnqueueResult {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return EnqueueDropped
	}
	select {
	case q.ch <- req:
		return EnqueueAccepted
	default:
		return EnqueueDropped
	}
}

// DequeueBatch waits up to wait for a first request, then takes whatever
// else is already buffered, up to maxItems. A non-positive wait never
// blocks. io.EOF means the queue is closed and empty after this batch.
func (q *MemoryQueue) DequeueBatch(ctx context.Context, maxItems int, wait time.Duration) ([]ExportRequest, error) {
	if maxItems <= 0 {
		maxItems = 1
	}
	first, err := q.next(ctx, wait)
	if err != nil || first == nil {
		return nil, err
	}

	batch := make([]ExportRequest, 1, maxItems)
	batch[0] = *first
	for len(batch) < maxItems {
		select {
		case req, ok := <-q.ch:
			if !ok {
				return batch, io.EOF
			}
			batch = append(batch, req)
		default:
			return batch, nil
		}
	}
	return batch, nil
}

// next returns nil, nil when nothing arrives within wait.
func (q *MemoryQueue) next(ctx context.Context, wait time.Duration) (*ExportRequest, error) {
	if wait <= 0 {
		select {
		case req, ok := <-q.ch:
			if !ok {
				return nil, io.EOF
			}
			return &req, nil
		default:
			return nil, ctx.Err()
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case req, ok := <-q.ch:
		if !ok {
			return nil, io.EOF
		}
		return &req, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, nil
	}
}

func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.ch)
	return nil
}

func (q *MemoryQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.ch)
}
