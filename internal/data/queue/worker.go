package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"symtab/internal/core/ports"
	"symtab/internal/shared/observability"
)

const (
	defaultBatchSize     = 8
	defaultFlushInterval = 100 * time.Millisecond
)

// ExportWorker drains a MemoryQueue into an exporter. Every request is a
// full snapshot, so only the newest request of a batch is written, and a
// snapshot older than one already written is skipped.
type ExportWorker struct {
	queue         *MemoryQueue
	exporter      ports.SymbolExporter
	batchSize     int
	flushInterval time.Duration

	writeMu sync.Mutex
	written time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func NewExportWorker(q *MemoryQueue, exporter ports.SymbolExporter, batchSize int, flushInterval time.Duration) *ExportWorker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}
	return &ExportWorker{
		queue:         q,
		exporter:      exporter,
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

func (w *ExportWorker) Start() {
	if w.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx)
}

func (w *ExportWorker) run(ctx context.Context) {
	defer close(w.done)

	for {
		batch, err := w.queue.DequeueBatch(ctx, w.batchSize, w.flushInterval)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil && !errors.Is(err, io.EOF) {
			slog.Warn("export queue dequeue failed", "error", err)
			continue
		}

		if len(batch) > 0 {
			if applyErr := w.apply(ctx, batch); applyErr != nil {
				slog.Warn("export worker apply failed", "error", applyErr, "batch_size", len(batch))
			}
		}
		observability.ExportQueueDepth.Set(float64(w.queue.Len()))

		if errors.Is(err, io.EOF) {
			return
		}
	}
}

func (w *ExportWorker) apply(ctx context.Context, batch []ExportRequest) error {
	if skipped := len(batch) - 1; skipped > 0 {
		observability.ExportSnapshotsCoalescedTotal.Add(float64(skipped))
	}
	return w.Export(ctx, batch[len(batch)-1])
}

// Export writes req immediately, bypassing the queue.
func (w *ExportWorker) Export(ctx context.Context, req ExportRequest) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	if req.TakenAt.Before(w.written) {
		observability.ExportSnapshotsCoalescedTotal.Inc()
		return nil
	}

	started := time.Now()
	if err := w.exporter.ReplaceAll(ctx, req.Records); err != nil {
		observability.ExportsTotal.WithLabelValues(observability.ResultError).Inc()
		return err
	}
	w.written = req.TakenAt
	observability.ExportsTotal.WithLabelValues(observability.ResultHit).Inc()
	observability.ExportLatencySeconds.Observe(time.Since(started).Seconds())
	slog.Debug("exported inventory snapshot", "reason", req.Reason, "records", len(req.Records))
	return nil
}

// Stop halts the background loop, writes whatever is still queued and
// closes the queue.
func (w *ExportWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.done != nil {
		select {
		case <-w.done:
		case <-ctx.Done():
			return ctx.Err()
		}
		w.done = nil
	}

	if err := w.queue.Close(); err != nil {
		return err
	}
	for {
		batch, err := w.queue.DequeueBatch(ctx, w.batchSize, 0)
		if len(batch) > 0 {
			if applyErr := w.apply(ctx, batch); applyErr != nil {
				return applyErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if len(batch) == 0 {
			return nil
		}
	}
}
