package cli

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"symtab/internal/data/queue"
	"symtab/internal/engine/builtin"
	"symtab/internal/engine/codebase"
	"symtab/internal/shared/observability"
	"symtab/internal/shared/util"
)

// Per stub file.
const (
	reloadsPerSecond = 1.0
	reloadBurst      = 2
)

// session owns the live code base while serving or watching. The table is
// not safe for concurrent use, so every access goes through mu.
type session struct {
	mu      sync.Mutex
	cb      *codebase.CodeBase
	limiter *util.KeyedLimiter

	// Both nil unless exporting.
	exports *queue.MemoryQueue
	worker  *queue.ExportWorker
}

func newSession(cb *codebase.CodeBase) *session {
	return &session{
		cb:      cb,
		limiter: util.NewKeyedLimiter(reloadsPerSecond, reloadBurst),
	}
}

// exportTo makes every reload queue a snapshot for worker.
func (s *session) exportTo(exports *queue.MemoryQueue, worker *queue.ExportWorker) {
	s.exports = exports
	s.worker = worker
}

// reloadStubs replaces what each changed stub declared with its current
// contents. A deleted stub is only flushed. A stub that fails to load leaves
// the table as it was.
func (s *session) reloadStubs(ctx context.Context, paths []string) {
	for _, path := range paths {
		if !s.limiter.Allow(path) {
			observability.StubReloadsTotal.WithLabelValues(observability.ResultLimited).Inc()
			slog.Warn("stub reload rate limited", "path", path)
			continue
		}
		if err := s.reloadStub(ctx, path); err != nil {
			observability.StubReloadsTotal.WithLabelValues(observability.ResultError).Inc()
			slog.Error("stub reload failed, keeping previous declarations", "path", path, "error", err)
			continue
		}
		observability.StubReloadsTotal.WithLabelValues(observability.ResultHit).Inc()
	}
}

func (s *session) reloadStub(ctx context.Context, path string) error {
	var decls *builtin.Declarations
	stub, err := builtin.LoadStub(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return err
	default:
		if decls, err = stub.Declarations(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	flushed := s.cb.FlushDependenciesForFile(path)
	if decls == nil {
		slog.Info("stub removed", "path", path, "flushed", len(flushed))
	} else {
		added := decls.DeclareInto(s.cb)
		slog.Info("stub reloaded", "path", path, "flushed", len(flushed), "added", added)
	}

	s.cb.ReportMetrics()
	return s.queueExport(ctx, path)
}

// queueExport must be called with mu held. A snapshot that does not fit in
// the queue is written synchronously so the newest state is never lost.
func (s *session) queueExport(ctx context.Context, reason string) error {
	if s.exports == nil {
		return nil
	}
	req := queue.ExportRequest{Reason: reason, Records: s.cb.Records(), TakenAt: time.Now()}
	if s.exports.Enqueue(req) == queue.EnqueueAccepted {
		observability.ExportQueueDepth.Set(float64(s.exports.Len()))
		return nil
	}
	observability.ExportQueueDroppedTotal.Inc()
	slog.Warn("export queue full, exporting synchronously", "reason", reason)
	return s.worker.Export(ctx, req)
}

type healthStatus struct {
	Status   string `json:"status"`
	TableID  string `json:"table_id"`
	Elements int    `json:"elements"`
	HeapMB   uint64 `json:"heap_mb"`
}

func (s *session) health() healthStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return healthStatus{
		Status:   "up",
		TableID:  s.cb.ID().String(),
		Elements: s.cb.TotalElementCount(),
		HeapMB:   util.GetHeapAllocMB(),
	}
}
