package stats

import (
	"sync/atomic"
	"testing"

	"github.com/relloyd/lakepipe/logger"
)

func TestTableWatcher(t *testing.T) {
	log := logger.NewLogger("lakepipe-test", "error", false)
	var rows int64
	w := NewTableWatcher(log, "SALES.ORDERS", 1)
	w.StartWatching(func() int64 { return atomic.LoadInt64(&rows) })
	if s := w.RenderStats(); s.StatusText != "running" {
		t.Fatalf("expected running, got %v", s.StatusText)
	}
	atomic.StoreInt64(&rows, 42)
	w.StopWatching()
	s := w.RenderStats()
	if s.StatusText != "complete" {
		t.Fatalf("expected complete, got %v", s.StatusText)
	}
	if s.TotalRowsProcessed != 42 {
		t.Fatalf("expected 42 rows, got %v", s.TotalRowsProcessed)
	}
	if s.TableName != "SALES.ORDERS" {
		t.Fatalf("unexpected table name %v", s.TableName)
	}
	// Stopping twice is harmless.
	w.StopWatching()
}

func TestTableWatcherWithoutTicker(t *testing.T) {
	w := NewTableWatcher(logger.NewLogger("lakepipe-test", "error", false), "T", -1)
	w.StartWatching(func() int64 { return 7 })
	w.StopWatching()
	if s := w.RenderStats(); s.TotalRowsProcessed != 7 {
		t.Fatalf("expected 7 rows, got %v", s.TotalRowsProcessed)
	}
}
