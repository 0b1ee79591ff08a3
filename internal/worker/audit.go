// Package worker consumes record-change events and appends them to a
// durable audit trail.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"costbook/internal/amqp"
)

// AuditWorker serializes record events into newline-delimited JSON on a
// single writer. Safe for concurrent handlers.
type AuditWorker struct {
	mu  sync.Mutex
	out io.Writer
}

func NewAuditWorker(out io.Writer) *AuditWorker {
	return &AuditWorker{out: out}
}

// OpenAuditLog opens (or creates) the append-only audit file.
func OpenAuditLog(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return f, nil
}

type auditLine struct {
	Action    amqp.EventAction `json:"action"`
	RecordIDs []int64          `json:"record_ids"`
	OwnerID   int64            `json:"owner_id"`
	EventTime time.Time        `json:"event_time"`
	LoggedAt  time.Time        `json:"logged_at"`
}

// HandleEvent appends one audit line per event. An error makes the
// consumer requeue the delivery, so the write must either fully succeed or
// leave the event in the queue.
func (w *AuditWorker) HandleEvent(ctx context.Context, ev *amqp.RecordEvent) error {
	line, err := json.Marshal(auditLine{
		Action:    ev.Action,
		RecordIDs: ev.RecordIDs,
		OwnerID:   ev.OwnerID,
		EventTime: ev.Timestamp,
		LoggedAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal audit line: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.out.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit line: %w", err)
	}

	slog.DebugContext(ctx, "Audit line written",
		"action", ev.Action,
		"record_ids", ev.RecordIDs,
		"owner_id", ev.OwnerID)

	return nil
}
