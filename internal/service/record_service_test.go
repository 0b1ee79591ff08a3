package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"costbook/internal/amqp"
	"costbook/internal/core"
	"costbook/internal/storage"
)

type capturingPublisher struct {
	events []*amqp.RecordEvent
	err    error
}

func (p *capturingPublisher) PublishRecordEvent(_ context.Context, ev *amqp.RecordEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func newTestService(t *testing.T, events EventPublisher) *RecordService {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "costbook.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewRecordService(store, events)
}

func TestInsertAndQueryMaps(t *testing.T) {
	pub := &capturingPublisher{}
	svc := newTestService(t, pub)
	ctx := context.Background()

	id, err := svc.Insert(ctx, map[string]any{
		"owner_id":    float64(1),
		"category":    "food",
		"title":       "lunch",
		"amount":      12.5,
		"occurred_at": "2025-01-01 12:00:00",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}

	results, err := svc.Query(ctx, map[string]any{"owner_id": 1})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	got := results[0]
	if got["amount"] != 12.5 {
		t.Fatalf("amount must cross the boundary as plain float: %v", got["amount"])
	}
	if got["occurred_at"] != "2025-01-01 12:00:00" {
		t.Fatalf("timestamp must be canonical: %v", got["occurred_at"])
	}

	if len(pub.events) != 1 || pub.events[0].Action != amqp.ActionInsert {
		t.Fatalf("expected one insert event, got %+v", pub.events)
	}
}

func TestInsertValidationPassesThrough(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Insert(context.Background(), map[string]any{"owner_id": 1})
	if err == nil || !core.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdateAndDeleteEvents(t *testing.T) {
	pub := &capturingPublisher{}
	svc := newTestService(t, pub)
	ctx := context.Background()

	id, err := svc.Insert(ctx, map[string]any{
		"owner_id": 1, "category": "food", "title": "lunch",
		"amount": 12.5, "occurred_at": "2025-01-01 12:00:00",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := svc.Update(ctx, map[string]any{"id": id, "owner_id": 1, "title": "brunch"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	deleted, err := svc.Delete(ctx, []int64{id}, 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}

	actions := make([]amqp.EventAction, len(pub.events))
	for i, ev := range pub.events {
		actions[i] = ev.Action
	}
	want := []amqp.EventAction{amqp.ActionInsert, amqp.ActionUpdate, amqp.ActionDelete}
	if len(actions) != len(want) {
		t.Fatalf("expected %v, got %v", want, actions)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, actions)
		}
	}
}

func TestDeleteMismatchedOwnerPublishesNothing(t *testing.T) {
	pub := &capturingPublisher{}
	svc := newTestService(t, pub)
	ctx := context.Background()

	id, err := svc.Insert(ctx, map[string]any{
		"owner_id": 2, "category": "food", "title": "lunch",
		"amount": 12.5, "occurred_at": "2025-01-01 12:00:00",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	pub.events = nil

	deleted, err := svc.Delete(ctx, []int64{id}, 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected zero rows, got %d", deleted)
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event expected for a no-op delete: %+v", pub.events)
	}
}

func TestUpdateNotFoundSurfaces(t *testing.T) {
	svc := newTestService(t, nil)

	err := svc.Update(context.Background(), map[string]any{"id": 42, "owner_id": 1, "title": "x"})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &capturingPublisher{err: errors.New("broker down")}
	svc := newTestService(t, pub)

	id, err := svc.Insert(context.Background(), map[string]any{
		"owner_id": 1, "category": "food", "title": "lunch",
		"amount": 12.5, "occurred_at": "2025-01-01 12:00:00",
	})
	if err != nil {
		t.Fatalf("mutation must survive a publish failure: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected id 1, got %d", id)
	}
}
