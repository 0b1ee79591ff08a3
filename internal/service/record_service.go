// Package service exposes the map-based caller interface consumed by the
// transport layer and fans out change events after successful mutations.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"costbook/internal/amqp"
	"costbook/internal/core"
	"costbook/internal/storage"
)

// EventPublisher is the slice of the AMQP client the service needs; nil
// disables event publishing.
type EventPublisher interface {
	PublishRecordEvent(ctx context.Context, ev *amqp.RecordEvent) error
	Close() error
}

// RecordService translates caller-supplied key/value data into typed store
// operations and serialized results.
type RecordService struct {
	store  *storage.Store
	events EventPublisher
}

func NewRecordService(store *storage.Store, events EventPublisher) *RecordService {
	return &RecordService{
		store:  store,
		events: events,
	}
}

// Query builds a filter from the caller's map and returns serialized
// records: canonical timestamp strings, plain float amounts.
func (s *RecordService) Query(ctx context.Context, filter map[string]any) ([]map[string]any, error) {
	f, err := core.FilterFromMap(filter)
	if err != nil {
		return nil, err
	}

	records, err := s.store.Query(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	out := make([]map[string]any, len(records))
	for i, r := range records {
		out[i] = r.Serialize()
	}
	return out, nil
}

// Insert persists a new record from the caller's map and returns the
// assigned id.
func (s *RecordService) Insert(ctx context.Context, fields map[string]any) (int64, error) {
	r, err := core.RecordFromMap(fields)
	if err != nil {
		return 0, err
	}

	id, err := s.store.Insert(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	s.publish(ctx, amqp.NewRecordEvent(amqp.ActionInsert, *r.OwnerID, id))
	return id, nil
}

// Update applies a partial update; the map must carry id and owner_id.
func (s *RecordService) Update(ctx context.Context, fields map[string]any) error {
	r, err := core.RecordFromMap(fields)
	if err != nil {
		return err
	}

	if err := s.store.Update(ctx, r); err != nil {
		return fmt.Errorf("update record: %w", err)
	}

	s.publish(ctx, amqp.NewRecordEvent(amqp.ActionUpdate, *r.OwnerID, *r.ID))
	return nil
}

// Delete removes the owner's records among ids and returns how many rows
// went away.
func (s *RecordService) Delete(ctx context.Context, ids []int64, ownerID int64) (int64, error) {
	deleted, err := s.store.Delete(ctx, ids, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete records: %w", err)
	}

	if deleted > 0 {
		s.publish(ctx, amqp.NewRecordEvent(amqp.ActionDelete, ownerID, ids...))
	}
	return deleted, nil
}

// publish sends a change event when a publisher is configured. The
// mutation already committed, so a publish failure is logged and swallowed.
func (s *RecordService) publish(ctx context.Context, ev *amqp.RecordEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRecordEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record event",
			"action", ev.Action,
			"record_ids", ev.RecordIDs,
			"owner_id", ev.OwnerID,
			"error", err)
	}
}

// Close releases the store and, when configured, the event publisher.
func (s *RecordService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close record service: %v", errs)
	}

	return nil
}
