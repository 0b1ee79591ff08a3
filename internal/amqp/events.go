package amqp

import (
	"encoding/json"
	"time"
)

// EventAction tags what happened to a record.
type EventAction string

const (
	ActionInsert EventAction = "insert"
	ActionUpdate EventAction = "update"
	ActionDelete EventAction = "delete"
)

// RecordEvent is the lightweight change notification published after a
// successful mutation. It carries ids only; consumers that need the full
// record query the store themselves.
type RecordEvent struct {
	Action    EventAction `json:"action"`
	RecordIDs []int64     `json:"record_ids"`
	OwnerID   int64       `json:"owner_id"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewRecordEvent builds an event stamped with the current time.
func NewRecordEvent(action EventAction, ownerID int64, recordIDs ...int64) *RecordEvent {
	return &RecordEvent{
		Action:    action,
		RecordIDs: recordIDs,
		OwnerID:   ownerID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *RecordEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecordEventFromJSON parses an event from JSON bytes.
func RecordEventFromJSON(data []byte) (*RecordEvent, error) {
	var ev RecordEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
