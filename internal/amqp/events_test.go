package amqp

import (
	"testing"
	"time"
)

func TestRecordEventJSONRoundTrip(t *testing.T) {
	ev := NewRecordEvent(ActionDelete, 7, 3, 4)

	body, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := RecordEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Action != ActionDelete || got.OwnerID != 7 {
		t.Fatalf("event fields lost: %+v", got)
	}
	if len(got.RecordIDs) != 2 || got.RecordIDs[0] != 3 || got.RecordIDs[1] != 4 {
		t.Fatalf("record ids lost: %v", got.RecordIDs)
	}
	if got.Timestamp.IsZero() || time.Since(got.Timestamp) > time.Minute {
		t.Fatalf("timestamp not stamped: %v", got.Timestamp)
	}
}

func TestRecordEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := RecordEventFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error for malformed body")
	}
}
