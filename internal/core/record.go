package core

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the canonical timestamp format used at every boundary:
// database column, wire maps and range filters all carry this exact shape.
const TimeLayout = "2006-01-02 15:04:05"

// Record is one financial transaction. Every field is optional at the type
// level so the same shape serves full rows, insert drafts and partial
// updates; required-ness is enforced at the store boundary.
type Record struct {
	ID         *int64
	OwnerID    *int64
	Category   *string
	Title      *string
	Amount     *Money
	OccurredAt *string // canonical TimeLayout string
	Note       *string
	IsIncome   *bool
	CreatedAt  *string
	UpdatedAt  *string
}

// NormalizeTimestamp renders a timestamp value in the canonical layout.
// Strings pass through untouched so already-canonical values are lossless.
func NormalizeTimestamp(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case time.Time:
		return t.Format(TimeLayout), nil
	default:
		return "", NewValidationError("timestamp", fmt.Sprintf("unsupported type %T", v))
	}
}

// RecordFromMap builds a Record from caller-supplied key/value data,
// coercing the heterogeneous representations that arrive over a JSON or
// chat boundary (float64 ids, string or numeric amounts, time.Time or
// string timestamps). Unknown keys are rejected.
func RecordFromMap(fields map[string]any) (Record, error) {
	var r Record
	for key, value := range fields {
		if value == nil {
			continue
		}
		var err error
		switch key {
		case "id":
			r.ID, err = toID(key, value)
		case "owner_id":
			r.OwnerID, err = toID(key, value)
		case "category":
			r.Category, err = toText(key, value)
		case "title":
			r.Title, err = toText(key, value)
		case "amount":
			r.Amount, err = toMoney(value)
		case "occurred_at":
			r.OccurredAt, err = toTimestamp(key, value)
		case "note":
			r.Note, err = toText(key, value)
		case "is_income":
			r.IsIncome, err = toFlag(key, value)
		case "created_at":
			r.CreatedAt, err = toTimestamp(key, value)
		case "updated_at":
			r.UpdatedAt, err = toTimestamp(key, value)
		default:
			return Record{}, NewValidationError(key, "unknown field")
		}
		if err != nil {
			return Record{}, err
		}
	}
	return r, nil
}

// ValidateForInsert checks the fields the store requires before persisting a
// new record. The id is system-assigned and must be absent.
func (r Record) ValidateForInsert() error {
	if r.ID != nil {
		return NewValidationError("id", "must not be set on insert")
	}
	if r.OwnerID == nil {
		return NewValidationError("owner_id", "required")
	}
	if r.Category == nil {
		return NewValidationError("category", "required")
	}
	if r.Title == nil {
		return NewValidationError("title", "required")
	}
	if r.Amount == nil {
		return NewValidationError("amount", "required")
	}
	if r.OccurredAt == nil {
		return NewValidationError("occurred_at", "required")
	}
	return nil
}

// Serialize produces the transport-safe mapping: timestamps as canonical
// strings, the amount as a plain float64, unset fields omitted. The
// conversion is idempotent.
func (r Record) Serialize() map[string]any {
	out := make(map[string]any, 10)
	if r.ID != nil {
		out["id"] = *r.ID
	}
	if r.OwnerID != nil {
		out["owner_id"] = *r.OwnerID
	}
	if r.Category != nil {
		out["category"] = *r.Category
	}
	if r.Title != nil {
		out["title"] = *r.Title
	}
	if r.Amount != nil {
		out["amount"] = r.Amount.Float64()
	}
	if r.OccurredAt != nil {
		out["occurred_at"] = *r.OccurredAt
	}
	if r.Note != nil {
		out["note"] = *r.Note
	}
	if r.IsIncome != nil {
		out["is_income"] = *r.IsIncome
	}
	if r.CreatedAt != nil {
		out["created_at"] = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		out["updated_at"] = *r.UpdatedAt
	}
	return out
}

// displayLabels maps fields to the labels used in chat and log output, in
// rendering order.
var displayLabels = []struct {
	label string
	value func(Record) (string, bool)
}{
	{"ID", func(r Record) (string, bool) {
		if r.ID == nil {
			return "", false
		}
		return fmt.Sprintf("%d", *r.ID), true
	}},
	{"Category", func(r Record) (string, bool) {
		if r.Category == nil {
			return "", false
		}
		return *r.Category, true
	}},
	{"Title", func(r Record) (string, bool) {
		if r.Title == nil {
			return "", false
		}
		return *r.Title, true
	}},
	{"Amount", func(r Record) (string, bool) {
		if r.Amount == nil {
			return "", false
		}
		return fmt.Sprintf("%.2f", r.Amount.Float64()), true
	}},
	{"Time", func(r Record) (string, bool) {
		if r.OccurredAt == nil {
			return "", false
		}
		return *r.OccurredAt, true
	}},
	{"Note", func(r Record) (string, bool) {
		if r.Note == nil {
			return "", false
		}
		return *r.Note, true
	}},
	{"Income", func(r Record) (string, bool) {
		if r.IsIncome == nil || !*r.IsIncome {
			return "", false
		}
		return "yes", true
	}},
}

// Display renders the record for human consumption (chat replies, audit
// lines). Purely presentational; persistence never reads this.
func (r Record) Display() string {
	parts := make([]string, 0, len(displayLabels))
	for _, f := range displayLabels {
		if v, ok := f.value(r); ok {
			parts = append(parts, f.label+": "+v)
		}
	}
	return strings.Join(parts, " | ")
}

func toID(field string, v any) (*int64, error) {
	switch n := v.(type) {
	case int64:
		return &n, nil
	case int:
		id := int64(n)
		return &id, nil
	case float64:
		id := int64(n)
		if float64(id) != n {
			return nil, NewValidationError(field, "not an integer")
		}
		return &id, nil
	default:
		return nil, NewValidationError(field, fmt.Sprintf("unsupported type %T", v))
	}
}

func toText(field string, v any) (*string, error) {
	s, ok := v.(string)
	if !ok {
		return nil, NewValidationError(field, fmt.Sprintf("unsupported type %T", v))
	}
	return &s, nil
}

func toMoney(v any) (*Money, error) {
	switch n := v.(type) {
	case float64:
		m := MoneyFromFloat(n)
		return &m, nil
	case int:
		m := Money{Cents: int64(n) * 100}
		return &m, nil
	case int64:
		m := Money{Cents: n * 100}
		return &m, nil
	case Money:
		return &n, nil
	case string:
		cents, err := ParseDecimalToCents(n)
		if err != nil {
			return nil, err
		}
		return &Money{Cents: cents}, nil
	default:
		return nil, NewValidationError("amount", fmt.Sprintf("unsupported type %T", v))
	}
}

func toTimestamp(field string, v any) (*string, error) {
	ts, err := NormalizeTimestamp(v)
	if err != nil {
		return nil, NewValidationError(field, "unsupported timestamp type")
	}
	return &ts, nil
}

func toFlag(field string, v any) (*bool, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, NewValidationError(field, fmt.Sprintf("unsupported type %T", v))
	}
	return &b, nil
}
