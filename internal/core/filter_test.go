package core

import (
	"strings"
	"testing"
)

func TestFilterFromMapDefaults(t *testing.T) {
	f, err := FilterFromMap(map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Limit != DefaultLimit || f.Offset != DefaultOffset {
		t.Fatalf("expected default pagination, got limit=%d offset=%d", f.Limit, f.Offset)
	}
	if f.OwnerID != nil || f.Category != nil || f.TitleKeyword != nil ||
		f.IsIncome != nil || f.MinAmount != nil || f.MaxAmount != nil ||
		f.StartTime != nil || f.EndTime != nil {
		t.Fatalf("expected no predicates set: %+v", f)
	}
}

func TestFilterFromMap(t *testing.T) {
	f, err := FilterFromMap(map[string]any{
		"owner_id":      float64(1),
		"category":      "food",
		"title_keyword": "lun",
		"is_income":     true,
		"min_amount":    10,
		"max_amount":    20.5,
		"start_time":    "2025-01-01 00:00:00",
		"end_time":      "2025-02-01 00:00:00",
		"limit":         float64(50),
		"offset":        float64(10),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *f.OwnerID != 1 || *f.Category != "food" || *f.TitleKeyword != "lun" || !*f.IsIncome {
		t.Fatalf("exact-match predicates wrong: %s", f)
	}
	if f.MinAmount.Cents != 1000 || f.MaxAmount.Cents != 2050 {
		t.Fatalf("amount bounds wrong: min=%d max=%d", f.MinAmount.Cents, f.MaxAmount.Cents)
	}
	if f.Limit != 50 || f.Offset != 10 {
		t.Fatalf("pagination wrong: limit=%d offset=%d", f.Limit, f.Offset)
	}
}

func TestFilterFromMapUnknownField(t *testing.T) {
	_, err := FilterFromMap(map[string]any{"owner": 1})
	if err == nil || !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestFilterString(t *testing.T) {
	f := NewFilter()
	kw := "lunch"
	f.TitleKeyword = &kw
	s := f.String()
	if !strings.Contains(s, `title_keyword="lunch"`) || !strings.Contains(s, "limit=100") {
		t.Fatalf("unexpected summary: %s", s)
	}
}
