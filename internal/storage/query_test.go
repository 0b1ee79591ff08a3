package storage

import (
	"database/sql"
	"strings"
	"testing"

	"costbook/internal/core"
)

const baseSelect = "SELECT id, owner_id, category, title, amount, occurred_at, note, is_income, created_at, updated_at FROM records WHERE 1 = 1"

func namedArg(t *testing.T, args []any, name string) any {
	t.Helper()
	for _, a := range args {
		na, ok := a.(sql.NamedArg)
		if !ok {
			t.Fatalf("argument %v is not a named arg", a)
		}
		if na.Name == name {
			return na.Value
		}
	}
	t.Fatalf("no argument named %q in %v", name, args)
	return nil
}

func TestBuildQueryEmptyFilter(t *testing.T) {
	query, args := BuildQuery(core.NewFilter())

	want := baseSelect + " ORDER BY occurred_at DESC, id DESC LIMIT :limit OFFSET :offset"
	if query != want {
		t.Fatalf("query mismatch:\n got %s\nwant %s", query, want)
	}
	if got := namedArg(t, args, "limit"); got != int64(100) {
		t.Fatalf("expected default limit 100, got %v", got)
	}
	if got := namedArg(t, args, "offset"); got != int64(0) {
		t.Fatalf("expected default offset 0, got %v", got)
	}
}

func TestBuildQueryAllPredicates(t *testing.T) {
	owner := int64(1)
	category := "food"
	keyword := "lun"
	income := false
	minA := core.Money{Cents: 1000}
	maxA := core.Money{Cents: 2000}
	start := "2025-01-01 00:00:00"
	end := "2025-02-01 00:00:00"

	f := core.Filter{
		OwnerID:      &owner,
		Category:     &category,
		TitleKeyword: &keyword,
		IsIncome:     &income,
		MinAmount:    &minA,
		MaxAmount:    &maxA,
		StartTime:    &start,
		EndTime:      &end,
		Limit:        50,
		Offset:       10,
	}

	query, args := BuildQuery(f)

	want := baseSelect +
		" AND owner_id = :owner_id" +
		" AND category = :category" +
		" AND title LIKE :title_keyword" +
		" AND is_income = :is_income" +
		" AND amount >= :min_amount" +
		" AND amount <= :max_amount" +
		" AND occurred_at >= :start_time" +
		" AND occurred_at <= :end_time" +
		" ORDER BY occurred_at DESC, id DESC LIMIT :limit OFFSET :offset"
	if query != want {
		t.Fatalf("query mismatch:\n got %s\nwant %s", query, want)
	}

	if got := namedArg(t, args, "title_keyword"); got != "%lun%" {
		t.Fatalf("keyword not wrapped: %v", got)
	}
	if got := namedArg(t, args, "min_amount"); got != 10.0 {
		t.Fatalf("min_amount not converted to float: %v", got)
	}
	if got := namedArg(t, args, "limit"); got != int64(50) {
		t.Fatalf("limit mismatch: %v", got)
	}
}

func TestBuildQueryInjectionStaysInArgs(t *testing.T) {
	keyword := "'; DROP TABLE records; --"
	f := core.NewFilter()
	f.TitleKeyword = &keyword

	query, args := BuildQuery(f)

	if strings.Contains(query, "DROP") {
		t.Fatalf("filter value leaked into query text: %s", query)
	}
	if got := namedArg(t, args, "title_keyword"); got != "%"+keyword+"%" {
		t.Fatalf("keyword value altered: %v", got)
	}
}

func TestBuildInsertPartialColumns(t *testing.T) {
	r, err := core.RecordFromMap(map[string]any{
		"owner_id":    1,
		"category":    "food",
		"title":       "lunch",
		"amount":      12.5,
		"occurred_at": "2025-01-01 12:00:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	query, args := BuildInsert(r)

	want := "INSERT INTO records (owner_id, category, title, amount, occurred_at) " +
		"VALUES (:owner_id, :category, :title, :amount, :occurred_at)"
	if query != want {
		t.Fatalf("query mismatch:\n got %s\nwant %s", query, want)
	}
	if got := namedArg(t, args, "amount"); got != 12.5 {
		t.Fatalf("amount not stored as float: %v", got)
	}
}

func TestBuildUpdateSetsOnlyPresentFields(t *testing.T) {
	r, err := core.RecordFromMap(map[string]any{
		"id":       3,
		"owner_id": 1,
		"title":    "dinner",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	query, args := BuildUpdate(r)

	want := "UPDATE records SET title = :title, updated_at = CURRENT_TIMESTAMP " +
		"WHERE id = :id AND owner_id = :owner_id"
	if query != want {
		t.Fatalf("query mismatch:\n got %s\nwant %s", query, want)
	}
	if got := namedArg(t, args, "id"); got != int64(3) {
		t.Fatalf("id mismatch: %v", got)
	}
	if got := namedArg(t, args, "owner_id"); got != int64(1) {
		t.Fatalf("owner_id mismatch: %v", got)
	}
}

func TestBuildDelete(t *testing.T) {
	query, args := BuildDelete([]int64{4, 9}, 1)

	want := "DELETE FROM records WHERE id IN (:id0, :id1) AND owner_id = :owner_id"
	if query != want {
		t.Fatalf("query mismatch:\n got %s\nwant %s", query, want)
	}
	if got := namedArg(t, args, "id1"); got != int64(9) {
		t.Fatalf("id1 mismatch: %v", got)
	}
	if got := namedArg(t, args, "owner_id"); got != int64(1) {
		t.Fatalf("owner_id mismatch: %v", got)
	}
}
