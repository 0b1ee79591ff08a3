package storage

import (
	"database/sql"
	"strconv"
	"strings"

	"costbook/internal/core"
)

// recordColumns is the full projection, in scan order.
const recordColumns = "id, owner_id, category, title, amount, occurred_at, note, is_income, created_at, updated_at"

// BuildQuery compiles a filter into a parameterized SELECT. Predicates are
// appended in a fixed order so the generated text is stable and testable:
//
//	owner_id, category, title_keyword, is_income,
//	min_amount, max_amount, start_time, end_time
//
// Every value is bound through sql.Named; only column names from the closed
// set above ever reach the query text. The ordering clause sorts by
// occurred_at descending with id descending as tie-break, and pagination is
// always appended from the filter's (defaulted) limit/offset.
func BuildQuery(f core.Filter) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT " + recordColumns + " FROM records WHERE 1 = 1")
	args := make([]any, 0, 10)

	if f.OwnerID != nil {
		b.WriteString(" AND owner_id = :owner_id")
		args = append(args, sql.Named("owner_id", *f.OwnerID))
	}
	if f.Category != nil {
		b.WriteString(" AND category = :category")
		args = append(args, sql.Named("category", *f.Category))
	}
	if f.TitleKeyword != nil {
		b.WriteString(" AND title LIKE :title_keyword")
		args = append(args, sql.Named("title_keyword", "%"+*f.TitleKeyword+"%"))
	}
	if f.IsIncome != nil {
		b.WriteString(" AND is_income = :is_income")
		args = append(args, sql.Named("is_income", *f.IsIncome))
	}
	if f.MinAmount != nil {
		b.WriteString(" AND amount >= :min_amount")
		args = append(args, sql.Named("min_amount", f.MinAmount.Float64()))
	}
	if f.MaxAmount != nil {
		b.WriteString(" AND amount <= :max_amount")
		args = append(args, sql.Named("max_amount", f.MaxAmount.Float64()))
	}
	if f.StartTime != nil {
		b.WriteString(" AND occurred_at >= :start_time")
		args = append(args, sql.Named("start_time", *f.StartTime))
	}
	if f.EndTime != nil {
		b.WriteString(" AND occurred_at <= :end_time")
		args = append(args, sql.Named("end_time", *f.EndTime))
	}

	b.WriteString(" ORDER BY occurred_at DESC, id DESC")
	b.WriteString(" LIMIT :limit OFFSET :offset")
	args = append(args,
		sql.Named("limit", f.Limit),
		sql.Named("offset", f.Offset))

	return b.String(), args
}

// insertColumn pairs a column name with a presence check and value
// extractor, so the INSERT column list is driven by an explicit enumeration
// of known columns instead of reflection.
type insertColumn struct {
	name  string
	value func(core.Record) (any, bool)
}

// insertColumns lists every caller-settable column in insert order. The id
// is system-assigned and created_at/updated_at fall back to the table
// defaults when absent.
var insertColumns = []insertColumn{
	{"owner_id", func(r core.Record) (any, bool) {
		if r.OwnerID == nil {
			return nil, false
		}
		return *r.OwnerID, true
	}},
	{"category", func(r core.Record) (any, bool) {
		if r.Category == nil {
			return nil, false
		}
		return *r.Category, true
	}},
	{"title", func(r core.Record) (any, bool) {
		if r.Title == nil {
			return nil, false
		}
		return *r.Title, true
	}},
	{"amount", func(r core.Record) (any, bool) {
		if r.Amount == nil {
			return nil, false
		}
		return r.Amount.Float64(), true
	}},
	{"occurred_at", func(r core.Record) (any, bool) {
		if r.OccurredAt == nil {
			return nil, false
		}
		return *r.OccurredAt, true
	}},
	{"note", func(r core.Record) (any, bool) {
		if r.Note == nil {
			return nil, false
		}
		return *r.Note, true
	}},
	{"is_income", func(r core.Record) (any, bool) {
		if r.IsIncome == nil {
			return nil, false
		}
		return *r.IsIncome, true
	}},
	{"created_at", func(r core.Record) (any, bool) {
		if r.CreatedAt == nil {
			return nil, false
		}
		return *r.CreatedAt, true
	}},
	{"updated_at", func(r core.Record) (any, bool) {
		if r.UpdatedAt == nil {
			return nil, false
		}
		return *r.UpdatedAt, true
	}},
}

// BuildInsert compiles an INSERT containing only the record's set columns.
func BuildInsert(r core.Record) (string, []any) {
	names := make([]string, 0, len(insertColumns))
	placeholders := make([]string, 0, len(insertColumns))
	args := make([]any, 0, len(insertColumns))

	for _, col := range insertColumns {
		v, ok := col.value(r)
		if !ok {
			continue
		}
		names = append(names, col.name)
		placeholders = append(placeholders, ":"+col.name)
		args = append(args, sql.Named(col.name, v))
	}

	q := "INSERT INTO records (" + strings.Join(names, ", ") +
		") VALUES (" + strings.Join(placeholders, ", ") + ")"
	return q, args
}

// updatableColumns lists the columns a partial update may touch, in SET
// order. The id and owner_id are scoping keys, created_at is immutable
// audit data, and updated_at is always refreshed by BuildUpdate itself.
var updatableColumns = []insertColumn{
	insertColumns[1], // category
	insertColumns[2], // title
	insertColumns[3], // amount
	insertColumns[4], // occurred_at
	insertColumns[5], // note
	insertColumns[6], // is_income
}

// BuildUpdate compiles a partial UPDATE scoped by id and owner_id. The
// caller must have checked that both keys are present.
func BuildUpdate(r core.Record) (string, []any) {
	sets := make([]string, 0, len(updatableColumns)+1)
	args := make([]any, 0, len(updatableColumns)+3)

	for _, col := range updatableColumns {
		v, ok := col.value(r)
		if !ok {
			continue
		}
		sets = append(sets, col.name+" = :"+col.name)
		args = append(args, sql.Named(col.name, v))
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	q := "UPDATE records SET " + strings.Join(sets, ", ") +
		" WHERE id = :id AND owner_id = :owner_id"
	args = append(args,
		sql.Named("id", *r.ID),
		sql.Named("owner_id", *r.OwnerID))
	return q, args
}

// BuildDelete compiles a DELETE over an id set, scoped by owner_id. Each id
// gets its own named parameter so values never touch the query text.
func BuildDelete(ids []int64, ownerID int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	for i, id := range ids {
		name := "id" + strconv.Itoa(i)
		placeholders[i] = ":" + name
		args = append(args, sql.Named(name, id))
	}
	args = append(args, sql.Named("owner_id", ownerID))

	q := "DELETE FROM records WHERE id IN (" + strings.Join(placeholders, ", ") +
		") AND owner_id = :owner_id"
	return q, args
}
