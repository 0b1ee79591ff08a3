// Package storage owns the records schema and executes every command
// against it. All SQL is parameterized; filter and record values never
// reach the query text.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"costbook/internal/core"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed persistence layer. The embedded *sql.DB pool
// is safe for concurrent callers; single-statement atomicity comes from the
// engine itself, so no additional in-process locking is held here.
type Store struct {
	db *sql.DB
}

// Open creates the database file if needed, verifies the connection and
// applies the schema migrations. Callers own the returned Store and must
// Close it.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w: %v", core.ErrStoreUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w: %v", core.ErrStoreUnavailable, err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Query executes the filter and materializes the matching records, most
// recent occurred_at first, at most filter.Limit rows starting after
// filter.Offset.
func (s *Store) Query(ctx context.Context, f core.Filter) ([]core.Record, error) {
	query, args := BuildQuery(f)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	slog.DebugContext(ctx, "Records queried",
		"count", len(records),
		"filter", f.String())

	return records, nil
}

// Insert validates the required fields, persists the record and returns the
// system-assigned id. Any caller-supplied id is rejected; timestamp and
// amount representations were already normalized by core coercion.
func (s *Store) Insert(ctx context.Context, r core.Record) (int64, error) {
	if err := r.ValidateForInsert(); err != nil {
		return 0, err
	}

	query, args := BuildInsert(r)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	slog.InfoContext(ctx, "Record inserted",
		"record_id", id,
		"owner_id", *r.OwnerID,
		"category", *r.Category,
		"amount_cents", r.Amount.Cents)

	return id, nil
}

// Update applies the record's set fields to the row matching both id and
// owner_id and refreshes updated_at. A mismatched owner matches zero rows
// and surfaces as core.ErrNotFound.
func (s *Store) Update(ctx context.Context, r core.Record) error {
	if r.ID == nil {
		return core.NewValidationError("id", "required")
	}
	if r.OwnerID == nil {
		return core.NewValidationError("owner_id", "required")
	}

	query, args := BuildUpdate(r)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update record %d for owner %d: %w", *r.ID, *r.OwnerID, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Record updated",
		"record_id", *r.ID,
		"owner_id", *r.OwnerID)

	return nil
}

// Delete removes the rows whose id is in ids and whose owner_id matches.
// Ids that do not exist or belong to another owner are skipped, and the
// number of rows actually deleted is returned. An empty id list is a caller
// error.
func (s *Store) Delete(ctx context.Context, ids []int64, ownerID int64) (int64, error) {
	if len(ids) == 0 {
		return 0, core.NewValidationError("ids", "empty id list")
	}

	query, args := BuildDelete(ids, ownerID)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete records: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read affected rows: %w", err)
	}

	slog.InfoContext(ctx, "Records deleted",
		"owner_id", ownerID,
		"requested", len(ids),
		"deleted", deleted)

	return deleted, nil
}

func scanRecord(rows *sql.Rows) (core.Record, error) {
	var (
		r        core.Record
		id       int64
		ownerID  int64
		category string
		title    string
		amount   float64
		occurred string
		note     sql.NullString
		isIncome bool
		created  sql.NullString
		updated  sql.NullString
	)

	err := rows.Scan(&id, &ownerID, &category, &title, &amount, &occurred,
		&note, &isIncome, &created, &updated)
	if err != nil {
		return core.Record{}, err
	}

	money := core.MoneyFromFloat(amount)
	r.ID = &id
	r.OwnerID = &ownerID
	r.Category = &category
	r.Title = &title
	r.Amount = &money
	r.OccurredAt = &occurred
	r.IsIncome = &isIncome
	if note.Valid {
		r.Note = &note.String
	}
	if created.Valid {
		r.CreatedAt = &created.String
	}
	if updated.Valid {
		r.UpdatedAt = &updated.String
	}
	return r, nil
}
