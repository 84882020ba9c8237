package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"load-planning-service/internal/platform/obs"
	"load-planning-service/internal/ports"
)

// SQLite-backed implementation of the RecordStore port.
type SqliteRecordStore struct{ DB *sql.DB }

func NewSqliteRecordStore(db *sql.DB) *SqliteRecordStore {
	return &SqliteRecordStore{DB: db}
}

// Insert or replace one record. The upsert keeps the row's rowid, so a
// replaced record keeps its place in List order.
func (s *SqliteRecordStore) Put(ctx context.Context, kind ports.RecordKind, key string, body []byte) error {
	if s.DB == nil {
		return errors.New("sqlite record store: DB is nil")
	}
	if key == "" {
		return errors.New("put record: key must not be empty")
	}

	query := `
	INSERT INTO records (
		kind,
		record_key,
		body
	)
	VALUES (?, ?, ?)
	ON CONFLICT (kind, record_key) DO UPDATE
	SET body = excluded.body;
	`
	if _, err := s.DB.ExecContext(ctx, query, string(kind), key, string(body)); err != nil {
		return fmt.Errorf("put record: kind=%s key=%q: %w", kind, key, err)
	}

	return nil
}

// Return all records of kind in insertion order.
func (s *SqliteRecordStore) List(ctx context.Context, kind ports.RecordKind) (_ []ports.Record, err error) {
	defer obs.Time(ctx, "records.sqlite.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite record store: DB is nil")
	}

	query := `
	SELECT
		record_key,
		body
	FROM records
	WHERE kind = ?
	ORDER BY rowid;
	`
	rows, err := s.DB.QueryContext(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list records: query records table: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]ports.Record, error) {
	records := make([]ports.Record, 0, 64)
	for rows.Next() {
		var key, body string
		if err := rows.Scan(&key, &body); err != nil {
			return nil, fmt.Errorf("list records: scan row: %w", err)
		}
		records = append(records, ports.Record{Key: key, Body: []byte(body)})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: row iteration: %w", err)
	}

	return records, nil
}
