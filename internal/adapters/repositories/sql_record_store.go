package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"load-planning-service/internal/platform/obs"
	"load-planning-service/internal/ports"
)

// SQLRecordStore is a Postgres-backed RecordStore. The schema comes from
// the embedded migrations in platform/db.
type SQLRecordStore struct {
	DB *sql.DB
}

func NewSQLRecordStore(db *sql.DB) *SQLRecordStore {
	return &SQLRecordStore{DB: db}
}

// Insert or replace one record. The serial seq column is only assigned on
// insert, so replacing a record keeps its position.
func (s *SQLRecordStore) Put(ctx context.Context, kind ports.RecordKind, key string, body []byte) error {
	if s.DB == nil {
		return errors.New("sql record store: db is nil")
	}
	if key == "" {
		return errors.New("put record: key must not be empty")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO records (kind, record_key, body)
	VALUES ($1, $2, $3::jsonb)
	ON CONFLICT (kind, record_key) DO UPDATE
	SET body = EXCLUDED.body;
	`, string(kind), key, string(body))
	if err != nil {
		return fmt.Errorf("put record: kind=%s key=%q: %w", kind, key, err)
	}

	return nil
}

func (s *SQLRecordStore) List(ctx context.Context, kind ports.RecordKind) (_ []ports.Record, err error) {
	defer obs.Time(ctx, "records.sql.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql record store: db is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT record_key, body::text
	FROM records
	WHERE kind = $1
	ORDER BY seq;
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list records: query records table: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}
