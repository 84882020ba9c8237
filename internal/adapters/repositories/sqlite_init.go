package repositories

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"load-planning-service/internal/ports"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRecordsQuery := `
	CREATE TABLE IF NOT EXISTS records (
		kind TEXT NOT NULL,
		record_key TEXT NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (kind, record_key)
	);
	`

	statements := []string{
		createRecordsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// SeedDocument is the on-disk seed format: one array of records per kind.
// Every record is a JSON object with a non-empty "id".
type SeedDocument struct {
	Companies []json.RawMessage `json:"companies"`
	Demands   []json.RawMessage `json:"demands"`
	Stock     []json.RawMessage `json:"stock"`
	Matches   []json.RawMessage `json:"matches"`
}

func (d SeedDocument) byKind() map[ports.RecordKind][]json.RawMessage {
	return map[ports.RecordKind][]json.RawMessage{
		ports.RecordCompanies: d.Companies,
		ports.RecordDemands:   d.Demands,
		ports.RecordStock:     d.Stock,
		ports.RecordMatches:   d.Matches,
	}
}

// Populate the store with records from a JSON seed file.
// Existing records with the same id are replaced. Returns the number of
// records written.
func SeedFromJSON(ctx context.Context, store ports.RecordStore, jsonPath string) (int, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed records: read %q: %w", jsonPath, err)
	}

	var doc SeedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("seed records: parse json: %w", err)
	}

	return SeedDocumentInto(ctx, store, doc)
}

// SeedDocumentInto validates every record of doc before writing any of them.
func SeedDocumentInto(ctx context.Context, store ports.RecordStore, doc SeedDocument) (int, error) {
	type row struct {
		kind ports.RecordKind
		key  string
		body []byte
	}

	byKind := doc.byKind()
	rows := make([]row, 0, len(doc.Companies)+len(doc.Demands)+len(doc.Stock)+len(doc.Matches))
	for _, kind := range ports.RecordKinds {
		for i, raw := range byKind[kind] {
			var head struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(raw, &head); err != nil {
				return 0, fmt.Errorf("seed records: %s at index %d: %w", kind, i+1, err)
			}

			id := strings.TrimSpace(head.ID)
			if id == "" {
				return 0, fmt.Errorf("seed records: %s at index %d: id cannot be empty", kind, i+1)
			}

			var compact bytes.Buffer
			if err := json.Compact(&compact, raw); err != nil {
				return 0, fmt.Errorf("seed records: %s id=%q: %w", kind, id, err)
			}
			rows = append(rows, row{kind: kind, key: id, body: compact.Bytes()})
		}
	}

	for _, r := range rows {
		if err := store.Put(ctx, r.kind, r.key, r.body); err != nil {
			return 0, fmt.Errorf("seed records: put %s id=%q: %w", r.kind, r.key, err)
		}
	}

	return len(rows), nil
}
