package ports

import "context"

// Type of a business record in the key-value store.
type RecordKind string

const (
	RecordCompanies RecordKind = "companies"
	RecordDemands   RecordKind = "demands"
	RecordStock     RecordKind = "stock"
	RecordMatches   RecordKind = "matches"
)

// RecordKinds lists every kind in seeding order.
var RecordKinds = []RecordKind{RecordCompanies, RecordDemands, RecordStock, RecordMatches}

// A raw record addressed by its stable key.
type Record struct {
	Key  string
	Body []byte
}

// Port: key-value storage of raw business records, keyed by record kind.
type RecordStore interface {
	// Insert or replace the record at key. Insertion order is preserved on replace.
	Put(ctx context.Context, kind RecordKind, key string, body []byte) error
	// Return all records of kind in insertion order.
	List(ctx context.Context, kind RecordKind) ([]Record, error)
}
