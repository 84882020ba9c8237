package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"load-planning-service/internal/platform/obs"
	"load-planning-service/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRecordStore keeps one collection per record kind. Documents hold
// the raw JSON body and the time they were first inserted.
type MongoRecordStore struct {
	DB       *mongo.Client
	Database string
}

func NewMongoRecordStore(db *mongo.Client, database string) *MongoRecordStore {
	return &MongoRecordStore{DB: db, Database: database}
}

type mongoRecord struct {
	Key       string    `bson:"_id"`
	Body      string    `bson:"body"`
	CreatedAt time.Time `bson:"createdAt"`
}

func (s *MongoRecordStore) collection(kind ports.RecordKind) *mongo.Collection {
	return s.DB.Database(s.Database).Collection(string(kind))
}

func (s *MongoRecordStore) Put(ctx context.Context, kind ports.RecordKind, key string, body []byte) error {
	if s.DB == nil {
		return errors.New("mongo record store: client is nil")
	}
	if key == "" {
		return errors.New("put record: key must not be empty")
	}

	_, err := s.collection(kind).UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{
			"$set":         bson.M{"body": string(body)},
			"$setOnInsert": bson.M{"createdAt": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put record: kind=%s key=%q: %w", kind, key, err)
	}

	return nil
}

func (s *MongoRecordStore) List(ctx context.Context, kind ports.RecordKind) (_ []ports.Record, err error) {
	defer obs.Time(ctx, "records.mongo.List")(&err)

	if s.DB == nil {
		return nil, errors.New("mongo record store: client is nil")
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.collection(kind).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list records: find kind=%s: %w", kind, err)
	}
	defer cur.Close(ctx)

	records := make([]ports.Record, 0, 64)
	for cur.Next(ctx) {
		var doc mongoRecord
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("list records: decode kind=%s: %w", kind, err)
		}
		records = append(records, ports.Record{Key: doc.Key, Body: []byte(doc.Body)})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list records: cursor kind=%s: %w", kind, err)
	}

	return records, nil
}
