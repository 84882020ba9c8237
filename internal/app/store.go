package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"load-planning-service/internal/adapters/repositories"
	"load-planning-service/internal/config"
	"load-planning-service/internal/platform/db"
	"load-planning-service/internal/ports"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

// OpenStore connects the record store selected by cfg.Backend and prepares
// its schema. The returned close func releases the connection.
func OpenStore(ctx context.Context, cfg config.Store) (ports.RecordStore, func() error, error) {
	switch cfg.Backend {
	case "", BackendSQLite:
		conn, err := openSqlite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitSchema(conn); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return repositories.NewSqliteRecordStore(conn), conn.Close, nil

	case BackendPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, nil, errors.New("open store: DATABASE_URL is required for the postgres backend")
		}
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		if err := db.Migrate(conn); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return repositories.NewSQLRecordStore(conn), conn.Close, nil

	case BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("open store: ping redis %q: %w", cfg.RedisAddr, err)
		}
		return repositories.NewRedisRecordStore(client), client.Close, nil

	case BackendMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURL))
		if err != nil {
			return nil, nil, fmt.Errorf("open store: connect mongo: %w", err)
		}
		if err := client.Ping(connectCtx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("open store: ping mongo: %w", err)
		}
		closeFn := func() error { return client.Disconnect(context.Background()) }
		return repositories.NewMongoRecordStore(client, cfg.MongoDatabase), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("open store: unsupported STORE_BACKEND %q", cfg.Backend)
	}
}

func openSqlite(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dbPath != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("openDB: create directory for %q: %w", dbPath, err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return conn, nil
}

// SeedIfPresent loads the seed file into store when the file exists.
func SeedIfPresent(ctx context.Context, store ports.RecordStore, seedPath string) error {
	if strings.TrimSpace(seedPath) == "" {
		return nil
	}
	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		zap.L().Info("no seed file, starting with stored records", zap.String("path", seedPath))
		return nil
	}

	n, err := repositories.SeedFromJSON(ctx, store, seedPath)
	if err != nil {
		return fmt.Errorf("seed store: %w", err)
	}
	zap.L().Info("store seeded", zap.String("path", seedPath), zap.Int("records", n))
	return nil
}
