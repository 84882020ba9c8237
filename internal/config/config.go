package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Store struct {
	Backend       string
	DBPath        string
	DatabaseURL   string
	RedisAddr     string
	MongoURL      string
	MongoDatabase string
	SeedPath      string
}

type Oracle struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Config struct {
	Port            string
	Store           Store
	Oracle          Oracle
	TruckCapacityM3 float64
	PlanLanguage    string
	LogLevel        string
	LogFormat       string
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// It reports whether a file was loaded.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Load reads configuration from the environment, after an optional .env file.
func Load() Config {
	LoadDotEnv()

	return Config{
		Port: Get("PORT", "8080"),
		Store: Store{
			Backend:       strings.ToLower(Get("STORE_BACKEND", "sqlite")),
			DBPath:        Get("DB_PATH", "data/app.db"),
			DatabaseURL:   os.Getenv("DATABASE_URL"),
			RedisAddr:     Get("REDIS_ADDR", "localhost:6379"),
			MongoURL:      Get("MONGO_URL", "mongodb://localhost:27017"),
			MongoDatabase: Get("MONGO_DATABASE", "loadplanning"),
			SeedPath:      Get("SEED_PATH", "data/seeds/records.json"),
		},
		Oracle: Oracle{
			APIKey:  FirstSet("GEMINI_API_KEY", "VITE_GEMINI_API_KEY", "API_KEY"),
			Model:   Get("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout: GetDuration("ORACLE_TIMEOUT", 90*time.Second),
		},
		TruckCapacityM3: GetFloat("TRUCK_CAPACITY_M3", 25),
		PlanLanguage:    Get("PLAN_LANGUAGE", "en"),
		LogLevel:        Get("LOG_LEVEL", "info"),
		LogFormat:       Get("LOG_FORMAT", "json"),
	}
}

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// FirstSet returns the first non-blank value among keys.
func FirstSet(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func GetFloat(key string, fallback float64) float64 {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		zap.L().Warn("ignoring invalid numeric setting", zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return v
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		zap.L().Warn("ignoring invalid duration setting", zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return v
}
