package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Backend selects the medium behind the keyed store.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendMongo  Backend = "mongo"
	BackendRedis  Backend = "redis"
	BackendRemote Backend = "remote"
)

// Config aggregates application configuration values loaded from
// environment variables.
type Config struct {
	Env          string
	HTTPAddr     string
	StoreBackend Backend
	MongoURI     string
	MongoDB      string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	RemoteAPIURL string
	KafkaBrokers []string
	KafkaTopic   string
	SeedData     bool
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:          getEnv("APP_ENV", "dev"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		StoreBackend: Backend(strings.ToLower(getEnv("STORE_BACKEND", string(BackendMemory)))),
		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDB:      getEnv("MONGO_DB", "staybook"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		RemoteAPIURL: os.Getenv("REMOTE_API_URL"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "staybook.reservations"),
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	redisDB, err := parseIntEnv("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.RedisDB = redisDB
	seed, err := parseBoolEnv("SEED_DATA", true)
	if err != nil {
		return Config{}, err
	}
	cfg.SeedData = seed

	switch cfg.StoreBackend {
	case BackendMemory, BackendRedis:
	case BackendMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required for the mongo backend")
		}
	case BackendRemote:
		if cfg.RemoteAPIURL == "" {
			return Config{}, fmt.Errorf("REMOTE_API_URL is required for the remote backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
