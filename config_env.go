package loginguard

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadEnvOnce sync.Once

// ConfigFromEnv builds a Config from the process environment, loading a
// .env file once if one is present. Unset variables keep their defaults.
//
// Recognized variables:
//
//	LOGINGUARD_MAX_ATTEMPTS        int
//	LOGINGUARD_BLOCK_DURATION      duration ("300s", "5m")
//	LOGINGUARD_ATTEMPT_RETENTION   duration
//	LOGINGUARD_SESSION_TIMEOUT     duration
//	LOGINGUARD_BLACKLIST_TTL       duration
//	LOGINGUARD_BLACKLIST_MAX       int
//	LOGINGUARD_CLEANUP_RETRIES     int
//	LOGINGUARD_RESOLVER_ENDPOINT   URL ("" disables resolution)
//	LOGINGUARD_RESOLVER_TIMEOUT    duration
//	LOGINGUARD_ENCRYPTION_KEY      32-byte key (raw string)
//	LOGINGUARD_REDIS_PREFIX        string
func ConfigFromEnv() Config {
	loadEnvOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			if !os.IsNotExist(err) {
				log.Printf("loginguard: could not load .env file: %v", err)
			}
		}
	})

	cfg := defaultConfig()

	cfg.Attempts.MaxAttempts = envIntOrDefault("LOGINGUARD_MAX_ATTEMPTS", cfg.Attempts.MaxAttempts)
	cfg.Attempts.BlockDuration = envDurationOrDefault("LOGINGUARD_BLOCK_DURATION", cfg.Attempts.BlockDuration)
	cfg.Attempts.Retention = envDurationOrDefault("LOGINGUARD_ATTEMPT_RETENTION", cfg.Attempts.Retention)
	cfg.Session.IdleTimeout = envDurationOrDefault("LOGINGUARD_SESSION_TIMEOUT", cfg.Session.IdleTimeout)
	cfg.Blacklist.EntryTTL = envDurationOrDefault("LOGINGUARD_BLACKLIST_TTL", cfg.Blacklist.EntryTTL)
	cfg.Blacklist.MaxEntries = envIntOrDefault("LOGINGUARD_BLACKLIST_MAX", cfg.Blacklist.MaxEntries)
	cfg.Cleanup.Retries = envIntOrDefault("LOGINGUARD_CLEANUP_RETRIES", cfg.Cleanup.Retries)
	cfg.Resolver.Timeout = envDurationOrDefault("LOGINGUARD_RESOLVER_TIMEOUT", cfg.Resolver.Timeout)

	if endpoint, ok := os.LookupEnv("LOGINGUARD_RESOLVER_ENDPOINT"); ok {
		cfg.Resolver.Endpoint = endpoint
	}
	if prefix := os.Getenv("LOGINGUARD_REDIS_PREFIX"); prefix != "" {
		cfg.Storage.RedisPrefix = prefix
	}
	if key := os.Getenv("LOGINGUARD_ENCRYPTION_KEY"); key != "" {
		cfg.Crypto.KeyMaterial = []byte(key)
	}

	return cfg
}

func envIntOrDefault(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("loginguard: invalid %s=%q, using default", name, raw)
		return fallback
	}
	return v
}

func envDurationOrDefault(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("loginguard: invalid %s=%q, using default", name, raw)
		return fallback
	}
	return v
}
