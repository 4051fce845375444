package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"time"
)

const devSecret = "dev-insecure-secret"

type Config struct {
	Port           string
	DBDSN          string
	LogFile        string
	JWTSecret      string
	TokenTTL       time.Duration
	StorageTimeout time.Duration
	LedgerRetries  int
	BcryptCost     int
	LoginRateMax   int
	SeedDemo       bool
}

func Load() Config {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		DBDSN:          getenv("DB_DSN", "crm.db"), // sqlite file in working dir; postgres:// selects pgx
		LogFile:        os.Getenv("LOG_FILE"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       getduration("TOKEN_TTL", 24*time.Hour),
		StorageTimeout: getduration("STORAGE_TIMEOUT", 5*time.Second),
		LedgerRetries:  getint("LEDGER_RETRIES", 3),
		BcryptCost:     getint("BCRYPT_COST", 10),
		LoginRateMax:   getint("LOGIN_RATE_MAX", 5),
		SeedDemo:       getbool("SEED_DEMO", false),
	}
	if cfg.JWTSecret == "" {
		log.Printf("[warn] JWT_SECRET not set, using development secret")
		cfg.JWTSecret = devSecret
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s TOKEN_TTL=%s STORAGE_TIMEOUT=%s",
		cfg.Port, redact(cfg.DBDSN), cfg.LogFile, cfg.TokenTTL, cfg.StorageTimeout)
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("[warn] bad %s=%q, using %d", k, v, def)
		return def
	}
	return n
}

func getbool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[warn] bad %s=%q, using %t", k, v, def)
		return def
	}
	return b
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[warn] bad %s=%q, using %s", k, v, def)
		return def
	}
	return d
}

// redact hides the password part of a URL-style DSN.
func redact(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		return u.Redacted()
	}
	return dsn
}
