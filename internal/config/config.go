// internal/config/config.go
//
// Environment-driven configuration with sensible defaults. godotenv is
// loaded by main before this runs, so .env files work in development.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port          string
	ClientOrigin  string
	DatabaseType  string // "sqlite", "postgres", or "mysql"
	DatabasePath  string // sqlite file path
	DatabaseURL   string // postgres/mysql DSN
	MigrationsDir string
	WordsFile     string
	AdminCodeFile string
	AdminTokenTTL time.Duration
	MaxGuesses    int
	DictBaseURL   string
	DictTimeout   time.Duration
}

// Load reads configuration from environment variables.
//
// WORDLY_DB_URL selects the database: a postgres:// URL or a mysql DSN
// switches the dialect, anything else (or unset) means local SQLite at
// DB_PATH.
func Load() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "5175"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DatabaseType:  "sqlite",
		DatabasePath:  getEnv("DB_PATH", "./wordly.sqlite"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "./sql"),
		WordsFile:     getEnv("WORDS_FILE", "candidate_words.txt"),
		AdminCodeFile: getEnv("ADMIN_CODE_FILE", "admin_code.txt"),
		AdminTokenTTL: getEnvDuration("ADMIN_TOKEN_TTL", 15*time.Minute),
		MaxGuesses:    getEnvInt("MAX_GUESSES", 6),
		DictBaseURL:   getEnv("DICT_BASE_URL", ""),
		DictTimeout:   getEnvDuration("DICT_TIMEOUT", 2*time.Second),
	}

	if dbURL := os.Getenv("WORDLY_DB_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
		switch {
		case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
			cfg.DatabaseType = "postgres"
		case strings.HasPrefix(dbURL, "mysql://"), strings.Contains(dbURL, "@tcp("):
			cfg.DatabaseType = "mysql"
			cfg.DatabaseURL = strings.TrimPrefix(dbURL, "mysql://")
		default:
			// Treat anything unrecognized as a sqlite path.
			cfg.DatabaseType = "sqlite"
			cfg.DatabasePath = dbURL
			cfg.DatabaseURL = ""
		}
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
