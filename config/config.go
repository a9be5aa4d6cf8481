package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ParserLedongthuc = "ledongthuc"
	ParserPdf2JSON   = "pdf2json"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig
	Parser    ParserConfig
	Firestore FirestoreConfig
	Redis     RedisConfig
	OpenAI    OpenAIConfig
	Fetch     FetchConfig
	Ingest    IngestConfig
	LogLevel  string
}

type ServerConfig struct {
	Port           string
	BodyLimitBytes int64
}

type ParserConfig struct {
	Name        string
	Pdf2JSONBin string
	TmpDir      string
}

// FirestoreConfig enables extraction reports when Project is set.
type FirestoreConfig struct {
	Project  string
	Database string
}

// RedisConfig enables the text cache when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// OpenAIConfig enables summaries when APIKey is set.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

type FetchConfig struct {
	Timeout time.Duration
}

type IngestConfig struct {
	Workers int
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3001"),
			BodyLimitBytes: getEnvAsInt64("BODY_LIMIT_BYTES", 10<<20),
		},
		Parser: ParserConfig{
			Name:        getEnv("PARSER", ParserLedongthuc),
			Pdf2JSONBin: getEnv("PDF2JSON_BIN", "pdf2json"),
			TmpDir:      getEnv("TMP_DIR", os.TempDir()),
		},
		Firestore: FirestoreConfig{
			Project:  getEnv("FIRESTORE_PROJECT", ""),
			Database: getEnv("FIRESTORE_DATABASE", "(default)"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "ocr:text:"),
			TTL:      getEnvAsDuration("CACHE_TTL", 24*time.Hour),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Fetch: FetchConfig{
			Timeout: getEnvAsDuration("FETCH_TIMEOUT", 30*time.Second),
		},
		Ingest: IngestConfig{
			Workers: getEnvAsInt("INGEST_WORKERS", 4),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.Server.BodyLimitBytes <= 0 {
		errs = append(errs, fmt.Errorf("BODY_LIMIT_BYTES must be positive, got %d", c.Server.BodyLimitBytes))
	}
	switch c.Parser.Name {
	case ParserLedongthuc, ParserPdf2JSON:
	default:
		errs = append(errs, fmt.Errorf("PARSER must be %q or %q, got %q", ParserLedongthuc, ParserPdf2JSON, c.Parser.Name))
	}
	if c.Ingest.Workers <= 0 {
		errs = append(errs, fmt.Errorf("INGEST_WORKERS must be positive, got %d", c.Ingest.Workers))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.Fetch.Timeout))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
