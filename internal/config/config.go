// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
	StorageS3       = "s3"
)

// Config holds all server configuration
type Config struct {
	Host    string
	Port    int
	Storage string
	DataDir string

	RedisURL       string
	PostgresDSN    string
	MongoURI       string
	MongoDB        string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	EmailDomain    string
	SessionSecret  string
	SessionTTL     time.Duration
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	AdvisorTimeout time.Duration
	AdvisorWorkers int64
	CORSOrigins    []string

	LogFormat string
	LogLevel  slog.Level
}

// Addr returns host:port for the HTTP listener
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only
func FromEnv() (*Config, error) {
	p := &parser{}
	cfg := &Config{
		Host:    getenv("LFG_ADDR", ""),
		Port:    p.int("LFG_PORT", 8080),
		Storage: strings.ToLower(getenv("LFG_STORAGE", StorageMemory)),
		DataDir: getenv("LFG_DATA_DIR", "data"),

		RedisURL:       getenv("REDIS_URL", ""),
		PostgresDSN:    getenv("POSTGRES_DSN", ""),
		MongoURI:       getenv("MONGO_URI", ""),
		MongoDB:        getenv("MONGO_DB", "lfg"),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "lfg"),
		MinioUseSSL:    p.bool("MINIO_USE_SSL", false),

		EmailDomain:    getenv("LFG_EMAIL_DOMAIN", "@gmail.com"),
		SessionSecret:  getenv("LFG_SESSION_SECRET", ""),
		SessionTTL:     p.duration("LFG_SESSION_TTL", 24*time.Hour),
		OpenAIAPIKey:   getenv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getenv("OPENAI_BASE_URL", ""),
		OpenAIModel:    getenv("OPENAI_MODEL", "gpt-4o"),
		AdvisorTimeout: p.duration("LFG_ADVISOR_TIMEOUT", 30*time.Second),
		AdvisorWorkers: int64(p.int("LFG_ADVISOR_CONCURRENCY", 4)),
		CORSOrigins:    splitList(getenv("LFG_CORS_ORIGINS", "*")),

		LogFormat: strings.ToLower(getenv("LFG_LOG_FORMAT", "json")),
		LogLevel:  p.level("LFG_LOG_LEVEL", slog.LevelInfo),
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]map[string]string{
		StorageMemory:   {},
		StorageFile:     {},
		StorageRedis:    {"REDIS_URL": c.RedisURL},
		StoragePostgres: {"POSTGRES_DSN": c.PostgresDSN},
		StorageMongo:    {"MONGO_URI": c.MongoURI},
		StorageS3:       {"MINIO_ENDPOINT": c.MinioEndpoint},
	}
	needs, ok := required[c.Storage]
	if !ok {
		return fmt.Errorf("LFG_STORAGE: unknown backend %q", c.Storage)
	}
	for name, value := range needs {
		if value == "" {
			return fmt.Errorf("%s required when LFG_STORAGE=%s", name, c.Storage)
		}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("LFG_PORT: %d out of range", c.Port)
	}
	if c.AdvisorWorkers <= 0 {
		return errors.New("LFG_ADVISOR_CONCURRENCY must be positive")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LFG_LOG_FORMAT: unknown format %q", c.LogFormat)
	}
	return nil
}

// NewLogger builds the process logger: JSON by default, text when asked
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	var h slog.Handler
	if c.LogFormat == "text" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h)
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parser keeps the first conversion error so Load reports one variable
type parser struct {
	err error
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: invalid value %q: %w", key, value, err)
	}
}

func (p *parser) int(key string, fallback int) int {
	v := getenv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return n
}

func (p *parser) bool(key string, fallback bool) bool {
	v := getenv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return b
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return d
}

func (p *parser) level(key string, fallback slog.Level) slog.Level {
	v := getenv(key, "")
	if v == "" {
		return fallback
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		p.fail(key, v, err)
		return fallback
	}
	return l
}
