package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by CREDENTIAL_BACKEND.
const (
	BackendMock   = "mock"
	BackendRemote = "remote"
	BackendLedger = "ledger"
)

// Defaults applied when the corresponding variable is unset.
var (
	DefaultAddr           = ":8080"
	DefaultIssueTimeout   = 30 * time.Second
	DefaultRemoteTimeout  = 10 * time.Second
	DefaultMaxUploadBytes = int64(5 << 20)
	DefaultPublicBaseURL  = "http://localhost:8080"
)

// Config captures process level configuration for the server and CLI.
type Config struct {
	Addr        string
	Environment string
	Backend     string

	// MockLatency overrides the mock store's simulated latency when non-nil.
	MockLatency *time.Duration

	Remote RemoteConfig
	// IssueTimeout bounds each issuance call during a batch. Zero disables it.
	IssueTimeout time.Duration

	DatabaseURL string
	Redis       RedisConfig

	InstitutionsFile string
	PublicBaseURL    string
	MaxUploadBytes   int64

	LogLevel  string
	LogFormat string
}

// RemoteConfig configures the HTTP client for the remote credential API.
type RemoteConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// RedisConfig holds Redis connection settings. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRedisConfig returns pool settings suitable for the job store.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// FromEnv builds and validates a Config from environment variables so main
// stays lean.
func FromEnv() (Config, error) {
	cfg, err := Load()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads environment variables without cross-field validation, so
// callers can apply overrides such as command-line flags before Validate.
func Load() (Config, error) {
	cfg := Config{
		Addr:             envOr("CREDHUB_ADDR", DefaultAddr),
		Environment:      envOr("CREDHUB_ENV", "development"),
		Backend:          strings.ToLower(envOr("CREDENTIAL_BACKEND", BackendMock)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Redis:            DefaultRedisConfig(),
		InstitutionsFile: os.Getenv("INSTITUTIONS_FILE"),
		PublicBaseURL:    strings.TrimRight(envOr("PUBLIC_BASE_URL", DefaultPublicBaseURL), "/"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogFormat:        envOr("LOG_FORMAT", "json"),
		Remote: RemoteConfig{
			BaseURL: strings.TrimRight(os.Getenv("REMOTE_BASE_URL"), "/"),
			APIKey:  os.Getenv("REMOTE_API_KEY"),
		},
	}
	cfg.Redis.URL = os.Getenv("REDIS_URL")

	var err error
	if cfg.Remote.Timeout, err = durationEnv("REMOTE_TIMEOUT", DefaultRemoteTimeout); err != nil {
		return Config{}, err
	}
	if cfg.IssueTimeout, err = durationEnv("ISSUE_TIMEOUT", DefaultIssueTimeout); err != nil {
		return Config{}, err
	}
	if raw := os.Getenv("MOCK_LATENCY"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("invalid MOCK_LATENCY %q", raw)
		}
		cfg.MockLatency = &d
	}
	cfg.MaxUploadBytes = DefaultMaxUploadBytes
	if raw := os.Getenv("MAX_UPLOAD_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q", raw)
		}
		cfg.MaxUploadBytes = n
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMock, BackendLedger:
	case BackendRemote:
		if c.Remote.BaseURL == "" {
			return fmt.Errorf("REMOTE_BASE_URL is required when CREDENTIAL_BACKEND=%s", BackendRemote)
		}
	default:
		return fmt.Errorf("unknown CREDENTIAL_BACKEND %q (want mock, remote or ledger)", c.Backend)
	}
	if c.IssueTimeout < 0 {
		return fmt.Errorf("ISSUE_TIMEOUT must not be negative")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
