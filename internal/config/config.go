package config

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend names the persistence backend of the HTTP service.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
	BackendFile   Backend = "file"
)

// Config is the service configuration, read from the environment.
// CLI flags override individual fields.
type Config struct {
	Addr        string  `env:"CALCCHAIN_ADDR" envDefault:":8080"`
	Backend     Backend `env:"CALCCHAIN_BACKEND" envDefault:"memory"`
	ChainsFile  string  `env:"CALCCHAIN_CHAINS_FILE"`
	ResultsPath string  `env:"CALCCHAIN_RESULTS_PATH" envDefault:"/results"`
	LogLevel    string  `env:"CALCCHAIN_LOG_LEVEL" envDefault:"info"`
	LogFormat   string  `env:"CALCCHAIN_LOG_FORMAT" envDefault:"text"`

	// SessionTTL bounds how long an idle chain survives (0 keeps it forever).
	SessionTTL   time.Duration `env:"CALCCHAIN_SESSION_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"CALCCHAIN_COOKIE_SECURE" envDefault:"false"`

	// AllowedOrigins may call the API cross-origin with the session cookie.
	AllowedOrigins []string `env:"CALCCHAIN_ALLOWED_ORIGINS" envSeparator:","`

	RedisAddr     string `env:"CALCCHAIN_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"CALCCHAIN_REDIS_PASSWORD"`
	RedisDB       int    `env:"CALCCHAIN_REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"CALCCHAIN_REDIS_PREFIX" envDefault:"calcchain:session:"`

	FileDir string `env:"CALCCHAIN_FILE_DIR" envDefault:".calcchain/sessions"`

	// EncryptionKey is a base64 AES-256 key. Empty disables encryption at rest.
	EncryptionKey string `env:"CALCCHAIN_ENCRYPTION_KEY"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field combinations that env tags cannot express.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendRedis, BackendFile:
	default:
		return fmt.Errorf("unknown backend %q (want memory, redis or file)", c.Backend)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session ttl must not be negative")
	}
	if _, err := c.Key(); err != nil {
		return err
	}
	return nil
}

// Key decodes EncryptionKey. It returns nil when encryption is disabled.
func (c Config) Key() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}
