package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"vrme/cmd/internal/auth"
	authapi "vrme/cmd/internal/auth/api"
	"vrme/cmd/internal/auth/session"
	"vrme/cmd/security/password"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfigPath names the config file when no -config flag is given.
const EnvConfigPath = "VRME_CONFIG"

// DefaultConfigFile is tried in the working directory last.
const DefaultConfigFile = "config.yaml"

// Config is the complete runtime configuration. It is built once at startup
// and passed to every constructor.
//
// Sources, highest priority first: the -config file path, $VRME_CONFIG,
// ./config.yaml, and finally environment variables only. Environment
// variables always overlay values read from a file.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	DB        DBConfig        `yaml:"db"`
	Auth      AuthConfig      `yaml:"auth"`
	Readiness ReadinessConfig `yaml:"readiness"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr              string        `yaml:"addr" env:"VRME_HTTP_ADDR" env-default:"0.0.0.0:8080"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"VRME_HTTP_READ_HEADER_TIMEOUT" env-default:"5s"`
	ReadTimeout       time.Duration `yaml:"read_timeout" env:"VRME_HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout      time.Duration `yaml:"write_timeout" env:"VRME_HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" env:"VRME_HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"VRME_HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxHeaderBytes    int           `yaml:"max_header_bytes" env:"VRME_HTTP_MAX_HEADER_BYTES" env-default:"1048576"`
	JSONSizeLimit     int64         `yaml:"json_size_limit" env:"VRME_HTTP_JSON_SIZE_LIMIT" env-default:"4096"`
}

// LogConfig selects log level and output format ("json" or "pretty").
type LogConfig struct {
	Level  string `yaml:"level" env:"VRME_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"VRME_LOG_FORMAT" env-default:"json"`
}

// DBConfig holds Postgres settings. An empty URL runs with in-memory stores.
type DBConfig struct {
	URL      string `yaml:"url" env:"VRME_DATABASE_URL"`
	MaxConns int32  `yaml:"max_conns" env:"VRME_DB_MAX_CONNS" env-default:"10"`
	MinConns int32  `yaml:"min_conns" env:"VRME_DB_MIN_CONNS" env-default:"0"`
	// SkipMigrations leaves the schema alone at startup.
	SkipMigrations bool `yaml:"skip_migrations" env:"VRME_DB_SKIP_MIGRATIONS"`
}

// AuthConfig holds credential and session settings.
type AuthConfig struct {
	ValidityWindow time.Duration `yaml:"validity_window" env:"VRME_AUTH_VALIDITY_WINDOW" env-default:"24h"`
	Iterations     int           `yaml:"iterations" env:"VRME_AUTH_ITERATIONS" env-default:"100000"`
	// Workers is the number of goroutines doing key derivation; 0 means GOMAXPROCS.
	Workers   int `yaml:"workers" env:"VRME_AUTH_WORKERS" env-default:"0"`
	QueueSize int `yaml:"queue_size" env:"VRME_AUTH_QUEUE_SIZE" env-default:"64"`
}

// ReadinessConfig controls /readyz.
type ReadinessConfig struct {
	// RequireDB makes /readyz fail unless a database is configured and reachable.
	RequireDB bool `yaml:"require_db" env:"VRME_READINESS_REQUIRE_DB" env-default:"false"`
}

// LoadConfig resolves the config source and reads it.
func LoadConfig(flagPath string) (Config, error) {
	var cfg Config

	path := ResolveConfigPath(flagPath)
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("config: read env: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("config: file %q: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResolveConfigPath returns the file to read, or "" for env-only.
// An explicit path is returned even if missing so the caller reports it.
func ResolveConfigPath(flagPath string) string {
	if p := strings.TrimSpace(flagPath); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	if st, err := os.Stat(DefaultConfigFile); err == nil && !st.IsDir() {
		return DefaultConfigFile
	}
	return ""
}

// Validate checks cross-field invariants.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.JSONSizeLimit <= 0 {
		errs = append(errs, errors.New("server.json_size_limit must be positive"))
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "", "json", "pretty":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not json or pretty", c.Log.Format))
	}
	if c.DB.MaxConns < 0 || c.DB.MinConns < 0 || (c.DB.MaxConns > 0 && c.DB.MinConns > c.DB.MaxConns) {
		errs = append(errs, errors.New("db.min_conns must be between 0 and db.max_conns"))
	}
	if c.Auth.Workers < 0 {
		errs = append(errs, errors.New("auth.workers must not be negative"))
	}
	if c.Auth.QueueSize < 0 {
		errs = append(errs, errors.New("auth.queue_size must not be negative"))
	}
	if err := c.AuthService().Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// AuthService derives the auth service configuration.
func (c Config) AuthService() auth.Config {
	return auth.Config{
		Session: session.Config{
			ValidityWindow: c.Auth.ValidityWindow,
			Expiry:         session.ExpiryFixed,
		},
		Password: password.Config{Iterations: c.Auth.Iterations},
	}
}

// API derives the HTTP handler configuration.
func (c Config) API() authapi.Config {
	return authapi.Config{MaxBodyBytes: c.Server.JSONSizeLimit}
}
