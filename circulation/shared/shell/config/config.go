package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"

	DriverPGX  = "pgx"
	DriverSQL  = "sql"
	DriverSQLX = "sqlx"

	PolicySourceStatic   = "static"
	PolicySourceYAML     = "yaml"
	PolicySourcePostgres = "postgres"
)

var (
	// ErrLoadingConfigFailed is returned when the environment cannot be decoded.
	ErrLoadingConfigFailed = errors.New("loading config failed")

	// ErrInvalidConfig is returned when decoded values do not make sense together.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the runtime configuration.
type Config struct {
	StoreBackend string `env:"CIRCULATION_STORE,default=memory"`
	Driver       string `env:"CIRCULATION_DB_DRIVER,default=pgx"`
	DSN          string `env:"CIRCULATION_DB_DSN"`
	ReplicaDSN   string `env:"CIRCULATION_DB_REPLICA_DSN"`
	EventsTable  string `env:"CIRCULATION_EVENTS_TABLE,default=events"`

	MaxOpenConns    int           `env:"CIRCULATION_DB_MAX_OPEN_CONNS,default=50"`
	MaxIdleConns    int           `env:"CIRCULATION_DB_MAX_IDLE_CONNS,default=10"`
	MinConns        int           `env:"CIRCULATION_DB_MIN_CONNS,default=2"`
	ConnMaxLifetime time.Duration `env:"CIRCULATION_DB_CONN_MAX_LIFETIME,default=1h"`
	ConnMaxIdleTime time.Duration `env:"CIRCULATION_DB_CONN_MAX_IDLE_TIME,default=5m"`
	ConnectTimeout  time.Duration `env:"CIRCULATION_DB_CONNECT_TIMEOUT,default=5s"`

	PolicySource string `env:"CIRCULATION_POLICY_SOURCE,default=static"`
	PolicyFile   string `env:"CIRCULATION_POLICY_FILE,default=policy.yaml"`

	MetricsAddr    string  `env:"CIRCULATION_METRICS_ADDR,default=:9090"`
	LogLevel       string  `env:"CIRCULATION_LOG_LEVEL,default=info"`
	TracingEnabled bool    `env:"CIRCULATION_TRACING_ENABLED,default=false"`
	OpsPerSecond   float64 `env:"CIRCULATION_OPS_PER_SECOND,default=5"`
}

// Load reads envFile (when it exists) into the process environment and decodes the Config.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Join(ErrLoadingConfigFailed, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, errors.Join(ErrLoadingConfigFailed, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the enumerated settings and the DSN requirements.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendMemory, StoreBackendPostgres:
	default:
		return errors.Join(ErrInvalidConfig, errors.New("unknown store backend "+c.StoreBackend))
	}

	switch c.Driver {
	case DriverPGX, DriverSQL, DriverSQLX:
	default:
		return errors.Join(ErrInvalidConfig, errors.New("unknown database driver "+c.Driver))
	}

	switch c.PolicySource {
	case PolicySourceStatic, PolicySourceYAML, PolicySourcePostgres:
	default:
		return errors.Join(ErrInvalidConfig, errors.New("unknown policy source "+c.PolicySource))
	}

	if c.NeedsDatabase() && c.DSN == "" {
		return errors.Join(ErrInvalidConfig, errors.New("CIRCULATION_DB_DSN is required"))
	}

	if c.OpsPerSecond <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("CIRCULATION_OPS_PER_SECOND must be positive"))
	}

	return nil
}

// NeedsDatabase reports whether any configured component talks to Postgres.
func (c Config) NeedsDatabase() bool {
	return c.StoreBackend == StoreBackendPostgres || c.PolicySource == PolicySourcePostgres
}
