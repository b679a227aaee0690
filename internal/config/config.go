// Package config gathers runtime settings from a .env file, the
// environment and command-line flags, in that order of precedence
// (flags win).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/hammamikhairi/nutriveda/internal/logger"
)

// Environment variable names.
const (
	EnvStore           = "NUTRIVEDA_STORE"
	EnvSQLitePath      = "NUTRIVEDA_SQLITE_PATH"
	EnvPostgresDSN     = "NUTRIVEDA_POSTGRES_DSN"
	EnvCatalog         = "NUTRIVEDA_CATALOG"
	EnvCatalogBucket   = "NUTRIVEDA_CATALOG_S3_BUCKET"
	EnvCatalogKey      = "NUTRIVEDA_CATALOG_S3_KEY"
	EnvCatalogRegion   = "NUTRIVEDA_CATALOG_S3_REGION"
	EnvCatalogEndpoint = "NUTRIVEDA_CATALOG_S3_ENDPOINT"
	EnvJWTSecret       = "NUTRIVEDA_JWT_SECRET"
	EnvGPTEndpoint     = "GPT_CHAT_ENDPOINT"
	EnvGPTKey          = "GPT_CHAT_KEY"
	EnvGPTModel        = "GPT_CHAT_MODEL"
	EnvMetricsAddr     = "NUTRIVEDA_METRICS_ADDR"
	EnvLogLevel        = "NUTRIVEDA_LOG_LEVEL"
	EnvLogFile         = "NUTRIVEDA_LOG_FILE"
)

// Store kinds.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Defaults.
const (
	DefaultSQLitePath = ".nutriveda/kitchen.db"
	DefaultLogFile    = ".nutriveda/nutriveda.log"
)

// Config is the full set of runtime settings.
type Config struct {
	StoreKind   string
	SQLitePath  string
	PostgresDSN string

	CatalogPath     string
	CatalogBucket   string
	CatalogKey      string
	CatalogRegion   string
	CatalogEndpoint string // custom S3 endpoint, e.g. MinIO

	JWTSecret string

	GPTEndpoint string
	GPTKey      string
	GPTModel    string // set for OpenAI; also switches to bearer auth
	NoAI        bool

	MetricsAddr string

	LogLevel string
	LogFile  string // "stderr" logs to the console
	Verbose  bool
	Quiet    bool
}

// Load reads the given .env files (".env" when none are named) into the
// process environment, then builds a Config from it. Missing files are
// not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load env file: %w", err)
	}
	return FromEnv(os.Getenv), nil
}

// FromEnv builds a Config from getenv, applying defaults for unset values.
func FromEnv(getenv func(string) string) Config {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}
	return Config{
		StoreKind:       get(EnvStore, StoreSQLite),
		SQLitePath:      get(EnvSQLitePath, DefaultSQLitePath),
		PostgresDSN:     get(EnvPostgresDSN, ""),
		CatalogPath:     get(EnvCatalog, ""),
		CatalogBucket:   get(EnvCatalogBucket, ""),
		CatalogKey:      get(EnvCatalogKey, ""),
		CatalogRegion:   get(EnvCatalogRegion, ""),
		CatalogEndpoint: get(EnvCatalogEndpoint, ""),
		JWTSecret:       get(EnvJWTSecret, ""),
		GPTEndpoint:     get(EnvGPTEndpoint, ""),
		GPTKey:          get(EnvGPTKey, ""),
		GPTModel:        get(EnvGPTModel, ""),
		MetricsAddr:     get(EnvMetricsAddr, ""),
		LogLevel:        get(EnvLogLevel, logger.LevelNormal.String()),
		LogFile:         get(EnvLogFile, DefaultLogFile),
	}
}

// BindFlags registers a flag for every setting on fs. The current field
// values become the flag defaults, so call it after Load.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.StoreKind, "store", c.StoreKind, "remote store backend (memory|sqlite|postgres)")
	fs.StringVar(&c.SQLitePath, "sqlite-path", c.SQLitePath, "sqlite database file")
	fs.StringVar(&c.PostgresDSN, "postgres-dsn", c.PostgresDSN, "postgres connection string")
	fs.StringVar(&c.CatalogPath, "catalog", c.CatalogPath, "YAML recipe catalog file (built-in catalog when empty)")
	fs.StringVar(&c.CatalogBucket, "catalog-bucket", c.CatalogBucket, "S3 bucket holding the recipe catalog")
	fs.StringVar(&c.CatalogKey, "catalog-key", c.CatalogKey, "S3 object key of the recipe catalog")
	fs.StringVar(&c.CatalogRegion, "catalog-region", c.CatalogRegion, "AWS region of the catalog bucket")
	fs.BoolVar(&c.NoAI, "no-ai", c.NoAI, "disable AI recommendations even if GPT keys are set")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "serve Prometheus metrics on this address (e.g. :9090)")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "file to write logs to (use \"stderr\" to log to console)")
	fs.BoolVar(&c.Verbose, "verbose", c.Verbose, "enable verbose/debug logging")
	fs.BoolVar(&c.Quiet, "quiet", c.Quiet, "disable all logging")
}

// Level resolves the effective log level. --quiet beats --verbose, and
// both beat the configured level name.
func (c Config) Level() (logger.Level, error) {
	switch {
	case c.Quiet:
		return logger.LevelOff, nil
	case c.Verbose:
		return logger.LevelVerbose, nil
	}
	return logger.ParseLevel(c.LogLevel)
}

// AIEnabled reports whether the GPT client has everything it needs.
func (c Config) AIEnabled() bool {
	return !c.NoAI && c.GPTEndpoint != "" && c.GPTKey != ""
}

// Validate checks the settings for contradictions.
func (c Config) Validate() error {
	var errs []error
	switch c.StoreKind {
	case StoreMemory:
	case StoreSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite store needs a database path"))
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, fmt.Errorf("postgres store needs %s or --postgres-dsn", EnvPostgresDSN))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q: must be one of memory, sqlite, postgres", c.StoreKind))
	}
	if c.CatalogBucket != "" && c.CatalogKey == "" {
		errs = append(errs, errors.New("catalog bucket set without an object key"))
	}
	if c.CatalogBucket != "" && c.CatalogPath != "" {
		errs = append(errs, errors.New("catalog file and catalog bucket are mutually exclusive"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
