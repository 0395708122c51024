// Package config loads service configuration with koanf.
//
// Precedence, lowest to highest: defaults, YAML file, legacy DATASET_PATH,
// BIRTHPLACE_* environment variables, explicitly set CLI flags.
// Environment keys use "__" for nesting: BIRTHPLACE_DATASET__PATH sets
// dataset.path and BIRTHPLACE_HTTP__MAX_BODY_BYTES sets http.max_body_bytes.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	platformstrings "nidgate/pkg/platform/strings"
)

const (
	EnvPrefix     = "BIRTHPLACE_"
	EnvConfigFile = "BIRTHPLACE_CONFIG"
	// EnvLegacyDatasetPath is read when BIRTHPLACE_DATASET__PATH is unset.
	EnvLegacyDatasetPath = "DATASET_PATH"
)

// Dataset source names.
const (
	SourceFile     = "file"
	SourceRedis    = "redis"
	SourcePostgres = "postgres"
)

// Config is the full service configuration.
type Config struct {
	Addr     string         `koanf:"addr"`
	Log      LogConfig      `koanf:"log"`
	Dataset  DatasetConfig  `koanf:"dataset"`
	Redis    RedisConfig    `koanf:"redis"`
	Postgres PostgresConfig `koanf:"postgres"`
	HTTP     HTTPConfig     `koanf:"http"`
	CORS     CORSConfig     `koanf:"cors"`
	Audit    AuditConfig    `koanf:"audit"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DatasetConfig selects where the reference dataset is read from.
type DatasetConfig struct {
	Source      string        `koanf:"source"`
	Path        string        `koanf:"path"`
	RedisKey    string        `koanf:"redis_key"`
	LoadTimeout time.Duration `koanf:"load_timeout"`
}

// RedisConfig holds go-redis connection settings. An empty URL means Redis
// is not configured.
type RedisConfig struct {
	URL          string        `koanf:"url"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type PostgresConfig struct {
	URL string `koanf:"url"`
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	MaxBodyBytes      int64         `koanf:"max_body_bytes"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// AuditConfig controls ops events. With no Kafka brokers, events go to the
// log. SubjectKey keys the national code digest; when empty a random key is
// used and digests do not correlate across restarts.
type AuditConfig struct {
	Enabled      bool     `koanf:"enabled"`
	SampleRate   float64  `koanf:"sample_rate"`
	Buffer       int      `koanf:"buffer"`
	KafkaBrokers []string `koanf:"kafka_brokers"`
	Topic        string   `koanf:"topic"`
	SubjectKey   string   `koanf:"subject_key"`
}

// MinSubjectKeyLength is the shortest accepted audit.subject_key.
const MinSubjectKeyLength = 16

func defaults() map[string]any {
	return map[string]any{
		"addr":                     ":8080",
		"log.level":                "info",
		"log.format":               "json",
		"dataset.source":           SourceFile,
		"dataset.path":             "data/national_codes.json",
		"dataset.redis_key":        "birthplace:dataset",
		"dataset.load_timeout":     10 * time.Second,
		"redis.pool_size":          10,
		"redis.min_idle_conns":     2,
		"redis.dial_timeout":       5 * time.Second,
		"redis.read_timeout":       3 * time.Second,
		"redis.write_timeout":      3 * time.Second,
		"http.read_header_timeout": 5 * time.Second,
		"http.request_timeout":     30 * time.Second,
		"http.shutdown_timeout":    10 * time.Second,
		"http.max_body_bytes":      int64(4096),
		"cors.allowed_origins":     []string{"*"},
		"audit.enabled":            true,
		"audit.sample_rate":        1.0,
		"audit.buffer":             256,
		"audit.kafka_brokers":      []string{},
		"audit.topic":              "birthplace.validations",
		"audit.subject_key":        "",
	}
}

// flagKeys maps CLI flag names to config keys. Flags not listed here are
// command options, not configuration.
var flagKeys = map[string]string{
	"addr":           "addr",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"dataset-source": "dataset.source",
	"dataset-path":   "dataset.path",
	"redis-url":      "redis.url",
	"postgres-url":   "postgres.url",
}

// Load builds the configuration. configFile may be empty, in which case
// BIRTHPLACE_CONFIG is consulted; flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configFile == "" {
		configFile = os.Getenv(EnvConfigFile)
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvLegacyDatasetPath, ".", func(s string) string {
		if s != EnvLegacyDatasetPath {
			return ""
		}
		return "dataset.path"
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv loads configuration without CLI flags, as the server does.
func FromEnv() (*Config, error) {
	return Load("", nil)
}

// listKeys are split on commas when set from the environment.
var listKeys = map[string]bool{
	"cors.allowed_origins": true,
	"audit.kafka_brokers":  true,
}

// envKeyValue turns BIRTHPLACE_DATASET__REDIS_KEY into dataset.redis_key.
func envKeyValue(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if listKeys[key] {
		return key, platformstrings.SplitList(value, ",")
	}
	return key, value
}

// Validate checks values that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	switch c.Dataset.Source {
	case SourceFile, SourceRedis, SourcePostgres:
	default:
		return fmt.Errorf("invalid dataset.source %q: want file, redis or postgres", c.Dataset.Source)
	}
	if c.Dataset.Source == SourceRedis && c.Redis.URL == "" {
		return fmt.Errorf("dataset.source is redis but redis.url is empty")
	}
	if c.Dataset.Source == SourcePostgres && c.Postgres.URL == "" {
		return fmt.Errorf("dataset.source is postgres but postgres.url is empty")
	}
	if c.Audit.SampleRate < 0 || c.Audit.SampleRate > 1 {
		return fmt.Errorf("audit.sample_rate must be within [0, 1], got %v", c.Audit.SampleRate)
	}
	if c.Audit.SubjectKey != "" && len(c.Audit.SubjectKey) < MinSubjectKeyLength {
		return fmt.Errorf("audit.subject_key must be at least %d bytes", MinSubjectKeyLength)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("http.max_body_bytes must be positive")
	}
	return nil
}
