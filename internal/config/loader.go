package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all platform settings.
const envPrefix = "EVIDENTIA"

// newViper builds a pre-configured Viper instance with the platform's standard
// settings: YAML file type, EVIDENTIA_ env prefix, automatic env binding, and
// a key replacer that maps "." → "_" so that nested keys like "database.host"
// resolve to "EVIDENTIA_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys declares every supported key with a zero default so that
// AutomaticEnv can resolve EVIDENTIA_* overrides during Unmarshal even when
// no config file mentions the key.  Real defaults are applied afterwards by
// ApplyDefaults; the zero values here only make the keys known to viper.
func registerKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
		"server.max_body_size", "server.shutdown_timeout", "server.grpc_health_port",
		"database.host", "database.port", "database.user", "database.password",
		"database.db_name", "database.ssl_mode", "database.max_conns", "database.min_conns",
		"database.conn_max_lifetime", "database.conn_max_idle_time", "database.migration_path",
		"redis.addr", "redis.password", "redis.db", "redis.pool_size", "redis.min_idle_conns",
		"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout",
		"redis.default_ttl", "redis.key_prefix",
		"kafka.brokers", "kafka.group_id", "kafka.auto_offset_reset",
		"kafka.producer_retries", "kafka.batch_size",
		"milvus.addr", "milvus.db_name", "milvus.collection",
		"milvus.embedding_dim", "milvus.default_top_k",
		"minio.endpoint", "minio.access_key", "minio.secret_key",
		"minio.bucket", "minio.use_ssl", "minio.presign_expiry",
		"worker.concurrency", "worker.max_retries", "worker.retry_backoff_ms",
		"log.level", "log.format", "log.output",
		"analysis.high_value_threshold", "analysis.precedent_top_k",
		"analysis.precedent_search_timeout", "analysis.result_cache_ttl",
	} {
		v.SetDefault(key, nil)
	}
}

// Load reads the YAML file at configPath, merges any EVIDENTIA_* environment
// variable overrides, applies platform defaults for unset fields, and
// validates the result.  It returns a fully-populated *Config or a
// descriptive error.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from EVIDENTIA_* environment variables,
// with no config file required.  This is the preferred loading strategy for
// containerised (12-factor) deployments.
//
// Environment variable naming convention:
//
//	EVIDENTIA_<SECTION>_<FIELD>   e.g.  EVIDENTIA_DATABASE_HOST, EVIDENTIA_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	v := newViper()
	// No config file — rely solely on env vars and defaults.
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath for changes and invokes onChange with the newly
// parsed Config whenever the file is modified on disk.  It is intended for
// hot-reloading non-critical settings such as log level and the high-value
// threshold; callers are responsible for applying only the safe subset of
// changes at runtime.
//
// Watch is non-blocking; it starts a background goroutine managed by viper.
// A changed file that fails to parse or validate is skipped so the
// application never observes a broken configuration.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read — errors are ignored here; callers should call Load first.
	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad is a convenience wrapper around Load that panics on any error.
// It is intended for use in main() where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
