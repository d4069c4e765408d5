// Package config defines all configuration structures for the evidentia
// platform.  No I/O or parsing logic lives here — only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	GRPCHealthPort  int           `mapstructure:"grpc_health_port"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka producer/consumer parameters.
type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers"`
	GroupID         string   `mapstructure:"group_id"`
	AutoOffsetReset string   `mapstructure:"auto_offset_reset"` // "earliest" | "latest"
	ProducerRetries int      `mapstructure:"producer_retries"`
	BatchSize       int      `mapstructure:"batch_size"`
}

// MilvusConfig holds Milvus vector-store connection parameters for the
// precedent index.
type MilvusConfig struct {
	Addr         string `mapstructure:"addr"`
	DBName       string `mapstructure:"db_name"`
	Collection   string `mapstructure:"collection"`
	EmbeddingDim int    `mapstructure:"embedding_dim"`
	DefaultTopK  int    `mapstructure:"default_top_k"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters.
type MinIOConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// WorkerConfig holds background-worker execution parameters.
type WorkerConfig struct {
	Concurrency    int           `mapstructure:"concurrency"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBackoffMS time.Duration `mapstructure:"retry_backoff_ms"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
	Output string `mapstructure:"output"`
}

// ConfidenceConfig holds the thresholds grading division predictions.
type ConfidenceConfig struct {
	HighMinImpacts      int     `mapstructure:"high_min_impacts"`
	HighMinConfidence   float64 `mapstructure:"high_min_confidence"`
	HighMinPrecedents   int     `mapstructure:"high_min_precedents"`
	HighMaxRatioSpread  float64 `mapstructure:"high_max_ratio_spread"`
	MediumMinConfidence float64 `mapstructure:"medium_min_confidence"`
}

// AnalysisConfig holds the tunables of the analysis core.  Everything has a
// calibrated default; operators rarely touch these.
type AnalysisConfig struct {
	HighValueThreshold     float64          `mapstructure:"high_value_threshold"`
	PrecedentTopK          int              `mapstructure:"precedent_top_k"`
	PrecedentSearchTimeout time.Duration    `mapstructure:"precedent_search_timeout"`
	ResultCacheTTL         time.Duration    `mapstructure:"result_cache_ttl"`
	Confidence             ConfidenceConfig `mapstructure:"confidence"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the entire platform.
// Every infrastructure component and application service reads its settings
// from the relevant sub-struct.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Milvus   MilvusConfig   `mapstructure:"milvus"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Log      LogConfig      `mapstructure:"log"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Database
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be ≥ 1, got %d", c.Database.MaxConns)
	}

	// Redis
	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// Kafka
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Kafka.GroupID == "" {
		return fmt.Errorf("config: kafka.group_id is required")
	}

	// Milvus
	if c.Milvus.Addr == "" {
		return fmt.Errorf("config: milvus.addr is required")
	}
	if c.Milvus.DefaultTopK < 1 {
		return fmt.Errorf("config: milvus.default_top_k must be ≥ 1, got %d", c.Milvus.DefaultTopK)
	}

	// Worker
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be ≥ 1, got %d", c.Worker.Concurrency)
	}

	// Analysis
	if c.Analysis.HighValueThreshold <= 0 || c.Analysis.HighValueThreshold > 10 {
		return fmt.Errorf("config: analysis.high_value_threshold %v is out of range (0, 10]", c.Analysis.HighValueThreshold)
	}
	if v := c.Analysis.Confidence.HighMinConfidence; v <= 0 || v > 1 {
		return fmt.Errorf("config: analysis.confidence.high_min_confidence %v is out of range (0, 1]", v)
	}
	if v := c.Analysis.Confidence.MediumMinConfidence; v <= 0 || v > 1 {
		return fmt.Errorf("config: analysis.confidence.medium_min_confidence %v is out of range (0, 1]", v)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
