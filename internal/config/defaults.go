// Package config provides configuration loading, defaults, and validation for
// the evidentia platform.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "evidentia"
	DefaultDBMaxConns = 25

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "evidentia-workers"

	DefaultMilvusAddr         = "localhost:19530"
	DefaultMilvusCollection   = "precedents"
	DefaultMilvusTopK         = 5
	DefaultMilvusEmbeddingDim = 128

	DefaultMigrationPath = "migrations"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "evidentia"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultWorkerConcurrency = 10

	DefaultHighValueThreshold = 6.0
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling and before Validate().
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = DefaultMigrationPath
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = time.Hour
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "evidentia"
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}

	// ── Milvus ────────────────────────────────────────────────────────────────
	if cfg.Milvus.Addr == "" {
		cfg.Milvus.Addr = DefaultMilvusAddr
	}
	if cfg.Milvus.Collection == "" {
		cfg.Milvus.Collection = DefaultMilvusCollection
	}
	if cfg.Milvus.DefaultTopK == 0 {
		cfg.Milvus.DefaultTopK = DefaultMilvusTopK
	}
	if cfg.Milvus.EmbeddingDim == 0 {
		cfg.Milvus.EmbeddingDim = DefaultMilvusEmbeddingDim
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = 15 * time.Minute
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = 3
	}

	// ── Analysis ──────────────────────────────────────────────────────────────
	if cfg.Analysis.HighValueThreshold == 0 {
		cfg.Analysis.HighValueThreshold = DefaultHighValueThreshold
	}
	if cfg.Analysis.PrecedentTopK == 0 {
		cfg.Analysis.PrecedentTopK = DefaultMilvusTopK
	}
	if cfg.Analysis.PrecedentSearchTimeout == 0 {
		cfg.Analysis.PrecedentSearchTimeout = 3 * time.Second
	}
	if cfg.Analysis.ResultCacheTTL == 0 {
		cfg.Analysis.ResultCacheTTL = time.Hour
	}
	if cfg.Analysis.Confidence.HighMinImpacts == 0 {
		cfg.Analysis.Confidence.HighMinImpacts = 3
	}
	if cfg.Analysis.Confidence.HighMinConfidence == 0 {
		cfg.Analysis.Confidence.HighMinConfidence = 0.7
	}
	if cfg.Analysis.Confidence.HighMinPrecedents == 0 {
		cfg.Analysis.Confidence.HighMinPrecedents = 3
	}
	if cfg.Analysis.Confidence.HighMaxRatioSpread == 0 {
		cfg.Analysis.Confidence.HighMaxRatioSpread = 10.0
	}
	if cfg.Analysis.Confidence.MediumMinConfidence == 0 {
		cfg.Analysis.Confidence.MediumMinConfidence = 0.6
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
