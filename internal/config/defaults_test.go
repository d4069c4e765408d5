package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultDBHost, cfg.Database.Host)
	assert.Equal(t, DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultMilvusAddr, cfg.Milvus.Addr)
	assert.Equal(t, DefaultMilvusCollection, cfg.Milvus.Collection)
	assert.Equal(t, DefaultMinIOEndpoint, cfg.MinIO.Endpoint)
	assert.Equal(t, DefaultHighValueThreshold, cfg.Analysis.HighValueThreshold)
	assert.Equal(t, 3*time.Second, cfg.Analysis.PrecedentSearchTimeout)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestApplyDefaults_ExplicitValuesWin(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Analysis.HighValueThreshold = 7.5
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 7.5, cfg.Analysis.HighValueThreshold)
}

func TestApplyDefaults_NilIsNoOp(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}
