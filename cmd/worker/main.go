// The analysis worker: consumes analysis-requested events, runs the engine
// and publishes completion events.  A redis lock dedupes concurrent analyses
// of the same case across the fleet.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/x-ordo/evidentia/internal/analysis/engine"
	"github.com/x-ordo/evidentia/internal/analysis/impact"
	"github.com/x-ordo/evidentia/internal/analysis/lexicon"
	"github.com/x-ordo/evidentia/internal/analysis/prediction"
	"github.com/x-ordo/evidentia/internal/analysis/risk"
	"github.com/x-ordo/evidentia/internal/analysis/scoring"
	"github.com/x-ordo/evidentia/internal/application/caseanalysis"
	"github.com/x-ordo/evidentia/internal/config"
	"github.com/x-ordo/evidentia/internal/infrastructure/database/postgres"
	"github.com/x-ordo/evidentia/internal/infrastructure/database/postgres/repositories"
	"github.com/x-ordo/evidentia/internal/infrastructure/database/redis"
	evkafka "github.com/x-ordo/evidentia/internal/infrastructure/messaging/kafka"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/prometheus"
	"github.com/x-ordo/evidentia/internal/infrastructure/storage/minio"
)

var version = "dev"

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logCfg := logging.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if cfg.Log.Output != "" {
		logCfg.OutputPaths = []string{cfg.Log.Output}
	}
	log, err := logging.NewLogger(logCfg)
	if err != nil {
		return err
	}
	defer log.Sync()
	log = log.Named("worker")
	log.Info("starting", logging.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "evidentia"}, log)
	if err != nil {
		return err
	}
	metrics := prometheus.NewAppMetrics(collector)

	pg, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer pg.Close()

	redisClient, err := redis.NewClient(cfg.Redis, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cache := redis.NewResultCache(redisClient, log,
		redis.WithKeyPrefix(cfg.Redis.KeyPrefix),
		redis.WithTTL(cfg.Analysis.ResultCacheTTL))
	lock := redis.NewAnalysisLock(redisClient, log)

	minioClient, err := minio.NewClient(ctx, cfg.MinIO, log)
	if err != nil {
		return err
	}

	producer := evkafka.NewProducer(cfg.Kafka, "worker", log)
	defer producer.Close()

	lex := lexicon.NewDefault()
	service, err := caseanalysis.NewService(caseanalysis.Deps{
		Cases:       repositories.NewCaseRepository(pg.Pool(), log),
		Analyses:    repositories.NewAnalysisRepository(pg.Pool(), log),
		Evidence:    repositories.NewEvidenceRepository(pg.Pool(), log),
		Transcripts: minio.NewTranscriptStore(minioClient, log),
		Engine: engine.NewEngine(scoring.NewScorer(lex), risk.NewAnalyzer(), log,
			engine.WithHighValueThreshold(cfg.Analysis.HighValueThreshold)),
		Predictor: prediction.NewPredictor(impact.NewAnalyzer(impact.NewDefaultRuleTable(), lex), nil, log,
			prediction.WithConfidencePolicy(prediction.ConfidencePolicy{
				HighMinImpacts:      cfg.Analysis.Confidence.HighMinImpacts,
				HighMinConfidence:   cfg.Analysis.Confidence.HighMinConfidence,
				HighMinPrecedents:   cfg.Analysis.Confidence.HighMinPrecedents,
				HighMaxRatioSpread:  cfg.Analysis.Confidence.HighMaxRatioSpread,
				MediumMinConfidence: cfg.Analysis.Confidence.MediumMinConfidence,
			})),
		Cache:     cache,
		Events:    producer,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	handler := analysisHandler(service, lock, metrics, log)

	deadLetter := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        evkafka.TopicDeadLetter,
		RequiredAcks: kafka.RequireAll,
	}
	defer deadLetter.Close()

	consumer := evkafka.NewConsumer(cfg.Kafka, cfg.Worker, evkafka.TopicAnalysisRequested, handler, log,
		evkafka.WithDeadLetterWriter(deadLetter))
	defer consumer.Close()

	log.Info("worker up",
		logging.Int("concurrency", cfg.Worker.Concurrency),
		logging.String("topic", evkafka.TopicAnalysisRequested))
	return consumer.Run(ctx)
}

// analysisHandler runs one requested analysis under the per-case lock.  A
// case already being analyzed elsewhere is skipped; redelivery handles the
// rare lock-holder crash.
func analysisHandler(service *caseanalysis.Service, lock *redis.AnalysisLock, metrics *prometheus.AppMetrics, log logging.Logger) evkafka.Handler {
	return func(ctx context.Context, envelope *evkafka.EventEnvelope) error {
		var payload evkafka.AnalysisRequestedPayload
		if err := envelope.DecodePayload(&payload); err != nil {
			return err
		}
		taskLog := log.With(logging.String(logging.FieldCaseID, string(payload.CaseID)))

		acquired, err := lock.TryAcquire(ctx, payload.CaseID)
		if err != nil {
			return err
		}
		if !acquired {
			taskLog.Info("analysis already in flight, skipping")
			metrics.WorkerTasksTotal.WithLabelValues("analysis", "skipped").Inc()
			return nil
		}
		defer func() {
			if err := lock.Release(ctx, payload.CaseID); err != nil {
				taskLog.Warn("lock release failed", logging.Err(err))
			}
		}()

		start := time.Now()
		result, err := service.AnalyzeCase(ctx, payload.CaseID)
		metrics.WorkerTaskDuration.WithLabelValues("analysis").Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.WorkerTasksTotal.WithLabelValues("analysis", "failure").Inc()
			return err
		}

		metrics.WorkerTasksTotal.WithLabelValues("analysis", "success").Inc()
		prometheus.RecordAnalysis(metrics, "worker", result.TotalMessages, len(result.HighValueMessages),
			string(result.RiskAssessment.RiskLevel), time.Since(start), nil)
		taskLog.Info("analysis completed",
			logging.Int("messages", result.TotalMessages),
			logging.String("risk_level", string(result.RiskAssessment.RiskLevel)))
		return nil
	}
}
