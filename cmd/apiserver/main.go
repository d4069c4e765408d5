// The API server: JSON API over the case-analysis service, plus health and
// metrics endpoints and a gRPC health listener for orchestrators.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/x-ordo/evidentia/internal/analysis/engine"
	"github.com/x-ordo/evidentia/internal/analysis/impact"
	"github.com/x-ordo/evidentia/internal/analysis/lexicon"
	"github.com/x-ordo/evidentia/internal/analysis/prediction"
	"github.com/x-ordo/evidentia/internal/analysis/risk"
	"github.com/x-ordo/evidentia/internal/analysis/scoring"
	"github.com/x-ordo/evidentia/internal/application/caseanalysis"
	"github.com/x-ordo/evidentia/internal/config"
	"github.com/x-ordo/evidentia/internal/domain/precedent"
	"github.com/x-ordo/evidentia/internal/infrastructure/database/postgres"
	"github.com/x-ordo/evidentia/internal/infrastructure/database/postgres/repositories"
	"github.com/x-ordo/evidentia/internal/infrastructure/database/redis"
	"github.com/x-ordo/evidentia/internal/infrastructure/messaging/kafka"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/prometheus"
	"github.com/x-ordo/evidentia/internal/infrastructure/search/milvus"
	"github.com/x-ordo/evidentia/internal/infrastructure/storage/minio"
	grpciface "github.com/x-ordo/evidentia/internal/interfaces/grpc"
	httpiface "github.com/x-ordo/evidentia/internal/interfaces/http"
	"github.com/x-ordo/evidentia/internal/interfaces/http/handlers"
	"github.com/x-ordo/evidentia/internal/interfaces/http/middleware"
)

var version = "dev"

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()
	log = log.Named("apiserver")
	log.Info("starting", logging.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics.
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "evidentia"}, log)
	if err != nil {
		return err
	}
	metrics := prometheus.NewAppMetrics(collector)

	// Postgres, with migrations applied before the pool opens.
	dsn := postgres.BuildDSN(cfg.Database)
	if err := postgres.RunMigrations(dsn, "file://"+cfg.Database.MigrationPath); err != nil {
		return err
	}
	pg, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer pg.Close()

	// Redis result cache.
	redisClient, err := redis.NewClient(cfg.Redis, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cache := redis.NewResultCache(redisClient, log,
		redis.WithKeyPrefix(cfg.Redis.KeyPrefix),
		redis.WithTTL(cfg.Analysis.ResultCacheTTL))

	// MinIO transcript storage.
	minioClient, err := minio.NewClient(ctx, cfg.MinIO, log)
	if err != nil {
		return err
	}
	transcripts := minio.NewTranscriptStore(minioClient, log)
	attachments := minio.NewAttachmentStore(minioClient, log, cfg.MinIO.PresignExpiry)

	// Kafka producer for the worker fleet.
	producer := kafka.NewProducer(cfg.Kafka, "apiserver", log)
	defer producer.Close()

	// Milvus precedent index.  The API degrades to rule-only predictions when
	// the index is unreachable.
	var searcher precedent.Searcher
	milvusClient, err := milvus.NewClient(ctx, cfg.Milvus, log)
	if err != nil {
		log.Warn("precedent index unavailable, predictions degrade to rule-only", logging.Err(err))
	} else {
		defer milvusClient.Close()
		searcher = milvus.NewPrecedentSearcher(milvusClient, log,
			milvus.WithDefaultTopK(cfg.Milvus.DefaultTopK))
	}

	// Analysis core and application service.
	lex := lexicon.NewDefault()
	eng := engine.NewEngine(scoring.NewScorer(lex), risk.NewAnalyzer(), log,
		engine.WithHighValueThreshold(cfg.Analysis.HighValueThreshold))
	predictor := prediction.NewPredictor(impact.NewAnalyzer(impact.NewDefaultRuleTable(), lex), searcher, log,
		prediction.WithTopK(cfg.Analysis.PrecedentTopK),
		prediction.WithSearchTimeout(cfg.Analysis.PrecedentSearchTimeout),
		prediction.WithConfidencePolicy(confidencePolicy(cfg.Analysis.Confidence)))

	service, err := caseanalysis.NewService(caseanalysis.Deps{
		Cases:       repositories.NewCaseRepository(pg.Pool(), log),
		Analyses:    repositories.NewAnalysisRepository(pg.Pool(), log),
		Evidence:    repositories.NewEvidenceRepository(pg.Pool(), log),
		Transcripts: transcripts,
		Attachments: attachments,
		Engine:      eng,
		Predictor:   predictor,
		Cache:       cache,
		Events:      producer,
		Logger:      log,
	})
	if err != nil {
		return err
	}

	// HTTP surface.
	cors := middleware.DefaultCORSConfig()
	router := httpiface.NewRouter(httpiface.RouterConfig{
		CaseHandler:     handlers.NewCaseHandler(service),
		AnalysisHandler: handlers.NewAnalysisHandler(service),
		HealthHandler: handlers.NewHealthHandler(version, map[string]handlers.HealthChecker{
			"postgres": pg.HealthCheck,
			"redis":    redisClient.Ping,
		}),
		Logger:    log,
		Metrics:   metrics,
		Collector: collector,
		CORS:      &cors,
	})
	server := httpiface.NewServer(cfg.Server, router, log)
	healthSrv := grpciface.NewHealthServer(cfg.Server.GRPCHealthPort, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(healthSrv.Start)
	g.Go(func() error {
		healthSrv.SetServing(true)
		<-ctx.Done()
		healthSrv.SetServing(false)
		healthSrv.Stop()
		return server.Stop(context.Background())
	})

	log.Info("api server up", logging.Int("http_port", cfg.Server.Port))
	return g.Wait()
}

func confidencePolicy(cfg config.ConfidenceConfig) prediction.ConfidencePolicy {
	return prediction.ConfidencePolicy{
		HighMinImpacts:      cfg.HighMinImpacts,
		HighMinConfidence:   cfg.HighMinConfidence,
		HighMinPrecedents:   cfg.HighMinPrecedents,
		HighMaxRatioSpread:  cfg.HighMaxRatioSpread,
		MediumMinConfidence: cfg.MediumMinConfidence,
	}
}

func newLogger(cfg config.LogConfig) (logging.Logger, error) {
	logCfg := logging.LogConfig{Level: cfg.Level, Format: cfg.Format}
	if cfg.Output != "" {
		logCfg.OutputPaths = []string{cfg.Output}
	}
	return logging.NewLogger(logCfg)
}
