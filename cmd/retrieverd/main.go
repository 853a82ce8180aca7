package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"lexret/internal/analytics"
	"lexret/internal/corpus"
	"lexret/internal/retriever"
	"lexret/internal/retriever/analyzer"
	"lexret/internal/server/cache"
	"lexret/internal/server/handler"
	"lexret/pkg/config"
	"lexret/pkg/health"
	"lexret/pkg/kafka"
	"lexret/pkg/logger"
	"lexret/pkg/metrics"
	"lexret/pkg/middleware"
	"lexret/pkg/postgres"
	pkgredis "lexret/pkg/redis"
	"lexret/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup("retrieverd", cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting retrieval service", "port", cfg.Server.Port, "corpus_source", cfg.Corpus.Source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pgClient *postgres.Client
	source, err := corpus.New(cfg.Corpus, func() (*corpus.PostgresSource, error) {
		pgClient, err = postgres.New(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return corpus.NewPostgresSource(pgClient, cfg.Corpus.Query), nil
	})
	if err != nil {
		slog.Error("failed to create corpus source", "error", err)
		os.Exit(1)
	}

	var documents []string
	err = resilience.Retry(ctx, "corpus-load", resilience.RetryConfig{}, func() error {
		return resilience.WithTimeout(ctx, cfg.Corpus.LoadTimeout, "corpus-load", func(ctx context.Context) error {
			var loadErr error
			documents, loadErr = source.Load(ctx)
			return loadErr
		})
	})
	if err != nil {
		slog.Error("failed to load corpus", "source", source.Name(), "error", err)
		os.Exit(1)
	}
	if pgClient != nil {
		// The corpus is fixed after fit; the database is not needed again.
		pgClient.Close()
	}

	fitted, err := retriever.Fit(documents, retriever.Options{
		DefaultTopN: cfg.Retriever.DefaultTopN,
		Analyzer: analyzer.Options{
			RemoveStopWords: cfg.Retriever.RemoveStopWords,
			Stem:            cfg.Retriever.Stemming,
			MinTokenLength:  cfg.Retriever.MinTokenLength,
		},
	})
	if err != nil {
		slog.Error("failed to fit retriever", "error", err)
		os.Exit(1)
	}
	slog.Info("retriever fitted",
		"documents", fitted.DocCount(),
		"vocabulary_size", fitted.VocabSize(),
	)

	var m *metrics.Metrics
	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.CorpusDocuments.Set(float64(fitted.DocCount()))
		m.VocabularySize.Set(float64(fitted.VocabSize()))
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	var resultCache *cache.ResultCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, result caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		resultCache = cache.New(redisClient, cfg.Redis)
		slog.Info("result cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.RetrievalEvents)
	defer producer.Close()
	collector := analytics.NewCollector(producer, m, 10000)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("analytics collector started", "topic", cfg.Kafka.Topics.RetrievalEvents)

	checker := health.NewChecker()
	checker.Register("retriever", func(ctx context.Context) health.ComponentHealth {
		if fitted.DocCount() > 0 {
			return health.ComponentHealth{
				Status:  health.StatusUp,
				Message: fmt.Sprintf("%d documents fitted", fitted.DocCount()),
			}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "no documents"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := handler.New(fitted, resultCache, collector, m, cfg.Retriever.MaxTopN)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/retrieve", h.Retrieve)
	mux.HandleFunc("GET /api/v1/corpus", h.Corpus)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if metricsShutdown != nil {
			if err := metricsShutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
	}()

	slog.Info("retrieval service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("retrieval service stopped")
}
