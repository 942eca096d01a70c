// main wires the engage server: configuration, logging, state store
// selection, domain services, audit pipeline, and the HTTP lifecycle.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	authservice "engage/internal/auth/service"
	authstore "engage/internal/auth/store"
	"engage/internal/auth/tokens"
	"engage/internal/backend"
	docservice "engage/internal/documents/service"
	"engage/internal/onboarding/flows"
	"engage/internal/onboarding/metrics"
	onboardingservice "engage/internal/onboarding/service"
	"engage/internal/onboarding/statestore"
	"engage/internal/onboarding/wizard"
	"engage/internal/platform/config"
	"engage/internal/platform/httpserver"
	"engage/internal/platform/logger"
	platformredis "engage/internal/platform/redis"
	httptransport "engage/internal/transport/http"
	audit "engage/pkg/platform/audit"
	"engage/pkg/platform/audit/publisher"
	auditsink "engage/pkg/platform/audit/sink"
	auditmem "engage/pkg/platform/audit/store/memory"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	health := func() error { return nil }

	// State store selection. Memory is the default for local development.
	var rawStore statestore.Store
	var db *sql.DB
	switch cfg.StateStore {
	case config.StateStoreRedis:
		redisClient, err := platformredis.New(cfg.Redis)
		if err != nil {
			return err
		}
		if redisClient == nil {
			return errors.New("STATE_STORE=redis requires REDIS_URL")
		}
		defer redisClient.Close()
		rawStore = statestore.NewRedisStore(redisClient.Client)
		health = func() error { return redisClient.Health(context.Background()) }
	case config.StateStorePostgres:
		if cfg.PostgresDSN == "" {
			return errors.New("STATE_STORE=postgres requires POSTGRES_DSN")
		}
		var err error
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			return err
		}
		rawStore = statestore.NewPostgresStore(db)
		health = db.Ping
	default:
		rawStore = statestore.NewInMemoryStore()
	}
	persistent := statestore.NewPersistent(rawStore, log)

	// Audit pipeline: in-memory trail, optionally mirrored to Kafka.
	var auditStore audit.Store = auditmem.NewInMemoryStore()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaStore, err := auditsink.NewKafkaStore(cfg.KafkaBrokers, cfg.AuditTopic, auditStore, log)
		if err != nil {
			return err
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
	}
	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(cfg.AuditBufferSize),
		publisher.WithLogger(log),
	)
	defer auditPublisher.Close()

	// Backend records: PostgreSQL when available, memory otherwise.
	var records backend.RecordStore = backend.NewInMemoryRecords()
	if db != nil {
		records = backend.NewPostgresRecords(db)
	}

	tokenService := tokens.NewService(cfg.JWTSigningKey, cfg.JWTIssuer)
	authService := authservice.NewService(
		authstore.NewInMemoryUsers(),
		authstore.NewInMemoryCodes(),
		authstore.NewInMemorySessions(),
		tokenService,
		auditPublisher,
		log,
		cfg.TokenTTL,
	)

	evaluator, err := flows.NewEvaluator(log, flows.DefaultRules)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	wizardService := onboardingservice.NewService(
		persistent,
		wizard.NewAccumulator(persistent),
		evaluator,
		authService,
		records,
		auditPublisher,
		metrics.New(registry),
		log,
	)

	documentService := docservice.NewService(
		backend.NewInMemoryFiles(),
		records,
		auditPublisher,
		log,
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:     log,
		Validator:  tokens.NewMiddlewareAdapter(tokenService),
		Onboarding: wizardService,
		Auth:       authService,
		Documents:  documentService,
		Registry:   registry,
		Health:     health,
	})

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting engage server", "addr", cfg.Addr, "state_store", string(cfg.StateStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
