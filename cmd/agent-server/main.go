package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"voice-agent/internal/agent"
	"voice-agent/internal/callconfig"
	"voice-agent/internal/common/camunda"
	"voice-agent/internal/common/config"
	"voice-agent/internal/common/database"
	"voice-agent/internal/common/logger"
	"voice-agent/internal/common/observability"
	"voice-agent/internal/server"
	"voice-agent/internal/session"
	"voice-agent/internal/transcript"
	endconversation "voice-agent/internal/workers/dialogue/end-conversation"
	"voice-agent/internal/workers/dialogue/respond"
	startconversation "voice-agent/internal/workers/dialogue/start-conversation"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting agent server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		if err != nil && !camunda.IsRetryable(err) {
			zapLog.Warn("zeebe error does not look transient", zap.Error(err))
		}
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Redis (call configs) ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	store := callconfig.NewRedisStore(rdb.Client, config.GetSeconds(cfg.Database.Redis.CallConfigTTL), log)

	// --- Transcript archive ---
	var sinks transcript.MultiSink
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Enabled() {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		archive := transcript.NewPostgresArchive(pg.DB)
		if err := archive.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("transcript schema setup failed", zap.Error(err))
		}
		sinks = append(sinks, archive)
		zapLog.Info("PostgreSQL transcript archive ready")
	}

	var es *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.Enabled() {
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}

		index := transcript.NewSearchIndex(es.Client, cfg.Database.Elasticsearch.TranscriptIndex)
		if err := index.EnsureIndex(ctx); err != nil {
			zapLog.Fatal("transcript index setup failed", zap.Error(err))
		}
		sinks = append(sinks, index)
		zapLog.Info("Elasticsearch transcript index ready")
	}

	// --- Agents and sessions ---
	factory := agent.NewFactory(log, agent.WithGenAIDefaults(agent.GenAIConfig{
		BaseURL:    cfg.GenAI.BaseURL,
		APIKey:     cfg.GenAI.APIKey,
		TimeoutMS:  cfg.GenAI.Timeout,
		MaxRetries: cfg.GenAI.MaxRetries,
	}))

	opts := []session.Option{
		session.WithCallConfigStore(store),
		session.WithDefaultAgentConfig(cfg.Agent),
		session.WithIdleTimeout(config.GetSeconds(cfg.Sessions.IdleTimeout)),
	}
	if len(sinks) > 0 {
		opts = append(opts, session.WithTranscriptSink(sinks))
	}
	manager := session.NewManager(factory, log, opts...)

	cleanup := session.NewCleanupService(manager, config.GetSeconds(cfg.Sessions.CleanupInterval), log)
	cleanup.Start(ctx)
	defer cleanup.Stop()

	// --- Workers ---
	client := zeebe.GetClient()
	var workers []worker.JobWorker

	if wcfg := config.GetWorkerConfig(cfg, startconversation.TaskType); wcfg.Enabled {
		h := startconversation.NewHandler(startconversation.LoadConfig(wcfg), manager, log, obs)
		workers = append(workers, camunda.Register(client, startconversation.TaskType, wcfg, h.Handle, log))
	}
	if wcfg := config.GetWorkerConfig(cfg, respond.TaskType); wcfg.Enabled {
		h := respond.NewHandler(respond.LoadConfig(wcfg), manager, log, obs)
		workers = append(workers, camunda.Register(client, respond.TaskType, wcfg, h.Handle, log))
	}
	if wcfg := config.GetWorkerConfig(cfg, endconversation.TaskType); wcfg.Enabled {
		h := endconversation.NewHandler(endconversation.LoadConfig(wcfg), manager, log, obs)
		workers = append(workers, camunda.Register(client, endconversation.TaskType, wcfg, h.Handle, log))
	}
	zapLog.Info("Dialogue workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	ops := server.NewOps(log, manager.Stats)
	ops.AddCheck("zeebe", zeebe.HealthCheck)
	ops.AddCheck("redis", rdb.Ping)
	if pg != nil {
		ops.AddCheck("postgres", pg.Ping)
	}
	if es != nil {
		ops.AddCheck("elasticsearch", es.Ping)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           ops.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Agent server stopped gracefully", zap.Any("sessions", manager.Stats()))
}
