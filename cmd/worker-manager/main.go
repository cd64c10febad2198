// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"spa-registry/internal/common/camunda"
	"spa-registry/internal/common/config"
	"spa-registry/internal/common/database"
	"spa-registry/internal/common/logger"
	"spa-registry/internal/common/observability"
	"spa-registry/internal/directory"
	"spa-registry/internal/lifecycle"
	"spa-registry/internal/notification"
	"spa-registry/internal/query"
	"spa-registry/internal/registration"
	"spa-registry/internal/store"
	"spa-registry/internal/txn"
	"spa-registry/pkg/registry"

	// Spa lifecycle workers (3)
	rs "spa-registry/internal/workers/spa/resubmit-spa"
	sss "spa-registry/internal/workers/spa/set-spa-status"
	ssr "spa-registry/internal/workers/spa/submit-spa-registration"

	// Therapist lifecycle workers (6)
	at "spa-registry/internal/workers/therapist/approve-therapist"
	rjt "spa-registry/internal/workers/therapist/reject-therapist"
	rst "spa-registry/internal/workers/therapist/resign-therapist"
	rbt "spa-registry/internal/workers/therapist/resubmit-therapist"
	st "spa-registry/internal/workers/therapist/submit-therapist"
	tt "spa-registry/internal/workers/therapist/terminate-therapist"

	// Read workers (5)
	mnr "spa-registry/internal/workers/notification/mark-notification-read"
	ln "spa-registry/internal/workers/notification/list-notifications"
	cs "spa-registry/internal/workers/query/count-statuses"
	ls "spa-registry/internal/workers/query/list-spas"
	lt "spa-registry/internal/workers/query/list-therapists"

	// Directory workers (2)
	ssd "spa-registry/internal/workers/directory/search-spa-directory"
	syd "spa-registry/internal/workers/directory/sync-spa-directory"
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

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"app": cfg.App.Name})

	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics exporter unavailable, job metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Zeebe ---
	zeebeClient, err := camunda.Connect(ctx, cfg.Camunda, camunda.DefaultRetryConfig)
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- PostgreSQL ---
	var pg *database.PostgresClient
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
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.ApplySchema {
		if err := store.EnsureSchema(ctx, pg.DB); err != nil {
			zapLog.Fatal("schema bootstrap failed", zap.Error(err))
		}
		zapLog.Info("Registry schema applied")
	}

	// --- Redis ---
	redis := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Registration core ---
	limits := query.Limits{Default: cfg.Registry.DefaultPageLimit, Max: cfg.Registry.MaxPageLimit}
	mapper := notification.NewMapper(notification.NewLogReporter(log))
	coordinator := txn.NewCoordinator(pg.DB, mapper, log, obs)
	svc := registration.NewService(registration.Deps{
		DB:          pg.DB,
		Engine:      lifecycle.NewEngine(),
		Coordinator: coordinator,
		Lister:      query.NewLister(pg.DB, limits),
		Counter:     query.NewCounter(pg.DB, redis.Client, time.Duration(cfg.Registry.CountsCacheTTL)*time.Second, log),
		Logger:      log,
	})

	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}

	handlers := []camunda.Handler{
		ssr.NewHandler(&ssr.Config{Timeout: timeout(ssr.TaskType)}, svc, log, obs),
		sss.NewHandler(&sss.Config{Timeout: timeout(sss.TaskType)}, svc, log, obs),
		rs.NewHandler(&rs.Config{Timeout: timeout(rs.TaskType)}, svc, log, obs),

		st.NewHandler(&st.Config{Timeout: timeout(st.TaskType)}, svc, log, obs),
		at.NewHandler(&at.Config{Timeout: timeout(at.TaskType)}, svc, log, obs),
		rjt.NewHandler(&rjt.Config{Timeout: timeout(rjt.TaskType)}, svc, log, obs),
		rst.NewHandler(&rst.Config{Timeout: timeout(rst.TaskType)}, svc, log, obs),
		tt.NewHandler(&tt.Config{Timeout: timeout(tt.TaskType)}, svc, log, obs),
		rbt.NewHandler(&rbt.Config{Timeout: timeout(rbt.TaskType)}, svc, log, obs),

		ls.NewHandler(&ls.Config{Timeout: timeout(ls.TaskType)}, svc, log, obs),
		lt.NewHandler(&lt.Config{Timeout: timeout(lt.TaskType)}, svc, log, obs),
		cs.NewHandler(&cs.Config{Timeout: timeout(cs.TaskType)}, svc, log, obs),
		ln.NewHandler(&ln.Config{Timeout: timeout(ln.TaskType)}, svc, log, obs),
		mnr.NewHandler(&mnr.Config{Timeout: timeout(mnr.TaskType)}, svc, log, obs),
	}

	// --- Elasticsearch directory (optional) ---
	if cfg.Directory.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Directory.Index))

		dir := directory.New(esClient.Client, cfg.Directory.Index, log)
		handlers = append(handlers,
			syd.NewHandler(&syd.Config{Timeout: timeout(syd.TaskType)}, svc, dir, log, obs),
			ssd.NewHandler(&ssd.Config{Timeout: timeout(ssd.TaskType)}, dir, limits, log, obs),
		)
	}

	checkCatalogue(cfg.App.RegistryPath, handlers, zapLog)

	// --- Start workers ---
	var workers []worker.JobWorker
	for _, h := range handlers {
		if w := startWorker(zeebeClient, cfg, h, zapLog); w != nil {
			workers = append(workers, w)
		}
	}
	zapLog.Info("Workers registered", zap.Int("started", len(workers)), zap.Int("known", len(handlers)))

	// --- Health & Metrics Server ---
	server := newOpsServer(cfg.Metrics.Address, pg, redis)
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range workers {
		w.Close()
	}
	for _, w := range workers {
		w.AwaitClose()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, cfg *config.Config, h camunda.Handler, log *zap.Logger) worker.JobWorker {
	wcfg := config.GetWorkerConfig(cfg, h.TaskType())
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", h.TaskType()))
		return nil
	}

	w := camunda.StartWorker(client, h, wcfg.MaxJobsActive, config.GetDuration(wcfg.Timeout))
	log.Info("worker started",
		zap.String("taskType", h.TaskType()),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
	return w
}

// checkCatalogue warns about task types that the BPMN activity catalogue does not list.
func checkCatalogue(path string, handlers []camunda.Handler, log *zap.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry is invalid", zap.Error(err))
	}

	taskTypes := make([]string, 0, len(handlers))
	for _, h := range handlers {
		taskTypes = append(taskTypes, h.TaskType())
	}
	if missing := reg.Missing(taskTypes); len(missing) > 0 {
		log.Warn("task types missing from activity registry", zap.Strings("taskTypes", missing))
	}
}

func newOpsServer(addr string, pg *database.PostgresClient, redis *database.RedisClient) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pg.Ping(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "postgres unavailable")
			return
		}
		if err := redis.Ping(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
