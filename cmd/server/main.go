package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centrifugal/centrifuge"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pscheid92/moodpulse/internal/adapter/httpserver"
	"github.com/pscheid92/moodpulse/internal/adapter/memory"
	"github.com/pscheid92/moodpulse/internal/adapter/metrics"
	"github.com/pscheid92/moodpulse/internal/adapter/postgres"
	"github.com/pscheid92/moodpulse/internal/adapter/redis"
	"github.com/pscheid92/moodpulse/internal/adapter/websocket"
	"github.com/pscheid92/moodpulse/internal/app"
	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/platform/config"
	"github.com/pscheid92/moodpulse/internal/platform/crypto"
	"github.com/pscheid92/moodpulse/internal/platform/logging"
	"github.com/pscheid92/moodpulse/internal/platform/retry"
	"github.com/pscheid92/moodpulse/internal/platform/version"
)

const (
	cacheEvictionInterval = time.Minute
	rolloverLockTTL       = 10 * time.Minute
)

type collectors struct {
	http      *metrics.HTTPMetrics
	journal   *metrics.JournalMetrics
	cache     *metrics.CacheMetrics
	redis     *metrics.RedisMetrics
	database  *metrics.DatabaseMetrics
	websocket *metrics.WebSocketMetrics
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func startupPolicy(component string) retry.Policy {
	p := retry.Startup
	p.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.Warn("Startup dependency not ready, retrying", "component", component, "attempt", attempt, "backoff", backoff, "error", err)
	}
	return p
}

func setupDB(ctx context.Context, cfg *config.Config, m *metrics.DatabaseMetrics) *pgxpool.Pool {
	pool, err := retry.Do(ctx, startupPolicy("postgres"), retry.StopOnContext, func(ctx context.Context) (*pgxpool.Pool, error) {
		return postgres.Connect(ctx, cfg.DatabaseURL, m)
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		pool.Close()
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config, m *metrics.RedisMetrics) *goredis.Client {
	client, err := retry.Do(ctx, startupPolicy("redis"), retry.StopOnContext, func(ctx context.Context) (*goredis.Client, error) {
		return redis.NewClient(ctx, cfg.RedisURL, redis.NewMetricsHook(m), redis.NewBreakerHook(m))
	})
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupRepository(ctx context.Context, cfg *config.Config, m *metrics.DatabaseMetrics) (domain.EntryRepository, *pgxpool.Pool) {
	if cfg.Storage != config.StoragePostgres {
		slog.Info("Using in-memory entry storage")
		return memory.NewEntryRepo(), nil
	}

	cryptoSvc, err := crypto.NewService(cfg.ContentEncryptionKey)
	if err != nil {
		slog.Error("Failed to create crypto service", "error", err)
		os.Exit(1)
	}
	if cfg.ContentEncryptionKey == "" {
		slog.Warn("CONTENT_ENCRYPTION_KEY not set, entries are stored unencrypted")
	}

	pool := setupDB(ctx, cfg, m)
	return postgres.NewEntryRepo(pool, cryptoSvc), pool
}

func setupNode(cfg *config.Config, m *metrics.WebSocketMetrics) *centrifuge.Node {
	node, err := websocket.NewNode(websocket.NodeConfig{
		LogLevel:       cfg.LogLevel,
		MaxConnections: cfg.MaxWebSocketConnections,
	}, m)
	if err != nil {
		slog.Error("Failed to create centrifuge node", "error", err)
		os.Exit(1)
	}

	if cfg.RedisURL != "" {
		if err := websocket.SetupRedis(node, cfg.RedisURL); err != nil {
			slog.Error("Failed to set up centrifuge redis broker", "error", err)
			os.Exit(1)
		}
	}

	if err := node.Run(); err != nil {
		slog.Error("Failed to run centrifuge node", "error", err)
		os.Exit(1)
	}
	return node
}

func healthChecks(pool *pgxpool.Pool, redisClient *goredis.Client) []httpserver.HealthCheck {
	var checks []httpserver.HealthCheck
	if redisClient != nil {
		checks = append(checks, httpserver.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}
	if pool != nil {
		checks = append(checks, httpserver.HealthCheck{Name: "postgres", Check: pool.Ping})
	}
	return checks
}

func runGracefulShutdown(srv *httpserver.Server, node *centrifuge.Node, stopBackground context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		stopBackground()

		if err := node.Shutdown(shutdownCtx); err != nil {
			slog.Error("Centrifuge node shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "storage", cfg.Storage, "version", version.Get().String())

	reg := metrics.NewRegistry()
	m := collectors{
		http:      metrics.NewHTTPMetrics(reg),
		journal:   metrics.NewJournalMetrics(reg),
		cache:     metrics.NewCacheMetrics(reg),
		redis:     metrics.NewRedisMetrics(reg),
		database:  metrics.NewDatabaseMetrics(reg),
		websocket: metrics.NewWebSocketMetrics(reg),
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	startupCtx, cancelStartup := context.WithTimeout(bgCtx, 2*time.Minute)
	defer cancelStartup()

	entries, pool := setupRepository(startupCtx, cfg, m.database)
	if pool != nil {
		defer pool.Close()
	}

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient = setupRedis(startupCtx, cfg, m.redis)
		defer func() { _ = redisClient.Close() }()
	}

	// A nil Cmdable keeps the cache process-local.
	var cacheBackend goredis.Cmdable
	if redisClient != nil {
		cacheBackend = redisClient
	}
	cache := redis.NewInsightsCache(cacheBackend, clock, cfg.InsightsCacheTTL, m.cache)
	stopEviction := cache.StartEvictionTimer(cacheEvictionInterval)
	defer stopEviction()

	node := setupNode(cfg, m.websocket)
	publisher := websocket.NewPublisher(node, m.websocket)

	journal := app.NewJournal(entries, cache, publisher, m.journal, clock, app.Options{
		Location: cfg.Location(),
		Keying:   domain.ParseSampleKeying(cfg.SampleKeying),
		Policy:   domain.ParseStreakPolicy(cfg.StreakPolicy),
	})
	if err := journal.Start(startupCtx); err != nil {
		slog.Error("Failed to load journal", "error", err)
		os.Exit(1)
	}
	cancelStartup()

	var gate domain.RolloverGate
	if redisClient != nil {
		subscriber := redis.NewInvalidationSubscriber(redisClient, cache, journal.Reload)
		go subscriber.Start(bgCtx)
		gate = redis.NewRolloverLock(redisClient, cache.InstanceID(), rolloverLockTTL)
	}
	go app.NewRolloverTicker(journal, gate, clock).Run(bgCtx)

	wsHandler := websocket.NewHandler(node, websocket.NewCheckOrigin(cfg.AppURL, !cfg.IsProduction()))
	srv := httpserver.NewServer(cfg, journal, httpserver.Handlers{
		WebSocket:   wsHandler,
		Metrics:     metrics.Handler(reg),
		HTTPMetrics: m.http,
	}, healthChecks(pool, redisClient))

	done := runGracefulShutdown(srv, node, stopBackground)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
