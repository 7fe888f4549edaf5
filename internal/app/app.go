package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vdsearch/vdsearch/internal/auth"
	"github.com/vdsearch/vdsearch/internal/config"
	"github.com/vdsearch/vdsearch/internal/geo"
	"github.com/vdsearch/vdsearch/internal/httpserver"
	"github.com/vdsearch/vdsearch/internal/httpserver/deps"
	"github.com/vdsearch/vdsearch/internal/index"
	"github.com/vdsearch/vdsearch/internal/logger"
	"github.com/vdsearch/vdsearch/internal/redis"
	"github.com/vdsearch/vdsearch/internal/scheduler"
	"github.com/vdsearch/vdsearch/internal/search"
	"github.com/vdsearch/vdsearch/internal/service"
	"github.com/vdsearch/vdsearch/internal/sources/seed"
	redisstore "github.com/vdsearch/vdsearch/internal/store/redis"
	"github.com/vdsearch/vdsearch/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	promoIndex  *index.PromotionIndex
	reloader    *scheduler.PromotionReloader
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)
	promoIndex := index.NewPromotionIndex()

	// Seed the promotion store from file on first boot (optional)
	if cfg.SeedFile != "" {
		seeder := seed.NewSeeder(cfg.SeedFile, loggerClient)
		if err := seeder.Run(context.Background(), store); err != nil {
			loggerClient.Warn("failed to seed promotion store",
				logger.String("file", cfg.SeedFile),
				logger.Error(err))
		}
	}

	// Admin sessions: the signing key is per-process, tokens die on restart
	sessions, err := auth.NewManager(cfg.AdminPassword, cfg.SessionTTL)
	if err != nil {
		loggerClient.Errorf("Failed to initialize session manager: %v", err)
		os.Exit(1)
	}

	searchClient := search.NewHTTPClient(cfg.SearchAPIURL, cfg.SearchAPIKey, cfg.SearchEngineID)
	suggester := search.NewSuggester(cfg.SuggestAPIURL, loggerClient)
	geoResolver := geo.NewResolver(cfg.GeoAPIURL)

	searchService := service.NewSearchService(promoIndex, store, searchClient, store, geoResolver, loggerClient)
	promotionService := service.NewPromotionService(promoIndex, store, store, loggerClient)

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewPromotionReloader(
		store,
		promoIndex,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		TrustProxy:     cfg.TrustProxy,
		AllowedOrigins: cfg.AllowedOrigins,
		RedisClient:    redisClient,
		PromotionIndex: promoIndex,
		Search:         searchService,
		Promotions:     promotionService,
		Suggester:      suggester,
		Sessions:       sessions,
		ReloadTrigger:  reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		promoIndex:  promoIndex,
		reloader:    reloader,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting vdsearch v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("vdsearch %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start promotion reloader (loads promotions and starts periodic refresh)
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start promotion reloader: %w", err)
	}
	a.logger.Info("promotion reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ vdsearch stopped cleanly")
	return nil
}
