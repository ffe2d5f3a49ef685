// Agora server - discourse/argument-analysis discussion platform
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agoraforge/agora/internal/application/analysis"
	"github.com/agoraforge/agora/internal/application/auth"
	"github.com/agoraforge/agora/internal/application/batch"
	"github.com/agoraforge/agora/internal/application/content"
	"github.com/agoraforge/agora/internal/application/enthymeme"
	"github.com/agoraforge/agora/internal/application/feed"
	"github.com/agoraforge/agora/internal/application/follow"
	"github.com/agoraforge/agora/internal/application/gamification"
	"github.com/agoraforge/agora/internal/application/hypergraph"
	"github.com/agoraforge/agora/internal/application/notification"
	"github.com/agoraforge/agora/internal/application/search"
	"github.com/agoraforge/agora/internal/application/trigger"
	"github.com/agoraforge/agora/internal/application/vote"
	"github.com/agoraforge/agora/internal/config"
	"github.com/agoraforge/agora/internal/infrastructure/api/rest"
	"github.com/agoraforge/agora/internal/infrastructure/cache"
	"github.com/agoraforge/agora/internal/infrastructure/discourse"
	"github.com/agoraforge/agora/internal/infrastructure/logger"
	"github.com/agoraforge/agora/internal/infrastructure/objectstorage"
	"github.com/agoraforge/agora/internal/infrastructure/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Logging)
	logger.SetDefault(appLogger)

	appLogger.Info("Starting Agora server",
		"version", "1.0.0",
		"port", cfg.Server.Port,
	)

	dbConfig := storage.Config{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxConnections,
		MaxIdleConns:    cfg.Database.MinConnections,
		ConnMaxLifetime: cfg.Database.MaxConnLifetime,
		ConnMaxIdleTime: cfg.Database.MaxIdleTime,
		Debug:           cfg.Logging.Level == "debug",
	}

	db, err := storage.NewDB(dbConfig)
	if err != nil {
		appLogger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer storage.Close(db) //nolint:errcheck

	appLogger.Info("Database connected", "max_conns", cfg.Database.MaxConnections)

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		appLogger.Error("Failed to initialize Redis cache", "error", err)
		os.Exit(1)
	}
	defer redisCache.Close() //nolint:errcheck
	appLogger.Info("Redis cache connected")

	objectStorage, err := objectstorage.NewLocalProvider(cfg.Storage.BasePath)
	if err != nil {
		appLogger.Error("Failed to initialize checkpoint object storage", "error", err)
		os.Exit(1)
	}

	discourseClient := discourse.NewClient(discourse.Config{BaseURL: cfg.Discourse.BaseURL})

	// Repositories
	users := storage.NewUserRepository(db)
	posts := storage.NewPostRepository(db)
	replies := storage.NewReplyRepository(db)
	votes := storage.NewVoteRepository(db)
	follows := storage.NewFollowRepository(db)
	notifications := storage.NewNotificationRepository(db)
	analysisRuns := storage.NewAnalysisRunRepository(db)
	hypergraphRepo := storage.NewHypergraphRepository(db)
	searchRepo := storage.NewSearchRepository(db)
	batchRuns := storage.NewBatchRepository(db)

	// Application services. Construction order matters: gamification backfills notification
	// sends, analysis/batch backfill gamification, search looks up claim embeddings via
	// hypergraph, and enthymeme posts replies via content — so each depends on something
	// built just before it.
	notificationService := notification.NewService(notifications, users)
	followService := follow.NewService(follows, users)
	voteService := vote.NewService(votes, posts, replies)
	feedService := feed.NewService(posts)
	contentService := content.NewService(posts, replies)
	gamificationService := gamification.NewService(hypergraphRepo, users, posts, replies, notificationService)
	hypergraphService := hypergraph.NewService(hypergraphRepo, analysisRuns, gamificationService)
	searchService := search.NewService(discourseClient, searchRepo, posts, replies, hypergraphRepo)
	enthymemeService := enthymeme.NewService(hypergraphRepo, analysisRuns, contentService, cfg.Internal.SystemUserID)
	analysisService := analysis.NewService(analysisRuns, hypergraphRepo, discourseClient, gamificationService)
	batchService := batch.NewService(batchRuns, analysisRuns, hypergraphRepo, discourseClient, objectStorage, gamificationService)
	batchPoller := batch.NewPoller(batchService, time.Minute)

	cronScheduler := trigger.NewCronScheduler(gamificationService, cfg.Karma.Schedule)
	if err := cronScheduler.Start(); err != nil {
		appLogger.Error("Failed to start karma cron scheduler", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Karma cron scheduler started", "schedule", cfg.Karma.Schedule)

	pollerCtx, cancelPoller := context.WithCancel(context.Background())
	batchPoller.Start(pollerCtx)
	appLogger.Info("Batch pipeline poller started")

	jwtService := auth.NewJWTService(cfg.Auth)
	allowlist := auth.NewAllowlist(cfg.Auth.ServiceAllowlist)
	exchangeService := auth.NewServiceExchangeService(users, jwtService, allowlist, cfg.Auth)

	// REST handlers
	authHandlers := rest.NewAuthHandlers(exchangeService)
	postHandlers := rest.NewPostHandlers(contentService, searchService, analysisService)
	voteHandlers := rest.NewVoteHandlers(voteService)
	feedHandlers := rest.NewFeedHandlers(feedService)
	searchHandlers := rest.NewSearchHandlers(searchService)
	argumentHandlers := rest.NewArgumentHandlers(hypergraphService, searchService, enthymemeService)
	followHandlers := rest.NewFollowHandlers(followService)
	notificationHandlers := rest.NewNotificationHandlers(notificationService)
	ipBlocklist := cache.NewIPBlocklist(redisCache)
	internalHandlers := rest.NewInternalHandlers(ipBlocklist)

	authMiddleware := rest.NewAuthMiddleware(jwtService)
	internalMiddleware := rest.NewInternalAuthMiddleware(cfg.Internal.Secret)

	redisClient := redisCache.Client()
	var postLimiter, replyLimiter, voteLimiter *rest.RateLimiter
	if cfg.RateLimit.Post > 0 {
		postLimiter = rest.NewRateLimiter(redisClient, "post", cfg.RateLimit.Post)
	}
	if cfg.RateLimit.Reply > 0 {
		replyLimiter = rest.NewRateLimiter(redisClient, "reply", cfg.RateLimit.Reply)
	}
	if cfg.RateLimit.Vote > 0 {
		voteLimiter = rest.NewRateLimiter(redisClient, "vote", cfg.RateLimit.Vote)
	}

	router := rest.NewRouter(rest.Dependencies{
		Config: *cfg,
		Logger: appLogger,

		Auth:           authHandlers,
		Posts:          postHandlers,
		Votes:          voteHandlers,
		Feed:           feedHandlers,
		Search:         searchHandlers,
		Arguments:      argumentHandlers,
		Follows:        followHandlers,
		Notifications:  notificationHandlers,
		Internal:       internalHandlers,
		AuthMiddleware: authMiddleware,
		InternalMiddleware: internalMiddleware,
		PostLimiter:    postLimiter,
		ReplyLimiter:   replyLimiter,
		VoteLimiter:    voteLimiter,
		HealthCheck: func(ctx context.Context) error {
			if err := storage.Ping(ctx, db); err != nil {
				return fmt.Errorf("database: %w", err)
			}
			return redisCache.Health(ctx)
		},
	})

	appLogger.Info("REST API routes registered")

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		appLogger.Info("HTTP server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server error", "error", err)
			os.Exit(1)
		}

	case sig := <-shutdown:
		appLogger.Info("Server shutdown initiated", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		appLogger.Info("Stopping batch pipeline poller...")
		batchPoller.Stop()
		cancelPoller()

		appLogger.Info("Stopping karma cron scheduler...")
		cronScheduler.Stop()

		if err := server.Shutdown(ctx); err != nil {
			appLogger.Error("Graceful shutdown failed", "error", err)
			if err := server.Close(); err != nil {
				appLogger.Error("Server close failed", "error", err)
			}
		}

		appLogger.Info("Server stopped")
	}
}
