package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/agoraforge/agora/internal/config"
	"github.com/agoraforge/agora/internal/infrastructure/logger"
)

const maxRequestBodyBytes = 10 << 20 // 10MB

// Dependencies bundles every handler group and middleware the router wires up. Built once
// in cmd/server/main.go after all application services are constructed.
type Dependencies struct {
	Config config.Config
	Logger *logger.Logger

	Auth         *AuthHandlers
	Posts        *PostHandlers
	Votes        *VoteHandlers
	Feed         *FeedHandlers
	Search       *SearchHandlers
	Arguments    *ArgumentHandlers
	Follows      *FollowHandlers
	Notifications *NotificationHandlers
	Internal     *InternalHandlers

	AuthMiddleware     *AuthMiddleware
	InternalMiddleware *InternalAuthMiddleware

	PostLimiter  *RateLimiter
	ReplyLimiter *RateLimiter
	VoteLimiter  *RateLimiter

	HealthCheck func(ctx context.Context) error
}

// NewRouter builds the gin engine: ambient middleware, health/metrics/swagger endpoints,
// and the full /api/v1 + /internal route tree.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	recoveryMiddleware := NewRecoveryMiddleware(deps.Logger)
	loggingMiddleware := NewLoggingMiddleware(deps.Logger)
	bodySizeMiddleware := NewBodySizeMiddleware(maxRequestBodyBytes)

	router.Use(recoveryMiddleware.Recovery())
	router.Use(loggingMiddleware.RequestLogger())
	router.Use(bodySizeMiddleware.LimitBodySize())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	if deps.Config.Server.CORS {
		router.Use(corsMiddleware())
	}

	setupHealthEndpoints(router, deps)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	setupAPIv1Routes(router, deps)
	setupInternalRoutes(router, deps)

	return router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func setupHealthEndpoints(router *gin.Engine, deps Dependencies) {
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if deps.HealthCheck != nil {
			if err := deps.HealthCheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": fmt.Sprintf("%v", err)})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}

func setupAPIv1Routes(router *gin.Engine, deps Dependencies) {
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/auth/service", deps.Auth.ExchangeServiceToken)

		posts := apiV1.Group("/posts")
		{
			posts.POST("", deps.AuthMiddleware.RequireAuth(), requireLimiter(deps.PostLimiter), deps.Posts.CreatePost)
			posts.GET("/:id", deps.Posts.GetPost)
			posts.DELETE("/:id", deps.AuthMiddleware.RequireAuth(), deps.Posts.DeletePost)
			posts.POST("/:id/replies", deps.AuthMiddleware.RequireAuth(), requireLimiter(deps.ReplyLimiter), deps.Posts.CreateReply)
			posts.GET("/:id/replies", deps.Posts.ListReplies)
		}

		replies := apiV1.Group("/replies")
		{
			replies.GET("/:id", deps.Posts.GetReply)
			replies.DELETE("/:id", deps.AuthMiddleware.RequireAuth(), deps.Posts.DeleteReply)
		}

		votes := apiV1.Group("/votes")
		votes.Use(deps.AuthMiddleware.RequireAuth(), requireLimiter(deps.VoteLimiter))
		{
			votes.POST("", deps.Votes.CastVote)
			votes.DELETE("", deps.Votes.RetractVote)
		}

		feedGroup := apiV1.Group("/feed")
		{
			feedGroup.GET("", deps.AuthMiddleware.OptionalAuth(), deps.Feed.List)
			feedGroup.GET("/authors/:id", deps.Feed.ListByAuthor)
			feedGroup.GET("/following", deps.AuthMiddleware.RequireAuth(), deps.Feed.ListFollowing)
		}

		apiV1.GET("/search", deps.Search.Search)

		arguments := apiV1.Group("/arguments")
		{
			arguments.GET("/posts/:id/adus", deps.Arguments.ListPostADUs)
			arguments.GET("/replies/:id/adus", deps.Arguments.ListReplyADUs)
			arguments.GET("/claims/:id", deps.Arguments.GetClaim)
			arguments.GET("/claims/:id/related", deps.Arguments.ListRelated)
			arguments.GET("/canonical-claims/:id/related-posts", deps.Arguments.ListRelatedPosts)
			arguments.GET("/schemes/:id", deps.Arguments.GetScheme)
			arguments.POST("/enthymemes/:id/backfill", deps.AuthMiddleware.RequireAuth(), deps.Arguments.BackfillEnthymeme)
			arguments.POST("/socratic-questions/:id/resolve", deps.AuthMiddleware.RequireAuth(), deps.Arguments.ResolveSocraticQuestion)
		}

		follows := apiV1.Group("/follows")
		{
			follows.POST("/:id", deps.AuthMiddleware.RequireAuth(), deps.Follows.Follow)
			follows.DELETE("/:id", deps.AuthMiddleware.RequireAuth(), deps.Follows.Unfollow)
			follows.GET("/:id/following", deps.Follows.ListFollowing)
			follows.GET("/:id/followers", deps.Follows.ListFollowers)
		}

		notifications := apiV1.Group("/notifications")
		notifications.Use(deps.AuthMiddleware.RequireAuth())
		{
			notifications.GET("", deps.Notifications.List)
			notifications.GET("/unread-count", deps.Notifications.CountUnread)
			notifications.POST("/:id/read", deps.Notifications.MarkRead)
			notifications.POST("/social/viewed", deps.Notifications.MarkSocialViewed)
		}
	}
}

func setupInternalRoutes(router *gin.Engine, deps Dependencies) {
	internal := router.Group("/internal")
	internal.Use(deps.InternalMiddleware.RequireSecret())
	{
		internal.POST("/block-ip", deps.Internal.BlockIP)
		internal.GET("/blocked-ips", deps.Internal.ListBlockedIPs)
	}
}

// requireLimiter is a passthrough when no limiter is configured, letting tests and
// constrained deployments omit Redis-backed rate limiting entirely.
func requireLimiter(rl *RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.Middleware()
}
