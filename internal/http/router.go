package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/vibemix-backend/internal/http/handlers"
	httpMW "github.com/yungbote/vibemix-backend/internal/http/middleware"
	"github.com/yungbote/vibemix-backend/internal/observability"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowOrigins   []string
	AuthMiddleware *httpMW.AuthMiddleware

	TaggingHandler      *httpH.TaggingHandler
	FeedHandler         *httpH.FeedHandler
	PreferenceHandler   *httpH.PreferenceHandler
	CatalogHandler      *httpH.CatalogHandler
	GamificationHandler *httpH.GamificationHandler

	HealthHandler *httpH.HealthHandler
}

func init() {
	gin.EnableJsonDecoderDisallowUnknownFields()
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "vibemix"
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	if cfg.Metrics != nil {
		r.Use(httpMW.Metrics(cfg.Metrics))
	}
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	// Ops
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")

	public := api.Group("")
	{
		if cfg.AuthMiddleware != nil {
			public.Use(cfg.AuthMiddleware.OptionalAuth())
		}
		if cfg.TaggingHandler != nil {
			public.GET("/posts/:postId/tags", cfg.TaggingHandler.ListPostTags)
			public.POST("/tags/suggest", cfg.TaggingHandler.SuggestTags)
		}
		if cfg.CatalogHandler != nil {
			public.GET("/categories", cfg.CatalogHandler.ListCategories)
			public.GET("/categories/trending", cfg.CatalogHandler.Trending)
			public.GET("/categories/temporal", cfg.CatalogHandler.Temporal)
			public.GET("/categories/slug/:slug", cfg.CatalogHandler.CategoryBySlug)
			public.GET("/vibes", cfg.CatalogHandler.ListVibes)
		}
		if cfg.GamificationHandler != nil {
			public.GET("/gamification/leaderboard", cfg.GamificationHandler.Leaderboard)
		}
	}

	protected := api.Group("")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Tagging
		if cfg.TaggingHandler != nil {
			protected.POST("/posts/:postId/tags", cfg.TaggingHandler.AttachTag)
			protected.DELETE("/posts/:postId/tags/:tagId", cfg.TaggingHandler.DetachTag)
			protected.POST("/posts/:postId/tags/auto", cfg.TaggingHandler.AutoTag)
			protected.POST("/posts/:postId/tags/recompute", cfg.TaggingHandler.RecomputePost)
			protected.POST("/post-tags/:postTagId/vote", cfg.TaggingHandler.CastVote)
		}

		// Feed
		if cfg.FeedHandler != nil {
			protected.GET("/feed", cfg.FeedHandler.Feed)
			protected.GET("/feed/mixed", cfg.FeedHandler.Mixed)
			protected.GET("/feed/default", cfg.FeedHandler.Default)
		}

		// Preferences
		if cfg.PreferenceHandler != nil {
			protected.GET("/preferences", cfg.PreferenceHandler.List)
			protected.POST("/preferences", cfg.PreferenceHandler.Set)
			protected.POST("/preferences/bulk", cfg.PreferenceHandler.SetBulk)
			protected.POST("/preferences/block", cfg.PreferenceHandler.Block)
			protected.POST("/preferences/unblock", cfg.PreferenceHandler.Unblock)
		}

		if cfg.GamificationHandler != nil {
			protected.GET("/gamification/me", cfg.GamificationHandler.Me)
		}
	}

	return r
}
