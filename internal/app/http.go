package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/vibemix-backend/internal/http"
	httpH "github.com/yungbote/vibemix-backend/internal/http/handlers"
	httpMW "github.com/yungbote/vibemix-backend/internal/http/middleware"
	"github.com/yungbote/vibemix-backend/internal/observability"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Tagging      *httpH.TaggingHandler
	Feed         *httpH.FeedHandler
	Preference   *httpH.PreferenceHandler
	Catalog      *httpH.CatalogHandler
	Gamification *httpH.GamificationHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(db),
		Tagging:      httpH.NewTaggingHandler(services.Tagging),
		Feed:         httpH.NewFeedHandler(services.Feed),
		Preference:   httpH.NewPreferenceHandler(services.Preference),
		Catalog:      httpH.NewCatalogHandler(services.Catalog),
		Gamification: httpH.NewGamificationHandler(services.Gamification),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:                 log,
		Metrics:             metrics,
		ServiceName:         cfg.Otel.ServiceName,
		AllowOrigins:        cfg.CORSOrigins,
		AuthMiddleware:      middleware.Auth,
		TaggingHandler:      handlers.Tagging,
		FeedHandler:         handlers.Feed,
		PreferenceHandler:   handlers.Preference,
		CatalogHandler:      handlers.Catalog,
		GamificationHandler: handlers.Gamification,
		HealthHandler:       handlers.Health,
	})
}
