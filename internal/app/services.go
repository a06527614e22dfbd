package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/vibemix-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
	"github.com/yungbote/vibemix-backend/internal/observability"
	"github.com/yungbote/vibemix-backend/internal/platform/clock"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
	"github.com/yungbote/vibemix-backend/internal/realtime/bus"
	"github.com/yungbote/vibemix-backend/internal/services"
)

type Services struct {
	TaggingAggregate domainagg.TaggingAggregate

	Auth         services.AuthService
	Tagging      services.TaggingService
	Feed         services.FeedService
	Preference   services.PreferenceService
	Catalog      services.CatalogService
	Gamification services.GamificationService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, b bus.Bus, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	clk := clock.Real()

	tagging := aggregates.NewTaggingAggregate(aggregates.TaggingAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:       db,
			Log:      log,
			Hooks:    aggregates.NewObservabilityHooks(metrics),
			Clock:    clk,
			MaxTries: cfg.VoteMaxTries,
		},
		Posts:      r.Post,
		Tags:       r.Tag,
		PostTags:   r.PostTag,
		Votes:      r.TagVote,
		VoterStats: r.VoterStats,
	})
	notifier := services.NewTagEventNotifier(b, log, metrics)

	return Services{
		TaggingAggregate: tagging,

		Auth:    services.NewAuthService(log, cfg.JWTSecretKey),
		Tagging: services.NewTaggingService(db, log, tagging, r.Post, r.Tag, r.PostTag, r.TagVote, notifier, metrics, clk),
		Feed: services.NewFeedService(
			db, log, r.Post, r.Like, r.Tag, r.PostTag, r.UserTagPreference, metrics, clk,
			services.FeedConfig{
				DefaultLimit:    cfg.Feed.DefaultLimit,
				MaxLimit:        cfg.Feed.MaxLimit,
				OverfetchFactor: cfg.Feed.OverfetchFactor,
			},
			nil,
		),
		Preference:   services.NewPreferenceService(db, log, r.Tag, r.UserTagPreference, clk),
		Catalog:      services.NewCatalogService(db, log, r.Tag, clk),
		Gamification: services.NewGamificationService(db, log, r.VoterStats),
	}
}
