package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/vibemix-backend/internal/data/aggregates"
	"github.com/yungbote/vibemix-backend/internal/data/repos"
	"github.com/yungbote/vibemix-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
	"github.com/yungbote/vibemix-backend/internal/modules/feedmix"
	"github.com/yungbote/vibemix-backend/internal/platform/clock"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

type serviceEnv struct {
	ctx   context.Context
	db    *gorm.DB
	log   *logger.Logger
	clock *clock.Fixed

	posts    repos.PostRepo
	likes    repos.LikeRepo
	tags     repos.TagRepo
	postTags repos.PostTagRepo
	votes    repos.TagVoteRepo
	prefs    repos.UserTagPreferenceRepo
	stats    repos.VoterStatsRepo
	agg      domainagg.TaggingAggregate
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	env := &serviceEnv{
		ctx:      context.Background(),
		db:       db,
		log:      log,
		clock:    clock.NewFixed(time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)),
		posts:    repos.NewPostRepo(db, log),
		likes:    repos.NewLikeRepo(db, log),
		tags:     repos.NewTagRepo(db, log),
		postTags: repos.NewPostTagRepo(db, log),
		votes:    repos.NewTagVoteRepo(db, log),
		prefs:    repos.NewUserTagPreferenceRepo(db, log),
		stats:    repos.NewVoterStatsRepo(db, log),
	}
	env.agg = aggregates.NewTaggingAggregate(aggregates.TaggingAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:           db,
			Log:          log,
			Clock:        env.clock,
			RetryInitial: time.Millisecond,
			RetryMax:     5 * time.Millisecond,
		},
		Posts:      env.posts,
		Tags:       env.tags,
		PostTags:   env.postTags,
		Votes:      env.votes,
		VoterStats: env.stats,
	})
	return env
}

func (e *serviceEnv) taggingService(notifier TagEventNotifier) TaggingService {
	return NewTaggingService(e.db, e.log, e.agg, e.posts, e.tags, e.postTags, e.votes, notifier, nil, e.clock)
}

func (e *serviceEnv) feedService(scorer feedmix.Scorer) FeedService {
	return NewFeedService(e.db, e.log, e.posts, e.likes, e.tags, e.postTags, e.prefs, nil, e.clock, FeedConfig{}, scorer)
}
