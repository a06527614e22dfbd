package services

import (
	"context"
	"testing"

	"github.com/yungbote/vibemix-backend/internal/data/repos"
	"github.com/yungbote/vibemix-backend/internal/data/repos/testutil"
	types "github.com/yungbote/vibemix-backend/internal/domain"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
)

type trendingLimitRepo struct {
	repos.TagRepo
	got int
}

func (r *trendingLimitRepo) ListTrending(_ dbctx.Context, limit int) ([]*types.Tag, error) {
	r.got = limit
	return nil, nil
}

type leaderboardLimitRepo struct {
	repos.VoterStatsRepo
	got int
}

func (r *leaderboardLimitRepo) Leaderboard(_ dbctx.Context, limit int) ([]*types.VoterStats, error) {
	r.got = limit
	return nil, nil
}

func TestReadLimitsAreClampedPerEndpoint(t *testing.T) {
	cases := []struct{ in, trending, leaderboard int }{
		{0, DefaultTrendingLimit, DefaultLeaderboardLimit},
		{-3, DefaultTrendingLimit, DefaultLeaderboardLimit},
		{7, 7, 7},
		{75, MaxTrendingLimit, 75},
		{1000, MaxTrendingLimit, MaxLeaderboardLimit},
	}
	for _, tc := range cases {
		tags := &trendingLimitRepo{}
		stats := &leaderboardLimitRepo{}
		catalog := NewCatalogService(nil, testutil.Logger(t), tags, nil)
		gam := NewGamificationService(nil, testutil.Logger(t), stats)

		if _, err := catalog.TrendingCategories(context.Background(), tc.in); err != nil {
			t.Fatalf("TrendingCategories(%d): %v", tc.in, err)
		}
		if _, err := gam.Leaderboard(context.Background(), tc.in); err != nil {
			t.Fatalf("Leaderboard(%d): %v", tc.in, err)
		}
		if tags.got != tc.trending || stats.got != tc.leaderboard {
			t.Fatalf("limit %d: trending=%d want %d, leaderboard=%d want %d", tc.in, tags.got, tc.trending, stats.got, tc.leaderboard)
		}
	}
}
