package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/vibemix-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
	"github.com/yungbote/vibemix-backend/internal/modules/feedmix"
)

func countingScorer(calls *atomic.Int64) feedmix.Scorer {
	return func(c feedmix.Candidate, prefs feedmix.Preferences, now time.Time) float64 {
		calls.Add(1)
		return feedmix.Score(c, prefs, now)
	}
}

func itemIDs(page *FeedPage) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(page.Items))
	for _, it := range page.Items {
		out = append(out, it.ID)
	}
	return out
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func TestDefaultFeedIsRecencyAndNeverScores(t *testing.T) {
	env := newServiceEnv(t)
	var calls atomic.Int64
	svc := env.feedService(countingScorer(&calls))
	now := env.clock.Now()
	oldest := testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: now.Add(-3 * time.Hour), Likes: 500})
	middle := testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: now.Add(-2 * time.Hour)})
	newest := testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: now.Add(-1 * time.Hour)})
	testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: now, Deleted: true})
	user := uuid.New()
	testutil.SeedLike(t, env.ctx, env.db, user, middle.ID)

	page, err := svc.DefaultFeed(env.ctx, user, 2, nil)
	if err != nil {
		t.Fatalf("DefaultFeed: %v", err)
	}
	ids := itemIDs(page)
	if len(ids) != 2 || ids[0] != newest.ID || ids[1] != middle.ID {
		t.Fatalf("page 1 order: %v", ids)
	}
	if !page.Items[1].IsLikedByCurrentUser || page.Items[0].IsLikedByCurrentUser {
		t.Fatalf("liked flags wrong")
	}
	if page.NextCursor == nil || *page.NextCursor != middle.ID {
		t.Fatalf("next cursor: %v", page.NextCursor)
	}
	if page.Strategy != FeedStrategyDefault || page.Items[0].Score != nil {
		t.Fatalf("default feed must not carry scores")
	}

	page, err = svc.DefaultFeed(env.ctx, user, 2, page.NextCursor)
	if err != nil {
		t.Fatalf("DefaultFeed page 2: %v", err)
	}
	ids = itemIDs(page)
	if len(ids) != 1 || ids[0] != oldest.ID || page.NextCursor != nil {
		t.Fatalf("page 2: ids=%v next=%v", ids, page.NextCursor)
	}

	if n := calls.Load(); n != 0 {
		t.Fatalf("scorer invoked %d times by the default feed", n)
	}
}

func TestFeedFallsBackToDefaultWithoutPreferences(t *testing.T) {
	env := newServiceEnv(t)
	var calls atomic.Int64
	svc := env.feedService(countingScorer(&calls))
	testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: env.clock.Now().Add(-time.Hour)})

	user := uuid.New()
	page, err := svc.Feed(env.ctx, user, FeedQuery{Mode: feedmix.ModeNormal})
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if page.Strategy != FeedStrategyDefault || calls.Load() != 0 {
		t.Fatalf("cold start: strategy=%s scorer calls=%d", page.Strategy, calls.Load())
	}

	cat := testutil.SeedCategory(t, env.ctx, env.db, "spor")
	testutil.SeedPreference(t, env.ctx, env.db, user, cat, 50, false)
	page, err = svc.Feed(env.ctx, user, FeedQuery{})
	if err != nil {
		t.Fatalf("Feed with prefs: %v", err)
	}
	if page.Strategy != FeedStrategyMixed || calls.Load() == 0 {
		t.Fatalf("warm user: strategy=%s scorer calls=%d", page.Strategy, calls.Load())
	}
}

func TestFeedTreatsBlockOnlyUserAsWarm(t *testing.T) {
	env := newServiceEnv(t)
	svc := env.feedService(nil)
	user := uuid.New()
	vibe := testutil.SeedVibe(t, env.ctx, env.db, "angry")
	testutil.SeedPreference(t, env.ctx, env.db, user, vibe, 0, true)
	testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: env.clock.Now()})

	page, err := svc.Feed(env.ctx, user, FeedQuery{})
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if page.Strategy != FeedStrategyMixed {
		t.Fatalf("a stored block is a preference: strategy=%s", page.Strategy)
	}
}

func TestRankFeedOverfetchWindowAndCursor(t *testing.T) {
	env := newServiceEnv(t)
	svc := env.feedService(nil)
	now := env.clock.Now()
	user := uuid.New()
	cat := testutil.SeedCategory(t, env.ctx, env.db, "gezi")
	testutil.SeedPreference(t, env.ctx, env.db, user, cat, 100, false)

	// posts[0] is the newest; one minute between neighbours.
	posts := make([]uuid.UUID, 7)
	for i := range posts {
		p := testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: now.Add(-time.Duration(i) * time.Minute)})
		posts[i] = p.ID
	}
	testutil.SeedAttachment(t, env.ctx, env.db, posts[2], cat, 10, 0, 1, 100)
	testutil.SeedAttachment(t, env.ctx, env.db, posts[6], cat, 10, 0, 1, 100)

	page, err := svc.RankFeed(env.ctx, user, FeedQuery{Limit: 2})
	if err != nil {
		t.Fatalf("RankFeed page 1: %v", err)
	}
	ids := itemIDs(page)
	if len(ids) != 2 || ids[0] != posts[2] || ids[1] != posts[0] {
		t.Fatalf("page 1: got=%v want=[%s %s]", ids, posts[2], posts[0])
	}
	if containsID(ids, posts[6]) {
		t.Fatalf("post outside the 3x window ranked on page 1")
	}
	if page.NextCursor == nil || *page.NextCursor != ids[len(ids)-1] {
		t.Fatalf("next cursor should be the last returned post: %v", page.NextCursor)
	}

	page, err = svc.RankFeed(env.ctx, user, FeedQuery{Limit: 2, Cursor: page.NextCursor})
	if err != nil {
		t.Fatalf("RankFeed page 2: %v", err)
	}
	ids = itemIDs(page)
	if len(ids) != 2 || ids[0] != posts[2] || ids[1] != posts[6] {
		t.Fatalf("page 2: got=%v want=[%s %s]", ids, posts[2], posts[6])
	}
}

func TestRankFeedScoresPreferences(t *testing.T) {
	env := newServiceEnv(t)
	svc := env.feedService(nil)
	now := env.clock.Now()
	user := uuid.New()
	cat := testutil.SeedCategory(t, env.ctx, env.db, "teknoloji")
	testutil.SeedPreference(t, env.ctx, env.db, user, cat, 100, false)

	fresh := testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: now})
	preferred := testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: now.Add(-12 * time.Hour)})
	testutil.SeedAttachment(t, env.ctx, env.db, preferred.ID, cat, 10, 0, 1, 100)

	page, err := svc.RankFeed(env.ctx, user, FeedQuery{})
	if err != nil {
		t.Fatalf("RankFeed: %v", err)
	}
	ids := itemIDs(page)
	if len(ids) != 2 || ids[0] != preferred.ID || ids[1] != fresh.ID {
		t.Fatalf("order: %v", ids)
	}
	if page.Items[0].Score == nil || *page.Items[0].Score != 10.5 {
		t.Fatalf("preferred score: %v", page.Items[0].Score)
	}
	if len(page.Items[0].Categories) != 1 || page.Items[0].Categories[0].Tag.Slug != "teknoloji" {
		t.Fatalf("categories on item: %+v", page.Items[0].Categories)
	}
}

func TestRankFeedNeverReturnsBlockedTags(t *testing.T) {
	env := newServiceEnv(t)
	svc := env.feedService(nil)
	now := env.clock.Now()
	user := uuid.New()
	cat := testutil.SeedCategory(t, env.ctx, env.db, "mizah")
	positive := testutil.SeedVibe(t, env.ctx, env.db, "positive")
	blockedVibe := testutil.SeedVibe(t, env.ctx, env.db, "angry")
	testutil.SeedPreference(t, env.ctx, env.db, user, cat, 100, false)
	testutil.SeedPreference(t, env.ctx, env.db, user, blockedVibe, 100, true)

	blocked := testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: now, Likes: 1000, Shares: 1000})
	testutil.SeedAttachment(t, env.ctx, env.db, blocked.ID, cat, 10, 0, 1, 100)
	testutil.SeedAttachment(t, env.ctx, env.db, blocked.ID, positive, 10, 0, 1, 50)
	testutil.SeedAttachment(t, env.ctx, env.db, blocked.ID, blockedVibe, 10, 0, 1, 50)

	clean := testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: now.Add(-time.Hour)})
	testutil.SeedAttachment(t, env.ctx, env.db, clean.ID, cat, 10, 0, 1, 100)
	testutil.SeedAttachment(t, env.ctx, env.db, clean.ID, positive, 10, 0, 1, 100)

	queries := map[string]FeedQuery{
		"normal":          {Mode: feedmix.ModeNormal},
		"soft":            {Mode: feedmix.ModeSoft},
		"category_filter": {CategoryIDs: []uuid.UUID{cat.ID}},
		"vibe_filter":     {VibeIDs: []uuid.UUID{blockedVibe.ID, positive.ID}},
	}
	for name, q := range queries {
		t.Run(name, func(t *testing.T) {
			page, err := svc.RankFeed(env.ctx, user, q)
			if err != nil {
				t.Fatalf("RankFeed: %v", err)
			}
			ids := itemIDs(page)
			if containsID(ids, blocked.ID) {
				t.Fatalf("blocked post returned: %v", ids)
			}
			if !containsID(ids, clean.ID) {
				t.Fatalf("clean post missing: %v", ids)
			}
		})
	}
}

func TestRankFeedModes(t *testing.T) {
	env := newServiceEnv(t)
	svc := env.feedService(nil)
	now := env.clock.Now()
	user := uuid.New()
	fun := testutil.SeedVibe(t, env.ctx, env.db, "fun")
	informative := testutil.SeedVibe(t, env.ctx, env.db, "informative")

	confident := testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: now})
	testutil.SeedAttachment(t, env.ctx, env.db, confident.ID, fun, 6, 0, 0.6, 100)
	unsure := testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: now.Add(-time.Minute)})
	testutil.SeedAttachment(t, env.ctx, env.db, unsure.ID, fun, 4, 0, 0.4, 100)
	focus := testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: now.Add(-2 * time.Minute)})
	testutil.SeedAttachment(t, env.ctx, env.db, focus.ID, informative, 10, 0, 1, 100)
	testutil.SeedPost(t, env.ctx, env.db, testutil.PostOpts{CreatedAt: now.Add(-3 * time.Minute)})

	cases := []struct {
		mode feedmix.Mode
		want []uuid.UUID
	}{
		{feedmix.ModeSoft, []uuid.UUID{confident.ID}},
		{feedmix.ModeFocus, []uuid.UUID{focus.ID}},
	}
	for _, tc := range cases {
		page, err := svc.RankFeed(env.ctx, user, FeedQuery{Mode: tc.mode})
		if err != nil {
			t.Fatalf("RankFeed(%s): %v", tc.mode, err)
		}
		ids := itemIDs(page)
		if len(ids) != len(tc.want) || ids[0] != tc.want[0] {
			t.Fatalf("mode %s: got=%v want=%v", tc.mode, ids, tc.want)
		}
	}

	page, err := svc.RankFeed(env.ctx, user, FeedQuery{Mode: feedmix.ModeNormal})
	if err != nil {
		t.Fatalf("RankFeed normal: %v", err)
	}
	if len(page.Items) != 4 {
		t.Fatalf("normal mode should not restrict: %d items", len(page.Items))
	}

	if _, err := svc.RankFeed(env.ctx, user, FeedQuery{Mode: "loud"}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("unknown mode: %v", err)
	}
}

func TestFeedCursorErrors(t *testing.T) {
	env := newServiceEnv(t)
	svc := env.feedService(nil)
	user := uuid.New()

	missing := uuid.New()
	if _, err := svc.DefaultFeed(env.ctx, user, 10, &missing); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unknown cursor: %v", err)
	}
	nilID := uuid.Nil
	if _, err := svc.RankFeed(env.ctx, user, FeedQuery{Cursor: &nilID}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("nil cursor: %v", err)
	}
}

func TestFeedConfigClampLimit(t *testing.T) {
	cfg := FeedConfig{}.withDefaults()
	cases := []struct{ in, want int }{
		{0, 20},
		{-5, 1},
		{1, 1},
		{50, 50},
		{101, 100},
		{5000, 100},
	}
	for _, tc := range cases {
		if got := cfg.clampLimit(tc.in); got != tc.want {
			t.Fatalf("clampLimit(%d)=%d want %d", tc.in, got, tc.want)
		}
	}
}
