package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/vibemix-backend/internal/data/repos"
	types "github.com/yungbote/vibemix-backend/internal/domain"
	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
	"github.com/yungbote/vibemix-backend/internal/modules/feedmix"
	"github.com/yungbote/vibemix-backend/internal/observability"
	"github.com/yungbote/vibemix-backend/internal/platform/clock"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

const (
	DefaultFeedLimit       = 20
	MaxFeedLimit           = 100
	DefaultOverfetchFactor = 3
)

type FeedConfig struct {
	DefaultLimit    int
	MaxLimit        int
	OverfetchFactor int
}

func (c FeedConfig) withDefaults() FeedConfig {
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = DefaultFeedLimit
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = MaxFeedLimit
	}
	if c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = c.MaxLimit
	}
	if c.OverfetchFactor <= 0 {
		c.OverfetchFactor = DefaultOverfetchFactor
	}
	return c
}

// clampLimit maps 0 to the default and anything else into [1, MaxLimit].
func (c FeedConfig) clampLimit(limit int) int {
	switch {
	case limit == 0:
		return c.DefaultLimit
	case limit < 1:
		return 1
	case limit > c.MaxLimit:
		return c.MaxLimit
	default:
		return limit
	}
}

type FeedQuery struct {
	Mode        feedmix.Mode
	CategoryIDs []uuid.UUID
	VibeIDs     []uuid.UUID
	Limit       int
	Cursor      *uuid.UUID
}

type FeedService interface {
	Feed(ctx context.Context, userID uuid.UUID, q FeedQuery) (*FeedPage, error)
	RankFeed(ctx context.Context, userID uuid.UUID, q FeedQuery) (*FeedPage, error)
	DefaultFeed(ctx context.Context, userID uuid.UUID, limit int, cursor *uuid.UUID) (*FeedPage, error)
}

type feedService struct {
	db       *gorm.DB
	log      *logger.Logger
	posts    repos.PostRepo
	likes    repos.LikeRepo
	tags     repos.TagRepo
	postTags repos.PostTagRepo
	prefs    repos.UserTagPreferenceRepo
	metrics  *observability.Metrics
	clock    clock.Clock
	cfg      FeedConfig
	scorer   feedmix.Scorer
}

func NewFeedService(
	db *gorm.DB,
	log *logger.Logger,
	posts repos.PostRepo,
	likes repos.LikeRepo,
	tags repos.TagRepo,
	postTags repos.PostTagRepo,
	prefs repos.UserTagPreferenceRepo,
	metrics *observability.Metrics,
	clk clock.Clock,
	cfg FeedConfig,
	scorer feedmix.Scorer,
) FeedService {
	if clk == nil {
		clk = clock.Real()
	}
	if scorer == nil {
		scorer = feedmix.Score
	}
	return &feedService{
		db:       db,
		log:      log.With("service", "FeedService"),
		posts:    posts,
		likes:    likes,
		tags:     tags,
		postTags: postTags,
		prefs:    prefs,
		metrics:  metrics,
		clock:    clk,
		cfg:      cfg.withDefaults(),
		scorer:   scorer,
	}
}

// Feed serves the cold-start recency feed to users without any stored
// preference and the mixed feed to everyone else.
func (s *feedService) Feed(ctx context.Context, userID uuid.UUID, q FeedQuery) (*FeedPage, error) {
	const op = "Feed.Feed"
	rows, err := s.prefs.ListByUser(dbctx.Context{Ctx: ctx}, userID, "")
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	prefs := toPreferences(rows)
	if prefs.Empty() {
		return s.DefaultFeed(ctx, userID, q.Limit, q.Cursor)
	}
	return s.rankFeed(ctx, userID, q, &prefs)
}

func (s *feedService) RankFeed(ctx context.Context, userID uuid.UUID, q FeedQuery) (*FeedPage, error) {
	return s.rankFeed(ctx, userID, q, nil)
}

// rankFeed scores one page. preloaded skips the preference read when the
// caller already has it.
func (s *feedService) rankFeed(ctx context.Context, userID uuid.UUID, q FeedQuery, preloaded *feedmix.Preferences) (page *FeedPage, err error) {
	const op = "Feed.RankFeed"
	start := time.Now()
	mode := q.Mode
	if mode == "" {
		mode = feedmix.ModeNormal
	}
	ctx, span := observability.Tracer().Start(ctx, op)
	span.SetAttributes(
		attribute.String("feed.mode", string(mode)),
		attribute.Int("feed.limit", q.Limit),
	)
	defer func() {
		status, items := feedStatus(page, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int("feed.items", items))
		span.End()
		s.metrics.ObserveFeed(string(FeedStrategyMixed), string(mode), status, items, time.Since(start))
	}()

	if _, perr := feedmix.ParseMode(string(mode)); perr != nil {
		return nil, domainagg.Validation(op, perr.Error())
	}
	limit := s.cfg.clampLimit(q.Limit)
	dbc := dbctx.Context{Ctx: ctx}
	after, err := s.resolveCursor(dbc, op, q.Cursor)
	if err != nil {
		return nil, err
	}

	var (
		prefs       feedmix.Preferences
		modeVibeIDs []uuid.UUID
	)
	g, gctx := errgroup.WithContext(ctx)
	if preloaded != nil {
		prefs = *preloaded
	} else {
		g.Go(func() error {
			rows, err := s.prefs.ListByUser(dbctx.Context{Ctx: gctx}, userID, "")
			if err != nil {
				return fmt.Errorf("load preferences: %w", err)
			}
			prefs = toPreferences(rows)
			return nil
		})
	}
	if mode.Restricts() {
		g.Go(func() error {
			vibes, err := s.tags.GetBySlugs(dbctx.Context{Ctx: gctx}, types.KindVibe, mode.VibeSlugs())
			if err != nil {
				return fmt.Errorf("resolve mode vibes: %w", err)
			}
			ids := make([]uuid.UUID, 0, len(vibes))
			for _, v := range vibes {
				ids = append(ids, v.ID)
			}
			modeVibeIDs = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}

	fetchLimit := limit * s.cfg.OverfetchFactor
	candidates, err := s.posts.ListFeedCandidates(dbc, repos.CandidateFilter{
		After:             after,
		Limit:             fetchLimit,
		ModeVibeIDs:       modeVibeIDs,
		ModeMinConfidence: feedmix.ModeMinConfidence,
		CategoryIDs:       q.CategoryIDs,
		VibeIDs:           q.VibeIDs,
		BlockedIDs:        blockedIDs(prefs),
	})
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	attachments, err := s.attachmentsByPost(dbc, candidates)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}

	byID := make(map[uuid.UUID]*types.Post, len(candidates))
	input := make([]feedmix.Candidate, 0, len(candidates))
	for _, p := range candidates {
		byID[p.ID] = p
		input = append(input, toCandidate(p, attachments[p.ID]))
	}
	ranked := feedmix.Rank(input, prefs, feedmix.Options{
		Mode:        mode,
		CategoryIDs: q.CategoryIDs,
		VibeIDs:     q.VibeIDs,
		Limit:       limit,
		Now:         s.clock.Now(),
		Scorer:      s.scorer,
	})

	posts := make([]*types.Post, 0, len(ranked))
	scores := make([]float64, 0, len(ranked))
	for _, r := range ranked {
		posts = append(posts, byID[r.PostID])
		scores = append(scores, r.Score)
	}
	page, err = s.buildPage(dbc, op, userID, posts, attachments, FeedStrategyMixed)
	if err != nil {
		return nil, err
	}
	for i := range page.Items {
		score := scores[i]
		page.Items[i].Score = &score
	}
	if len(page.Items) < limit && len(candidates) < fetchLimit {
		page.NextCursor = nil
	}
	return page, nil
}

// DefaultFeed is strict recency: created_at desc, then id desc. It never
// scores.
func (s *feedService) DefaultFeed(ctx context.Context, userID uuid.UUID, limit int, cursor *uuid.UUID) (page *FeedPage, err error) {
	const op = "Feed.DefaultFeed"
	start := time.Now()
	defer func() {
		status, items := feedStatus(page, err)
		s.metrics.ObserveFeed(string(FeedStrategyDefault), string(feedmix.ModeNormal), status, items, time.Since(start))
	}()

	limit = s.cfg.clampLimit(limit)
	dbc := dbctx.Context{Ctx: ctx}
	after, err := s.resolveCursor(dbc, op, cursor)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListRecent(dbc, after, limit)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	attachments, err := s.attachmentsByPost(dbc, posts)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	page, err = s.buildPage(dbc, op, userID, posts, attachments, FeedStrategyDefault)
	if err != nil {
		return nil, err
	}
	if len(page.Items) < limit {
		page.NextCursor = nil
	}
	return page, nil
}

func (s *feedService) resolveCursor(dbc dbctx.Context, op string, cursor *uuid.UUID) (*repos.Cursor, error) {
	if cursor == nil {
		return nil, nil
	}
	if *cursor == uuid.Nil {
		return nil, domainagg.Validation(op, "invalid cursor")
	}
	post, err := s.posts.GetByID(dbc, *cursor)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if post == nil {
		return nil, domainagg.NotFound(op, fmt.Sprintf("cursor post not found: %s", *cursor))
	}
	return &repos.Cursor{CreatedAt: post.CreatedAt, ID: post.ID}, nil
}

func (s *feedService) attachmentsByPost(dbc dbctx.Context, posts []*types.Post) (map[uuid.UUID][]*types.PostTag, error) {
	out := make(map[uuid.UUID][]*types.PostTag, len(posts))
	if len(posts) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	rows, err := s.postTags.ListByPosts(dbc, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.PostID] = append(out[r.PostID], r)
	}
	return out, nil
}

func (s *feedService) buildPage(dbc dbctx.Context, op string, userID uuid.UUID, posts []*types.Post, attachments map[uuid.UUID][]*types.PostTag, strategy FeedStrategy) (*FeedPage, error) {
	page := &FeedPage{Items: make([]FeedItem, 0, len(posts)), Strategy: strategy}
	if len(posts) == 0 {
		return page, nil
	}
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	liked, err := s.likes.LikedPostIDs(dbc, userID, ids)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	for _, p := range posts {
		page.Items = append(page.Items, newFeedItem(p, attachments[p.ID], liked[p.ID]))
	}
	last := posts[len(posts)-1].ID
	page.NextCursor = &last
	return page, nil
}

func toPreferences(rows []*types.UserTagPreference) feedmix.Preferences {
	prefs := feedmix.Preferences{
		Weights: make(map[uuid.UUID]float64, len(rows)),
		Blocked: map[uuid.UUID]bool{},
	}
	for _, r := range rows {
		if r == nil {
			continue
		}
		if r.IsBlocked {
			prefs.Blocked[r.TagID] = true
		}
		prefs.Weights[r.TagID] = r.Weight
	}
	return prefs
}

func blockedIDs(prefs feedmix.Preferences) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(prefs.Blocked))
	for id, blocked := range prefs.Blocked {
		if blocked {
			out = append(out, id)
		}
	}
	return out
}

func toCandidate(p *types.Post, rows []*types.PostTag) feedmix.Candidate {
	c := feedmix.Candidate{
		PostID:      p.ID,
		CreatedAt:   p.CreatedAt,
		Likes:       p.LikesCount,
		Comments:    p.CommentsCount,
		Shares:      p.SharesCount,
		Attachments: make([]feedmix.Attachment, 0, len(rows)),
	}
	for _, r := range rows {
		a := feedmix.Attachment{
			TagID:      r.TagID,
			Kind:       r.Kind,
			Confidence: r.Confidence,
			Weight:     r.Weight,
		}
		if r.Tag != nil {
			a.Slug = r.Tag.Slug
		}
		c.Attachments = append(c.Attachments, a)
	}
	return c
}

func feedStatus(page *FeedPage, err error) (string, int) {
	if err != nil {
		code := string(domainagg.CodeOf(err))
		if code == "" {
			code = "error"
		}
		return code, 0
	}
	if page == nil {
		return "success", 0
	}
	return "success", len(page.Items)
}
