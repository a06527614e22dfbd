package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/vibemix-backend/internal/data/repos"
	types "github.com/yungbote/vibemix-backend/internal/domain"
	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
	"github.com/yungbote/vibemix-backend/internal/modules/categorization"
	"github.com/yungbote/vibemix-backend/internal/observability"
	"github.com/yungbote/vibemix-backend/internal/platform/clock"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

type TaggingService interface {
	CastVote(ctx context.Context, postTagID, voterID uuid.UUID, direction types.VoteDirection) (*types.PostTag, error)
	AttachTag(ctx context.Context, postID, tagID uuid.UUID, suggested bool) (*types.PostTag, error)
	DetachTag(ctx context.Context, postID, tagID, requesterID uuid.UUID) error
	AutoTag(ctx context.Context, postID, requesterID uuid.UUID) ([]*types.PostTag, error)
	SuggestTags(content string) []string
	GetPostTags(ctx context.Context, postID uuid.UUID, kind types.TagKind, viewerID uuid.UUID) []PostTagView
	RecomputePost(ctx context.Context, postID, requesterID uuid.UUID) ([]types.PostTag, error)
}

type taggingService struct {
	db       *gorm.DB
	log      *logger.Logger
	agg      domainagg.TaggingAggregate
	posts    repos.PostRepo
	tags     repos.TagRepo
	postTags repos.PostTagRepo
	votes    repos.TagVoteRepo
	notifier TagEventNotifier
	metrics  *observability.Metrics
	clock    clock.Clock
}

func NewTaggingService(
	db *gorm.DB,
	log *logger.Logger,
	agg domainagg.TaggingAggregate,
	posts repos.PostRepo,
	tags repos.TagRepo,
	postTags repos.PostTagRepo,
	votes repos.TagVoteRepo,
	notifier TagEventNotifier,
	metrics *observability.Metrics,
	clk clock.Clock,
) TaggingService {
	if clk == nil {
		clk = clock.Real()
	}
	return &taggingService{
		db:       db,
		log:      log.With("service", "TaggingService"),
		agg:      agg,
		posts:    posts,
		tags:     tags,
		postTags: postTags,
		votes:    votes,
		notifier: notifier,
		metrics:  metrics,
		clock:    clk,
	}
}

func (s *taggingService) CastVote(ctx context.Context, postTagID, voterID uuid.UUID, direction types.VoteDirection) (*types.PostTag, error) {
	res, err := s.agg.CastVote(ctx, domainagg.CastVoteInput{
		PostTagID: postTagID,
		VoterID:   voterID,
		Direction: direction,
	})
	if err != nil {
		if domainagg.IsCode(err, domainagg.CodeConflict) {
			s.metrics.IncVoteTransition("duplicate", string(direction))
		}
		return nil, err
	}
	s.metrics.IncVoteTransition(string(res.Transition), string(direction))
	s.log.Debug("vote cast",
		"post_tag_id", postTagID,
		"voter_id", voterID,
		"transition", res.Transition,
		"confidence", res.Attachment.Confidence,
	)
	s.notify(ctx, res.Attachment.PostID, res.Attachment.Kind, "vote", res.Siblings)
	out := res.Attachment
	return &out, nil
}

func (s *taggingService) AttachTag(ctx context.Context, postID, tagID uuid.UUID, suggested bool) (*types.PostTag, error) {
	res, err := s.agg.AttachTag(ctx, domainagg.AttachTagInput{
		PostID:             postID,
		TagID:              tagID,
		SuggestedByMachine: suggested,
		At:                 s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, postID, res.Attachment.Kind, "attach", res.Siblings)
	out := res.Attachment
	return &out, nil
}

func (s *taggingService) DetachTag(ctx context.Context, postID, tagID, requesterID uuid.UUID) error {
	res, err := s.agg.DetachTag(ctx, domainagg.DetachTagInput{
		PostID:      postID,
		TagID:       tagID,
		RequesterID: requesterID,
	})
	if err != nil {
		return err
	}
	s.log.Info("tag detached", "post_id", postID, "tag_id", tagID, "votes_removed", res.VotesRemoved)
	s.notify(ctx, postID, res.Kind, "detach", res.Siblings)
	return nil
}

// AutoTag attaches the suggested categories for the post's content. Pairs
// that are already attached or tags that are not active are skipped.
func (s *taggingService) AutoTag(ctx context.Context, postID, requesterID uuid.UUID) ([]*types.PostTag, error) {
	const op = "Categorization.Tagging.AutoTag"
	dbc := dbctx.Context{Ctx: ctx}
	post, err := s.posts.GetByID(dbc, postID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if !post.Visible() {
		return nil, domainagg.NotFound(op, fmt.Sprintf("post not found: %s", postID))
	}
	if requesterID == uuid.Nil || post.UserID != requesterID {
		return nil, domainagg.Forbidden(op, "only the post author can auto-tag")
	}

	slugs := categorization.Suggest(post.Content)
	out := []*types.PostTag{}
	if len(slugs) == 0 {
		return out, nil
	}
	found, err := s.tags.GetBySlugs(dbc, types.KindCategory, slugs)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	bySlug := make(map[string]*types.Tag, len(found))
	for _, t := range found {
		bySlug[t.Slug] = t
	}

	now := s.clock.Now()
	for _, slug := range slugs {
		tag := bySlug[slug]
		if tag == nil || !tag.ActiveAt(now) {
			continue
		}
		pt, err := s.AttachTag(ctx, post.ID, tag.ID, true)
		if errors.Is(err, domainagg.ErrAlreadyAttached) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, nil
}

func (s *taggingService) SuggestTags(content string) []string {
	return categorization.Suggest(content)
}

// GetPostTags is the display read. Store failures degrade to an empty list.
func (s *taggingService) GetPostTags(ctx context.Context, postID uuid.UUID, kind types.TagKind, viewerID uuid.UUID) []PostTagView {
	out := []PostTagView{}
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.postTags.ListByPost(dbc, postID, kind)
	if err != nil {
		s.log.Warn("post tags read failed; returning empty list", "post_id", postID, "kind", kind, "error", err)
		return out
	}
	if len(rows) == 0 {
		return out
	}

	var dirs map[uuid.UUID]types.VoteDirection
	if viewerID != uuid.Nil {
		ids := make([]uuid.UUID, 0, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ID)
		}
		dirs, err = s.votes.DirectionsByUser(dbc, viewerID, ids)
		if err != nil {
			s.log.Warn("viewer votes read failed", "post_id", postID, "user_id", viewerID, "error", err)
			dirs = nil
		}
	}
	for _, r := range rows {
		var vote *types.VoteDirection
		if d, ok := dirs[r.ID]; ok {
			vote = &d
		}
		out = append(out, newPostTagView(r, vote))
	}
	return out
}

func (s *taggingService) RecomputePost(ctx context.Context, postID, requesterID uuid.UUID) ([]types.PostTag, error) {
	const op = "Categorization.Tagging.RecomputePost"
	post, err := s.posts.GetByID(dbctx.Context{Ctx: ctx}, postID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if post == nil {
		return nil, domainagg.NotFound(op, fmt.Sprintf("post not found: %s", postID))
	}
	if requesterID == uuid.Nil || post.UserID != requesterID {
		return nil, domainagg.Forbidden(op, "only the post author can recompute tags")
	}
	res, err := s.agg.RecomputePost(ctx, domainagg.RecomputePostInput{PostID: postID})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, postID, "", "recompute", res.Attachments)
	return res.Attachments, nil
}

func (s *taggingService) notify(ctx context.Context, postID uuid.UUID, kind types.TagKind, reason string, siblings []types.PostTag) {
	if s.notifier == nil {
		return
	}
	s.notifier.PostTagsUpdated(ctx, postID, kind, reason, siblings)
}
