package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/vibemix-backend/internal/data/repos/social"
	"github.com/yungbote/vibemix-backend/internal/data/repos/taxonomy"
	types "github.com/yungbote/vibemix-backend/internal/domain"
	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
	"github.com/yungbote/vibemix-backend/internal/modules/categorization"
	"github.com/yungbote/vibemix-backend/internal/modules/gamification"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
)

type TaggingAggregateDeps struct {
	Base BaseDeps

	Posts      social.PostRepo
	Tags       taxonomy.TagRepo
	PostTags   taxonomy.PostTagRepo
	Votes      taxonomy.TagVoteRepo
	VoterStats taxonomy.VoterStatsRepo
}

type taggingAggregate struct {
	deps TaggingAggregateDeps
}

func NewTaggingAggregate(deps TaggingAggregateDeps) domainagg.TaggingAggregate {
	deps.Base = deps.Base.withDefaults()
	return &taggingAggregate{deps: deps}
}

func (a *taggingAggregate) Contract() domainagg.Contract {
	return domainagg.TaggingAggregateContract
}

func (a *taggingAggregate) configured() bool {
	d := a.deps
	return d.Posts != nil && d.Tags != nil && d.PostTags != nil && d.Votes != nil && d.VoterStats != nil
}

func (a *taggingAggregate) CastVote(ctx context.Context, in domainagg.CastVoteInput) (domainagg.CastVoteResult, error) {
	const op = "Categorization.Tagging.CastVote"
	var out domainagg.CastVoteResult
	if err := requireID(op, "post_tag_id", in.PostTagID); err != nil {
		return out, err
	}
	if err := requireID(op, "voter_id", in.VoterID); err != nil {
		return out, err
	}
	dir, err := types.ParseVoteDirection(string(in.Direction))
	if err != nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "tagging aggregate repos not configured", nil)
	}

	err = executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		out = domainagg.CastVoteResult{}
		pt, err := a.deps.PostTags.GetByID(dbc, in.PostTagID)
		if err != nil {
			return err
		}
		if pt == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("attachment not found: %s", in.PostTagID), nil)
		}
		siblings, err := a.deps.PostTags.LockSiblings(dbc, pt.PostID, pt.Kind)
		if err != nil {
			return err
		}
		if findPostTag(siblings, pt.ID) == nil {
			// Detached between the read and the lock.
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("attachment not found: %s", in.PostTagID), nil)
		}

		prev, err := a.deps.Votes.Get(dbc, in.VoterID, pt.ID)
		if err != nil {
			return err
		}

		up, down := directionCounts(dir)
		stats := taxonomy.VoterStatsDelta{Upvotes: up, Downvotes: down, At: a.deps.Base.Clock.Now()}
		switch {
		case prev == nil:
			if err := a.deps.Votes.Create(dbc, &types.TagVote{UserID: in.VoterID, PostTagID: pt.ID, Direction: dir}); err != nil {
				return err
			}
			if err := a.deps.PostTags.AddVoteCounts(dbc, pt.ID, 1, up, down); err != nil {
				return err
			}
			if err := a.deps.Tags.AddVotesCount(dbc, pt.TagID, 1); err != nil {
				return err
			}
			stats.Votes = 1
			out.Transition = domainagg.VoteCreated
		case prev.Direction == dir:
			return domainagg.NewError(domainagg.CodeConflict, op, "already voted this way", domainagg.ErrDuplicateVote)
		default:
			if err := a.deps.Votes.UpdateDirection(dbc, prev.ID, dir); err != nil {
				return err
			}
			// Total is unchanged; one vote moves between the counters.
			if err := a.deps.PostTags.AddVoteCounts(dbc, pt.ID, 0, up-down, down-up); err != nil {
				return err
			}
			stats.Upvotes, stats.Downvotes = up-down, down-up
			stats.DirectionChanges = 1
			out.Transition = domainagg.VoteFlipped
			out.Previous = prev.Direction
		}

		if err := a.applyVoterStats(dbc, in.VoterID, stats); err != nil {
			return err
		}

		normalized, err := a.normalize(dbc, pt.PostID, pt.Kind)
		if err != nil {
			return err
		}
		touched := findPostTag(normalized, pt.ID)
		if touched == nil {
			return InvariantError("voted attachment missing after normalization")
		}
		touched.Tag = pt.Tag
		out.Attachment = *touched
		out.Siblings = derefPostTags(normalized)
		return nil
	})
	return out, err
}

func (a *taggingAggregate) AttachTag(ctx context.Context, in domainagg.AttachTagInput) (domainagg.AttachTagResult, error) {
	const op = "Categorization.Tagging.AttachTag"
	var out domainagg.AttachTagResult
	if err := requireID(op, "post_id", in.PostID); err != nil {
		return out, err
	}
	if err := requireID(op, "tag_id", in.TagID); err != nil {
		return out, err
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "tagging aggregate repos not configured", nil)
	}
	at := in.At
	if at.IsZero() {
		at = a.deps.Base.Clock.Now()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		out = domainagg.AttachTagResult{}
		post, err := a.deps.Posts.GetByID(dbc, in.PostID)
		if err != nil {
			return err
		}
		if err := requireVisiblePost(op, post, in.PostID); err != nil {
			return err
		}
		tag, err := a.deps.Tags.GetByID(dbc, in.TagID)
		if err != nil {
			return err
		}
		if err := requireActiveTag(op, tag, in.TagID, at); err != nil {
			return err
		}

		if _, err := a.deps.PostTags.LockSiblings(dbc, post.ID, tag.Kind); err != nil {
			return err
		}
		existing, err := a.deps.PostTags.GetByPostAndTag(dbc, post.ID, tag.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return alreadyAttached(op, tag)
		}

		row := &types.PostTag{
			ID:            uuid.New(),
			PostID:        post.ID,
			TagID:         tag.ID,
			Kind:          tag.Kind,
			IsAISuggested: in.SuggestedByMachine,
		}
		if err := a.deps.PostTags.Create(dbc, row); err != nil {
			if isUniqueViolation(err) {
				return alreadyAttached(op, tag)
			}
			return err
		}
		if err := a.deps.Tags.AddPostsCount(dbc, tag.ID, 1); err != nil {
			return err
		}

		normalized, err := a.normalize(dbc, post.ID, tag.Kind)
		if err != nil {
			return err
		}
		created := findPostTag(normalized, row.ID)
		if created == nil {
			return InvariantError("attached row missing after normalization")
		}
		created.Tag = tag
		out.Attachment = *created
		out.Siblings = derefPostTags(normalized)
		return nil
	})
	return out, err
}

func (a *taggingAggregate) DetachTag(ctx context.Context, in domainagg.DetachTagInput) (domainagg.DetachTagResult, error) {
	const op = "Categorization.Tagging.DetachTag"
	var out domainagg.DetachTagResult
	if err := requireID(op, "post_id", in.PostID); err != nil {
		return out, err
	}
	if err := requireID(op, "tag_id", in.TagID); err != nil {
		return out, err
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "tagging aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		out = domainagg.DetachTagResult{PostID: in.PostID}
		pt, err := a.deps.PostTags.GetByPostAndTag(dbc, in.PostID, in.TagID)
		if err != nil {
			return err
		}
		if pt == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "tag is not attached to this post", nil)
		}
		post, err := a.deps.Posts.GetByID(dbc, in.PostID)
		if err != nil {
			return err
		}
		if post == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("post not found: %s", in.PostID), nil)
		}
		if err := requireAuthor(op, post, in.RequesterID); err != nil {
			return err
		}

		if _, err := a.deps.PostTags.LockSiblings(dbc, pt.PostID, pt.Kind); err != nil {
			return err
		}
		removed, err := a.deps.Votes.DeleteByPostTag(dbc, pt.ID)
		if err != nil {
			return err
		}
		if err := a.deps.PostTags.Delete(dbc, pt.ID); err != nil {
			return err
		}
		if err := a.deps.Tags.AddPostsCount(dbc, pt.TagID, -1); err != nil {
			return err
		}

		normalized, err := a.normalize(dbc, pt.PostID, pt.Kind)
		if err != nil {
			return err
		}
		out.Kind = pt.Kind
		out.VotesRemoved = removed
		out.Siblings = derefPostTags(normalized)
		return nil
	})
	return out, err
}

func (a *taggingAggregate) RecomputePost(ctx context.Context, in domainagg.RecomputePostInput) (domainagg.RecomputePostResult, error) {
	const op = "Categorization.Tagging.RecomputePost"
	var out domainagg.RecomputePostResult
	if err := requireID(op, "post_id", in.PostID); err != nil {
		return out, err
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "tagging aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		out = domainagg.RecomputePostResult{PostID: in.PostID}
		post, err := a.deps.Posts.GetByID(dbc, in.PostID)
		if err != nil {
			return err
		}
		if post == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("post not found: %s", in.PostID), nil)
		}
		// Fixed kind order keeps lock acquisition consistent with other writers.
		for _, kind := range []types.TagKind{types.KindCategory, types.KindVibe} {
			if _, err := a.deps.PostTags.LockSiblings(dbc, post.ID, kind); err != nil {
				return err
			}
			normalized, err := a.normalize(dbc, post.ID, kind)
			if err != nil {
				return err
			}
			out.Attachments = append(out.Attachments, derefPostTags(normalized)...)
		}
		return nil
	})
	return out, err
}

// normalize brings the (postID, kind) sibling set to its fixpoint: every
// confidence matches its counters and the weights are the normalized
// confidences, written as one batch. The caller holds the sibling locks.
func (a *taggingAggregate) normalize(dbc dbctx.Context, postID uuid.UUID, kind types.TagKind) ([]*types.PostTag, error) {
	siblings, err := a.deps.PostTags.LockSiblings(dbc, postID, kind)
	if err != nil {
		return nil, err
	}
	if len(siblings) == 0 {
		return siblings, nil
	}

	confidences := make([]categorization.SiblingConfidence, 0, len(siblings))
	for _, s := range siblings {
		c := categorization.Confidence(s.Upvotes, s.Downvotes)
		if c != s.Confidence {
			if err := a.deps.PostTags.SetConfidence(dbc, s.ID, c); err != nil {
				return nil, err
			}
			s.Confidence = c
		}
		confidences = append(confidences, categorization.SiblingConfidence{ID: s.ID, Confidence: c})
	}

	weights := categorization.NormalizeWeights(confidences)
	allZero := true
	updates := make([]taxonomy.WeightUpdate, 0, len(weights))
	for i, w := range weights {
		siblings[i].Weight = w.Weight
		if w.Weight != 0 {
			allZero = false
		}
		updates = append(updates, taxonomy.WeightUpdate{ID: w.ID, Weight: w.Weight})
	}
	if allZero {
		if err := a.deps.PostTags.ZeroWeights(dbc, postID, kind); err != nil {
			return nil, err
		}
		return siblings, nil
	}
	if err := a.deps.PostTags.SetWeights(dbc, updates, a.deps.Base.Clock.Now()); err != nil {
		return nil, err
	}
	return siblings, nil
}

func (a *taggingAggregate) applyVoterStats(dbc dbctx.Context, voterID uuid.UUID, d taxonomy.VoterStatsDelta) error {
	stats, err := a.deps.VoterStats.Apply(dbc, voterID, d)
	if err != nil {
		return err
	}
	if stats == nil || d.Votes == 0 {
		return nil
	}
	badges, changed := gamification.Award(stats.Badges, stats.TotalVotes, a.deps.Base.Clock.Now())
	if !changed {
		return nil
	}
	return a.deps.VoterStats.SetBadges(dbc, voterID, badges)
}

func alreadyAttached(op string, tag *types.Tag) error {
	return domainagg.NewError(domainagg.CodeConflict, op, fmt.Sprintf("%s already attached to this post", tag.Slug), domainagg.ErrAlreadyAttached)
}

func directionCounts(dir types.VoteDirection) (up, down int) {
	if dir == types.VoteUp {
		return 1, 0
	}
	return 0, 1
}

func findPostTag(rows []*types.PostTag, id uuid.UUID) *types.PostTag {
	for _, r := range rows {
		if r != nil && r.ID == id {
			return r
		}
	}
	return nil
}

func derefPostTags(rows []*types.PostTag) []types.PostTag {
	out := make([]types.PostTag, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}
