package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/vibemix-backend/internal/domain/taxonomy"
)

var TaggingAggregateContract = Contract{
	Name:             "Categorization.TaggingAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns votes, attachment counters, confidence and sibling weight normalization.",
}

// TaggingAggregate owns the vote ledger and tag attachments of posts.
//
// After every successful write the sibling set of the touched attachment is
// normalized: confidences match counters and weights match confidences.
//
// Failures are *Error with CodeValidation, CodeNotFound, CodeConflict,
// CodeForbidden, CodeRetryable or CodeInternal.
type TaggingAggregate interface {
	Aggregate

	CastVote(ctx context.Context, in CastVoteInput) (CastVoteResult, error)
	AttachTag(ctx context.Context, in AttachTagInput) (AttachTagResult, error)
	DetachTag(ctx context.Context, in DetachTagInput) (DetachTagResult, error)

	// RecomputePost rebuilds confidences and weights of every attachment of a
	// post from the stored counters.
	RecomputePost(ctx context.Context, in RecomputePostInput) (RecomputePostResult, error)
}

type CastVoteInput struct {
	PostTagID uuid.UUID
	VoterID   uuid.UUID
	Direction taxonomy.VoteDirection
}

type VoteTransition string

const (
	VoteCreated VoteTransition = "created"
	VoteFlipped VoteTransition = "flipped"
)

type CastVoteResult struct {
	Attachment taxonomy.PostTag
	Siblings   []taxonomy.PostTag
	Transition VoteTransition
	Previous   taxonomy.VoteDirection
}

type AttachTagInput struct {
	PostID             uuid.UUID
	TagID              uuid.UUID
	SuggestedByMachine bool
	At                 time.Time
}

type AttachTagResult struct {
	Attachment taxonomy.PostTag
	Siblings   []taxonomy.PostTag
}

type DetachTagInput struct {
	PostID      uuid.UUID
	TagID       uuid.UUID
	RequesterID uuid.UUID
}

type DetachTagResult struct {
	PostID       uuid.UUID
	Kind         taxonomy.TagKind
	VotesRemoved int64
	Siblings     []taxonomy.PostTag
}

type RecomputePostInput struct {
	PostID uuid.UUID
}

type RecomputePostResult struct {
	PostID      uuid.UUID
	Attachments []taxonomy.PostTag
}
