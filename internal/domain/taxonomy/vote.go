package taxonomy

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type VoteDirection string

const (
	VoteUp   VoteDirection = "UPVOTE"
	VoteDown VoteDirection = "DOWNVOTE"
)

func ParseVoteDirection(raw string) (VoteDirection, error) {
	switch VoteDirection(strings.ToUpper(strings.TrimSpace(raw))) {
	case VoteUp:
		return VoteUp, nil
	case VoteDown:
		return VoteDown, nil
	default:
		return "", fmt.Errorf("unknown vote type %q", raw)
	}
}

// TagVote is one voter's vote on one attachment. A second vote by the same
// voter is a direction change on this row, never a new row.
type TagVote struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_tag_vote_user_post_tag" json:"user_id"`
	PostTagID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_tag_vote_user_post_tag;index" json:"post_tag_id"`
	Direction VoteDirection `gorm:"column:direction;not null" json:"vote_type"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null" json:"updated_at"`
}

func (TagVote) TableName() string { return "tag_vote" }
