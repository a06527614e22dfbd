package taxonomy

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// VoterStats tracks how much categorization work a user has done.
type VoterStats struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	TotalVotes       int            `gorm:"column:total_votes;not null;default:0;index" json:"total_votes"`
	UpvotesCast      int            `gorm:"column:upvotes_cast;not null;default:0" json:"upvotes_cast"`
	DownvotesCast    int            `gorm:"column:downvotes_cast;not null;default:0" json:"downvotes_cast"`
	DirectionChanges int            `gorm:"column:direction_changes;not null;default:0" json:"direction_changes"`
	Badges           datatypes.JSON `gorm:"column:badges" json:"badges"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
}

func (VoterStats) TableName() string { return "voter_stats" }
