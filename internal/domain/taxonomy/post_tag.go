package taxonomy

import (
	"time"

	"github.com/google/uuid"
)

// PostTag attaches a tag to a post and carries its vote state.
// Confidence derives from this row's own counters only; Weight derives from
// Confidence relative to the siblings (same post, same kind).
type PostTag struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_tag_post_tag;index:idx_post_tag_post_kind,priority:1" json:"post_id"`
	TagID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_tag_post_tag;index" json:"tag_id"`
	Kind          TagKind   `gorm:"column:kind;not null;index:idx_post_tag_post_kind,priority:2" json:"kind"`
	VoteCount     int       `gorm:"column:vote_count;not null;default:0" json:"vote_count"`
	Upvotes       int       `gorm:"column:upvotes;not null;default:0" json:"upvotes"`
	Downvotes     int       `gorm:"column:downvotes;not null;default:0" json:"downvotes"`
	Confidence    float64   `gorm:"column:confidence;not null;default:0" json:"confidence"`
	Weight        float64   `gorm:"column:weight;not null;default:0" json:"weight"`
	IsAISuggested bool      `gorm:"column:is_ai_suggested;not null;default:false" json:"is_ai_suggested"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`

	Tag *Tag `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}

func (PostTag) TableName() string { return "post_tag" }
