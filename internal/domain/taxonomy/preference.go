package taxonomy

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinPreferenceWeight = 0
	MaxPreferenceWeight = 100
)

// UserTagPreference amplifies (Weight) or hides (IsBlocked) a tag in one
// user's feed. Blocking wins over any weight.
type UserTagPreference struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_tag_pref_user_tag;index" json:"user_id"`
	TagID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_tag_pref_user_tag" json:"tag_id"`
	Kind      TagKind   `gorm:"column:kind;not null" json:"kind"`
	Weight    float64   `gorm:"column:weight;not null;default:0" json:"weight"`
	IsBlocked bool      `gorm:"column:is_blocked;not null;default:false" json:"is_blocked"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Tag *Tag `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}

func (UserTagPreference) TableName() string { return "user_tag_preference" }
