package social

import (
	"time"

	"github.com/google/uuid"
)

type PostLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_like_user_post" json:"user_id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_like_user_post;index" json:"post_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (PostLike) TableName() string { return "post_like" }
