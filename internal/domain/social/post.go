package social

import (
	"time"

	"github.com/google/uuid"
)

// Post is owned by the post CRUD collaborator; this service only reads it.
// Deletion is soft: IsDeleted plus DeletedAt.
type Post struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Content       string     `gorm:"column:content;not null" json:"content"`
	LikesCount    int        `gorm:"column:likes_count;not null;default:0" json:"likes_count"`
	CommentsCount int        `gorm:"column:comments_count;not null;default:0" json:"comments_count"`
	SharesCount   int        `gorm:"column:shares_count;not null;default:0" json:"shares_count"`
	IsDeleted     bool       `gorm:"column:is_deleted;not null;default:false;index" json:"is_deleted"`
	DeletedAt     *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (Post) TableName() string { return "post" }

// Visible reports whether the post can still receive tags and appear in feeds.
func (p *Post) Visible() bool {
	return p != nil && !p.IsDeleted
}
