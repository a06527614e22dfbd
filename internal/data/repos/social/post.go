package social

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/vibemix-backend/internal/domain"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

// Cursor is the keyset position of a post in (created_at desc, id desc) order.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// CandidateFilter narrows the feed scan at the store. Empty slices mean no
// restriction.
type CandidateFilter struct {
	After *Cursor
	Limit int

	// ModeVibeIDs requires a vibe attachment to one of these tags with
	// confidence >= ModeMinConfidence. Nil disables the mode check; an empty
	// non-nil slice matches nothing.
	ModeVibeIDs       []uuid.UUID
	ModeMinConfidence float64

	CategoryIDs []uuid.UUID
	VibeIDs     []uuid.UUID
	BlockedIDs  []uuid.UUID
}

type PostRepo interface {
	Create(dbc dbctx.Context, posts []*types.Post) ([]*types.Post, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Post, error)
	ListRecent(dbc dbctx.Context, after *Cursor, limit int) ([]*types.Post, error)
	ListFeedCandidates(dbc dbctx.Context, f CandidateFilter) ([]*types.Post, error)
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return &postRepo{db: db, log: baseLog.With("repo", "PostRepo")}
}

func (r *postRepo) Create(dbc dbctx.Context, posts []*types.Post) ([]*types.Post, error) {
	if len(posts) == 0 {
		return []*types.Post{}, nil
	}
	for _, p := range posts {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
	}
	if err := dbc.DB(r.db).Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID returns nil, nil when the post does not exist. Soft-deleted posts
// are returned; callers check Visible.
func (r *postRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Post, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Post
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *postRepo) ListRecent(dbc dbctx.Context, after *Cursor, limit int) ([]*types.Post, error) {
	return r.ListFeedCandidates(dbc, CandidateFilter{After: after, Limit: limit})
}

func (r *postRepo) ListFeedCandidates(dbc dbctx.Context, f CandidateFilter) ([]*types.Post, error) {
	var out []*types.Post
	if f.Limit <= 0 {
		return out, nil
	}
	if f.ModeVibeIDs != nil && len(f.ModeVibeIDs) == 0 {
		return out, nil
	}

	q := dbc.DB(r.db).Model(&types.Post{}).Where("post.is_deleted = ?", false)
	if f.After != nil {
		q = q.Where(
			"(post.created_at < ? OR (post.created_at = ? AND post.id < ?))",
			f.After.CreatedAt, f.After.CreatedAt, f.After.ID,
		)
	}
	if f.ModeVibeIDs != nil {
		q = q.Where(
			"EXISTS (SELECT 1 FROM post_tag pt WHERE pt.post_id = post.id AND pt.kind = ? AND pt.tag_id IN ? AND pt.confidence >= ?)",
			types.KindVibe, f.ModeVibeIDs, f.ModeMinConfidence,
		)
	}
	if len(f.CategoryIDs) > 0 {
		q = q.Where(
			"EXISTS (SELECT 1 FROM post_tag pt WHERE pt.post_id = post.id AND pt.kind = ? AND pt.tag_id IN ?)",
			types.KindCategory, f.CategoryIDs,
		)
	}
	if len(f.VibeIDs) > 0 {
		q = q.Where(
			"EXISTS (SELECT 1 FROM post_tag pt WHERE pt.post_id = post.id AND pt.kind = ? AND pt.tag_id IN ?)",
			types.KindVibe, f.VibeIDs,
		)
	}
	if len(f.BlockedIDs) > 0 {
		q = q.Where(
			"NOT EXISTS (SELECT 1 FROM post_tag pt WHERE pt.post_id = post.id AND pt.tag_id IN ?)",
			f.BlockedIDs,
		)
	}

	if err := q.Order("post.created_at DESC").Order("post.id DESC").Limit(f.Limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
