package taxonomy

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/vibemix-backend/internal/domain"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

// WeightUpdate is one row of a sibling weight batch.
type WeightUpdate struct {
	ID     uuid.UUID
	Weight float64
}

type PostTagRepo interface {
	Create(dbc dbctx.Context, row *types.PostTag) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PostTag, error)
	GetByPostAndTag(dbc dbctx.Context, postID, tagID uuid.UUID) (*types.PostTag, error)

	// LockSiblings selects every attachment of (postID, kind) FOR UPDATE in id
	// order. Locking always in the same order keeps concurrent writers on one
	// post from deadlocking.
	LockSiblings(dbc dbctx.Context, postID uuid.UUID, kind types.TagKind) ([]*types.PostTag, error)

	ListByPost(dbc dbctx.Context, postID uuid.UUID, kind types.TagKind) ([]*types.PostTag, error)
	ListByPosts(dbc dbctx.Context, postIDs []uuid.UUID) ([]*types.PostTag, error)
	// ListTaggedPostIDs returns the distinct ids of posts with at least one
	// attachment, ascending. limit <= 0 means no limit.
	ListTaggedPostIDs(dbc dbctx.Context, limit int) ([]uuid.UUID, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error

	// AddVoteCounts applies counter deltas as store-side increments.
	AddVoteCounts(dbc dbctx.Context, id uuid.UUID, dTotal, dUp, dDown int) error
	SetConfidence(dbc dbctx.Context, id uuid.UUID, confidence float64) error

	// SetWeights writes every weight of a sibling set in a single statement.
	SetWeights(dbc dbctx.Context, updates []WeightUpdate, at time.Time) error
	ZeroWeights(dbc dbctx.Context, postID uuid.UUID, kind types.TagKind) error
}

type postTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostTagRepo(db *gorm.DB, baseLog *logger.Logger) PostTagRepo {
	return &postTagRepo{db: db, log: baseLog.With("repo", "PostTagRepo")}
}

func (r *postTagRepo) Create(dbc dbctx.Context, row *types.PostTag) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return dbc.DB(r.db).Omit(clause.Associations).Create(row).Error
}

func (r *postTagRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PostTag, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.PostTag
	if err := dbc.DB(r.db).Preload("Tag").Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *postTagRepo) GetByPostAndTag(dbc dbctx.Context, postID, tagID uuid.UUID) (*types.PostTag, error) {
	if postID == uuid.Nil || tagID == uuid.Nil {
		return nil, nil
	}
	var row types.PostTag
	if err := dbc.DB(r.db).Where("post_id = ? AND tag_id = ?", postID, tagID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *postTagRepo) LockSiblings(dbc dbctx.Context, postID uuid.UUID, kind types.TagKind) ([]*types.PostTag, error) {
	var out []*types.PostTag
	if err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("post_id = ? AND kind = ?", postID, kind).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postTagRepo) ListByPost(dbc dbctx.Context, postID uuid.UUID, kind types.TagKind) ([]*types.PostTag, error) {
	var out []*types.PostTag
	q := dbc.DB(r.db).Preload("Tag").Where("post_id = ?", postID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if err := q.Order("weight DESC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postTagRepo) ListByPosts(dbc dbctx.Context, postIDs []uuid.UUID) ([]*types.PostTag, error) {
	var out []*types.PostTag
	if len(postIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Preload("Tag").
		Where("post_id IN ?", postIDs).
		Order("post_id ASC").Order("weight DESC").Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postTagRepo) ListTaggedPostIDs(dbc dbctx.Context, limit int) ([]uuid.UUID, error) {
	var out []uuid.UUID
	q := dbc.DB(r.db).Model(&types.PostTag{}).Distinct().Order("post_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Pluck("post_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postTagRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.PostTag{}).Error
}

func (r *postTagRepo) AddVoteCounts(dbc dbctx.Context, id uuid.UUID, dTotal, dUp, dDown int) error {
	if dTotal == 0 && dUp == 0 && dDown == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.PostTag{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"vote_count": gorm.Expr("vote_count + ?", dTotal),
			"upvotes":    gorm.Expr("upvotes + ?", dUp),
			"downvotes":  gorm.Expr("downvotes + ?", dDown),
		}).Error
}

func (r *postTagRepo) SetConfidence(dbc dbctx.Context, id uuid.UUID, confidence float64) error {
	return dbc.DB(r.db).Model(&types.PostTag{}).
		Where("id = ?", id).
		Update("confidence", confidence).Error
}

func (r *postTagRepo) SetWeights(dbc dbctx.Context, updates []WeightUpdate, at time.Time) error {
	if len(updates) == 0 {
		return nil
	}
	var sb strings.Builder
	args := make([]interface{}, 0, len(updates)*2+2)
	ids := make([]uuid.UUID, 0, len(updates))
	sb.WriteString("UPDATE post_tag SET weight = CASE id")
	for _, u := range updates {
		sb.WriteString(" WHEN ? THEN ?")
		args = append(args, u.ID, u.Weight)
		ids = append(ids, u.ID)
	}
	sb.WriteString(" ELSE weight END, updated_at = ? WHERE id IN ?")
	args = append(args, at.UTC(), ids)
	return dbc.DB(r.db).Exec(sb.String(), args...).Error
}

func (r *postTagRepo) ZeroWeights(dbc dbctx.Context, postID uuid.UUID, kind types.TagKind) error {
	return dbc.DB(r.db).Model(&types.PostTag{}).
		Where("post_id = ? AND kind = ?", postID, kind).
		Update("weight", 0).Error
}
