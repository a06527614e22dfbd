package taxonomy

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/vibemix-backend/internal/domain"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

type TagFilter struct {
	Kind     types.TagKind
	Type     *types.CategoryType
	IsActive *bool
}

type TagRepo interface {
	Create(dbc dbctx.Context, tags []*types.Tag) ([]*types.Tag, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Tag, error)
	GetBySlug(dbc dbctx.Context, kind types.TagKind, slug string) (*types.Tag, error)
	GetBySlugs(dbc dbctx.Context, kind types.TagKind, slugs []string) ([]*types.Tag, error)
	List(dbc dbctx.Context, f TagFilter) ([]*types.Tag, error)
	ListTrending(dbc dbctx.Context, limit int) ([]*types.Tag, error)
	ListTemporal(dbc dbctx.Context, now time.Time) ([]*types.Tag, error)

	// SyncTemporal stores the ActiveAt result of every temporal tag.
	SyncTemporal(dbc dbctx.Context, now time.Time) (deactivated int64, activated int64, err error)

	AddPostsCount(dbc dbctx.Context, id uuid.UUID, delta int) error
	AddVotesCount(dbc dbctx.Context, id uuid.UUID, delta int) error
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return &tagRepo{db: db, log: baseLog.With("repo", "TagRepo")}
}

func (r *tagRepo) Create(dbc dbctx.Context, tags []*types.Tag) ([]*types.Tag, error) {
	if len(tags) == 0 {
		return []*types.Tag{}, nil
	}
	for _, t := range tags {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		if t.Type == "" {
			t.Type = types.CategoryStandard
		}
	}
	if err := dbc.DB(r.db).Create(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Tag, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Tag
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *tagRepo) GetBySlug(dbc dbctx.Context, kind types.TagKind, slug string) (*types.Tag, error) {
	if slug == "" {
		return nil, nil
	}
	var row types.Tag
	if err := dbc.DB(r.db).Where("kind = ? AND slug = ?", kind, slug).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *tagRepo) GetBySlugs(dbc dbctx.Context, kind types.TagKind, slugs []string) ([]*types.Tag, error) {
	var out []*types.Tag
	if len(slugs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("kind = ? AND slug IN ?", kind, slugs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) List(dbc dbctx.Context, f TagFilter) ([]*types.Tag, error) {
	var out []*types.Tag
	q := dbc.DB(r.db).Model(&types.Tag{})
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if err := q.Order("type ASC").Order("posts_count DESC").Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) ListTrending(dbc dbctx.Context, limit int) ([]*types.Tag, error) {
	var out []*types.Tag
	if limit <= 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("kind = ? AND is_active = ? AND type = ?", types.KindCategory, true, types.CategoryStandard).
		Order("posts_count DESC").
		Order("name ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) ListTemporal(dbc dbctx.Context, now time.Time) ([]*types.Tag, error) {
	var out []*types.Tag
	if err := dbc.DB(r.db).
		Where("kind = ? AND type = ?", types.KindCategory, types.CategoryTemporal).
		Where("(is_active = ? OR start_date >= ?)", true, now).
		Order("start_date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) SyncTemporal(dbc dbctx.Context, now time.Time) (int64, int64, error) {
	t := dbc.DB(r.db)
	off := t.Model(&types.Tag{}).
		Where("type = ? AND end_date < ? AND is_active = ?", types.CategoryTemporal, now, true).
		Updates(map[string]interface{}{"is_active": false, "updated_at": now})
	if off.Error != nil {
		return 0, 0, off.Error
	}
	on := t.Model(&types.Tag{}).
		Where("type = ? AND start_date <= ? AND end_date >= ? AND is_active = ?", types.CategoryTemporal, now, now, false).
		Updates(map[string]interface{}{"is_active": true, "updated_at": now})
	if on.Error != nil {
		return 0, 0, on.Error
	}
	return off.RowsAffected, on.RowsAffected, nil
}

func (r *tagRepo) AddPostsCount(dbc dbctx.Context, id uuid.UUID, delta int) error {
	return r.addCounter(dbc, id, "posts_count", delta)
}

func (r *tagRepo) AddVotesCount(dbc dbctx.Context, id uuid.UUID, delta int) error {
	return r.addCounter(dbc, id, "votes_count", delta)
}

func (r *tagRepo) addCounter(dbc dbctx.Context, id uuid.UUID, column string, delta int) error {
	if id == uuid.Nil || delta == 0 {
		return nil
	}
	expr := gorm.Expr(column+" + ?", delta)
	if delta < 0 {
		// Never below zero.
		expr = gorm.Expr("CASE WHEN "+column+" + ? < 0 THEN 0 ELSE "+column+" + ? END", delta, delta)
	}
	return dbc.DB(r.db).Model(&types.Tag{}).
		Where("id = ?", id).
		Update(column, expr).Error
}
