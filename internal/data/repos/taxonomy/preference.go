package taxonomy

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/vibemix-backend/internal/domain"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

// PreferencePatch carries the fields to write. Nil fields keep the stored
// value on update and take the zero value on first insert.
type PreferencePatch struct {
	UserID    uuid.UUID
	TagID     uuid.UUID
	Kind      types.TagKind
	Weight    *float64
	IsBlocked *bool
	// At stamps created_at on insert and updated_at always.
	At time.Time
}

type UserTagPreferenceRepo interface {
	ListByUser(dbc dbctx.Context, userID uuid.UUID, kind types.TagKind) ([]*types.UserTagPreference, error)
	Get(dbc dbctx.Context, userID, tagID uuid.UUID) (*types.UserTagPreference, error)
	Upsert(dbc dbctx.Context, p PreferencePatch) (*types.UserTagPreference, error)
}

type userTagPreferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTagPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) UserTagPreferenceRepo {
	return &userTagPreferenceRepo{db: db, log: baseLog.With("repo", "UserTagPreferenceRepo")}
}

func (r *userTagPreferenceRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, kind types.TagKind) ([]*types.UserTagPreference, error) {
	var out []*types.UserTagPreference
	if userID == uuid.Nil {
		return out, nil
	}
	q := dbc.DB(r.db).Preload("Tag").Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if err := q.Order("kind ASC").Order("weight DESC").Order("tag_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userTagPreferenceRepo) Get(dbc dbctx.Context, userID, tagID uuid.UUID) (*types.UserTagPreference, error) {
	var row types.UserTagPreference
	if err := dbc.DB(r.db).Preload("Tag").
		Where("user_id = ? AND tag_id = ?", userID, tagID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userTagPreferenceRepo) Upsert(dbc dbctx.Context, p PreferencePatch) (*types.UserTagPreference, error) {
	now := p.At.UTC()
	row := &types.UserTagPreference{
		ID:        uuid.New(),
		UserID:    p.UserID,
		TagID:     p.TagID,
		Kind:      p.Kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	assign := map[string]interface{}{"updated_at": now}
	if p.Weight != nil {
		row.Weight = *p.Weight
		assign["weight"] = *p.Weight
	}
	if p.IsBlocked != nil {
		row.IsBlocked = *p.IsBlocked
		assign["is_blocked"] = *p.IsBlocked
	}
	if err := dbc.DB(r.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "tag_id"}},
			DoUpdates: clause.Assignments(assign),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, p.UserID, p.TagID)
}
