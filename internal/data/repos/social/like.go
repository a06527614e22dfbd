package social

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/vibemix-backend/internal/domain"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

type LikeRepo interface {
	Create(dbc dbctx.Context, like *types.PostLike) error
	LikedPostIDs(dbc dbctx.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type likeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLikeRepo(db *gorm.DB, baseLog *logger.Logger) LikeRepo {
	return &likeRepo{db: db, log: baseLog.With("repo", "LikeRepo")}
}

func (r *likeRepo) Create(dbc dbctx.Context, like *types.PostLike) error {
	if like == nil {
		return nil
	}
	if like.ID == uuid.Nil {
		like.ID = uuid.New()
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like).Error
}

func (r *likeRepo) LikedPostIDs(dbc dbctx.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := map[uuid.UUID]bool{}
	if userID == uuid.Nil || len(postIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	if err := dbc.DB(r.db).Model(&types.PostLike{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
