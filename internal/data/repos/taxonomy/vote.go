package taxonomy

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/vibemix-backend/internal/domain"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

type TagVoteRepo interface {
	Create(dbc dbctx.Context, row *types.TagVote) error
	Get(dbc dbctx.Context, userID, postTagID uuid.UUID) (*types.TagVote, error)
	UpdateDirection(dbc dbctx.Context, id uuid.UUID, dir types.VoteDirection) error
	DeleteByPostTag(dbc dbctx.Context, postTagID uuid.UUID) (int64, error)

	// DirectionsByUser maps post_tag_id to the user's stored direction.
	DirectionsByUser(dbc dbctx.Context, userID uuid.UUID, postTagIDs []uuid.UUID) (map[uuid.UUID]types.VoteDirection, error)
}

type tagVoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagVoteRepo(db *gorm.DB, baseLog *logger.Logger) TagVoteRepo {
	return &tagVoteRepo{db: db, log: baseLog.With("repo", "TagVoteRepo")}
}

func (r *tagVoteRepo) Create(dbc dbctx.Context, row *types.TagVote) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return dbc.DB(r.db).Create(row).Error
}

func (r *tagVoteRepo) Get(dbc dbctx.Context, userID, postTagID uuid.UUID) (*types.TagVote, error) {
	var row types.TagVote
	if err := dbc.DB(r.db).
		Where("user_id = ? AND post_tag_id = ?", userID, postTagID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *tagVoteRepo) UpdateDirection(dbc dbctx.Context, id uuid.UUID, dir types.VoteDirection) error {
	return dbc.DB(r.db).Model(&types.TagVote{}).
		Where("id = ?", id).
		Update("direction", dir).Error
}

func (r *tagVoteRepo) DeleteByPostTag(dbc dbctx.Context, postTagID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).Where("post_tag_id = ?", postTagID).Delete(&types.TagVote{})
	return res.RowsAffected, res.Error
}

func (r *tagVoteRepo) DirectionsByUser(dbc dbctx.Context, userID uuid.UUID, postTagIDs []uuid.UUID) (map[uuid.UUID]types.VoteDirection, error) {
	out := map[uuid.UUID]types.VoteDirection{}
	if userID == uuid.Nil || len(postTagIDs) == 0 {
		return out, nil
	}
	var rows []types.TagVote
	if err := dbc.DB(r.db).
		Select("post_tag_id", "direction").
		Where("user_id = ? AND post_tag_id IN ?", userID, postTagIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, v := range rows {
		out[v.PostTagID] = v.Direction
	}
	return out, nil
}
