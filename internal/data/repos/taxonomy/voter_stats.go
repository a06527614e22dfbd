package taxonomy

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/vibemix-backend/internal/domain"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

type VoterStatsDelta struct {
	Votes            int
	Upvotes          int
	Downvotes        int
	DirectionChanges int
	At               time.Time
}

type VoterStatsRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID) (*types.VoterStats, error)
	// Apply creates the row on first use and adds the delta atomically.
	Apply(dbc dbctx.Context, userID uuid.UUID, d VoterStatsDelta) (*types.VoterStats, error)
	SetBadges(dbc dbctx.Context, userID uuid.UUID, badges datatypes.JSON) error
	Leaderboard(dbc dbctx.Context, limit int) ([]*types.VoterStats, error)
}

type voterStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoterStatsRepo(db *gorm.DB, baseLog *logger.Logger) VoterStatsRepo {
	return &voterStatsRepo{db: db, log: baseLog.With("repo", "VoterStatsRepo")}
}

func (r *voterStatsRepo) Get(dbc dbctx.Context, userID uuid.UUID) (*types.VoterStats, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.VoterStats
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *voterStatsRepo) Apply(dbc dbctx.Context, userID uuid.UUID, d VoterStatsDelta) (*types.VoterStats, error) {
	now := d.At.UTC()
	row := &types.VoterStats{
		ID:               uuid.New(),
		UserID:           userID,
		TotalVotes:       d.Votes,
		UpvotesCast:      d.Upvotes,
		DownvotesCast:    d.Downvotes,
		DirectionChanges: d.DirectionChanges,
		Badges:           datatypes.JSON([]byte("[]")),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_votes":       gorm.Expr("voter_stats.total_votes + ?", d.Votes),
				"upvotes_cast":      gorm.Expr("voter_stats.upvotes_cast + ?", d.Upvotes),
				"downvotes_cast":    gorm.Expr("voter_stats.downvotes_cast + ?", d.Downvotes),
				"direction_changes": gorm.Expr("voter_stats.direction_changes + ?", d.DirectionChanges),
				"updated_at":        now,
			}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, userID)
}

func (r *voterStatsRepo) SetBadges(dbc dbctx.Context, userID uuid.UUID, badges datatypes.JSON) error {
	return dbc.DB(r.db).Model(&types.VoterStats{}).
		Where("user_id = ?", userID).
		Update("badges", badges).Error
}

func (r *voterStatsRepo) Leaderboard(dbc dbctx.Context, limit int) ([]*types.VoterStats, error) {
	var out []*types.VoterStats
	if limit <= 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("total_votes > ?", 0).
		Order("total_votes DESC").
		Order("user_id ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
