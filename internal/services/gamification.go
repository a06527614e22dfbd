package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/vibemix-backend/internal/data/repos"
	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
	"github.com/yungbote/vibemix-backend/internal/modules/gamification"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

type VoterStatsView struct {
	UserID           uuid.UUID                     `json:"user_id"`
	TotalVotes       int                           `json:"total_votes"`
	UpvotesCast      int                           `json:"upvotes_cast"`
	DownvotesCast    int                           `json:"downvotes_cast"`
	DirectionChanges int                           `json:"direction_changes"`
	Badges           []gamification.Badge          `json:"badges"`
	NextBadge        *gamification.BadgeDefinition `json:"next_badge"`
}

type GamificationService interface {
	GetStats(ctx context.Context, userID uuid.UUID) (*VoterStatsView, error)
	Leaderboard(ctx context.Context, limit int) ([]VoterStatsView, error)
}

type gamificationService struct {
	db    *gorm.DB
	log   *logger.Logger
	stats repos.VoterStatsRepo
}

func NewGamificationService(db *gorm.DB, log *logger.Logger, stats repos.VoterStatsRepo) GamificationService {
	return &gamificationService{
		db:    db,
		log:   log.With("service", "GamificationService"),
		stats: stats,
	}
}

// GetStats returns zeroed stats for users who never voted.
func (s *gamificationService) GetStats(ctx context.Context, userID uuid.UUID) (*VoterStatsView, error) {
	const op = "Gamification.GetStats"
	if userID == uuid.Nil {
		return nil, domainagg.Validation(op, "missing user_id")
	}
	row, err := s.stats.Get(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	view := VoterStatsView{UserID: userID}
	if row != nil {
		view = newVoterStatsView(row.UserID, row.TotalVotes, row.UpvotesCast, row.DownvotesCast, row.DirectionChanges)
		view.Badges = gamification.View(row.Badges, row.TotalVotes)
	} else {
		view.Badges = gamification.View(nil, 0)
	}
	view.NextBadge = gamification.Next(view.TotalVotes)
	return &view, nil
}

func (s *gamificationService) Leaderboard(ctx context.Context, limit int) ([]VoterStatsView, error) {
	const op = "Gamification.Leaderboard"
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}
	rows, err := s.stats.Leaderboard(dbctx.Context{Ctx: ctx}, limit)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	out := make([]VoterStatsView, 0, len(rows))
	for _, r := range rows {
		v := newVoterStatsView(r.UserID, r.TotalVotes, r.UpvotesCast, r.DownvotesCast, r.DirectionChanges)
		v.Badges = earnedOnly(gamification.View(r.Badges, r.TotalVotes))
		out = append(out, v)
	}
	return out, nil
}

func newVoterStatsView(userID uuid.UUID, total, up, down, changes int) VoterStatsView {
	return VoterStatsView{
		UserID:           userID,
		TotalVotes:       total,
		UpvotesCast:      up,
		DownvotesCast:    down,
		DirectionChanges: changes,
	}
}

func earnedOnly(all []gamification.Badge) []gamification.Badge {
	out := make([]gamification.Badge, 0, len(all))
	for _, b := range all {
		if b.Earned {
			out = append(out, b)
		}
	}
	return out
}
