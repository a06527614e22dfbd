package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/vibemix-backend/internal/data/repos/social"
	"github.com/yungbote/vibemix-backend/internal/data/repos/taxonomy"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

type PostRepo = social.PostRepo
type LikeRepo = social.LikeRepo
type Cursor = social.Cursor
type CandidateFilter = social.CandidateFilter

type TagRepo = taxonomy.TagRepo
type TagFilter = taxonomy.TagFilter
type PostTagRepo = taxonomy.PostTagRepo
type TagVoteRepo = taxonomy.TagVoteRepo
type UserTagPreferenceRepo = taxonomy.UserTagPreferenceRepo
type PreferencePatch = taxonomy.PreferencePatch
type VoterStatsRepo = taxonomy.VoterStatsRepo

func NewPostRepo(db *gorm.DB, log *logger.Logger) PostRepo { return social.NewPostRepo(db, log) }
func NewLikeRepo(db *gorm.DB, log *logger.Logger) LikeRepo { return social.NewLikeRepo(db, log) }

func NewTagRepo(db *gorm.DB, log *logger.Logger) TagRepo { return taxonomy.NewTagRepo(db, log) }
func NewPostTagRepo(db *gorm.DB, log *logger.Logger) PostTagRepo {
	return taxonomy.NewPostTagRepo(db, log)
}
func NewTagVoteRepo(db *gorm.DB, log *logger.Logger) TagVoteRepo {
	return taxonomy.NewTagVoteRepo(db, log)
}
func NewUserTagPreferenceRepo(db *gorm.DB, log *logger.Logger) UserTagPreferenceRepo {
	return taxonomy.NewUserTagPreferenceRepo(db, log)
}
func NewVoterStatsRepo(db *gorm.DB, log *logger.Logger) VoterStatsRepo {
	return taxonomy.NewVoterStatsRepo(db, log)
}
