package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/vibemix-backend/internal/data/repos"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

type Repos struct {
	Post              repos.PostRepo
	Like              repos.LikeRepo
	Tag               repos.TagRepo
	PostTag           repos.PostTagRepo
	TagVote           repos.TagVoteRepo
	UserTagPreference repos.UserTagPreferenceRepo
	VoterStats        repos.VoterStatsRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Post:              repos.NewPostRepo(db, log),
		Like:              repos.NewLikeRepo(db, log),
		Tag:               repos.NewTagRepo(db, log),
		PostTag:           repos.NewPostTagRepo(db, log),
		TagVote:           repos.NewTagVoteRepo(db, log),
		UserTagPreference: repos.NewUserTagPreferenceRepo(db, log),
		VoterStats:        repos.NewVoterStatsRepo(db, log),
	}
}
