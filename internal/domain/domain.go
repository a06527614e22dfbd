package domain

import (
	"github.com/yungbote/vibemix-backend/internal/domain/social"
	"github.com/yungbote/vibemix-backend/internal/domain/taxonomy"
)

type TagKind = taxonomy.TagKind
type CategoryType = taxonomy.CategoryType
type VoteDirection = taxonomy.VoteDirection

const (
	KindCategory = taxonomy.KindCategory
	KindVibe     = taxonomy.KindVibe

	CategoryStandard = taxonomy.CategoryStandard
	CategoryTemporal = taxonomy.CategoryTemporal
	CategoryTrending = taxonomy.CategoryTrending
	CategoryEvent    = taxonomy.CategoryEvent

	VoteUp   = taxonomy.VoteUp
	VoteDown = taxonomy.VoteDown
)

type Post = social.Post
type PostLike = social.PostLike

type Tag = taxonomy.Tag
type TagRef = taxonomy.TagRef
type PostTag = taxonomy.PostTag
type TagVote = taxonomy.TagVote
type UserTagPreference = taxonomy.UserTagPreference
type VoterStats = taxonomy.VoterStats

var (
	ParseKind          = taxonomy.ParseKind
	ParseVoteDirection = taxonomy.ParseVoteDirection
)
