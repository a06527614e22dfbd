package services

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/vibemix-backend/internal/domain"
)

// PostTagView is the display form of an attachment, with the viewer's own
// vote when the viewer is known.
type PostTagView struct {
	ID            uuid.UUID            `json:"id"`
	PostID        uuid.UUID            `json:"post_id"`
	Kind          types.TagKind        `json:"kind"`
	Tag           types.TagRef         `json:"tag"`
	VoteCount     int                  `json:"vote_count"`
	Upvotes       int                  `json:"upvotes"`
	Downvotes     int                  `json:"downvotes"`
	Confidence    float64              `json:"confidence"`
	Weight        float64              `json:"weight"`
	IsAISuggested bool                 `json:"is_ai_suggested"`
	UserVote      *types.VoteDirection `json:"user_vote"`
}

func newPostTagView(pt *types.PostTag, vote *types.VoteDirection) PostTagView {
	v := PostTagView{
		ID:            pt.ID,
		PostID:        pt.PostID,
		Kind:          pt.Kind,
		VoteCount:     pt.VoteCount,
		Upvotes:       pt.Upvotes,
		Downvotes:     pt.Downvotes,
		Confidence:    pt.Confidence,
		Weight:        pt.Weight,
		IsAISuggested: pt.IsAISuggested,
		UserVote:      vote,
	}
	if pt.Tag != nil {
		v.Tag = pt.Tag.Ref()
	} else {
		v.Tag = types.TagRef{ID: pt.TagID, Kind: pt.Kind}
	}
	return v
}

type FeedStrategy string

const (
	FeedStrategyMixed   FeedStrategy = "mixed"
	FeedStrategyDefault FeedStrategy = "default"
)

type FeedItem struct {
	ID                   uuid.UUID     `json:"id"`
	UserID               uuid.UUID     `json:"user_id"`
	Content              string        `json:"content"`
	LikesCount           int           `json:"likes_count"`
	CommentsCount        int           `json:"comments_count"`
	SharesCount          int           `json:"shares_count"`
	CreatedAt            time.Time     `json:"created_at"`
	Categories           []PostTagView `json:"categories"`
	Vibes                []PostTagView `json:"vibes"`
	IsLikedByCurrentUser bool          `json:"is_liked_by_current_user"`
	Score                *float64      `json:"score,omitempty"`
}

type FeedPage struct {
	Items      []FeedItem   `json:"items"`
	NextCursor *uuid.UUID   `json:"next_cursor"`
	Strategy   FeedStrategy `json:"strategy"`
}

func newFeedItem(p *types.Post, attachments []*types.PostTag, liked bool) FeedItem {
	item := FeedItem{
		ID:                   p.ID,
		UserID:               p.UserID,
		Content:              p.Content,
		LikesCount:           p.LikesCount,
		CommentsCount:        p.CommentsCount,
		SharesCount:          p.SharesCount,
		CreatedAt:            p.CreatedAt,
		Categories:           []PostTagView{},
		Vibes:                []PostTagView{},
		IsLikedByCurrentUser: liked,
	}
	for _, pt := range attachments {
		if pt == nil {
			continue
		}
		switch pt.Kind {
		case types.KindCategory:
			item.Categories = append(item.Categories, newPostTagView(pt, nil))
		case types.KindVibe:
			item.Vibes = append(item.Vibes, newPostTagView(pt, nil))
		}
	}
	return item
}
