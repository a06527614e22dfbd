package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/vibemix-backend/internal/domain"
)

type PostOpts struct {
	AuthorID  uuid.UUID
	Content   string
	CreatedAt time.Time
	Likes     int
	Comments  int
	Shares    int
	Deleted   bool
}

func SeedPost(tb testing.TB, ctx context.Context, tx *gorm.DB, o PostOpts) *types.Post {
	tb.Helper()
	if o.AuthorID == uuid.Nil {
		o.AuthorID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	p := &types.Post{
		ID:            uuid.New(),
		UserID:        o.AuthorID,
		Content:       o.Content,
		LikesCount:    o.Likes,
		CommentsCount: o.Comments,
		SharesCount:   o.Shares,
		IsDeleted:     o.Deleted,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.CreatedAt,
	}
	if o.Deleted {
		at := o.CreatedAt
		p.DeletedAt = &at
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed post: %v", err)
	}
	return p
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.Tag {
	tb.Helper()
	return SeedTag(tb, ctx, tx, &types.Tag{Kind: types.KindCategory, Slug: slug, Name: slug, IsActive: true})
}

func SeedVibe(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.Tag {
	tb.Helper()
	return SeedTag(tb, ctx, tx, &types.Tag{Kind: types.KindVibe, Slug: slug, Name: slug, IsActive: true})
}

// SeedTag inserts t as given. Callers wanting an inactive tag set IsActive
// false explicitly.
func SeedTag(tb testing.TB, ctx context.Context, tx *gorm.DB, t *types.Tag) *types.Tag {
	tb.Helper()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Type == "" {
		t.Type = types.CategoryStandard
	}
	if t.Name == "" {
		t.Name = t.Slug
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return t
}

// SeedAttachment inserts an attachment with the given counters verbatim. It
// does not normalize; use the tagging aggregate for that.
func SeedAttachment(tb testing.TB, ctx context.Context, tx *gorm.DB, postID uuid.UUID, tag *types.Tag, up, down int, confidence, weight float64) *types.PostTag {
	tb.Helper()
	pt := &types.PostTag{
		ID:         uuid.New(),
		PostID:     postID,
		TagID:      tag.ID,
		Kind:       tag.Kind,
		VoteCount:  up + down,
		Upvotes:    up,
		Downvotes:  down,
		Confidence: confidence,
		Weight:     weight,
	}
	if err := tx.WithContext(ctx).Omit("Tag").Create(pt).Error; err != nil {
		tb.Fatalf("seed attachment: %v", err)
	}
	return pt
}

func SeedPreference(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, tag *types.Tag, weight float64, blocked bool) *types.UserTagPreference {
	tb.Helper()
	p := &types.UserTagPreference{
		ID:        uuid.New(),
		UserID:    userID,
		TagID:     tag.ID,
		Kind:      tag.Kind,
		Weight:    weight,
		IsBlocked: blocked,
	}
	if err := tx.WithContext(ctx).Omit("Tag").Create(p).Error; err != nil {
		tb.Fatalf("seed preference: %v", err)
	}
	return p
}

func SeedLike(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, postID uuid.UUID) {
	tb.Helper()
	like := &types.PostLike{ID: uuid.New(), UserID: userID, PostID: postID}
	if err := tx.WithContext(ctx).Create(like).Error; err != nil {
		tb.Fatalf("seed like: %v", err)
	}
}
