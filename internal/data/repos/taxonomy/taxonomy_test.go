package taxonomy

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/vibemix-backend/internal/data/repos/testutil"
	types "github.com/yungbote/vibemix-backend/internal/domain"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
)

func TestPostTagRepoCountersAndWeights(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPostTagRepo(db, testutil.Logger(t))

	post := testutil.SeedPost(t, ctx, tx, testutil.PostOpts{})
	c1 := testutil.SeedCategory(t, ctx, tx, "c1")
	c2 := testutil.SeedCategory(t, ctx, tx, "c2")
	v1 := testutil.SeedVibe(t, ctx, tx, "fun")
	a := testutil.SeedAttachment(t, ctx, tx, post.ID, c1, 0, 0, 0, 0)
	b := testutil.SeedAttachment(t, ctx, tx, post.ID, c2, 0, 0, 0, 0)
	v := testutil.SeedAttachment(t, ctx, tx, post.ID, v1, 0, 0, 0, 55)

	if err := repo.AddVoteCounts(dbc, a.ID, 1, 1, 0); err != nil {
		t.Fatalf("AddVoteCounts: %v", err)
	}
	if err := repo.AddVoteCounts(dbc, a.ID, 0, -1, 1); err != nil {
		t.Fatalf("AddVoteCounts (flip): %v", err)
	}
	got, err := repo.GetByID(dbc, a.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.VoteCount != 1 || got.Upvotes != 0 || got.Downvotes != 1 {
		t.Fatalf("counters: got total=%d up=%d down=%d", got.VoteCount, got.Upvotes, got.Downvotes)
	}
	if got.Tag == nil || got.Tag.Slug != "c1" {
		t.Fatalf("GetByID: expected preloaded tag")
	}

	stamped := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	if err := repo.SetWeights(dbc, []WeightUpdate{{ID: a.ID, Weight: 62.5}, {ID: b.ID, Weight: 37.5}}, stamped); err != nil {
		t.Fatalf("SetWeights: %v", err)
	}
	if got, err := repo.GetByID(dbc, b.ID); err != nil || !got.UpdatedAt.Equal(stamped) {
		t.Fatalf("SetWeights updated_at: row=%+v err=%v", got, err)
	}
	siblings, err := repo.LockSiblings(dbc, post.ID, types.KindCategory)
	if err != nil {
		t.Fatalf("LockSiblings: %v", err)
	}
	if len(siblings) != 2 {
		t.Fatalf("LockSiblings: expected 2 category siblings, got %d", len(siblings))
	}
	weights := map[uuid.UUID]float64{}
	for _, s := range siblings {
		weights[s.ID] = s.Weight
	}
	if weights[a.ID] != 62.5 || weights[b.ID] != 37.5 {
		t.Fatalf("SetWeights: unexpected weights %v", weights)
	}

	if err := repo.ZeroWeights(dbc, post.ID, types.KindCategory); err != nil {
		t.Fatalf("ZeroWeights: %v", err)
	}
	vibeRow, err := repo.GetByID(dbc, v.ID)
	if err != nil || vibeRow == nil {
		t.Fatalf("GetByID (vibe): %v", err)
	}
	if vibeRow.Weight != 55 {
		t.Fatalf("ZeroWeights touched another kind: weight=%v", vibeRow.Weight)
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID (missing): expected nil, nil; got %v, %v", missing, err)
	}
}

func TestTagVoteRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTagVoteRepo(db, testutil.Logger(t))

	voter := uuid.New()
	postTagID := uuid.New()
	if err := repo.Create(dbc, &types.TagVote{UserID: voter, PostTagID: postTagID, Direction: types.VoteUp}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(dbc, &types.TagVote{UserID: voter, PostTagID: postTagID, Direction: types.VoteDown}); err == nil {
		t.Fatalf("Create: expected unique violation for second vote")
	}
}

func TestTagVoteRepoDirections(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTagVoteRepo(db, testutil.Logger(t))

	voter := uuid.New()
	a, b := uuid.New(), uuid.New()
	row := &types.TagVote{UserID: voter, PostTagID: a, Direction: types.VoteUp}
	if err := repo.Create(dbc, row); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.UpdateDirection(dbc, row.ID, types.VoteDown); err != nil {
		t.Fatalf("UpdateDirection: %v", err)
	}
	dirs, err := repo.DirectionsByUser(dbc, voter, []uuid.UUID{a, b})
	if err != nil {
		t.Fatalf("DirectionsByUser: %v", err)
	}
	if len(dirs) != 1 || dirs[a] != types.VoteDown {
		t.Fatalf("DirectionsByUser: unexpected %v", dirs)
	}

	n, err := repo.DeleteByPostTag(dbc, a)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByPostTag: n=%d err=%v", n, err)
	}
}

func TestUserTagPreferenceRepoUpsertKeepsUnsetFields(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserTagPreferenceRepo(db, testutil.Logger(t))

	user := uuid.New()
	tag := testutil.SeedCategory(t, ctx, tx, "spor")
	w := 80.0
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	got, err := repo.Upsert(dbc, PreferencePatch{UserID: user, TagID: tag.ID, Kind: tag.Kind, Weight: &w, At: created})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if got.Weight != 80 || got.IsBlocked {
		t.Fatalf("Upsert (create): unexpected %+v", got)
	}

	blocked := true
	changed := created.Add(time.Hour)
	got, err = repo.Upsert(dbc, PreferencePatch{UserID: user, TagID: tag.ID, Kind: tag.Kind, IsBlocked: &blocked, At: changed})
	if err != nil {
		t.Fatalf("Upsert (block): %v", err)
	}
	if got.Weight != 80 || !got.IsBlocked {
		t.Fatalf("Upsert (block): weight should be kept, got %+v", got)
	}
	if got.Tag == nil || got.Tag.ID != tag.ID {
		t.Fatalf("Upsert: expected preloaded tag")
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(changed) {
		t.Fatalf("Upsert timestamps: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}

	rows, err := repo.ListByUser(dbc, user, "")
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByUser: rows=%d err=%v", len(rows), err)
	}
}

func TestVoterStatsRepoApply(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewVoterStatsRepo(db, testutil.Logger(t))

	user := uuid.New()
	first := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if _, err := repo.Apply(dbc, user, VoterStatsDelta{Votes: 1, Upvotes: 1, At: first}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got, err := repo.Apply(dbc, user, VoterStatsDelta{Upvotes: -1, Downvotes: 1, DirectionChanges: 1, At: first.Add(time.Minute)})
	if err != nil {
		t.Fatalf("Apply (flip): %v", err)
	}
	if got.TotalVotes != 1 || got.UpvotesCast != 0 || got.DownvotesCast != 1 || got.DirectionChanges != 1 {
		t.Fatalf("Apply: unexpected stats %+v", got)
	}
	if !got.CreatedAt.Equal(first) || !got.UpdatedAt.Equal(first.Add(time.Minute)) {
		t.Fatalf("Apply timestamps: created=%v updated=%v", got.CreatedAt, got.UpdatedAt)
	}

	other := uuid.New()
	if _, err := repo.Apply(dbc, other, VoterStatsDelta{Votes: 3, Upvotes: 3, At: first}); err != nil {
		t.Fatalf("Apply (other): %v", err)
	}
	board, err := repo.Leaderboard(dbc, 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board) != 2 || board[0].UserID != other {
		t.Fatalf("Leaderboard: unexpected order %+v", board)
	}
}

func TestTagRepoSyncTemporal(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTagRepo(db, testutil.Logger(t))

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-72 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	ended := testutil.SeedTag(t, ctx, tx, &types.Tag{Kind: types.KindCategory, Slug: "ended", Type: types.CategoryTemporal, IsActive: true, StartDate: &past, EndDate: &yesterday})
	live := testutil.SeedTag(t, ctx, tx, &types.Tag{Kind: types.KindCategory, Slug: "live", Type: types.CategoryTemporal, IsActive: false, StartDate: &yesterday, EndDate: &tomorrow})
	testutil.SeedTag(t, ctx, tx, &types.Tag{Kind: types.KindCategory, Slug: "std", IsActive: true})

	off, on, err := repo.SyncTemporal(dbc, now)
	if err != nil {
		t.Fatalf("SyncTemporal: %v", err)
	}
	if off != 1 || on != 1 {
		t.Fatalf("SyncTemporal: off=%d on=%d", off, on)
	}

	for _, tc := range []struct {
		id   uuid.UUID
		want bool
	}{{ended.ID, false}, {live.ID, true}} {
		got, err := repo.GetByID(dbc, tc.id)
		if err != nil || got == nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.IsActive != tc.want || got.ActiveAt(now) != tc.want {
			t.Fatalf("tag %s: is_active=%v want %v", got.Slug, got.IsActive, tc.want)
		}
	}

	trending, err := repo.ListTrending(dbc, 10)
	if err != nil {
		t.Fatalf("ListTrending: %v", err)
	}
	if len(trending) != 1 || trending[0].Slug != "std" {
		t.Fatalf("ListTrending: unexpected %+v", trending)
	}
}

func TestPostTagRepoListTaggedPostIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPostTagRepo(db, testutil.Logger(t))

	tagged := testutil.SeedPost(t, ctx, tx, testutil.PostOpts{})
	other := testutil.SeedPost(t, ctx, tx, testutil.PostOpts{})
	testutil.SeedPost(t, ctx, tx, testutil.PostOpts{})
	c1 := testutil.SeedCategory(t, ctx, tx, "c1")
	v1 := testutil.SeedVibe(t, ctx, tx, "fun")
	testutil.SeedAttachment(t, ctx, tx, tagged.ID, c1, 0, 0, 0, 0)
	testutil.SeedAttachment(t, ctx, tx, tagged.ID, v1, 0, 0, 0, 0)
	testutil.SeedAttachment(t, ctx, tx, other.ID, c1, 0, 0, 0, 0)

	ids, err := repo.ListTaggedPostIDs(dbc, 0)
	if err != nil {
		t.Fatalf("ListTaggedPostIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ListTaggedPostIDs: expected 2 distinct posts, got %v", ids)
	}
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[tagged.ID] || !seen[other.ID] {
		t.Fatalf("ListTaggedPostIDs: missing posts in %v", ids)
	}

	limited, err := repo.ListTaggedPostIDs(dbc, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("ListTaggedPostIDs(limit=1): got %v, %v", limited, err)
	}
}
