package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/vibemix-backend/internal/app"
	domainagg "github.com/yungbote/vibemix-backend/internal/domain/aggregates"
	"github.com/yungbote/vibemix-backend/internal/platform/dbctx"
)

type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }
func (l *idList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

// Rebuilds confidence and weights of post tags from their stored vote
// counters, for posts whose derived columns drifted.
func main() {
	var posts idList
	var dryRun bool
	var limit int
	flag.Var(&posts, "post", "post_id to recompute (repeatable); all tagged posts when omitted")
	flag.BoolVar(&dryRun, "dry-run", false, "print the posts that would be recomputed")
	flag.IntVar(&limit, "limit", 0, "limit number of posts processed")
	flag.Parse()

	ctx := context.Background()
	application, err := app.New(ctx)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	var ids []uuid.UUID
	if len(posts) > 0 {
		for _, raw := range posts {
			id, err := uuid.Parse(raw)
			if err == nil && id != uuid.Nil {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			fmt.Println("no valid post_id values provided")
			return
		}
		if limit > 0 && len(ids) > limit {
			ids = ids[:limit]
		}
	} else {
		ids, err = application.Repos.PostTag.ListTaggedPostIDs(dbctx.Context{Ctx: ctx}, limit)
		if err != nil {
			fmt.Printf("load tagged posts: %v\n", err)
			os.Exit(1)
		}
	}

	recomputed, failed := 0, 0
	for _, id := range ids {
		if dryRun {
			fmt.Printf("[dry-run] recompute post_id=%s\n", id)
			continue
		}
		res, err := application.Services.TaggingAggregate.RecomputePost(ctx, domainagg.RecomputePostInput{PostID: id})
		if err != nil {
			failed++
			fmt.Printf("recompute failed for post %s: %v\n", id, err)
			continue
		}
		recomputed++
		fmt.Printf("recomputed post_id=%s attachments=%d\n", id, len(res.Attachments))
	}

	fmt.Printf("done; recomputed=%d failed=%d\n", recomputed, failed)
	if failed > 0 {
		application.Close()
		os.Exit(1)
	}
}
