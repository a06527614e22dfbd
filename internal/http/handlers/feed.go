package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/vibemix-backend/internal/http/response"
	"github.com/yungbote/vibemix-backend/internal/modules/feedmix"
	"github.com/yungbote/vibemix-backend/internal/services"
)

type FeedHandler struct {
	feed services.FeedService
}

func NewFeedHandler(feed services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// GET /api/feed?mode=&categories=&vibes=&limit=&cursor=
func (h *FeedHandler) Feed(c *gin.Context) {
	h.serve(c, h.feed.Feed)
}

// GET /api/feed/mixed
func (h *FeedHandler) Mixed(c *gin.Context) {
	h.serve(c, h.feed.RankFeed)
}

// GET /api/feed/default?limit=&cursor=
func (h *FeedHandler) Default(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	cursor, err := queryCursor(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	page, err := h.feed.DefaultFeed(c.Request.Context(), userID, limit, cursor)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, page)
}

func (h *FeedHandler) serve(c *gin.Context, run func(ctx context.Context, userID uuid.UUID, q services.FeedQuery) (*services.FeedPage, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	q, err := parseFeedQuery(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	page, err := run(c.Request.Context(), userID, q)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, page)
}

func parseFeedQuery(c *gin.Context) (services.FeedQuery, error) {
	var q services.FeedQuery
	mode, err := feedmix.ParseMode(c.Query("mode"))
	if err != nil {
		return q, err
	}
	q.Mode = mode
	if q.CategoryIDs, err = queryUUIDList(c, "categories"); err != nil {
		return q, err
	}
	if q.VibeIDs, err = queryUUIDList(c, "vibes"); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(c, "limit"); err != nil {
		return q, err
	}
	if q.Cursor, err = queryCursor(c); err != nil {
		return q, err
	}
	return q, nil
}
