package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/vibemix-backend/internal/http/response"
	types "github.com/yungbote/vibemix-backend/internal/domain"
	"github.com/yungbote/vibemix-backend/internal/platform/ctxutil"
	"github.com/yungbote/vibemix-backend/internal/services"
)

type TaggingHandler struct {
	tagging services.TaggingService
}

func NewTaggingHandler(tagging services.TaggingService) *TaggingHandler {
	return &TaggingHandler{tagging: tagging}
}

// POST /api/posts/:postId/tags
// body: { "tag_id": "...", "is_ai_suggested": false }
func (h *TaggingHandler) AttachTag(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	postID, ok := pathUUID(c, "postId")
	if !ok {
		return
	}
	var req struct {
		TagID         uuid.UUID `json:"tag_id" binding:"required"`
		IsAISuggested bool      `json:"is_ai_suggested"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	pt, err := h.tagging.AttachTag(c.Request.Context(), postID, req.TagID, req.IsAISuggested)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"post_tag": pt})
}

// DELETE /api/posts/:postId/tags/:tagId
func (h *TaggingHandler) DetachTag(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	postID, ok := pathUUID(c, "postId")
	if !ok {
		return
	}
	tagID, ok := pathUUID(c, "tagId")
	if !ok {
		return
	}
	if err := h.tagging.DetachTag(c.Request.Context(), postID, tagID, userID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/posts/:postId/tags?kind=category|vibe
func (h *TaggingHandler) ListPostTags(c *gin.Context) {
	postID, ok := pathUUID(c, "postId")
	if !ok {
		return
	}
	var kind types.TagKind
	if raw := strings.TrimSpace(c.Query("kind")); raw != "" {
		k, err := types.ParseKind(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation", err)
			return
		}
		kind = k
	}
	viewer := ctxutil.UserID(c.Request.Context())
	response.RespondOK(c, gin.H{"tags": h.tagging.GetPostTags(c.Request.Context(), postID, kind, viewer)})
}

// POST /api/posts/:postId/tags/auto
func (h *TaggingHandler) AutoTag(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	postID, ok := pathUUID(c, "postId")
	if !ok {
		return
	}
	added, err := h.tagging.AutoTag(c.Request.Context(), postID, userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"added": added})
}

// POST /api/posts/:postId/tags/recompute
func (h *TaggingHandler) RecomputePost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	postID, ok := pathUUID(c, "postId")
	if !ok {
		return
	}
	rows, err := h.tagging.RecomputePost(c.Request.Context(), postID, userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"post_tags": rows})
}

// POST /api/post-tags/:postTagId/vote
// body: { "vote_type": "UPVOTE" | "DOWNVOTE" }
func (h *TaggingHandler) CastVote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	postTagID, ok := pathUUID(c, "postTagId")
	if !ok {
		return
	}
	var req struct {
		VoteType string `json:"vote_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	dir, err := types.ParseVoteDirection(req.VoteType)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	pt, err := h.tagging.CastVote(c.Request.Context(), postTagID, userID, dir)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"post_tag": pt})
}

// POST /api/tags/suggest
// body: { "content": "..." }
func (h *TaggingHandler) SuggestTags(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	response.RespondOK(c, gin.H{"suggestions": h.tagging.SuggestTags(req.Content)})
}
