package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/vibemix-backend/internal/http/response"
	types "github.com/yungbote/vibemix-backend/internal/domain"
	"github.com/yungbote/vibemix-backend/internal/services"
)

type PreferenceHandler struct {
	prefs services.PreferenceService
}

func NewPreferenceHandler(prefs services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs}
}

type tagIDRequest struct {
	TagID uuid.UUID `json:"tag_id" binding:"required"`
}

// GET /api/preferences?kind=category|vibe
func (h *PreferenceHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var kind *types.TagKind
	if raw := strings.TrimSpace(c.Query("kind")); raw != "" {
		k, err := types.ParseKind(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation", err)
			return
		}
		kind = &k
	}
	rows, err := h.prefs.List(c.Request.Context(), userID, kind)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": rows})
}

// POST /api/preferences
// body: { "tag_id": "...", "weight": 80, "is_blocked": false }
func (h *PreferenceHandler) Set(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req services.SetPreferenceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	pref, err := h.prefs.Set(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preference": pref})
}

// POST /api/preferences/bulk
// body: { "preferences": [ {tag_id, weight, is_blocked}, ... ] }
func (h *PreferenceHandler) SetBulk(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Preferences []services.SetPreferenceInput `json:"preferences" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	rows, err := h.prefs.SetBulk(c.Request.Context(), userID, req.Preferences)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": rows})
}

// POST /api/preferences/block
func (h *PreferenceHandler) Block(c *gin.Context) {
	h.toggle(c, h.prefs.Block)
}

// POST /api/preferences/unblock
func (h *PreferenceHandler) Unblock(c *gin.Context) {
	h.toggle(c, h.prefs.Unblock)
}

func (h *PreferenceHandler) toggle(c *gin.Context, run func(ctx context.Context, userID, tagID uuid.UUID) (*types.UserTagPreference, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req tagIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	pref, err := run(c.Request.Context(), userID, req.TagID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preference": pref})
}
