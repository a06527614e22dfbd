package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vibemix-backend/internal/http/response"
	"github.com/yungbote/vibemix-backend/internal/services"
)

type GamificationHandler struct {
	gamification services.GamificationService
}

func NewGamificationHandler(gamification services.GamificationService) *GamificationHandler {
	return &GamificationHandler{gamification: gamification}
}

// GET /api/gamification/me
func (h *GamificationHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	stats, err := h.gamification.GetStats(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stats": stats})
}

// GET /api/gamification/leaderboard?limit=
func (h *GamificationHandler) Leaderboard(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	rows, err := h.gamification.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"leaderboard": rows})
}
