package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vibemix-backend/internal/http/response"
	types "github.com/yungbote/vibemix-backend/internal/domain"
	"github.com/yungbote/vibemix-backend/internal/services"
)

type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /api/categories?type=&is_active=
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var f services.CategoryFilter
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		t, err := parseCategoryType(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation", err)
			return
		}
		f.Type = &t
	}
	active, err := queryBool(c, "is_active")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	f.IsActive = active
	rows, err := h.catalog.ListCategories(c.Request.Context(), f)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": rows})
}

// GET /api/categories/trending?limit=
func (h *CatalogHandler) Trending(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	rows, err := h.catalog.TrendingCategories(c.Request.Context(), limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": rows})
}

// GET /api/categories/temporal
func (h *CatalogHandler) Temporal(c *gin.Context) {
	rows, err := h.catalog.TemporalCategories(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categories": rows})
}

// GET /api/vibes?is_active=
func (h *CatalogHandler) ListVibes(c *gin.Context) {
	active, err := queryBool(c, "is_active")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	rows, err := h.catalog.ListVibes(c.Request.Context(), active)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"vibes": rows})
}

// GET /api/categories/slug/:slug
func (h *CatalogHandler) CategoryBySlug(c *gin.Context) {
	tag, err := h.catalog.GetTagBySlug(c.Request.Context(), types.KindCategory, c.Param("slug"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"category": tag})
}

func parseCategoryType(raw string) (types.CategoryType, error) {
	switch t := types.CategoryType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case types.CategoryStandard, types.CategoryTemporal, types.CategoryTrending, types.CategoryEvent:
		return t, nil
	default:
		return "", fmt.Errorf("unknown category type %q", raw)
	}
}
