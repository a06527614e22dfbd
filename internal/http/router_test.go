package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	httpH "github.com/yungbote/vibemix-backend/internal/http/handlers"
	httpMW "github.com/yungbote/vibemix-backend/internal/http/middleware"
	"github.com/yungbote/vibemix-backend/internal/observability"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

type rejectAll struct{}

func (rejectAll) SetContextFromToken(ctx context.Context, _ string) (context.Context, error) {
	return ctx, errors.New("invalid token")
}

func TestRouterGuardsProtectedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		Log:               logger.Nop(),
		Metrics:           observability.New(),
		AuthMiddleware:    httpMW.NewAuthMiddleware(logger.Nop(), rejectAll{}),
		TaggingHandler:    httpH.NewTaggingHandler(nil),
		FeedHandler:       httpH.NewFeedHandler(nil),
		PreferenceHandler: httpH.NewPreferenceHandler(nil),
		HealthHandler:     httpH.NewHealthHandler(nil),
	})

	post := uuid.NewString()
	protected := []struct{ method, path string }{
		{http.MethodPost, "/api/posts/" + post + "/tags"},
		{http.MethodDelete, "/api/posts/" + post + "/tags/" + uuid.NewString()},
		{http.MethodPost, "/api/posts/" + post + "/tags/auto"},
		{http.MethodPost, "/api/posts/" + post + "/tags/recompute"},
		{http.MethodPost, "/api/post-tags/" + uuid.NewString() + "/vote"},
		{http.MethodGet, "/api/feed"},
		{http.MethodGet, "/api/feed/mixed"},
		{http.MethodGet, "/api/feed/default"},
		{http.MethodGet, "/api/preferences"},
		{http.MethodPost, "/api/preferences/bulk"},
		{http.MethodPost, "/api/preferences/block"},
		{http.MethodPost, "/api/preferences/unblock"},
	}
	for _, rt := range protected {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status=%d want 401", rt.method, rt.path, w.Code)
		}
	}

	for _, path := range []string{"/healthcheck", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s: status=%d want 200", path, w.Code)
		}
	}
}
