package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/vibemix-backend/internal/platform/ctxutil"
	"github.com/yungbote/vibemix-backend/internal/platform/logger"
)

type stubAuth struct {
	tokens map[string]uuid.UUID
}

func (s stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	id, ok := s.tokens[token]
	if !ok {
		return ctx, errors.New("invalid token")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: id}), nil
}

func newAuthRouter(am *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	whoami := func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.UserID(c.Request.Context()).String())
	}
	r.GET("/required", am.RequireAuth(), whoami)
	r.GET("/optional", am.OptionalAuth(), whoami)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	user := uuid.New()
	am := NewAuthMiddleware(logger.Nop(), stubAuth{tokens: map[string]uuid.UUID{"good": user}})
	r := newAuthRouter(am)

	cases := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"required_ok", "/required", "Bearer good", http.StatusOK, user.String()},
		{"required_missing", "/required", "", http.StatusUnauthorized, ""},
		{"required_bad", "/required", "Bearer nope", http.StatusUnauthorized, ""},
		{"required_wrong_scheme", "/required", "Basic good", http.StatusUnauthorized, ""},
		{"optional_anonymous", "/optional", "", http.StatusOK, uuid.Nil.String()},
		{"optional_bad_token", "/optional", "Bearer nope", http.StatusOK, uuid.Nil.String()},
		{"optional_ok", "/optional", "bearer good", http.StatusOK, user.String()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.body != "" && rec.Body.String() != tc.body {
				t.Fatalf("body: got=%q want=%q", rec.Body.String(), tc.body)
			}
		})
	}
}
