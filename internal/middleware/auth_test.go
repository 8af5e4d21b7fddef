package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"qna_web/internal/models"
	"qna_web/internal/service"
	"qna_web/pkg/utils"
)

type fakeAuthenticator struct {
	users map[string]*models.User
	err   error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if user, ok := f.users[token]; ok {
		return user, nil
	}
	return nil, utils.ErrInvalidToken
}

func newAuthRouter(auth Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(auth), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	auth := &fakeAuthenticator{users: map[string]*models.User{
		"good-token": {ID: 1, Username: "alice"},
	}}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer good-token", http.StatusOK, "alice"},
		{"lowercase scheme", "bearer good-token", http.StatusOK, "alice"},
		{"missing header", "", http.StatusUnauthorized, "Could not validate credentials"},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized, "Could not validate credentials"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "Could not validate credentials"},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, "Could not validate credentials"},
	}

	r := newAuthRouter(auth)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	r := newAuthRouter(&fakeAuthenticator{err: service.ErrUserNotFound})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BackendFailure(t *testing.T) {
	r := newAuthRouter(&fakeAuthenticator{err: errors.New("database is down")})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "database is down")
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))
}
