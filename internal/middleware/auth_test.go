package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"candle-backend/internal/models"
	"candle-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	users map[string]*models.User
	err   error
}

func (a stubAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if a.err != nil {
		return nil, a.err
	}
	if u, ok := a.users[token]; ok {
		return u, nil
	}
	return nil, services.ErrInvalidToken
}

func TestAuthMiddleware(t *testing.T) {
	alex := &models.User{ID: "u1", Name: "Alex"}
	handler := AuthMiddleware(stubAuth{users: map[string]*models.User{"good": alex}})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			require.NotNil(t, user)
			w.Write([]byte(user.ID))
		}))

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"missing header", "", http.StatusUnauthorized, `{"error":"Not authenticated"}`},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, `{"error":"Invalid authorization header format"}`},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, `{"error":"Invalid token"}`},
		{"valid token", "Bearer good", http.StatusOK, "u1"},
		{"lowercase scheme", "bearer good", http.StatusOK, "u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			} else {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareStoreFailure(t *testing.T) {
	handler := AuthMiddleware(stubAuth{err: errors.New("db down")})(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Fatal("handler must not run")
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetUserWithoutAuth(t *testing.T) {
	assert.Nil(t, GetUser(context.Background()))
}
