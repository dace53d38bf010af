package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"card-optimizer/internal/auth"
	"card-optimizer/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := auth.NewTokenService(config.Config{JWTSecret: "s", AdminKey: "k", JWTExpiresIn: time.Hour})
	admin, err := ts.GenerateToken(auth.RoleAdmin)
	require.NoError(t, err)
	viewer, err := ts.GenerateToken("viewer")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/secret", NewAuthMiddleware(ts).RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("role"))
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"wrong role", "Bearer " + viewer, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secret", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
