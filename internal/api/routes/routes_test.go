package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/config"
)

func TestRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	cfg := config.Config{
		JWTSecret: "test-secret",
	}

	err = Register(router, db, cfg)
	assert.NoError(t, err)

	routes := router.Routes()
	assert.NotEmpty(t, routes)

	expected := map[string]bool{
		"GET /api/v1/health":              false,
		"GET /metrics":                    false,
		"POST /api/v1/moderation/analyze": false,
		"GET /api/v1/review-queue":        false,
		"PUT /api/v1/settings/thresholds": false,
	}
	for _, r := range routes {
		key := r.Method + " " + r.Path
		if _, ok := expected[key]; ok {
			expected[key] = true
		}
	}
	for route, found := range expected {
		assert.True(t, found, "route %s should be registered", route)
	}
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Register(router, db, config.Config{JWTSecret: "test-secret"}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/review-queue", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
