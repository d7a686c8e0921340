package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/models"
)

const testSecret = "test-secret"

func setupAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.APIClient{}))

	r := gin.New()
	r.Use(Auth(db, testSecret))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"caller": c.GetString(CallerKey),
			"role":   c.GetString(RoleKey),
		})
	})
	return r, db
}

func mintToken(t *testing.T, secret, subject, role string) string {
	claims := platformClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuth_MissingHeader(t *testing.T) {
	r, _ := setupAuthRouter(t)

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header required")
}

func TestAuth_ValidBearerToken(t *testing.T) {
	r, _ := setupAuthRouter(t)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, "user-7", "admin"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-7")
	assert.Contains(t, w.Body.String(), "admin")
}

func TestAuth_WrongSecretRejected(t *testing.T) {
	r, _ := setupAuthRouter(t)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "other-secret", "user-7", "admin"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_APIKey(t *testing.T) {
	r, db := setupAuthRouter(t)

	client := models.APIClient{Name: "edge-fn", Enabled: true}
	require.NoError(t, client.SetKey("sk-valid"))
	require.NoError(t, db.Create(&client).Error)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("X-API-Key", "sk-valid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "edge-fn")
	assert.Contains(t, w.Body.String(), "service")

	req, _ = http.NewRequest("GET", "/test", nil)
	req.Header.Set("X-API-Key", "sk-wrong")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_DisabledClientRejected(t *testing.T) {
	r, db := setupAuthRouter(t)

	client := models.APIClient{Name: "old-fn", Enabled: false}
	require.NoError(t, client.SetKey("sk-old"))
	require.NoError(t, db.Create(&client).Error)
	// The column has default:true, so gorm drops the zero-value field on
	// insert; persist the disabled flag explicitly.
	require.NoError(t, db.Model(&client).Update("enabled", false).Error)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("X-API-Key", "sk-old")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(RoleKey, "admin")
		c.Next()
	})
	r.Use(RequireRole("admin"))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(RoleKey, "user")
		c.Next()
	})
	r.Use(RequireRole("admin"))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
