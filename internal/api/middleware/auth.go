package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/models"
)

// Context keys set by Auth.
const (
	CallerKey = "caller"
	RoleKey   = "role"
)

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// Auth authenticates callers either by a platform-issued HS256 bearer
// token (this service never mints tokens itself) or by a per-service API
// key checked against the api_clients table.
func Auth(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader("X-API-Key"); key != "" {
			client, ok := checkAPIKey(db, key)
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
				return
			}
			c.Set(CallerKey, client.Name)
			c.Set(RoleKey, "service")
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			return
		}

		subject, role, err := verifyToken(token, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(CallerKey, subject)
		c.Set(RoleKey, role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated caller carries the
// given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get(RoleKey); !ok || v != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

type platformClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func verifyToken(token, secret string) (subject, role string, err error) {
	claims := &platformClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigningMethod
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	if !parsed.Valid {
		return "", "", jwt.ErrTokenUnverifiable
	}
	role = claims.Role
	if role == "" {
		role = "user"
	}
	return claims.Subject, role, nil
}

func checkAPIKey(db *gorm.DB, key string) (*models.APIClient, bool) {
	var clients []models.APIClient
	if err := db.Where("enabled = ?", true).Find(&clients).Error; err != nil {
		return nil, false
	}
	for i := range clients {
		if clients[i].CheckKey(key) {
			now := time.Now()
			db.Model(&clients[i]).Update("last_seen", &now)
			return &clients[i], true
		}
	}
	return nil, false
}
