package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// intQuery parses an integer query parameter with a fallback.
func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
