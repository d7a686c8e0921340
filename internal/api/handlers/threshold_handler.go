package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streamcentives/backend/internal/moderation"
	"github.com/streamcentives/backend/internal/services"
)

// ThresholdHandler exposes the policy engine's threshold configuration.
type ThresholdHandler struct {
	service *services.ThresholdService
}

func NewThresholdHandler(service *services.ThresholdService) *ThresholdHandler {
	return &ThresholdHandler{service: service}
}

// Get returns the active thresholds (configured or defaults).
func (h *ThresholdHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Active())
}

// Update replaces the active thresholds.
func (h *ThresholdHandler) Update(c *gin.Context) {
	var t moderation.Thresholds
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.service.Update(t); err != nil {
		if errors.Is(err, services.ErrInvalidThresholds) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update thresholds"})
		return
	}
	c.JSON(http.StatusOK, h.service.Active())
}
