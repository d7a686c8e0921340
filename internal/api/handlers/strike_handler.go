package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streamcentives/backend/internal/services"
)

// StrikeHandler exposes the user strike ledger.
type StrikeHandler struct {
	service *services.StrikeService
}

func NewStrikeHandler(service *services.StrikeService) *StrikeHandler {
	return &StrikeHandler{service: service}
}

// List returns a user's strike history, newest first.
func (h *StrikeHandler) List(c *gin.Context) {
	strikes, err := h.service.List(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list strikes"})
		return
	}
	c.JSON(http.StatusOK, strikes)
}

// Standing returns the user's current enforcement state computed from
// unexpired strike windows.
func (h *StrikeHandler) Standing(c *gin.Context) {
	standing, err := h.service.Standing(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute standing"})
		return
	}
	c.JSON(http.StatusOK, standing)
}
