package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streamcentives/backend/internal/api/middleware"
	"github.com/streamcentives/backend/internal/services"
)

// ReviewQueueHandler exposes the human adjudication queue.
type ReviewQueueHandler struct {
	service *services.ReviewQueueService
}

func NewReviewQueueHandler(service *services.ReviewQueueService) *ReviewQueueHandler {
	return &ReviewQueueHandler{service: service}
}

// List returns pending entries, most urgent first.
func (h *ReviewQueueHandler) List(c *gin.Context) {
	entries, err := h.service.ListPending(intQuery(c, "limit", 100))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list review queue"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

type resolveRequest struct {
	Note string `json:"note"`
}

// Resolve marks an entry as adjudicated by the authenticated reviewer.
func (h *ReviewQueueHandler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resolver := c.GetString(middleware.CallerKey)
	entry, err := h.service.Resolve(c.Param("id"), resolver, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQueueEntryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadyResolved):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve entry"})
		}
		return
	}
	c.JSON(http.StatusOK, entry)
}
