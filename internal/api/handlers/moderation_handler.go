package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/api/middleware"
	"github.com/streamcentives/backend/internal/models"
	"github.com/streamcentives/backend/internal/moderation"
	"github.com/streamcentives/backend/internal/services"
)

// ModerationHandler exposes the decision pipeline over HTTP.
type ModerationHandler struct {
	service *services.ModerationService
}

func NewModerationHandler(service *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{service: service}
}

type analyzeRequest struct {
	Content     string   `json:"content"`
	ContentID   string   `json:"contentId"`
	ContentType string   `json:"contentType"`
	UserID      string   `json:"userId"`
	MediaURLs   []string `json:"mediaUrls"`
}

// Analyze runs one content item through the moderation pipeline and
// returns the decision. Any failure means the content is unmoderated; the
// platform treats it as pending review rather than publishing it.
func (h *ModerationHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	result, err := h.service.Moderate(c.Request.Context(), services.ModerationRequest{
		Content:     req.Content,
		ContentID:   req.ContentID,
		ContentType: req.ContentType,
		UserID:      req.UserID,
		MediaURLs:   req.MediaURLs,
	})
	if err != nil {
		status := http.StatusInternalServerError
		var statusErr *moderation.StatusError
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			status = http.StatusBadRequest
		case errors.Is(err, moderation.ErrClassifierUnavailable), errors.As(err, &statusErr):
			status = http.StatusBadGateway
		}
		middleware.GetRequestLogger(c).WithError(err).Error("moderation pipeline failed")
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"contentId": result.Record.ContentID,
		"analysis": gin.H{
			"is_appropriate": result.Verdict.IsAppropriate,
			"severity":       result.Verdict.Severity,
			"confidence":     result.Verdict.Confidence,
			"action_taken":   result.Decision.FinalAction,
			"categories":     result.Verdict.Categories,
			"flags":          result.Verdict.Flags,
		},
		"moderation_id": result.Record.ID,
	})
}

// Get returns one moderation record.
func (h *ModerationHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "moderation record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch moderation record"})
		return
	}
	c.JSON(http.StatusOK, recordResponse(record))
}

// ListByUser returns a user's moderation history.
func (h *ModerationHandler) ListByUser(c *gin.Context) {
	records, err := h.service.ListByUser(c.Param("id"), intQuery(c, "limit", 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch moderation records"})
		return
	}
	out := make([]gin.H, 0, len(records))
	for i := range records {
		out = append(out, recordResponse(&records[i]))
	}
	c.JSON(http.StatusOK, out)
}

// ListByContentHash returns records that share a content hash, for
// duplicate-content tooling. The hash is passed as a query parameter.
func (h *ModerationHandler) ListByContentHash(c *gin.Context) {
	hash := c.Query("hash")
	if hash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hash query parameter required"})
		return
	}
	records, err := h.service.ListByContentHash(hash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch moderation records"})
		return
	}
	out := make([]gin.H, 0, len(records))
	for i := range records {
		out = append(out, recordResponse(&records[i]))
	}
	c.JSON(http.StatusOK, out)
}

// recordResponse flattens a record plus its JSON-encoded slice columns.
func recordResponse(r *models.ModerationRecord) gin.H {
	return gin.H{
		"id":                 r.ID,
		"content_id":         r.ContentID,
		"content_type":       r.ContentType,
		"user_id":            r.UserID,
		"is_appropriate":     r.IsAppropriate,
		"categories":         r.Verdict().Categories,
		"severity":           r.Severity,
		"confidence":         r.Confidence,
		"flags":              r.Verdict().Flags,
		"detected_language":  r.DetectedLanguage,
		"recommended_action": r.RecommendedAction,
		"action_taken":       r.ActionTaken,
		"auto_actioned":      r.AutoActioned,
		"content_hash":       r.ContentHash,
		"media_urls":         r.MediaURLList(),
		"created_at":         r.CreatedAt,
	}
}
