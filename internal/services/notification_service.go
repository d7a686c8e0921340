package services

import (
	"fmt"
	"regexp"
	"time"

	"github.com/containrrr/shoutrrr"
	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/logger"
	"github.com/streamcentives/backend/internal/models"
	"github.com/streamcentives/backend/internal/moderation"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

var discordWebhookRegex = regexp.MustCompile(`^https://discord(?:app)?\.com/api/webhooks/(\d+)/([a-zA-Z0-9_-]+)`)

// normalizeURL rewrites raw Discord webhook URLs into shoutrrr's scheme.
func normalizeURL(serviceType, rawURL string) string {
	if serviceType == "discord" {
		matches := discordWebhookRegex.FindStringSubmatch(rawURL)
		if len(matches) == 3 {
			id := matches[1]
			token := matches[2]
			return fmt.Sprintf("discord://%s@%s", token, id)
		}
	}
	return rawURL
}

// Internal notifications (DB)

func (s *NotificationService) Create(nType models.NotificationType, title, message string) (*models.Notification, error) {
	notification := &models.Notification{
		Type:    nType,
		Title:   title,
		Message: message,
		Read:    false,
	}
	result := s.DB.Create(notification)
	return notification, result.Error
}

func (s *NotificationService) List(unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	query := s.DB.Order("created_at desc")
	if unreadOnly {
		query = query.Where("read = ?", false)
	}
	result := query.Find(&notifications)
	return notifications, result.Error
}

func (s *NotificationService) MarkAsRead(id string) error {
	return s.DB.Model(&models.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (s *NotificationService) MarkAllAsRead() error {
	return s.DB.Model(&models.Notification{}).Where("read = ?", false).Update("read", true).Error
}

// External notifications (shoutrrr)

// NotifyModerationAction records an internal notification for an enforced
// action and fans it out to enabled external providers. Delivery is
// best-effort; failures are logged and never surfaced to the pipeline.
func (s *NotificationService) NotifyModerationAction(record *models.ModerationRecord) {
	var title string
	switch record.ActionTaken {
	case moderation.ActionContentRemoved:
		title = "Content removed"
	case moderation.ActionShadowBan:
		title = "User shadow-banned"
	default:
		return
	}

	message := fmt.Sprintf("%s %s by user %s (severity %s, confidence %.2f)",
		record.ContentType, record.ContentID, record.UserID, record.Severity, record.Confidence)

	if _, err := s.Create(models.NotificationTypeWarning, title, message); err != nil {
		logger.Log().WithError(err).Warn("failed to record moderation notification")
	}

	s.sendExternal(record.ActionTaken, title, message)
}

// NotifyReviewBacklog sends a digest of the pending review queue size to
// providers that opted in.
func (s *NotificationService) NotifyReviewBacklog(pending int64) {
	title := "Review queue backlog"
	message := fmt.Sprintf("%d entries are waiting for human review", pending)

	var providers []models.NotificationProvider
	if err := s.DB.Where("enabled = ? AND notify_review_backlog = ?", true, true).Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Warn("failed to fetch notification providers")
		return
	}
	s.dispatch(providers, title, message)
}

func (s *NotificationService) sendExternal(action moderation.Action, title, message string) {
	var providers []models.NotificationProvider
	query := s.DB.Where("enabled = ?", true)
	switch action {
	case moderation.ActionContentRemoved:
		query = query.Where("notify_removals = ?", true)
	case moderation.ActionShadowBan:
		query = query.Where("notify_shadow_bans = ?", true)
	}
	if err := query.Find(&providers).Error; err != nil {
		logger.Log().WithError(err).Warn("failed to fetch notification providers")
		return
	}
	s.dispatch(providers, title, message)
}

func (s *NotificationService) dispatch(providers []models.NotificationProvider, title, message string) {
	for _, provider := range providers {
		go func(p models.NotificationProvider) {
			url := normalizeURL(p.Type, p.URL)
			// Newline reads better in chat apps.
			msg := fmt.Sprintf("%s\n\n%s", title, message)
			if err := shoutrrr.Send(url, msg); err != nil {
				logger.WithFields(map[string]interface{}{
					"provider": p.Name,
				}).WithError(err).Warn("failed to send external notification")
			}
		}(provider)
	}
}

// TestProvider sends a test message through a provider configuration.
func (s *NotificationService) TestProvider(provider models.NotificationProvider) error {
	url := normalizeURL(provider.Type, provider.URL)
	msg := fmt.Sprintf("Test notification from Streamcentives moderation at %s", time.Now().Format(time.RFC3339))
	return shoutrrr.Send(url, msg)
}
