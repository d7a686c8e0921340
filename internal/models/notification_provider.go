package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationProvider is an outbound delivery target (Discord, Slack,
// Telegram, ...) expressed as a shoutrrr URL, with per-event opt-ins for
// the moderation events it cares about.
type NotificationProvider struct {
	ID      string `gorm:"primaryKey" json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"` // discord, slack, telegram, generic
	URL     string `json:"url"`  // shoutrrr URL
	Enabled bool   `json:"enabled"`

	NotifyRemovals      bool `json:"notify_removals" gorm:"default:true"`
	NotifyShadowBans    bool `json:"notify_shadow_bans" gorm:"default:true"`
	NotifyReviewBacklog bool `json:"notify_review_backlog" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *NotificationProvider) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}
