package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/moderation"
)

// UserStrike is one escalation event against a user account. Rows are
// append-only: a user's current standing is computed from unexpired
// windows at read time, never by mutating old rows.
type UserStrike struct {
	ID           string `json:"id" gorm:"primaryKey"`
	UserID       string `json:"user_id" gorm:"index"`
	ModerationID string `json:"moderation_id" gorm:"index"`

	StrikeCount     int                 `json:"strike_count"`
	StrikeSeverity  moderation.Severity `json:"strike_severity"`
	StrikeExpiresAt time.Time           `json:"strike_expires_at"`

	IsShadowBanned     bool       `json:"is_shadow_banned"`
	ShadowBanExpiresAt *time.Time `json:"shadow_ban_expires_at,omitempty"`

	IsRestricted         bool       `json:"is_restricted"`
	RestrictionExpiresAt *time.Time `json:"restriction_expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *UserStrike) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

// ShadowBanActive reports whether this strike's shadow-ban window covers
// the given instant.
func (s *UserStrike) ShadowBanActive(now time.Time) bool {
	return s.IsShadowBanned && s.ShadowBanExpiresAt != nil && s.ShadowBanExpiresAt.After(now)
}

// RestrictionActive reports whether this strike's restriction window
// covers the given instant.
func (s *UserStrike) RestrictionActive(now time.Time) bool {
	return s.IsRestricted && s.RestrictionExpiresAt != nil && s.RestrictionExpiresAt.After(now)
}
