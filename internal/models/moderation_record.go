package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/moderation"
)

// ContentType identifies which platform surface a moderated item came from.
type ContentType string

const (
	ContentTypeCommunityPost    ContentType = "community_post"
	ContentTypeCommunityMessage ContentType = "community_message"
	ContentTypePostComment      ContentType = "post_comment"
)

// ValidContentType reports whether t is a known surface.
func ValidContentType(t string) bool {
	switch ContentType(t) {
	case ContentTypeCommunityPost, ContentTypeCommunityMessage, ContentTypePostComment:
		return true
	}
	return false
}

// ModerationRecord is the authoritative per-item moderation decision. The
// row is created with ActionTaken set to pending and updated exactly once
// after policy evaluation, preserving the audit trail of what the raw
// verdict said versus what was actually done.
type ModerationRecord struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	ContentID   string      `json:"content_id" gorm:"index"`
	ContentType ContentType `json:"content_type"`
	UserID      string      `json:"user_id" gorm:"index"`

	// Verdict fields, flattened. Slice-valued fields are stored as JSON
	// text columns.
	IsAppropriate     bool                `json:"is_appropriate"`
	Categories        string              `json:"-" gorm:"type:text"`
	Severity          moderation.Severity `json:"severity"`
	Confidence        float64             `json:"confidence"`
	Flags             string              `json:"-" gorm:"type:text"`
	DetectedLanguage  string              `json:"detected_language"`
	RecommendedAction moderation.Action   `json:"recommended_action"`

	ActionTaken  moderation.Action `json:"action_taken"`
	AutoActioned bool              `json:"auto_actioned"`

	OriginalContent string `json:"original_content" gorm:"type:text"`
	ContentHash     string `json:"content_hash" gorm:"index"`
	MediaURLs       string `json:"-" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *ModerationRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// SetVerdict copies a sanitized verdict into the flattened columns.
func (m *ModerationRecord) SetVerdict(v moderation.Verdict) {
	m.IsAppropriate = v.IsAppropriate
	m.Severity = v.Severity
	m.Confidence = v.Confidence
	m.DetectedLanguage = v.DetectedLanguage
	m.RecommendedAction = v.RecommendedAction
	m.Categories = encodeStrings(v.Categories)
	m.Flags = encodeStrings(v.Flags)
}

// Verdict reconstructs the sanitized verdict from the flattened columns.
func (m *ModerationRecord) Verdict() moderation.Verdict {
	return moderation.Verdict{
		IsAppropriate:     m.IsAppropriate,
		Categories:        decodeStrings(m.Categories),
		Severity:          m.Severity,
		Confidence:        m.Confidence,
		Flags:             decodeStrings(m.Flags),
		DetectedLanguage:  m.DetectedLanguage,
		RecommendedAction: m.RecommendedAction,
	}
}

// SetMediaURLs stores the ordered media URL list as a JSON column.
func (m *ModerationRecord) SetMediaURLs(urls []string) {
	m.MediaURLs = encodeStrings(urls)
}

// MediaURLList returns the stored media URLs.
func (m *ModerationRecord) MediaURLList() []string {
	return decodeStrings(m.MediaURLs)
}

func encodeStrings(ss []string) string {
	if ss == nil {
		ss = []string{}
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeStrings(s string) []string {
	if s == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return []string{}
	}
	return out
}
