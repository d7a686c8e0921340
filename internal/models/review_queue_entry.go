package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QueueType string

const (
	QueueTypeStandard QueueType = "standard"
)

type QueueStatus string

const (
	QueueStatusPending  QueueStatus = "pending"
	QueueStatusResolved QueueStatus = "resolved"
)

// Review queue priorities. Higher is more urgent.
const (
	PriorityStandard = 5
	PriorityHigh     = 8
)

// ReviewQueueEntry is a borderline verdict awaiting human adjudication.
// Duplicate entries for the same moderation record are possible on caller
// retries and are deduplicated by the review workflow, not here.
type ReviewQueueEntry struct {
	ID           string      `json:"id" gorm:"primaryKey"`
	ModerationID string      `json:"moderation_id" gorm:"index"`
	Priority     int         `json:"priority"`
	QueueType    QueueType   `json:"queue_type" gorm:"default:standard"`
	Status       QueueStatus `json:"status" gorm:"index;default:pending"`

	ResolvedBy   string     `json:"resolved_by,omitempty"`
	ResolvedNote string     `json:"resolved_note,omitempty" gorm:"type:text"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *ReviewQueueEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}
