package models

import (
	"time"
)

// Setting keys used by the moderation service.
const (
	SettingModerationThresholds = "moderation.thresholds"
)

// Setting is a generic key/value configuration row. Moderation thresholds
// live under SettingModerationThresholds as a JSON value.
type Setting struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Key      string `json:"key" gorm:"uniqueIndex"`
	Value    string `json:"value" gorm:"type:text"`
	Category string `json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
