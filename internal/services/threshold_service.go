package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/logger"
	"github.com/streamcentives/backend/internal/models"
	"github.com/streamcentives/backend/internal/moderation"
)

var ErrInvalidThresholds = errors.New("invalid moderation thresholds")

// ThresholdService loads and stores the policy engine's threshold
// configuration. The active thresholds are read per evaluation; missing or
// unreadable configuration falls back to the hard-coded defaults.
type ThresholdService struct {
	db *gorm.DB
}

func NewThresholdService(db *gorm.DB) *ThresholdService {
	return &ThresholdService{db: db}
}

// Active returns the configured thresholds, or the defaults when no
// configuration row exists. It never fails the caller: a broken settings
// row is logged and replaced by defaults.
func (s *ThresholdService) Active() moderation.Thresholds {
	var setting models.Setting
	if err := s.db.Where("key = ?", models.SettingModerationThresholds).First(&setting).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log().WithError(err).Warn("failed to load moderation thresholds, using defaults")
		}
		return moderation.DefaultThresholds()
	}

	var t moderation.Thresholds
	if err := json.Unmarshal([]byte(setting.Value), &t); err != nil {
		logger.Log().WithError(err).Warn("malformed moderation thresholds setting, using defaults")
		return moderation.DefaultThresholds()
	}
	if err := validateThresholds(t); err != nil {
		logger.Log().WithError(err).Warn("out-of-range moderation thresholds setting, using defaults")
		return moderation.DefaultThresholds()
	}
	return t
}

// Update validates and persists new thresholds.
func (s *ThresholdService) Update(t moderation.Thresholds) error {
	if err := validateThresholds(t); err != nil {
		return err
	}

	value, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode thresholds: %w", err)
	}

	var existing models.Setting
	err = s.db.Where("key = ?", models.SettingModerationThresholds).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&models.Setting{
			Key:      models.SettingModerationThresholds,
			Value:    string(value),
			Category: "moderation",
		}).Error
	}
	if err != nil {
		return err
	}

	existing.Value = string(value)
	return s.db.Save(&existing).Error
}

func validateThresholds(t moderation.Thresholds) error {
	for _, c := range []float64{t.AutoRemoveConfidence, t.ShadowBanConfidence, t.ManualReviewConfidence} {
		if c < 0 || c > 1 {
			return fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidThresholds, c)
		}
	}
	if _, ok := moderation.ParseSeverity(string(t.AutoRemoveSeverity)); !ok {
		return fmt.Errorf("%w: unknown auto-remove severity %q", ErrInvalidThresholds, t.AutoRemoveSeverity)
	}
	if _, ok := moderation.ParseSeverity(string(t.ShadowBanSeverity)); !ok {
		return fmt.Errorf("%w: unknown shadow-ban severity %q", ErrInvalidThresholds, t.ShadowBanSeverity)
	}
	return nil
}
