package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/models"
	"github.com/streamcentives/backend/internal/moderation"
)

func setupThresholdTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Setting{}))
	return db
}

func TestThresholdService_DefaultsWhenUnconfigured(t *testing.T) {
	db := setupThresholdTestDB(t)
	svc := NewThresholdService(db)

	assert.Equal(t, moderation.DefaultThresholds(), svc.Active())
}

func TestThresholdService_UpdateRoundTrip(t *testing.T) {
	db := setupThresholdTestDB(t)
	svc := NewThresholdService(db)

	custom := moderation.Thresholds{
		AutoRemoveConfidence:   0.85,
		AutoRemoveSeverity:     moderation.SeverityCritical,
		ShadowBanConfidence:    0.65,
		ShadowBanSeverity:      moderation.SeverityHigh,
		ManualReviewConfidence: 0.4,
	}
	require.NoError(t, svc.Update(custom))
	assert.Equal(t, custom, svc.Active())

	// Second update overwrites the same row.
	custom.ManualReviewConfidence = 0.45
	require.NoError(t, svc.Update(custom))
	assert.Equal(t, custom, svc.Active())

	var count int64
	db.Model(&models.Setting{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestThresholdService_RejectsInvalid(t *testing.T) {
	db := setupThresholdTestDB(t)
	svc := NewThresholdService(db)

	bad := moderation.DefaultThresholds()
	bad.AutoRemoveConfidence = 1.4
	assert.ErrorIs(t, svc.Update(bad), ErrInvalidThresholds)

	bad = moderation.DefaultThresholds()
	bad.ShadowBanSeverity = "apocalyptic"
	assert.ErrorIs(t, svc.Update(bad), ErrInvalidThresholds)
}

func TestThresholdService_MalformedRowFallsBack(t *testing.T) {
	db := setupThresholdTestDB(t)
	require.NoError(t, db.Create(&models.Setting{
		Key:   models.SettingModerationThresholds,
		Value: "{not json",
	}).Error)

	svc := NewThresholdService(db)
	assert.Equal(t, moderation.DefaultThresholds(), svc.Active())
}
