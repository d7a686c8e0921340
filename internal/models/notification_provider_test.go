package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/models"
)

func TestNotificationProvider_BeforeCreate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.NotificationProvider{}))

	provider := models.NotificationProvider{
		Name: "ops-discord",
		Type: "discord",
		URL:  "https://discord.com/api/webhooks/1/token",
	}
	require.NoError(t, db.Create(&provider).Error)

	assert.NotEmpty(t, provider.ID)
	assert.True(t, provider.NotifyRemovals)
	assert.True(t, provider.NotifyShadowBans)
	assert.True(t, provider.NotifyReviewBacklog)
}
