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

func setupNotificationTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Notification{}, &models.NotificationProvider{}))
	return db
}

func TestNotificationService_Create(t *testing.T) {
	db := setupNotificationTestDB(t)
	svc := NewNotificationService(db)

	notif, err := svc.Create(models.NotificationTypeInfo, "Test", "Message")
	require.NoError(t, err)
	assert.Equal(t, "Test", notif.Title)
	assert.Equal(t, "Message", notif.Message)
	assert.False(t, notif.Read)
}

func TestNotificationService_List(t *testing.T) {
	db := setupNotificationTestDB(t)
	svc := NewNotificationService(db)

	svc.Create(models.NotificationTypeInfo, "N1", "M1")
	svc.Create(models.NotificationTypeInfo, "N2", "M2")

	list, err := svc.List(false)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	// Mark one as read
	db.Model(&models.Notification{}).Where("title = ?", "N1").Update("read", true)

	listUnread, err := svc.List(true)
	require.NoError(t, err)
	assert.Len(t, listUnread, 1)
	assert.Equal(t, "N2", listUnread[0].Title)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	db := setupNotificationTestDB(t)
	svc := NewNotificationService(db)

	notif, _ := svc.Create(models.NotificationTypeInfo, "N1", "M1")

	err := svc.MarkAsRead(notif.ID)
	require.NoError(t, err)

	var updated models.Notification
	db.First(&updated, "id = ?", notif.ID)
	assert.True(t, updated.Read)
}

func TestNotificationService_MarkAllAsRead(t *testing.T) {
	db := setupNotificationTestDB(t)
	svc := NewNotificationService(db)

	svc.Create(models.NotificationTypeInfo, "N1", "M1")
	svc.Create(models.NotificationTypeInfo, "N2", "M2")

	err := svc.MarkAllAsRead()
	require.NoError(t, err)

	var count int64
	db.Model(&models.Notification{}).Where("read = ?", false).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestNotifyModerationAction_RecordsEnforcedActionsOnly(t *testing.T) {
	db := setupNotificationTestDB(t)
	svc := NewNotificationService(db)

	removed := &models.ModerationRecord{
		ContentID:   "c1",
		ContentType: models.ContentTypeCommunityPost,
		UserID:      "u1",
		ActionTaken: moderation.ActionContentRemoved,
		Severity:    moderation.SeverityCritical,
		Confidence:  0.95,
	}
	svc.NotifyModerationAction(removed)

	warned := &models.ModerationRecord{
		ContentID:   "c2",
		ActionTaken: moderation.ActionWarning,
	}
	svc.NotifyModerationAction(warned)

	list, err := svc.List(false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Content removed", list[0].Title)
	assert.Contains(t, list[0].Message, "c1")
}

func TestNormalizeURL_Discord(t *testing.T) {
	raw := "https://discord.com/api/webhooks/123456789/abcDEF_-token"
	assert.Equal(t, "discord://abcDEF_-token@123456789", normalizeURL("discord", raw))

	// Non-discord providers pass through untouched.
	assert.Equal(t, "slack://token", normalizeURL("slack", "slack://token"))
}
