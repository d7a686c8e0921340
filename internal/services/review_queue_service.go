package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/models"
	"github.com/streamcentives/backend/internal/moderation"
)

var (
	ErrQueueEntryNotFound = errors.New("review queue entry not found")
	ErrAlreadyResolved    = errors.New("review queue entry already resolved")
)

// ReviewQueueService manages the human adjudication queue for borderline
// verdicts.
type ReviewQueueService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReviewQueueService(db *gorm.DB) *ReviewQueueService {
	return &ReviewQueueService{db: db, now: time.Now}
}

// Enqueue inserts a pending entry for the given moderation record. High
// severity gets the urgent priority. Enqueue is not idempotent; duplicates
// from caller retries are deduplicated by the review workflow.
func (s *ReviewQueueService) Enqueue(moderationID string, severity moderation.Severity) (*models.ReviewQueueEntry, error) {
	priority := models.PriorityStandard
	if severity == moderation.SeverityHigh {
		priority = models.PriorityHigh
	}

	entry := &models.ReviewQueueEntry{
		ModerationID: moderationID,
		Priority:     priority,
		QueueType:    models.QueueTypeStandard,
		Status:       models.QueueStatusPending,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListPending returns pending entries, most urgent first, oldest first
// within a priority band.
func (s *ReviewQueueService) ListPending(limit int) ([]models.ReviewQueueEntry, error) {
	var entries []models.ReviewQueueEntry
	q := s.db.Where("status = ?", models.QueueStatusPending).
		Order("priority desc").Order("created_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&entries).Error
	return entries, err
}

// PendingCount returns the number of entries awaiting review.
func (s *ReviewQueueService) PendingCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.ReviewQueueEntry{}).
		Where("status = ?", models.QueueStatusPending).Count(&count).Error
	return count, err
}

// Resolve transitions a pending entry to resolved with the reviewer's
// identity and note. Resolving twice is an error.
func (s *ReviewQueueService) Resolve(id, resolvedBy, note string) (*models.ReviewQueueEntry, error) {
	var entry models.ReviewQueueEntry
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQueueEntryNotFound
		}
		return nil, err
	}
	if entry.Status == models.QueueStatusResolved {
		return nil, ErrAlreadyResolved
	}

	now := s.now()
	entry.Status = models.QueueStatusResolved
	entry.ResolvedBy = resolvedBy
	entry.ResolvedNote = note
	entry.ResolvedAt = &now
	if err := s.db.Save(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// EscalateStale bumps pending entries older than the cutoff to the urgent
// priority so they surface at the top of the queue. Returns the number of
// entries escalated.
func (s *ReviewQueueService) EscalateStale(olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)
	res := s.db.Model(&models.ReviewQueueEntry{}).
		Where("status = ? AND priority < ? AND created_at < ?",
			models.QueueStatusPending, models.PriorityHigh, cutoff).
		Update("priority", models.PriorityHigh)
	return res.RowsAffected, res.Error
}
