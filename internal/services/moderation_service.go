package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/logger"
	"github.com/streamcentives/backend/internal/metrics"
	"github.com/streamcentives/backend/internal/models"
	"github.com/streamcentives/backend/internal/moderation"
)

var ErrInvalidRequest = errors.New("invalid moderation request")

// ModerationRequest is one piece of content to run through the pipeline.
type ModerationRequest struct {
	Content     string
	ContentID   string
	ContentType string
	UserID      string
	MediaURLs   []string
}

// ModerationResult is the pipeline outcome returned to the caller.
type ModerationResult struct {
	Record   *models.ModerationRecord
	Verdict  moderation.Verdict
	Decision moderation.Decision
}

// ModerationService orchestrates the decision pipeline: classify →
// normalize → persist → evaluate policy → best-effort side effects. The
// moderation record is the source of truth; strike and queue writes must
// never block or fail the content decision.
type ModerationService struct {
	db            *gorm.DB
	classifier    moderation.Classifier
	thresholds    *ThresholdService
	strikes       *StrikeService
	queue         *ReviewQueueService
	notifications *NotificationService
}

func NewModerationService(
	db *gorm.DB,
	classifier moderation.Classifier,
	thresholds *ThresholdService,
	strikes *StrikeService,
	queue *ReviewQueueService,
	notifications *NotificationService,
) *ModerationService {
	return &ModerationService{
		db:            db,
		classifier:    classifier,
		thresholds:    thresholds,
		strikes:       strikes,
		queue:         queue,
		notifications: notifications,
	}
}

func (r ModerationRequest) validate() error {
	switch {
	case r.Content == "":
		return fmt.Errorf("%w: content is required", ErrInvalidRequest)
	case r.ContentID == "":
		return fmt.Errorf("%w: contentId is required", ErrInvalidRequest)
	case r.ContentType == "":
		return fmt.Errorf("%w: contentType is required", ErrInvalidRequest)
	case r.UserID == "":
		return fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	case !models.ValidContentType(r.ContentType):
		return fmt.Errorf("%w: unknown contentType %q", ErrInvalidRequest, r.ContentType)
	}
	return nil
}

// Moderate runs the full pipeline for one content item. Classifier and
// primary persistence failures propagate; a malformed classifier payload
// does not (the normalizer fails closed instead).
func (s *ModerationService) Moderate(ctx context.Context, req ModerationRequest) (*ModerationResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	metrics.IncModerationRequest()

	raw, err := s.classifier.Classify(ctx, req.Content, req.ContentType, req.MediaURLs)
	if err != nil {
		metrics.IncClassifierFailure()
		return nil, fmt.Errorf("classify content %s: %w", req.ContentID, err)
	}

	verdict := moderation.NormalizeVerdict(raw)

	// Insert with a placeholder action first so the audit trail captures
	// what the raw verdict said before policy evaluation.
	record := &models.ModerationRecord{
		ContentID:       req.ContentID,
		ContentType:     models.ContentType(req.ContentType),
		UserID:          req.UserID,
		ActionTaken:     moderation.ActionPending,
		OriginalContent: req.Content,
		ContentHash:     moderation.ContentHash(req.Content),
	}
	record.SetVerdict(verdict)
	record.SetMediaURLs(req.MediaURLs)

	if err := s.db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("persist moderation record: %w", err)
	}

	decision := moderation.Evaluate(verdict, s.thresholds.Active())

	// Single update of the placeholder. The locally computed action is
	// authoritative; the classifier's recommendation stays informational.
	record.ActionTaken = decision.FinalAction
	record.AutoActioned = decision.FinalAction != moderation.ActionManualReview
	if err := s.db.Model(record).
		Updates(map[string]interface{}{
			"action_taken":  record.ActionTaken,
			"auto_actioned": record.AutoActioned,
		}).Error; err != nil {
		return nil, fmt.Errorf("finalize moderation record: %w", err)
	}
	metrics.IncModerationAction(string(decision.FinalAction))

	log := logger.WithFields(map[string]interface{}{
		"moderation_id": record.ID,
		"content_id":    req.ContentID,
		"user_id":       req.UserID,
		"severity":      verdict.Severity,
		"confidence":    verdict.Confidence,
		"action":        decision.FinalAction,
	})
	log.Info("moderation decision recorded")

	// Best-effort side effects. Failures here are logged and swallowed:
	// the content decision is already durable.
	if decision.FinalAction != moderation.ActionApproved {
		if _, err := s.strikes.Record(req.UserID, record.ID, verdict.Severity, decision.FinalAction); err != nil {
			metrics.IncSideEffectFailure()
			log.WithError(err).Warn("failed to record user strike")
		}
	}
	if decision.RequiresReview {
		if _, err := s.queue.Enqueue(record.ID, verdict.Severity); err != nil {
			metrics.IncSideEffectFailure()
			log.WithError(err).Warn("failed to enqueue review entry")
		}
	}
	if s.notifications != nil {
		s.notifications.NotifyModerationAction(record)
	}

	return &ModerationResult{Record: record, Verdict: verdict, Decision: decision}, nil
}

// Get returns one moderation record by ID.
func (s *ModerationService) Get(id string) (*models.ModerationRecord, error) {
	var record models.ModerationRecord
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByUser returns a user's moderation records, newest first.
func (s *ModerationService) ListByUser(userID string, limit int) ([]models.ModerationRecord, error) {
	var records []models.ModerationRecord
	q := s.db.Where("user_id = ?", userID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&records).Error
	return records, err
}

// ListByContentHash returns records sharing a content hash, for
// deduplication tooling.
func (s *ModerationService) ListByContentHash(hash string) ([]models.ModerationRecord, error) {
	var records []models.ModerationRecord
	err := s.db.Where("content_hash = ?", hash).Order("created_at desc").Find(&records).Error
	return records, err
}
