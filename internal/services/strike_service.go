package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/streamcentives/backend/internal/models"
	"github.com/streamcentives/backend/internal/moderation"
)

// Escalation windows applied by the strike ledger.
const (
	strikeTTL         = 30 * 24 * time.Hour
	shadowBanWindow   = 24 * time.Hour
	restrictionWindow = 7 * 24 * time.Hour
)

// StrikeService is the append-only ledger of user consequences. It never
// updates a previous row; a user's current standing is derived from
// unexpired windows at read time.
type StrikeService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStrikeService(db *gorm.DB) *StrikeService {
	return &StrikeService{db: db, now: time.Now}
}

func strikeCountFor(severity moderation.Severity) int {
	switch severity {
	case moderation.SeverityCritical:
		return 3
	case moderation.SeverityHigh:
		return 2
	default:
		return 1
	}
}

// Record writes one escalation row for a non-approved action. Shadow-ban
// and restriction windows are mutually exclusive outcomes of a single
// evaluation: shadow_ban sets the 24h shadow-ban window, a critical
// removal sets the 7d restriction window, anything else records only the
// strike itself.
func (s *StrikeService) Record(userID, moderationID string, severity moderation.Severity, action moderation.Action) (*models.UserStrike, error) {
	now := s.now()
	strike := &models.UserStrike{
		UserID:          userID,
		ModerationID:    moderationID,
		StrikeCount:     strikeCountFor(severity),
		StrikeSeverity:  severity,
		StrikeExpiresAt: now.Add(strikeTTL),
	}

	switch {
	case action == moderation.ActionShadowBan:
		expires := now.Add(shadowBanWindow)
		strike.IsShadowBanned = true
		strike.ShadowBanExpiresAt = &expires
	case action == moderation.ActionContentRemoved && severity == moderation.SeverityCritical:
		expires := now.Add(restrictionWindow)
		strike.IsRestricted = true
		strike.RestrictionExpiresAt = &expires
	}

	if err := s.db.Create(strike).Error; err != nil {
		return nil, err
	}
	return strike, nil
}

// List returns a user's strikes, newest first.
func (s *StrikeService) List(userID string) ([]models.UserStrike, error) {
	var strikes []models.UserStrike
	err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&strikes).Error
	return strikes, err
}

// Standing summarizes a user's current enforcement state.
type Standing struct {
	UserID               string     `json:"user_id"`
	ActiveStrikes        int        `json:"active_strikes"`
	IsShadowBanned       bool       `json:"is_shadow_banned"`
	ShadowBanExpiresAt   *time.Time `json:"shadow_ban_expires_at,omitempty"`
	IsRestricted         bool       `json:"is_restricted"`
	RestrictionExpiresAt *time.Time `json:"restriction_expires_at,omitempty"`
}

// Standing computes the user's current standing from unexpired strike
// windows. Overlapping windows from separate strikes report the latest
// expiry.
func (s *StrikeService) Standing(userID string) (*Standing, error) {
	strikes, err := s.List(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	standing := &Standing{UserID: userID}
	for i := range strikes {
		st := &strikes[i]
		if st.StrikeExpiresAt.After(now) {
			standing.ActiveStrikes += st.StrikeCount
		}
		if st.ShadowBanActive(now) {
			standing.IsShadowBanned = true
			if standing.ShadowBanExpiresAt == nil || st.ShadowBanExpiresAt.After(*standing.ShadowBanExpiresAt) {
				standing.ShadowBanExpiresAt = st.ShadowBanExpiresAt
			}
		}
		if st.RestrictionActive(now) {
			standing.IsRestricted = true
			if standing.RestrictionExpiresAt == nil || st.RestrictionExpiresAt.After(*standing.RestrictionExpiresAt) {
				standing.RestrictionExpiresAt = st.RestrictionExpiresAt
			}
		}
	}
	return standing, nil
}
