package moderation

// Thresholds holds the confidence/severity gates the policy engine
// evaluates against. They are loaded from settings per request and passed
// in explicitly so the policy stays free of hidden global state.
type Thresholds struct {
	AutoRemoveConfidence   float64  `json:"auto_remove_confidence"`
	AutoRemoveSeverity     Severity `json:"auto_remove_severity"`
	ShadowBanConfidence    float64  `json:"shadow_ban_confidence"`
	ShadowBanSeverity      Severity `json:"shadow_ban_severity"`
	ManualReviewConfidence float64  `json:"manual_review_confidence"`
}

// DefaultThresholds are the hard-coded fallbacks used when no threshold
// configuration row exists.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AutoRemoveConfidence:   0.9,
		AutoRemoveSeverity:     SeverityHigh,
		ShadowBanConfidence:    0.7,
		ShadowBanSeverity:      SeverityHigh,
		ManualReviewConfidence: 0.5,
	}
}

// Decision is the outcome of policy evaluation.
type Decision struct {
	FinalAction    Action
	RequiresReview bool
}

// Evaluate maps a sanitized verdict onto a final action using a
// priority-ordered rule list; the first matching rule wins. Stronger
// interventions are checked first, so a verdict clearing both the
// auto-remove and shadow-ban gates is removed, not shadow-banned. Severity
// alone never bypasses a confidence gate: critical content at low
// confidence falls through to manual review.
func Evaluate(v Verdict, t Thresholds) Decision {
	switch {
	case v.IsAppropriate:
		return Decision{FinalAction: ActionApproved}
	case v.Confidence >= t.AutoRemoveConfidence && v.Severity.AtLeast(t.AutoRemoveSeverity):
		return Decision{FinalAction: ActionContentRemoved}
	case v.Confidence >= t.ShadowBanConfidence && v.Severity == t.ShadowBanSeverity:
		return Decision{FinalAction: ActionShadowBan}
	case v.Confidence >= t.ManualReviewConfidence:
		return Decision{FinalAction: ActionManualReview, RequiresReview: true}
	default:
		return Decision{FinalAction: ActionWarning}
	}
}
