package moderation

// Severity is the four-level ordinal magnitude of a policy violation.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// ParseSeverity maps a raw string onto the closed severity set. Unknown
// values report ok=false so callers can apply their own fallback.
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(s)
	_, ok := severityRank[sev]
	if !ok {
		return SeverityMedium, false
	}
	return sev, true
}

// AtLeast reports whether s is equal to or more severe than other.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// Action is the closed set of moderation outcomes.
type Action string

const (
	ActionApproved       Action = "approved"
	ActionWarning        Action = "warning"
	ActionShadowBan      Action = "shadow_ban"
	ActionContentRemoved Action = "content_removed"
	ActionManualReview   Action = "manual_review"

	// ActionPending is the placeholder written to a moderation record
	// before policy evaluation completes. It is never a final outcome.
	ActionPending Action = "pending"
)

var validActions = map[Action]bool{
	ActionApproved:       true,
	ActionWarning:        true,
	ActionShadowBan:      true,
	ActionContentRemoved: true,
	ActionManualReview:   true,
}

// ParseAction maps a raw string onto the closed action set. Unknown values
// report ok=false.
func ParseAction(s string) (Action, bool) {
	a := Action(s)
	if !validActions[a] {
		return ActionManualReview, false
	}
	return a, true
}

// Categories is the fixed vocabulary the classifier is instructed to use.
var Categories = []string{
	"violence_incitement",
	"safety_harassment",
	"nudity_sexual",
	"hate_speech",
	"authenticity_spam",
	"privacy_doxxing",
	"intellectual_property",
	"regulated_goods",
	"community_standards",
	"misinformation",
}

// Verdict is the classifier's structured judgment about one piece of
// content after normalization. Every field carries a safe default, so a
// Verdict is never partially populated downstream.
type Verdict struct {
	IsAppropriate     bool     `json:"is_appropriate"`
	Categories        []string `json:"categories"`
	Severity          Severity `json:"severity"`
	Confidence        float64  `json:"confidence"`
	Flags             []string `json:"flags"`
	DetectedLanguage  string   `json:"detected_language"`
	RecommendedAction Action   `json:"recommended_action"`
}
