package moderation

import (
	"bytes"
	"encoding/json"
)

// rawVerdict mirrors the JSON the classifier is instructed to emit, with
// pointer fields so absent and zero values are distinguishable.
type rawVerdict struct {
	IsAppropriate     *bool    `json:"is_appropriate"`
	Categories        []string `json:"categories"`
	Severity          string   `json:"severity"`
	Confidence        *float64 `json:"confidence"`
	Flags             []string `json:"flags"`
	DetectedLanguage  string   `json:"detected_language"`
	RecommendedAction string   `json:"recommended_action"`
}

// failClosedVerdict is the conservative default used when the classifier
// response cannot be parsed at all. A classifier that fails to respond
// sensibly must never default to approved.
func failClosedVerdict(reason string) Verdict {
	return Verdict{
		IsAppropriate:     false,
		Categories:        []string{},
		Severity:          SeverityMedium,
		Confidence:        0.5,
		Flags:             []string{reason},
		DetectedLanguage:  "en",
		RecommendedAction: ActionManualReview,
	}
}

// NormalizeVerdict turns a raw, possibly malformed classifier payload into
// a fully populated Verdict. It never returns an error: invalid JSON falls
// back to the fail-closed default, and every missing field in a partial
// payload gets an individual conservative default.
func NormalizeVerdict(raw []byte) Verdict {
	payload := extractJSONObject(raw)
	if payload == nil {
		return failClosedVerdict("classifier response contained no JSON object")
	}

	var rv rawVerdict
	if err := json.Unmarshal(payload, &rv); err != nil {
		return failClosedVerdict("classifier response was not valid JSON: " + err.Error())
	}

	v := Verdict{
		Categories:       []string{},
		Flags:            []string{},
		DetectedLanguage: "en",
	}

	if rv.IsAppropriate != nil {
		v.IsAppropriate = *rv.IsAppropriate
	}
	if rv.Categories != nil {
		v.Categories = rv.Categories
	}
	if rv.Flags != nil {
		v.Flags = rv.Flags
	}
	if rv.DetectedLanguage != "" {
		v.DetectedLanguage = rv.DetectedLanguage
	}

	sev, ok := ParseSeverity(rv.Severity)
	v.Severity = sev
	if !ok && rv.Severity != "" {
		v.Flags = append(v.Flags, "unknown severity value: "+rv.Severity)
	}

	if rv.Confidence != nil {
		v.Confidence = clamp01(*rv.Confidence)
	} else {
		v.Confidence = 0.5
	}

	action, ok := ParseAction(rv.RecommendedAction)
	v.RecommendedAction = action
	if !ok && rv.RecommendedAction != "" {
		v.Flags = append(v.Flags, "unknown recommended action: "+rv.RecommendedAction)
	}

	return v
}

// extractJSONObject returns the outermost {...} span in the payload.
// Language models habitually wrap their JSON in code fences or prose.
func extractJSONObject(raw []byte) []byte {
	start := bytes.IndexByte(raw, '{')
	end := bytes.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return nil
	}
	return raw[start : end+1]
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
