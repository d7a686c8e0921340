package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrClassifierUnavailable signals a transport-level failure reaching the
// classification service. Callers may retry with backoff; the pipeline
// itself never does.
var ErrClassifierUnavailable = errors.New("classifier unavailable")

// StatusError is returned when the classification service answers with a
// non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("classifier returned status %d", e.Code)
}

// Classifier produces a raw verdict payload for a piece of content. The
// payload is expected to be JSON but is not validated here; the normalizer
// owns that concern.
type Classifier interface {
	Classify(ctx context.Context, content, contentType string, mediaURLs []string) ([]byte, error)
}

// HTTPClassifier calls an Anthropic-style messages endpoint with a fixed
// instruction template requesting a strict JSON verdict.
type HTTPClassifier struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewHTTPClassifier builds a classifier against the given endpoint. A zero
// timeout falls back to 30 seconds.
func NewHTTPClassifier(baseURL, apiKey, model string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

const instructionTemplate = `You are a content moderation classifier for a creator/fan social platform.
Analyze the content below and respond with ONLY a JSON object, no prose, matching exactly:
{
  "is_appropriate": boolean,
  "categories": string[],
  "severity": "low" | "medium" | "high" | "critical",
  "confidence": number between 0.0 and 1.0,
  "flags": string[],
  "detected_language": "IETF language code",
  "recommended_action": "approved" | "warning" | "shadow_ban" | "content_removed" | "manual_review"
}
Allowed categories: %s.

Content type: %s
Media URLs: %s
Content:
%s`

// Classify sends one bounded request and returns the raw response text.
func (c *HTTPClassifier) Classify(ctx context.Context, content, contentType string, mediaURLs []string) ([]byte, error) {
	prompt := fmt.Sprintf(instructionTemplate,
		strings.Join(Categories, ", "),
		contentType,
		strings.Join(mediaURLs, ", "),
		content,
	)

	body, err := json.Marshal(messageRequest{
		Model:     c.model,
		MaxTokens: 1024,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode classifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var mr messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode classifier envelope: %w", err)
	}

	var text strings.Builder
	for _, block := range mr.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return []byte(text.String()), nil
}
