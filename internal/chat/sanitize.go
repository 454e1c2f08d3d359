package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sanitizer failures are recoverable; callers surface a "let me try again"
// style reply instead of crashing the turn.
var (
	ErrNoPayload        = errors.New("no structured payload in response")
	ErrMalformedPayload = errors.New("malformed payload in response")
)

const (
	defaultTitle = "AI Response"
	defaultBody  = "Processing your request..."
)

// ParseReply recovers a single JSON object from a raw generation response.
// The generator is asked for pure JSON but routinely wraps it in code fences
// or commentary, so the text is progressively narrowed: fence-aware line
// trimming first, then a greedy first-{ to last-} span.
func ParseReply(raw string) (*Reply, error) {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		start, end := 0, len(lines)-1
		for i, line := range lines {
			if strings.HasPrefix(strings.TrimSpace(line), "{") {
				start = i
				break
			}
		}
		for i := len(lines) - 1; i >= 0; i-- {
			if strings.HasSuffix(strings.TrimSpace(lines[i]), "}") {
				end = i
				break
			}
		}
		if start <= end {
			text = strings.Join(lines[start:end+1], "\n")
		}
	}

	if !strings.HasPrefix(text, "{") {
		first := strings.Index(text, "{")
		last := strings.LastIndex(text, "}")
		if first == -1 || last == -1 || last < first {
			return nil, ErrNoPayload
		}
		text = text[first : last+1]
	}

	var reply Reply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	// Minimal contract: every parsed reply has an action, title and body.
	if reply.Action == "" {
		reply.Action = string(ActionShowInfo)
	}
	if reply.Title == "" {
		reply.Title = defaultTitle
	}
	if reply.Body == "" {
		reply.Body = defaultBody
	}

	return &reply, nil
}
