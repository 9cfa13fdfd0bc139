package llm

import (
	"context"
	"errors"
	"strings"
)

// The three failure categories the orchestration layer maps to externally
// visible error codes.
var (
	ErrUnavailable     = errors.New("llm service unavailable")
	ErrAuthFailed      = errors.New("llm authentication failed")
	ErrInvalidResponse = errors.New("llm returned an invalid response")
)

// ExtractionResult is the structured output of one extraction call. Both
// lists are trimmed, deduplicated and order-preserving.
type ExtractionResult struct {
	AddInterests    []string `json:"add_interests"`
	RemoveInterests []string `json:"remove_interests"`
}

type Client interface {
	ExtractInterests(ctx context.Context, prompt string) (*ExtractionResult, error)
}

func normalizeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}
