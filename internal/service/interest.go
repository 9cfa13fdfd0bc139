package service

import (
	"context"

	"github.com/pulsebrief/newsletter-api/internal/llm"
	"github.com/pulsebrief/newsletter-api/internal/logging"
	"github.com/pulsebrief/newsletter-api/internal/models"
	"github.com/pulsebrief/newsletter-api/internal/repo"
	"github.com/pulsebrief/newsletter-api/internal/sanitize"
)

type InterestService struct {
	Repo *repo.Repo
	LLM  llm.Client
}

// ExtractInterests sanitizes the prompt and asks the LLM for a structured
// result. Sanitizer and LLM sentinels pass through for the boundary to map.
// The result is returned to the caller, not written back to interest rows.
func (s *InterestService) ExtractInterests(ctx context.Context, prompt string) (*llm.ExtractionResult, error) {
	l := logging.FromContext(ctx).With("svc", "interest.extract")

	clean, err := sanitize.Sanitize(prompt)
	if err != nil {
		l.Warn("prompt rejected", "error", err)
		return nil, err
	}
	if clean != prompt {
		l.Info("sanitized prompt input", "original_length", len(prompt), "sanitized_length", len(clean))
	}

	result, err := s.LLM.ExtractInterests(ctx, clean)
	if err != nil {
		l.Error("extraction failed", "error", err)
		return nil, err
	}
	l.Info("extraction complete", "add", len(result.AddInterests), "remove", len(result.RemoveInterests))
	return result, nil
}

func (s *InterestService) ListInterests(ctx context.Context, userID uint) ([]models.Interest, error) {
	return s.Repo.ListInterests(ctx, userID)
}
