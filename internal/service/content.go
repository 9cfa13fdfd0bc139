package service

import (
	"context"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/pulsebrief/newsletter-api/internal/logging"
	"github.com/pulsebrief/newsletter-api/internal/models"
	"github.com/pulsebrief/newsletter-api/internal/repo"
	"github.com/pulsebrief/newsletter-api/internal/service/search"
)

// Repo sentinels mirrored at the service boundary.
var (
	ErrNotFound         = repo.ErrNotFound
	ErrDuplicateContent = repo.ErrDuplicateContent
)

// ContentService manages newsletters and their content items. Persisted
// content is mirrored into the search index when elasticsearch is
// configured; indexing is best-effort and never fails the write.
type ContentService struct {
	Repo  *repo.Repo
	ES    *elasticsearch.Client
	Index string
}

func (s *ContentService) CreateNewsletter(ctx context.Context, userID uint, title string) (*models.Newsletter, error) {
	return s.Repo.CreateNewsletter(ctx, userID, title)
}

func (s *ContentService) ListNewsletters(ctx context.Context, userID uint) ([]models.Newsletter, error) {
	return s.Repo.ListNewsletters(ctx, userID)
}

// AddContentItem stores one content item under a newsletter the user owns.
// A newsletter owned by someone else is reported as ErrNotFound, the same as
// a missing one.
func (s *ContentService) AddContentItem(ctx context.Context, userID, newsletterID uint, interest, sourceURL, summary string) (*models.ContentItem, error) {
	if err := s.checkOwnership(ctx, userID, newsletterID); err != nil {
		return nil, err
	}

	item, err := s.Repo.AddContentItem(ctx, newsletterID, interest, sourceURL, summary)
	if err != nil {
		return nil, err
	}

	if s.ES != nil {
		if err := search.IndexContentItem(ctx, s.ES, s.Index, item); err != nil {
			logging.FromContext(ctx).Error("content item indexing failed", "item_id", item.ID, "error", err)
		}
	}
	return item, nil
}

func (s *ContentService) ListContentItems(ctx context.Context, userID, newsletterID uint) ([]models.ContentItem, error) {
	if err := s.checkOwnership(ctx, userID, newsletterID); err != nil {
		return nil, err
	}
	return s.Repo.ListContentItems(ctx, newsletterID)
}

func (s *ContentService) checkOwnership(ctx context.Context, userID, newsletterID uint) error {
	newsletter, err := s.Repo.GetNewsletter(ctx, newsletterID)
	if err != nil {
		return err
	}
	if newsletter.UserID != userID {
		return ErrNotFound
	}
	return nil
}
