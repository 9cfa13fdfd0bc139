package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pulsebrief/newsletter-api/internal/models"
)

func (r *Repo) CreateNewsletter(ctx context.Context, userID uint, title string) (*models.Newsletter, error) {
	newsletter := models.Newsletter{UserID: userID, Title: title}
	if err := r.DB.WithContext(ctx).Create(&newsletter).Error; err != nil {
		return nil, err
	}
	return &newsletter, nil
}

func (r *Repo) GetNewsletter(ctx context.Context, id uint) (*models.Newsletter, error) {
	var newsletter models.Newsletter
	if err := r.DB.WithContext(ctx).First(&newsletter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &newsletter, nil
}

func (r *Repo) ListNewsletters(ctx context.Context, userID uint) ([]models.Newsletter, error) {
	var newsletters []models.Newsletter
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&newsletters).Error; err != nil {
		return nil, err
	}
	return newsletters, nil
}

// AddContentItem stores one piece of newsletter content. Source URLs are
// globally unique; a duplicate insert is reported as ErrDuplicateContent.
func (r *Repo) AddContentItem(ctx context.Context, newsletterID uint, interest, sourceURL, summary string) (*models.ContentItem, error) {
	item := models.ContentItem{
		NewsletterID: newsletterID,
		Interest:     interest,
		SourceURL:    sourceURL,
		Summary:      summary,
	}
	if err := r.DB.WithContext(ctx).Create(&item).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateContent
		}
		return nil, err
	}
	return &item, nil
}

func (r *Repo) ListContentItems(ctx context.Context, newsletterID uint) ([]models.ContentItem, error) {
	var items []models.ContentItem
	if err := r.DB.WithContext(ctx).
		Where("newsletter_id = ?", newsletterID).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
