package repo

import (
	"context"

	"github.com/pulsebrief/newsletter-api/internal/models"
)

// UpsertInterest reactivates an existing interest with the same name or
// creates a new one. Names are unique per user.
func (r *Repo) UpsertInterest(ctx context.Context, userID uint, name string) (*models.Interest, error) {
	var interest models.Interest
	tx := r.DB.WithContext(ctx).
		Where(models.Interest{UserID: userID, Name: name}).
		Attrs(models.Interest{Active: true}).
		FirstOrCreate(&interest)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			// Lost a race with a concurrent insert of the same name.
			return r.getInterest(ctx, userID, name)
		}
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 && !interest.Active {
		if err := r.DB.WithContext(ctx).Model(&interest).Update("active", true).Error; err != nil {
			return nil, err
		}
		interest.Active = true
	}
	return &interest, nil
}

func (r *Repo) getInterest(ctx context.Context, userID uint, name string) (*models.Interest, error) {
	var interest models.Interest
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&interest).Error; err != nil {
		return nil, err
	}
	return &interest, nil
}

func (r *Repo) DeactivateInterest(ctx context.Context, userID uint, name string) error {
	return r.DB.WithContext(ctx).
		Model(&models.Interest{}).
		Where("user_id = ? AND name = ?", userID, name).
		Update("active", false).Error
}

func (r *Repo) ListInterests(ctx context.Context, userID uint) ([]models.Interest, error) {
	var interests []models.Interest
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("id").
		Find(&interests).Error; err != nil {
		return nil, err
	}
	return interests, nil
}
