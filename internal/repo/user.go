package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pulsebrief/newsletter-api/internal/models"
)

// CreateUser inserts a new user row. A uniqueness violation on email is
// translated to ErrUserExists; any other storage error propagates as is.
func (r *Repo) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	user := models.User{Email: email, PasswordHash: passwordHash}
	if err := r.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// DeleteUser hard-deletes the user row. Owned interests and newsletters go
// with it: the foreign keys carry ON DELETE CASCADE, and the explicit
// deletes below keep stores without enforced foreign keys (the in-memory
// test database) consistent.
func (r *Repo) DeleteUser(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var newsletterIDs []uint
		if err := tx.Model(&models.Newsletter{}).Where("user_id = ?", id).Pluck("id", &newsletterIDs).Error; err != nil {
			return err
		}
		if len(newsletterIDs) > 0 {
			if err := tx.Where("newsletter_id IN ?", newsletterIDs).Delete(&models.ContentItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Newsletter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Interest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}
