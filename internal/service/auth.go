package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/pulsebrief/newsletter-api/internal/events"
	"github.com/pulsebrief/newsletter-api/internal/hash"
	"github.com/pulsebrief/newsletter-api/internal/logging"
	"github.com/pulsebrief/newsletter-api/internal/models"
	"github.com/pulsebrief/newsletter-api/internal/repo"
	"github.com/pulsebrief/newsletter-api/internal/token"
)

var (
	// ErrUserExists mirrors the repo sentinel at the service boundary.
	ErrUserExists = repo.ErrUserExists

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two are not distinguishable from outside.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrUnauthorized is the single outcome for every token-resolution
	// failure: bad signature, expired, non-integer subject, deleted user.
	ErrUnauthorized = errors.New("could not validate credentials")
)

type AuthService struct {
	Repo     *repo.Repo
	Tokens   *token.Service
	Producer *events.Producer
}

type LoginResult struct {
	User        *models.User
	AccessToken string
}

// Register creates a new account. The advisory existence check keeps the
// common case cheap; the uniqueness catch in the repo covers two
// registrations for the same email racing past it.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		l.Warn("register rejected", "reason", "user_exists")
		return nil, ErrUserExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.Repo.CreateUser(ctx, email, pwHash)
	if err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			l.Warn("register rejected", "reason", "user_exists_race")
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.publish(ctx, "user_registered", user.ID, user.Email)
	l.Info("register success", "user_id", user.ID)
	return user, nil
}

// Authenticate checks the credentials and issues a bearer token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login failed", "reason", "invalid credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := hash.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		l.Warn("login failed", "reason", "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.Tokens.Issue(strconv.FormatUint(uint64(user.ID), 10))
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "user_logged_in", user.ID, user.Email)
	l.Info("login success", "user_id", user.ID)
	return &LoginResult{User: user, AccessToken: accessToken}, nil
}

// CurrentUser resolves a bearer token to a live user row. Every failure
// collapses to ErrUnauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, rawToken string) (*models.User, error) {
	claims, ok := s.Tokens.Verify(rawToken)
	if !ok {
		return nil, ErrUnauthorized
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.Repo.GetUserByID(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// DeleteAccount hard-deletes the user; owned rows go via cascade. Deleting
// an already-deleted id is the caller's concern.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uint) (uint, error) {
	l := logging.FromContext(ctx).With("svc", "auth.delete", "user_id", userID)

	if err := s.Repo.DeleteUser(ctx, userID); err != nil {
		return 0, err
	}

	s.publish(ctx, "user_deleted", userID, "")
	l.Info("account deleted")
	return userID, nil
}

func (s *AuthService) publish(ctx context.Context, eventType string, userID uint, email string) {
	if err := s.Producer.PublishUserEvent(ctx, eventType, userID, email); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "type", eventType, "error", err)
	}
}
