package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/pulsebrief/newsletter-api/internal/hash"
	"github.com/pulsebrief/newsletter-api/internal/models"
	"github.com/pulsebrief/newsletter-api/internal/service"
)

type AuthHandler struct {
	Auth *service.AuthService
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusUnprocessableEntity, CodeValidationError, "Request validation failed")
	}
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return err
	}

	user, err := h.Auth.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			return apiError(http.StatusBadRequest, CodeUserExists, "Email already registered")
		case errors.Is(err, hash.ErrPasswordTooLong):
			return apiError(http.StatusUnprocessableEntity, CodePasswordTooLong, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusUnprocessableEntity, CodeValidationError, "Request validation failed")
	}
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return err
	}

	result, err := h.Auth.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return apiError(http.StatusUnauthorized, CodeInvalidCredentials, "Incorrect email or password")
		case errors.Is(err, hash.ErrPasswordTooLong):
			return apiError(http.StatusUnprocessableEntity, CodePasswordTooLong, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, accessTokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, toUserResponse(currentUser(c)))
}

type deleteUserResponse struct {
	DeletedUserID uint `json:"deleted_user_id"`
}

func (h *AuthHandler) DeleteMe(c echo.Context) error {
	deletedID, err := h.Auth.DeleteAccount(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteUserResponse{DeletedUserID: deletedID})
}

const (
	maxEmailLength    = 320
	minPasswordLength = 8
	maxPasswordLength = 50
)

// validateCredentials enforces the request-shape bounds shared by register
// and login. The 50-character password cap keeps most inputs under the
// 72-byte bcrypt ceiling; multibyte passwords that still exceed it are
// rejected by the hasher with password_too_long.
func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") || len(email) > maxEmailLength {
		return apiError(http.StatusUnprocessableEntity, CodeValidationError, "A valid email address is required")
	}
	if n := utf8.RuneCountInString(password); n < minPasswordLength || n > maxPasswordLength {
		return apiError(http.StatusUnprocessableEntity, CodeValidationError, "Password must be between 8 and 50 characters")
	}
	return nil
}
