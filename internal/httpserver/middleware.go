package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pulsebrief/newsletter-api/internal/models"
	"github.com/pulsebrief/newsletter-api/internal/service"
)

const currentUserKey = "current_user"

// RequireAuth resolves the bearer token to a user and stores it on the
// context. Missing header, bad token and deleted user all produce the same
// unauthorized outcome.
func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return apiError(http.StatusUnauthorized, CodeUnauthorized, "Could not validate credentials")
			}
			user, err := auth.CurrentUser(c.Request().Context(), raw)
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					return apiError(http.StatusUnauthorized, CodeUnauthorized, "Could not validate credentials")
				}
				return err
			}
			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

func currentUser(c echo.Context) *models.User {
	user, _ := c.Get(currentUserKey).(*models.User)
	return user
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	scheme, rest, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(rest)
}
