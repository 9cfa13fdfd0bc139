package ratelimit

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pulsebrief/newsletter-api/internal/token"
)

// KeyFor attributes the request's budget to the authenticated subject when
// a valid bearer token is present, otherwise to the client address. A
// failing or expired token counts as no token here; whether the request is
// authorized is decided separately downstream.
func KeyFor(c echo.Context, tokens *token.Service) string {
	if raw := bearerToken(c); raw != "" && tokens != nil {
		if claims, ok := tokens.Verify(raw); ok && claims.Subject != "" {
			return "user:" + claims.Subject
		}
	}
	return IPKey(c)
}

func IPKey(c echo.Context) string {
	host := c.RealIP()
	if host == "" {
		host = "unknown"
	}
	return "ip:" + host
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
