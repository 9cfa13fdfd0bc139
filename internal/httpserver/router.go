package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pulsebrief/newsletter-api/internal/ratelimit"
	"github.com/pulsebrief/newsletter-api/internal/service"
	"github.com/pulsebrief/newsletter-api/internal/token"
)

type Deps struct {
	AuthHandler       *AuthHandler
	InterestHandler   *InterestHandler
	NewsletterHandler *NewsletterHandler
	SearchHandler     *SearchHandler
	Limiter           ratelimit.Limiter
	Tokens            *token.Service
	Auth              *service.AuthService
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	ipKey := func(c echo.Context) string { return ratelimit.IPKey(c) }
	userOrIPKey := func(c echo.Context) string { return ratelimit.KeyFor(c, d.Tokens) }
	limit := func(name string, l ratelimit.Limit, key ratelimit.KeyFunc) echo.MiddlewareFunc {
		return ratelimit.Middleware(d.Limiter, name, l, key)
	}

	// Routes with a named limit override the default budget; everything
	// else shares "default".
	defaultLimit := limit("default", ratelimit.DefaultLimit, userOrIPKey)

	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}, limit("health", ratelimit.HealthLimit, ipKey))

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register, limit("register", ratelimit.RegisterLimit, ipKey))
	auth.POST("/login", d.AuthHandler.Login, limit("login", ratelimit.LoginLimit, ipKey))
	auth.GET("/me", d.AuthHandler.Me, defaultLimit, RequireAuth(d.Auth))
	auth.DELETE("/me", d.AuthHandler.DeleteMe,
		limit("delete", ratelimit.DeleteLimit, userOrIPKey), RequireAuth(d.Auth))

	interests := api.Group("/interests")
	interests.POST("/extract", d.InterestHandler.Extract,
		limit("extract", ratelimit.ExtractLimit, userOrIPKey), RequireAuth(d.Auth))
	interests.GET("", d.InterestHandler.List, defaultLimit, RequireAuth(d.Auth))

	newsletters := api.Group("/newsletters", defaultLimit, RequireAuth(d.Auth))
	newsletters.POST("", d.NewsletterHandler.Create)
	newsletters.GET("", d.NewsletterHandler.List)
	newsletters.POST("/:id/content", d.NewsletterHandler.AddContent)
	newsletters.GET("/:id/content", d.NewsletterHandler.ListContent)

	api.GET("/content/search", d.SearchHandler.Search, defaultLimit, RequireAuth(d.Auth))
}
