package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pulsebrief/newsletter-api/internal/models"
	"github.com/pulsebrief/newsletter-api/internal/service"
)

type NewsletterHandler struct {
	Content *service.ContentService
}

type createNewsletterRequest struct {
	Title string `json:"title"`
}

type newsletterResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

func toNewsletterResponse(n *models.Newsletter) newsletterResponse {
	return newsletterResponse{
		ID:        n.ID,
		Title:     n.Title,
		CreatedAt: n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *NewsletterHandler) Create(c echo.Context) error {
	var req createNewsletterRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusUnprocessableEntity, CodeValidationError, "Request validation failed")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || len(title) > 300 {
		return apiError(http.StatusUnprocessableEntity, CodeValidationError, "Title must be between 1 and 300 characters")
	}

	newsletter, err := h.Content.CreateNewsletter(c.Request().Context(), currentUser(c).ID, title)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toNewsletterResponse(newsletter))
}

func (h *NewsletterHandler) List(c echo.Context) error {
	newsletters, err := h.Content.ListNewsletters(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return err
	}
	out := make([]newsletterResponse, len(newsletters))
	for i := range newsletters {
		out[i] = toNewsletterResponse(&newsletters[i])
	}
	return c.JSON(http.StatusOK, out)
}

type addContentRequest struct {
	Interest  string `json:"interest"`
	SourceURL string `json:"source_url"`
	Summary   string `json:"summary"`
}

type contentItemResponse struct {
	ID           uint   `json:"id"`
	NewsletterID uint   `json:"newsletter_id"`
	Interest     string `json:"interest"`
	SourceURL    string `json:"source_url"`
	Summary      string `json:"summary"`
}

func toContentItemResponse(item *models.ContentItem) contentItemResponse {
	return contentItemResponse{
		ID:           item.ID,
		NewsletterID: item.NewsletterID,
		Interest:     item.Interest,
		SourceURL:    item.SourceURL,
		Summary:      item.Summary,
	}
}

func (h *NewsletterHandler) AddContent(c echo.Context) error {
	newsletterID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req addContentRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusUnprocessableEntity, CodeValidationError, "Request validation failed")
	}
	if strings.TrimSpace(req.Interest) == "" {
		return apiError(http.StatusUnprocessableEntity, CodeValidationError, "Interest must not be empty")
	}
	if req.SourceURL == "" || len(req.SourceURL) > 2048 {
		return apiError(http.StatusUnprocessableEntity, CodeValidationError, "A source URL of at most 2048 characters is required")
	}

	item, err := h.Content.AddContentItem(c.Request().Context(), currentUser(c).ID, newsletterID,
		req.Interest, req.SourceURL, req.Summary)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return apiError(http.StatusNotFound, "not_found", "Newsletter not found")
		case errors.Is(err, service.ErrDuplicateContent):
			return apiError(http.StatusConflict, "conflict", "Content item with this source URL already exists")
		}
		return err
	}
	return c.JSON(http.StatusCreated, toContentItemResponse(item))
}

func (h *NewsletterHandler) ListContent(c echo.Context) error {
	newsletterID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.Content.ListContentItems(c.Request().Context(), currentUser(c).ID, newsletterID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return apiError(http.StatusNotFound, "not_found", "Newsletter not found")
		}
		return err
	}
	out := make([]contentItemResponse, len(items))
	for i := range items {
		out[i] = toContentItemResponse(&items[i])
	}
	return c.JSON(http.StatusOK, out)
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apiError(http.StatusUnprocessableEntity, CodeValidationError, "Invalid id")
	}
	return uint(id), nil
}
