package httpserver

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/pulsebrief/newsletter-api/internal/llm"
	"github.com/pulsebrief/newsletter-api/internal/sanitize"
	"github.com/pulsebrief/newsletter-api/internal/service"
)

const maxPromptLength = 500

type InterestHandler struct {
	Interests *service.InterestService
}

type extractRequest struct {
	Prompt string `json:"prompt"`
}

type extractResponse struct {
	AddInterests    []string `json:"add_interests"`
	RemoveInterests []string `json:"remove_interests"`
}

func (h *InterestHandler) Extract(c echo.Context) error {
	var req extractRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusUnprocessableEntity, CodeValidationError, "Request validation failed")
	}
	if req.Prompt == "" {
		return apiError(http.StatusUnprocessableEntity, CodeValidationError, "Prompt must not be empty")
	}
	if utf8.RuneCountInString(req.Prompt) > maxPromptLength {
		return apiError(http.StatusUnprocessableEntity, CodeValidationError, "Prompt must not exceed 500 characters")
	}

	result, err := h.Interests.ExtractInterests(c.Request().Context(), req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, sanitize.ErrInvalidPrompt):
			return apiError(http.StatusBadRequest, CodeInvalidPrompt, err.Error())
		case errors.Is(err, llm.ErrAuthFailed):
			return apiError(http.StatusBadGateway, CodeLLMAuthFailed, "LLM authentication failed")
		case errors.Is(err, llm.ErrInvalidResponse):
			return apiError(http.StatusBadGateway, CodeLLMInvalid, "LLM returned an invalid response")
		case errors.Is(err, llm.ErrUnavailable):
			return apiError(http.StatusServiceUnavailable, CodeLLMUnavailable, "LLM service unavailable")
		}
		return err
	}
	return c.JSON(http.StatusOK, extractResponse{
		AddInterests:    result.AddInterests,
		RemoveInterests: result.RemoveInterests,
	})
}

type interestResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func (h *InterestHandler) List(c echo.Context) error {
	interests, err := h.Interests.ListInterests(c.Request().Context(), currentUser(c).ID)
	if err != nil {
		return err
	}
	out := make([]interestResponse, len(interests))
	for i, interest := range interests {
		out[i] = interestResponse{ID: interest.ID, Name: interest.Name, Active: interest.Active}
	}
	return c.JSON(http.StatusOK, out)
}
