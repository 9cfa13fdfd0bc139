package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pulsebrief/newsletter-api/internal/logging"
)

// ErrorBody is the uniform error payload. Error is one of the closed code
// vocabulary; clients never need to pattern-match on Message.
type ErrorBody struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Stable machine-readable error codes.
const (
	CodeUserExists         = "user_exists"
	CodePasswordTooLong    = "password_too_long"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthorized       = "unauthorized"
	CodeInvalidPrompt      = "invalid_prompt"
	CodeValidationError    = "validation_error"
	CodeRateLimited        = "rate_limited"
	CodeLLMUnavailable     = "llm_unavailable"
	CodeLLMAuthFailed      = "llm_auth_failed"
	CodeLLMInvalid         = "llm_response_invalid"
)

var codeByStatus = map[int]string{
	http.StatusBadRequest:          "bad_request",
	http.StatusUnauthorized:        CodeUnauthorized,
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "not_found",
	http.StatusConflict:            "conflict",
	http.StatusUnprocessableEntity: CodeValidationError,
	http.StatusTooManyRequests:     CodeRateLimited,
	http.StatusInternalServerError: "internal_error",
	http.StatusServiceUnavailable:  "service_unavailable",
	http.StatusBadGateway:          "bad_gateway",
}

func apiError(status int, code, message string) *echo.HTTPError {
	return echo.NewHTTPError(status, ErrorBody{Error: code, Message: message})
}

// ErrorHandler renders every error as an ErrorBody. Errors raised without
// an explicit code (framework 404s, rate-limit denials, panics caught by
// Recover) get the code their status maps to.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := ErrorBody{}

	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		switch m := he.Message.(type) {
		case ErrorBody:
			body = m
		case string:
			body = ErrorBody{Error: statusCode(status), Message: m}
		default:
			body = ErrorBody{Error: statusCode(status), Message: http.StatusText(status)}
		}
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled error", "error", err)
		body = ErrorBody{Error: statusCode(status), Message: http.StatusText(status)}
	}

	if status == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("writing error response", "error", werr)
	}
}

func statusCode(status int) string {
	if code, ok := codeByStatus[status]; ok {
		return code
	}
	return "error"
}
