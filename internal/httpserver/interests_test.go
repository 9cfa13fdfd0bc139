package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsebrief/newsletter-api/internal/llm"
)

type stubLLM struct {
	result *llm.ExtractionResult
	err    error
}

func (s *stubLLM) ExtractInterests(_ context.Context, _ string) (*llm.ExtractionResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func registerAndLogin(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()

	creds := map[string]string{"email": email, "password": "Password123!"}
	rec := doJSON(e, http.MethodPost, "/api/auth/register", "", "", creds)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/api/auth/login", "", "", creds)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	return login.AccessToken
}

func TestExtract_Success(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, &stubLLM{result: &llm.ExtractionResult{
		AddInterests:    []string{"Go concurrency"},
		RemoveInterests: []string{"PHP"},
	}})
	bearer := registerAndLogin(t, e, "a@example.com")

	rec := doJSON(e, http.MethodPost, "/api/interests/extract", bearer, "",
		map[string]string{"prompt": "I like Go concurrency, drop PHP"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"add_interests":["Go concurrency"],"remove_interests":["PHP"]}`, rec.Body.String())
}

func TestExtract_RequiresAuth(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, &stubLLM{})
	rec := doJSON(e, http.MethodPost, "/api/interests/extract", "", "",
		map[string]string{"prompt": "anything"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, CodeUnauthorized, errorCode(t, rec))
}

func TestExtract_InvalidPrompt(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, &stubLLM{})
	bearer := registerAndLogin(t, e, "a@example.com")

	rec := doJSON(e, http.MethodPost, "/api/interests/extract", bearer, "",
		map[string]string{"prompt": "Check https://example.com for updates"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidPrompt, errorCode(t, rec))
}

func TestExtract_PromptLengthBound(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, &stubLLM{result: &llm.ExtractionResult{}})
	bearer := registerAndLogin(t, e, "a@example.com")

	rec := doJSON(e, http.MethodPost, "/api/interests/extract", bearer, "",
		map[string]string{"prompt": strings.Repeat("a", 501)})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, CodeValidationError, errorCode(t, rec))

	// Exactly 500 characters is still accepted.
	rec = doJSON(e, http.MethodPost, "/api/interests/extract", bearer, "",
		map[string]string{"prompt": strings.Repeat("a", 500)})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestExtract_LLMFailureMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		llmErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "unavailable", llmErr: llm.ErrUnavailable, wantStatus: http.StatusServiceUnavailable, wantCode: CodeLLMUnavailable},
		{name: "auth failed", llmErr: llm.ErrAuthFailed, wantStatus: http.StatusBadGateway, wantCode: CodeLLMAuthFailed},
		{name: "invalid response", llmErr: llm.ErrInvalidResponse, wantStatus: http.StatusBadGateway, wantCode: CodeLLMInvalid},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newTestServer(t, &stubLLM{err: tt.llmErr})
			bearer := registerAndLogin(t, e, "a@example.com")

			rec := doJSON(e, http.MethodPost, "/api/interests/extract", bearer, "",
				map[string]string{"prompt": "a clean prompt"})
			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
		})
	}
}

func TestExtract_RateLimitPerSubject(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, &stubLLM{result: &llm.ExtractionResult{}})
	first := registerAndLogin(t, e, "a@example.com")
	second := registerAndLogin(t, e, "b@example.com")

	// 5/minute per subject; the source address varies and must not matter.
	for i := 0; i < 5; i++ {
		addr := fmt.Sprintf("10.0.0.%d:1234", i+1)
		rec := doJSON(e, http.MethodPost, "/api/interests/extract", first, addr,
			map[string]string{"prompt": "a clean prompt"})
		require.Equal(t, http.StatusOK, rec.Code, "request %d: %s", i+1, rec.Body.String())
	}

	rec := doJSON(e, http.MethodPost, "/api/interests/extract", first, "10.0.0.99:1234",
		map[string]string{"prompt": "a clean prompt"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, CodeRateLimited, errorCode(t, rec))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// A different subject from an already-limited address has its own budget.
	rec = doJSON(e, http.MethodPost, "/api/interests/extract", second, "10.0.0.99:1234",
		map[string]string{"prompt": "a clean prompt"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRegister_RateLimitPerIP(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, nil)

	// 5/minute keyed by client address.
	for i := 0; i < 5; i++ {
		rec := doJSON(e, http.MethodPost, "/api/auth/register", "", "203.0.113.7:999",
			map[string]string{"email": fmt.Sprintf("user%d@example.com", i), "password": "Password123!"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(e, http.MethodPost, "/api/auth/register", "", "203.0.113.7:999",
		map[string]string{"email": "user6@example.com", "password": "Password123!"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, CodeRateLimited, errorCode(t, rec))

	// Another address is unaffected.
	rec = doJSON(e, http.MethodPost, "/api/auth/register", "", "203.0.113.8:999",
		map[string]string{"email": "user7@example.com", "password": "Password123!"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListInterests_EmptyByDefault(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, nil)
	bearer := registerAndLogin(t, e, "a@example.com")

	rec := doJSON(e, http.MethodGet, "/api/interests", bearer, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
