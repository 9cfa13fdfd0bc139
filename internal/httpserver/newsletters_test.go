package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsletters_ContentFlow(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, nil)
	bearer := registerAndLogin(t, e, "a@example.com")

	rec := doJSON(e, http.MethodPost, "/api/newsletters", bearer, "",
		map[string]string{"title": "Weekly Go"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	assert.Equal(t, "Weekly Go", created.Title)

	rec = doJSON(e, http.MethodGet, "/api/newsletters", bearer, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	contentPath := fmt.Sprintf("/api/newsletters/%d/content", created.ID)
	rec = doJSON(e, http.MethodPost, contentPath, bearer, "", map[string]string{
		"interest":   "go",
		"source_url": "https://blog.example/post-1",
		"summary":    "a post",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Same source URL again conflicts.
	rec = doJSON(e, http.MethodPost, contentPath, bearer, "", map[string]string{
		"interest":   "go generics",
		"source_url": "https://blog.example/post-1",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", errorCode(t, rec))

	rec = doJSON(e, http.MethodGet, contentPath, bearer, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []struct {
		SourceURL string `json:"source_url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "https://blog.example/post-1", items[0].SourceURL)
}

func TestNewsletters_OwnershipHidden(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, nil)
	owner := registerAndLogin(t, e, "a@example.com")
	intruder := registerAndLogin(t, e, "b@example.com")

	rec := doJSON(e, http.MethodPost, "/api/newsletters", owner, "",
		map[string]string{"title": "Weekly Go"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	contentPath := fmt.Sprintf("/api/newsletters/%d/content", created.ID)
	rec = doJSON(e, http.MethodPost, contentPath, intruder, "", map[string]string{
		"interest":   "go",
		"source_url": "https://blog.example/post-1",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))

	rec = doJSON(e, http.MethodGet, contentPath, intruder, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewsletters_Validation(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, nil)
	bearer := registerAndLogin(t, e, "a@example.com")

	rec := doJSON(e, http.MethodPost, "/api/newsletters", bearer, "",
		map[string]string{"title": "   "})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, CodeValidationError, errorCode(t, rec))

	rec = doJSON(e, http.MethodPost, "/api/newsletters/not-a-number/content", bearer, "",
		map[string]string{"interest": "go", "source_url": "https://blog.example/x"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, CodeValidationError, errorCode(t, rec))

	rec = doJSON(e, http.MethodPost, "/api/newsletters", "", "",
		map[string]string{"title": "Weekly Go"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
