package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pulsebrief/newsletter-api/internal/logging"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// OpenAIClient talks to the chat-completions API over plain HTTP.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &OpenAIClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) ExtractInterests(ctx context.Context, prompt string) (*ExtractionResult, error) {
	l := logging.FromContext(ctx).With("svc", "llm.extract")

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: interestExtractionSystemPrompt},
			{Role: "user", Content: interestExtractionPrompt(prompt)},
		},
		// Lower temperature for more consistent extraction.
		Temperature: 0.3,
	}
	reqBody.ResponseFormat.Type = "json_object"

	buf, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("llm: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("llm: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Error("openai request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		l.Error("openai authentication failed", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		l.Error("openai unavailable", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		l.Error("openai unexpected status", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrInvalidResponse, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUnavailable, err)
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		l.Error("openai response undecodable", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		l.Error("openai response empty")
		return nil, fmt.Errorf("%w: empty completion", ErrInvalidResponse)
	}

	var result ExtractionResult
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &result); err != nil {
		l.Error("openai completion is not valid json", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	result.AddInterests = normalizeLabels(result.AddInterests)
	result.RemoveInterests = normalizeLabels(result.RemoveInterests)
	return &result, nil
}
