// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vision generates page notes through a vision-capable model.
// Implements the OpenRouter chat-completions backend; the Backend interface
// lets the driver run against a mock in tests.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/study-notes/pkg/types"
)

// openRouterURL is the chat completions endpoint. Package-level var for test
// substitution.
var openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

// Request carries everything the backend needs for one page.
type Request struct {
	// SystemPrompt is the run-level directive (course, book, rules).
	SystemPrompt string

	// UserPrompt is the per-page prompt containing the extracted text.
	UserPrompt string

	// Image is the rendered PNG of the page, or nil for text-only requests.
	Image []byte
}

// Backend produces the markdown note body for one page.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// OpenRouterBackend calls the OpenRouter chat completions API. It fails
// loudly on any non-success response so the driver can count the page as
// errored instead of recording degraded output.
type OpenRouterBackend struct {
	APIKey    string
	Model     string
	MaxTokens int
	Client    *http.Client
}

// NewOpenRouterBackend builds a backend from the AI configuration.
func NewOpenRouterBackend(cfg types.AIConfig) *OpenRouterBackend {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	client := &http.Client{Timeout: cfg.Timeout}
	return &OpenRouterBackend{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		MaxTokens: maxTokens,
		Client:    client,
	}
}

// chatRequest is the request body for the chat completions API.
type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

// chatMessage is one message in the conversation. Content is either a plain
// string or a list of content parts when an image is attached.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// contentPart is one element of a multimodal user message.
type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// chatResponse is the response body from the chat completions API.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one page to the model and returns the markdown note body.
func (b *OpenRouterBackend) Generate(ctx context.Context, req Request) (string, error) {
	var userContent any = req.UserPrompt
	if len(req.Image) > 0 {
		dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(req.Image)
		userContent = []contentPart{
			{Type: "text", Text: req.UserPrompt},
			{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
		}
	}

	body := chatRequest{
		Model:     b.Model,
		MaxTokens: b.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: userContent},
		},
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, openRouterURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.APIKey)
	httpReq.Header.Set("X-Title", "Notes Extractor")

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling OpenRouter API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OpenRouter API returned %d: %s", resp.StatusCode, string(detail))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding OpenRouter response: %w", err)
	}

	if cResp.Error != nil {
		return "", fmt.Errorf("OpenRouter error %d: %s", cResp.Error.Code, cResp.Error.Message)
	}
	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("OpenRouter API returned no choices")
	}

	return cResp.Choices[0].Message.Content, nil
}
