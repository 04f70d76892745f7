package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/chat/completions"
	defaultModel   = "gpt-4o-mini"
	requestTimeout = 20 * time.Second
)

// ErrNoProvider signals that no completion provider is configured. Callers
// degrade to their neutral defaults rather than surfacing this to clients.
var ErrNoProvider = errors.New("no AI provider configured")

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewClient creates a completion client. An empty apiKey yields a client
// that reports unavailable and serves mock responses.
func NewClient(apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// NewClientFromEnv reads OPENAI_API_KEY, OPENAI_BASE_URL and OPENAI_MODEL.
func NewClientFromEnv() *Client {
	return NewClient(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_BASE_URL"), os.Getenv("OPENAI_MODEL"))
}

// Available reports whether a real provider is configured.
func (c *Client) Available() bool {
	return c != nil && c.apiKey != ""
}

// Complete sends a single-prompt completion request. When no provider is
// configured it returns a deterministic mock response so development works
// without keys. One retry on transport or 5xx failure.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if !c.Available() {
		return mockResponse(prompt), nil
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		reply, retryable, err := c.complete(ctx, prompt, maxTokens)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return "", lastErr
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, bool, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr chatError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", resp.StatusCode >= 500, fmt.Errorf("completion API %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", resp.StatusCode >= 500, fmt.Errorf("completion API returned %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", false, err
	}
	if len(parsed.Choices) == 0 {
		return "", false, errors.New("completion API returned no choices")
	}
	return parsed.Choices[0].Message.Content, false, nil
}

var jsonBlock = regexp.MustCompile(`(?s)\{.*\}`)

// CompleteJSON asks for a JSON verdict and unmarshals it into out. Models
// sometimes wrap JSON in prose, so the first {...} block is extracted.
func (c *Client) CompleteJSON(ctx context.Context, prompt string, maxTokens int, out interface{}) error {
	reply, err := c.Complete(ctx, prompt+"\n\nRespond ONLY with valid JSON, no additional text.", maxTokens)
	if err != nil {
		return err
	}
	raw := jsonBlock.FindString(reply)
	if raw == "" {
		raw = reply
	}
	return json.Unmarshal([]byte(raw), out)
}

// mockResponse mirrors the keyless development behavior: canned verdicts
// keyed off the prompt so the rest of the system stays exercisable.
func mockResponse(prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "sentiment"):
		return `{"sentiment":"positive","sentimentScore":0.75,"summary":"Generally positive feedback with minor concerns.","extractedPros":["Good quality","Fast delivery"],"extractedCons":["Packaging could be better"],"isSpam":false,"spamScore":0}`
	case strings.Contains(lower, "fraud") || strings.Contains(lower, "suspicious"):
		return `{"isSuspicious":false,"suspicionScore":15,"flags":[],"recommendation":"approve","confidenceLevel":50}`
	default:
		return "I'm your Campus Marketplace assistant! I can help you find products, track orders, and answer questions about our platform. What would you like to know?"
	}
}
