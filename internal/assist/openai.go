package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eduforums/internal/middleware"
	"eduforums/internal/observability"
)

// ClientConfig configures the OpenAI-compatible gateway client.
type ClientConfig struct {
	APIKey          string
	BaseURL         string
	ChatModel       string
	ModerationModel string
	Timeout         time.Duration
}

// Client implements Gateway against an OpenAI-compatible REST API.
type Client struct {
	httpClient      *http.Client
	apiKey          string
	baseURL         string
	chatModel       string
	moderationModel string
}

// NewClient creates a gateway client. The HTTP client carries a hard timeout
// so a hung provider cannot block a request indefinitely.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = "gpt-3.5-turbo"
	}
	moderationModel := cfg.ModerationModel
	if moderationModel == "" {
		moderationModel = "text-moderation-latest"
	}

	return &Client{
		httpClient:      &http.Client{Timeout: timeout},
		apiKey:          cfg.APIKey,
		baseURL:         baseURL,
		chatModel:       chatModel,
		moderationModel: moderationModel,
	}
}

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []struct {
		Flagged bool `json:"flagged"`
	} `json:"results"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Moderate classifies text against the provider's content policy.
func (c *Client) Moderate(ctx context.Context, text string) (bool, error) {
	var resp moderationResponse
	err := c.post(ctx, "moderate", "/moderations", moderationRequest{
		Model: c.moderationModel,
		Input: text,
	}, &resp)
	if err != nil {
		return false, err
	}
	if len(resp.Results) == 0 {
		return false, fmt.Errorf("moderation response contained no results")
	}
	return resp.Results[0].Flagged, nil
}

// Summarize asks the model for a one-sentence summary of the thread.
func (c *Client) Summarize(ctx context.Context, thread Thread) (string, error) {
	req := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are a helpful assistant that summarizes forum threads in a sentence max.",
			},
			{
				Role:    "user",
				Content: "Please provide a one sentence summary of the following forum thread:\n\n" + BuildThreadText(thread),
			},
		},
		Temperature: 0.7,
		MaxTokens:   150,
	}

	var resp chatResponse
	if err := c.post(ctx, "summarize", "/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summary response contained no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ClassifySentiment asks the model for a single-word sentiment label.
// Transport failures and unrecognized responses both degrade to the
// constructive default instead of failing the caller.
func (c *Client) ClassifySentiment(ctx context.Context, text string) (string, error) {
	req := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are a helpful assistant that classifies user feedback into exactly one of three categories: Positive, Constructive, or Negative.",
			},
			{
				Role:    "user",
				Content: fmt.Sprintf("Classify the sentiment of this single piece of feedback. Respond with only one word: Positive, Constructive, or Negative.\n\n%q", text),
			},
		},
		Temperature: 0,
		MaxTokens:   5,
	}

	var resp chatResponse
	if err := c.post(ctx, "sentiment", "/chat/completions", req, &resp); err != nil {
		middleware.Logger.WarnContext(ctx, "sentiment classification failed, using default label",
			slog.String("error", err.Error()))
		return SentimentConstructive, nil
	}
	if len(resp.Choices) == 0 {
		return SentimentConstructive, nil
	}
	return NormalizeSentiment(resp.Choices[0].Message.Content), nil
}

// post performs one JSON round trip against the provider.
func (c *Client) post(ctx context.Context, operation, path string, payload, out any) error {
	observability.AssistRequests.WithLabelValues(operation).Inc()
	start := time.Now()

	ctx, span := observability.TraceAssistCall(ctx, operation)
	defer span.End()

	err := c.doPost(ctx, path, payload, out)

	observability.AssistLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.AssistFailures.WithLabelValues(operation).Inc()
		span.RecordError(err)
	}
	return err
}

func (c *Client) doPost(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call assist service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Bounded read so a misbehaving provider cannot balloon memory.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("assist service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
