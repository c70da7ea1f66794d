package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sheetchat/domain/chat"
	"sheetchat/internal"
	"sheetchat/internal/errors"
	"sheetchat/ports"

	"github.com/go-resty/resty/v2"
)

const providerOpenAI = "openai"

// Config holds the completion service connection settings
type Config struct {
	APIKey  string
	BaseURL string
	// Timeout of zero leaves the HTTP client's default in place
	Timeout time.Duration
}

// OpenAIClient implements ports.CompletionClient against the Chat Completions API
type OpenAIClient struct {
	apiKey string
	http   *resty.Client
	logger *internal.Logger
}

// NewOpenAIClient builds a client. A missing API key is not an error here; every
// call then fails with an external service error instead.
func NewOpenAIClient(config Config) *OpenAIClient {
	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetHeader("Content-Type", "application/json")
	if config.Timeout > 0 {
		client.SetTimeout(config.Timeout)
	}

	return &OpenAIClient{
		apiKey: strings.TrimSpace(config.APIKey),
		http:   client,
		logger: internal.DefaultLogger.With("OpenAIClient"),
	}
}

type chatRequest struct {
	Model       string         `json:"model"`
	Messages    []chat.Message `json:"messages"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one chat completion request. There is no retry.
func (c *OpenAIClient) Complete(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	if c.apiKey == "" {
		return nil, errors.ExternalServiceError(providerOpenAI, fmt.Errorf("OPENAI_API_KEY is not set"))
	}
	if strings.TrimSpace(req.Model) == "" {
		return nil, errors.InvalidInput("missing model")
	}
	if len(req.Messages) == 0 {
		return nil, errors.InvalidInput("no messages to send")
	}

	body := chatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	var (
		decoded chatResponse
		failure apiError
	)
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(body).
		SetResult(&decoded).
		SetError(&failure).
		Post("/chat/completions")
	if err != nil {
		return nil, errors.ExternalServiceError(providerOpenAI, fmt.Errorf("request failed: %w", err))
	}
	c.logger.Debug("model=%s messages=%d status=%d in %s", req.Model, len(req.Messages), resp.StatusCode(), time.Since(start))

	if resp.IsError() {
		msg := strings.TrimSpace(failure.Error.Message)
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return nil, errors.ExternalServiceError(providerOpenAI, fmt.Errorf("http %d: %s", resp.StatusCode(), msg))
	}
	if len(decoded.Choices) == 0 {
		return nil, errors.ExternalServiceError(providerOpenAI, fmt.Errorf("response missing choices"))
	}

	model := decoded.Model
	if model == "" {
		model = req.Model
	}
	return &ports.CompletionResponse{
		Content: decoded.Choices[0].Message.Content,
		Usage: &ports.UsageData{
			PromptTokens:     decoded.Usage.PromptTokens,
			CompletionTokens: decoded.Usage.CompletionTokens,
			TotalTokens:      decoded.Usage.TotalTokens,
			Model:            model,
			Provider:         providerOpenAI,
		},
	}, nil
}
