// Package openai implements provider.Completer against the OpenAI Chat
// Completions API using the official SDK.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/papercomputeco/pairwise/pkg/llm"
)

// DefaultBaseURL is the public OpenAI API root.
const DefaultBaseURL = "https://api.openai.com/v1/"

// ErrMissingAPIKey is returned by New when no credential is configured.
var ErrMissingAPIKey = errors.New("no OpenAI API key configured")

// APIKeyEnvVars are checked in order by APIKeyFromEnv.
var APIKeyEnvVars = []string{"PAIRWISE_UPSTREAM_API_KEY", "OPENAI_API_KEY"}

// APIKeyFromEnv returns the first non-empty key from APIKeyEnvVars.
func APIKeyFromEnv() string {
	for _, name := range APIKeyEnvVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// Config configures the upstream client.
type Config struct {
	// APIKey is the bearer credential. Required.
	APIKey string

	// BaseURL overrides DefaultBaseURL (e.g. for a proxy or a test server).
	BaseURL string

	// Timeout bounds each HTTP exchange. Zero means no timeout.
	Timeout time.Duration
}

// Client is a provider.Completer backed by openai-go.
type Client struct {
	api oai.Client
}

// New creates a Client. SDK retries are disabled: a failed call surfaces to
// the caller immediately.
func New(c Config) (*Client, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	api := oai.NewClient(
		option.WithAPIKey(c.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: c.Timeout}),
	)

	return &Client{api: api}, nil
}

func (c *Client) Name() string {
	return "openai"
}

// Complete sends messages to model and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, model string, messages []llm.Message) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: toParams(messages),
	})
	if err != nil {
		var apiErr *oai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai %s: status %d: %w", model, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("openai %s: %w", model, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai %s: %w", model, llm.ErrNoChoices)
	}

	return resp.Choices[0].Message.Content, nil
}

func toParams(messages []llm.Message) []oai.ChatCompletionMessageParamUnion {
	params := make([]oai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			params = append(params, oai.SystemMessage(m.Content))
		case llm.RoleAssistant:
			params = append(params, oai.AssistantMessage(m.Content))
		default:
			params = append(params, oai.UserMessage(m.Content))
		}
	}
	return params
}
