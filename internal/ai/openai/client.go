// Package openai implements the language-model port for OpenAI-compatible
// chat completion APIs.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/meguminnnnnnnnn/go-openai"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/logger"
)

const (
	// Provider is the configuration name of this backend.
	Provider = "openai"

	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest, opts ...openai.ChatCompletionRequestOption) (openai.ChatCompletionResponse, error)
}

var _ chatCompleter = (*openai.Client)(nil)

// Client implements ai.Completer against an OpenAI-compatible endpoint.
type Client struct {
	client chatCompleter
	model  string
	logger *zap.Logger
}

// New creates a Client. An empty baseURL selects the public OpenAI API.
func New(apiKey, model, baseURL string, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		config.BaseURL = baseURL
	}

	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: logger.WithProvider(log, Provider, model),
	}, nil
}

// Complete implements ai.Completer.
func (c *Client) Complete(ctx context.Context, messages []ai.Message, opts ai.Options) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("openai client is not initialized")
	}
	if len(messages) == 0 {
		return "", errors.New("messages must not be empty")
	}

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	if model := strings.TrimSpace(opts.Model); model != "" {
		req.Model = model
	}

	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case ai.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case ai.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		temperature := opts.Temperature
		req.Temperature = &temperature
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ai.ErrEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ai.ErrEmptyResponse
	}

	c.logger.Debug("openai chat completion response",
		zap.String("model", req.Model),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.String("response_preview", logger.TruncateForLog(content, 120)),
	)

	return content, nil
}
