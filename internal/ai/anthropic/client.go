// Package anthropic implements the language-model port for the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/logger"
)

const (
	// Provider is the configuration name of this backend.
	Provider = "anthropic"

	defaultModel     = "claude-3-5-haiku-latest"
	defaultMaxTokens = 256
)

type messagesCreator interface {
	CreateMessages(ctx context.Context, req anthropic.MessagesRequest) (anthropic.MessagesResponse, error)
}

// Client implements ai.Completer using the Anthropic Messages API.
type Client struct {
	client messagesCreator
	model  string
	logger *zap.Logger
}

// New creates a Client.
func New(apiKey, model string, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{
		client: anthropic.NewClient(apiKey),
		model:  model,
		logger: logger.WithProvider(log, Provider, model),
	}, nil
}

// Complete implements ai.Completer. Anthropic requires at least one user
// message, so a lone system prompt is sent as the user turn.
func (c *Client) Complete(ctx context.Context, messages []ai.Message, opts ai.Options) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("anthropic client is not initialized")
	}

	system, rest := ai.SplitSystem(messages)
	if len(rest) == 0 && len(system) > 0 {
		rest = []ai.Message{{Role: ai.RoleUser, Content: strings.Join(system, "\n")}}
		system = nil
	}
	if len(rest) == 0 {
		return "", errors.New("messages must not be empty")
	}

	msgs := make([]anthropic.Message, 0, len(rest))
	for _, m := range rest {
		role := anthropic.RoleUser
		if m.Role == ai.RoleAssistant {
			role = anthropic.RoleAssistant
		}
		msgs = append(msgs, anthropic.Message{
			Role:    role,
			Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(m.Content)},
		})
	}

	maxTokens := defaultMaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	model := c.model
	if m := strings.TrimSpace(opts.Model); m != "" {
		model = m
	}

	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(model),
		Messages:  msgs,
		MaxTokens: maxTokens,
	}
	if opts.Temperature > 0 {
		temperature := opts.Temperature
		req.Temperature = &temperature
	}
	if len(system) > 0 {
		parts := make([]anthropic.MessageSystemPart, 0, len(system))
		for _, s := range system {
			parts = append(parts, anthropic.MessageSystemPart{Type: "text", Text: s})
		}
		req.MultiSystem = parts
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create messages: %w", err)
	}

	var builder strings.Builder
	for _, block := range resp.Content {
		if block.Type != anthropic.MessagesContentTypeText || block.Text == nil {
			continue
		}
		builder.WriteString(*block.Text)
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", ai.ErrEmptyResponse
	}

	c.logger.Debug("anthropic messages response",
		zap.String("stop_reason", string(resp.StopReason)),
		zap.String("response_preview", logger.TruncateForLog(output, 120)),
	)

	return output, nil
}
