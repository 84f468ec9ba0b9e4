package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/logger"
)

const (
	// Provider is the configuration name of this backend.
	Provider = "gemini"

	defaultModel = "gemini-2.5-flash"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements ai.Completer on top of the Google GenAI SDK.
type Client struct {
	models    contentGenerator
	modelName string
	logger    *zap.Logger
}

// New creates a Client configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{
		models:    client.Models,
		modelName: model,
		logger:    logger.WithProvider(log, Provider, model),
	}, nil
}

// Complete implements ai.Completer. System messages become the system
// instruction; assistant turns are sent with the model role.
func (c *Client) Complete(ctx context.Context, messages []ai.Message, opts ai.Options) (string, error) {
	if c == nil || c.models == nil {
		return "", errors.New("gemini client is not initialized")
	}

	system, rest := ai.SplitSystem(messages)

	// Gemini rejects requests without user content, so a lone system prompt
	// is sent as the user turn.
	if len(rest) == 0 && len(system) > 0 {
		rest = []ai.Message{{Role: ai.RoleUser, Content: strings.Join(system, "\n")}}
		system = nil
	}
	if len(rest) == 0 {
		return "", errors.New("prompt must not be empty")
	}

	contents := make([]*genai.Content, 0, len(rest))
	for _, m := range rest {
		role := string(genai.RoleUser)
		if m.Role == ai.RoleAssistant {
			role = string(genai.RoleModel)
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	config := &genai.GenerateContentConfig{}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n")}},
		}
	}
	if opts.Temperature > 0 {
		temperature := opts.Temperature
		config.Temperature = &temperature
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = c.modelName
	}

	resp, err := c.models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", ai.ErrEmptyResponse
	}

	c.logger.Debug("gemini generate content response",
		zap.Int("candidates", len(resp.Candidates)),
		zap.String("response_preview", logger.TruncateForLog(output, 120)),
	)

	return output, nil
}

// Model returns the default model name.
func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}
