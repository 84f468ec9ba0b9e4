package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/ai/anthropic"
	"github.com/spigell/talentscout/internal/ai/gemini"
	"github.com/spigell/talentscout/internal/ai/openai"
	"github.com/spigell/talentscout/internal/question"
	"github.com/spigell/talentscout/internal/secrets"
	"github.com/spigell/talentscout/internal/storage"
	"github.com/spigell/talentscout/internal/storage/jsonl"
	"github.com/spigell/talentscout/internal/storage/postgres"
	"github.com/spigell/talentscout/internal/storage/redis"
)

const providerNone = "none"

var apiKeyEnvs = map[string]string{
	openai.Provider:    "OPENAI_API_KEY",
	gemini.Provider:    "GEMINI_API_KEY",
	anthropic.Provider: "ANTHROPIC_API_KEY",
}

func newCompleter(ctx context.Context, cfg *LLMConfig, logger *zap.Logger) (ai.Completer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		provider = openai.Provider
	}
	if provider == providerNone {
		return ai.Disabled{}, nil
	}

	env, ok := apiKeyEnvs[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: provider + " api key",
		File: cfg.APIKeyFile,
		Env:  env,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (or set llm.api-key-file)", err)
	}

	switch provider {
	case gemini.Provider:
		client, err := gemini.New(ctx, apiKey, cfg.Model, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case anthropic.Provider:
		client, err := anthropic.New(apiKey, cfg.Model, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		client, err := openai.New(apiKey, cfg.Model, cfg.BaseURL, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// newGenerator falls back to templated questions when the provider cannot
// be built, so an interview never depends on the model being reachable.
func newGenerator(ctx context.Context, cfg *LLMConfig, logger *zap.Logger) *question.Generator {
	completer, err := newCompleter(ctx, cfg, logger)
	if err != nil {
		logger.Warn("language model disabled, using fallback questions", zap.Error(err))
		completer = ai.Disabled{}
	}

	return question.New(completer, question.Config{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}, nil, logger)
}

// backend is a configured storage driver. Finder is nil for drivers that
// cannot look records up.
type backend struct {
	Store  storage.Store
	Finder storage.Finder
	Close  func()
}

func newBackend(ctx context.Context, cfg *StorageConfig, logger *zap.Logger) (*backend, error) {
	driver := strings.TrimSpace(strings.ToLower(cfg.Driver))

	switch driver {
	case "", "jsonl":
		s := jsonl.New(cfg.Path)
		logger.Debug("storing interviews in file", zap.String("path", s.Path()))
		return &backend{Store: s, Finder: s, Close: func() {}}, nil
	case "postgres":
		dsn, err := secrets.Load(secrets.Source{Name: "postgres database url", Value: cfg.DatabaseURL, Env: "DATABASE_URL"})
		if err != nil {
			return nil, err
		}
		s, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &backend{Store: s, Finder: s, Close: s.Close}, nil
	case "redis":
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return nil, fmt.Errorf("storage.redis-addr is required for the redis driver (or set REDIS_ADDR)")
		}
		s, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisKey)
		if err != nil {
			return nil, err
		}
		return &backend{Store: s, Finder: s, Close: func() {
			if err := s.Close(); err != nil {
				logger.Warn("closing redis client", zap.Error(err))
			}
		}}, nil
	case providerNone:
		return &backend{Store: storage.Discard{}, Close: func() {}}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
