// Package question produces technical interview questions, preferring the
// language model and falling back to local templates.
package question

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/i18n"
	"github.com/spigell/talentscout/internal/logger"
)

const (
	// MaxAttempts bounds the model calls made for one question.
	MaxAttempts = 5

	defaultTimeout     = 15 * time.Second
	defaultMaxTokens   = 60
	defaultTemperature = 0.7
	maxLogLength       = 200
)

// Source tells where a question came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Result is a generated question with its provenance.
type Result struct {
	Text       string
	Technology string
	Source     Source
	// Failures counts the model attempts that were rejected.
	Failures int
}

// Config tunes the model requests.
type Config struct {
	Model       string
	Temperature float32
	MaxTokens   int
	// Timeout bounds every single model call.
	Timeout time.Duration
}

// Generator produces non-duplicate questions. It is safe for concurrent use.
type Generator struct {
	completer ai.Completer
	cfg       Config
	logger    *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Generator. A nil completer disables model calls and a nil
// rng is seeded from the clock.
func New(completer ai.Completer, cfg Config, rng *rand.Rand, log *zap.Logger) *Generator {
	if completer == nil {
		completer = ai.Disabled{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Generator{completer: completer, cfg: cfg, rng: rng, logger: log}
}

// Generate returns a question about one of the technologies in techStack
// that is not present in asked. It never returns an empty string and model
// failures never escape: after MaxAttempts rejected attempts a templated
// question is returned.
func (g *Generator) Generate(ctx context.Context, techStack string, asked []string, lang i18n.Language) Result {
	techs := ParseTechStack(techStack)
	if len(techs) == 0 {
		techs = DefaultTechnologies
	}
	if lang == "" {
		lang = i18n.English
	}

	seen := make(map[string]struct{}, len(asked))
	for _, q := range asked {
		seen[strings.TrimSpace(q)] = struct{}{}
	}

	failures := 0
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		tech := g.pick(techs)

		text, err := g.ask(ctx, tech, lang)
		if err == nil {
			if _, dup := seen[text]; dup {
				err = errDuplicate
			}
		}
		if err != nil {
			failures++
			g.logger.Debug("question attempt rejected",
				zap.Int("attempt", attempt),
				zap.String("technology", tech),
				zap.Error(err),
			)
			continue
		}

		return Result{Text: text, Technology: tech, Source: SourceModel, Failures: failures}
	}

	text, tech := fallback(g.pick(techs), techs, seen)
	g.logger.Info("using fallback question",
		zap.String("technology", tech),
		zap.Int("failed_attempts", failures),
	)

	return Result{Text: text, Technology: tech, Source: SourceFallback, Failures: failures}
}

var (
	errDuplicate = errors.New("duplicate question")
	errBlank     = errors.New("blank question")
)

func (g *Generator) ask(ctx context.Context, tech string, lang i18n.Language) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("language model panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	prompt := buildPrompt(tech, lang)
	g.logger.Debug("question request",
		zap.String("technology", tech),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, maxLogLength)),
	)

	raw, err := g.completer.Complete(ctx, []ai.Message{{Role: ai.RoleSystem, Content: prompt}}, ai.Options{
		Model:       g.cfg.Model,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	text = cleanQuestion(raw)
	if text == "" {
		return "", errBlank
	}
	return text, nil
}

func (g *Generator) pick(techs []string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return techs[g.rng.Intn(len(techs))]
}

func buildPrompt(tech string, lang i18n.Language) string {
	return fmt.Sprintf("Ask a specific technical question about '%s' in %s. Short and direct.", tech, lang)
}

var questionLabel = regexp.MustCompile(`(?i)^(q(uestion)?\s*\d*\s*[:.)-])\s*`)

// cleanQuestion strips code fences, wrapping quotes and a leading "Q1:"
// style label the model sometimes adds.
func cleanQuestion(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	s = strings.Trim(strings.TrimSpace(s), "`\"“”'")
	s = questionLabel.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.TrimSpace(s)
}

var fallbackTemplates = []string{
	"How do you handle debugging in %s?",
	"What are common performance pitfalls in %s, and how do you avoid them?",
	"How do you write tests for code that uses %s?",
	"Describe a challenging problem you solved using %s.",
}

// fallback returns the debugging template for tech unless it was already
// asked, then walks the other templates and technologies in order, and
// finally numbers the primary question. The technology the returned
// question is about comes back alongside it.
func fallback(tech string, techs []string, seen map[string]struct{}) (string, string) {
	primary := fmt.Sprintf(fallbackTemplates[0], tech)
	if _, dup := seen[primary]; !dup {
		return primary, tech
	}

	for _, tmpl := range fallbackTemplates {
		for _, t := range techs {
			q := fmt.Sprintf(tmpl, t)
			if _, dup := seen[q]; !dup {
				return q, t
			}
		}
	}

	for n := 2; ; n++ {
		q := fmt.Sprintf("%s (follow-up %d)", primary, n)
		if _, dup := seen[q]; !dup {
			return q, tech
		}
	}
}
