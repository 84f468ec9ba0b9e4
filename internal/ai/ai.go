// Package ai defines the language-model port consumed by the question generator.
package ai

import (
	"context"
	"errors"
)

// Role is a chat message author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat completion request.
type Message struct {
	Role    Role
	Content string
}

// Options tune a single completion call.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Completer sends messages to a language model and returns its free-text reply.
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

// ErrEmptyResponse is returned by providers when the model produced no text.
var ErrEmptyResponse = errors.New("language model returned empty response")

// ErrDisabled is returned by Disabled for every call.
var ErrDisabled = errors.New("language model is disabled")

// Disabled is a Completer that always fails, forcing the local fallback.
type Disabled struct{}

// Complete implements Completer.
func (Disabled) Complete(context.Context, []Message, Options) (string, error) {
	return "", ErrDisabled
}

// SplitSystem separates system instructions from the conversational messages.
// Providers without a system role in their message list use it.
func SplitSystem(messages []Message) (system []string, rest []Message) {
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
