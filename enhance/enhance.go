// Package enhance rewrites image prompts into more detailed ones through a
// chat model.
//
// Enhancement is best effort. [Enhancer.Enhance] never fails: when the
// backend is missing or the call goes wrong, the returned prompt is the
// input prompt, unchanged, and Result.Err says why.
package enhance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
)

// SystemInstruction steers the chat model towards richer visual detail.
const SystemInstruction = "You are an expert at writing prompts for AI image generators. " +
	"Rewrite the user's prompt with specific details about lighting, atmosphere, composition, and artistic style. " +
	"Keep the core subject and intent of the original prompt. " +
	"Reply with the enhanced prompt only, without commentary or quotes."

// Sampling defaults for the enhancement call.
const (
	DefaultMaxTokens   = 200
	DefaultTemperature = 0.7
	DefaultTopP        = 0.8
)

var (
	// ErrNoBackend is recorded when no chat backend is configured.
	ErrNoBackend = errors.New("no enhancement backend configured")

	// ErrEmptyCompletion is recorded when the model answers with no text.
	ErrEmptyCompletion = errors.New("empty completion")
)

// Result is the outcome of an enhancement attempt.
type Result struct {
	// Prompt is the enhanced prompt, or the original when Enhanced is false.
	Prompt   string
	Enhanced bool
	Err      error
}

// Enhancer rewrites prompts with a chat model.
type Enhancer struct {
	chat  ai.ChatProvider
	model string
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithModel overrides the backend's default chat model.
func WithModel(model string) Option {
	return func(e *Enhancer) {
		e.model = model
	}
}

// New creates an Enhancer backed by chat. A nil chat provider yields an
// Enhancer that always falls back to the original prompt.
func New(chat ai.ChatProvider, opts ...Option) *Enhancer {
	e := &Enhancer{chat: chat}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UserMessage is the request sent for prompt.
func UserMessage(prompt string) string {
	return fmt.Sprintf("Enhance this image generation prompt with more specific details: %q", prompt)
}

// Enhance asks the chat model for a more detailed version of prompt.
func (e *Enhancer) Enhance(ctx context.Context, prompt string) Result {
	logger := log.FromContextOrDiscard(ctx)
	fallback := func(err error) Result {
		logger.Warn("prompt enhancement skipped", "error", err)
		return Result{Prompt: prompt, Err: err}
	}

	if e == nil || e.chat == nil {
		return fallback(ErrNoBackend)
	}
	if strings.TrimSpace(prompt) == "" {
		return fallback(ai.ErrEmptyPrompt)
	}

	opts := []ai.ChatOption{
		ai.WithMaxTokens(DefaultMaxTokens),
		ai.WithTemperature(DefaultTemperature),
		ai.WithTopP(DefaultTopP),
	}
	if e.model != "" {
		opts = append(opts, ai.WithChatModel(e.model))
	}

	start := time.Now()
	resp, err := e.chat.Chat(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: SystemInstruction},
		{Role: ai.RoleUser, Content: UserMessage(prompt)},
	}, opts...)
	if err != nil {
		return fallback(err)
	}
	if resp == nil {
		return fallback(ErrEmptyCompletion)
	}

	enhanced := clean(resp.Content)
	if enhanced == "" {
		return fallback(ErrEmptyCompletion)
	}

	logger.Info("prompt enhanced", "seconds", time.Since(start).Seconds(), "output_tokens", resp.Usage.OutputTokens)
	return Result{Prompt: enhanced, Enhanced: true}
}

// clean trims the completion and strips one pair of surrounding quotes.
func clean(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"`, "'", "“"} {
		closing := q
		if q == "“" {
			closing = "”"
		}
		if len(s) >= len(q)+len(closing) && strings.HasPrefix(s, q) && strings.HasSuffix(s, closing) {
			return strings.TrimSpace(s[len(q) : len(s)-len(closing)])
		}
	}
	return s
}
