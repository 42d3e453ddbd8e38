package imagegen

import "context"

// ChatProvider is the chat-completion backend behind prompt enhancement.
// Only plain text turns are needed; tools and streaming are not part of it.
type ChatProvider interface {
	Chat(ctx context.Context, messages []Message, opts ...ChatOption) (*ChatResponse, error)
}

// Role is the author of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one text turn sent to a ChatProvider. Backends drop messages
// with empty Content.
type Message struct {
	Role    Role
	Content string
}

// ChatResponse is the completed assistant turn.
type ChatResponse struct {
	Content      string
	FinishReason string
	Usage        Usage
}

// Usage counts the tokens a chat call consumed.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// ChatOptions tunes one chat call. Zero values leave the backend default.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature *float64
	TopP        *float64
}

// ChatOption sets a field of ChatOptions.
type ChatOption func(*ChatOptions)

// WithChatModel overrides the backend's chat model.
func WithChatModel(model string) ChatOption {
	return func(o *ChatOptions) { o.Model = model }
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) ChatOption {
	return func(o *ChatOptions) { o.MaxTokens = n }
}

func WithTemperature(t float64) ChatOption {
	return func(o *ChatOptions) { o.Temperature = &t }
}

func WithTopP(p float64) ChatOption {
	return func(o *ChatOptions) { o.TopP = &p }
}

// ApplyChatOptions folds opts into a fresh ChatOptions.
func ApplyChatOptions(opts ...ChatOption) *ChatOptions {
	o := &ChatOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
