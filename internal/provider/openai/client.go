// Package openai adapts the OpenAI SDK to image generation (DALL-E and
// gpt-image models) and to chat completion.
//
// Chat also works against any OpenAI-compatible endpoint; [NewGroq] points
// it at Groq for prompt enhancement.
package openai

import (
	"net/http"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultImageModel = "dall-e-3"
	DefaultChatModel  = "gpt-4o-mini"

	// GroqBaseURL is Groq's OpenAI-compatible API root.
	GroqBaseURL   = "https://api.groq.com/openai/v1/"
	GroqChatModel = "llama3-70b-8192"

	groqProvider ai.Provider = "groq"
)

// Client wraps the OpenAI SDK to implement ai.ImageProvider and
// ai.ChatProvider.
type Client struct {
	client     *openai.Client
	provider   ai.Provider
	apiKey     string
	baseURL    string
	httpClient *http.Client
	imageModel string
	chatModel  string
}

// ClientOption configures the OpenAI client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithImageModel sets the default image model.
func WithImageModel(model string) ClientOption {
	return func(c *Client) {
		c.imageModel = model
	}
}

// WithChatModel sets the default chat model.
func WithChatModel(model string) ClientOption {
	return func(c *Client) {
		c.chatModel = model
	}
}

// New creates a new OpenAI client with the given API key.
// The SDK's automatic retries are disabled; each call makes one request.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		provider:   ai.ProviderOpenAI,
		apiKey:     apiKey,
		imageModel: DefaultImageModel,
		chatModel:  DefaultChatModel,
	}
	for _, opt := range opts {
		opt(c)
	}

	sdkOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if c.baseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(c.baseURL))
	}
	if c.httpClient != nil {
		sdkOpts = append(sdkOpts, option.WithHTTPClient(c.httpClient))
	}
	client := openai.NewClient(sdkOpts...)
	c.client = &client
	return c
}

// NewGroq creates a chat client for Groq's OpenAI-compatible endpoint.
// Options are applied after the Groq defaults.
func NewGroq(apiKey string, opts ...ClientOption) *Client {
	defaults := []ClientOption{WithBaseURL(GroqBaseURL), WithChatModel(GroqChatModel)}
	c := New(apiKey, append(defaults, opts...)...)
	c.provider = groqProvider
	return c
}

var _ ai.ChatProvider = (*Client)(nil)
var _ ai.ImageProvider = (*Client)(nil)
