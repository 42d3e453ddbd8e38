// Package google generates images with Imagen through the Gemini API or
// Vertex AI.
package google

import (
	"context"
	"net/http"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"google.golang.org/genai"
)

const DefaultImageModel = "imagen-4.0-generate-001"

// Client wraps the Google GenAI SDK to implement ai.ImageProvider.
type Client struct {
	client     *genai.Client
	model      string
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithModel sets the default image model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

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

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	return newClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, opts)
}

func newClient(ctx context.Context, cfg *genai.ClientConfig, opts []ClientOption) (*Client, error) {
	c := &Client{model: DefaultImageModel}
	for _, opt := range opts {
		opt(c)
	}

	cfg.HTTPClient = c.httpClient
	cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, ai.NewConfigurationError(ai.ProviderGoogle, err.Error())
	}
	c.client = client
	return c, nil
}

var _ ai.ImageProvider = (*Client)(nil)
