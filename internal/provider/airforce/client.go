// Package airforce implements the free, unauthenticated AirForce imagine
// endpoint. It accepts a prompt and nothing else and answers with PNG bytes.
package airforce

import (
	"context"
	"net/http"
	"net/url"
	"time"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/normalize"
)

// DefaultBaseURL is the imagine endpoint.
const DefaultBaseURL = "https://api.airforce/v1/imagine2"

// Client calls the AirForce imagine endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures the AirForce client.
type ClientOption func(*Client)

// WithBaseURL overrides the endpoint URL.
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

// New creates an AirForce client. No credential is needed.
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateImage requests an image for prompt. Image options are ignored:
// the endpoint takes only the prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string, _ ...ai.ImageOption) (ai.ImageRef, error) {
	logger := log.FromContextOrDiscard(ctx).With("provider", ai.ProviderAirForce)
	start := time.Now()

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ai.ImageRef{}, ai.NewConfigurationError(ai.ProviderAirForce, "invalid base URL: "+err.Error())
	}
	u.RawQuery = url.Values{"prompt": {prompt}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return ai.ImageRef{}, ai.NewTransportError(ai.ProviderAirForce, err)
	}

	logger.Info("generating image")
	resp, err := normalize.Read(ai.ProviderAirForce, c.httpClient, req)
	if err != nil {
		return ai.ImageRef{}, err
	}

	ref, err := normalize.Binary(ai.ProviderAirForce, resp, ai.DefaultMIMEType)
	if err != nil {
		return ai.ImageRef{}, err
	}
	logger.Info("image created", "seconds", time.Since(start).Seconds())
	return ref, nil
}

var _ ai.ImageProvider = (*Client)(nil)
