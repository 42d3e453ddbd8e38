// Package together implements the Together AI image generation API.
package together

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/normalize"
)

// DefaultBaseURL is the Together API root.
const DefaultBaseURL = "https://api.together.xyz/v1"

const (
	DefaultModel = "black-forest-labs/FLUX.1-schnell-Free"
	DefaultSteps = 10
)

// Client calls the Together AI images endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// ClientOption configures the Together client.
type ClientOption func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// New creates a Together client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Steps          int    `json:"steps"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Seed           *int64 `json:"seed,omitempty"`
}

// generateResponse covers both the images endpoint (data[].b64_json) and
// the legacy inference endpoint (output.choices[].image).
type generateResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
	Output *struct {
		Choices []struct {
			Image string `json:"image"`
		} `json:"choices"`
	} `json:"output"`
}

func extractImage(resp generateResponse) (ai.ImageRef, bool) {
	if d, ok := normalize.First(resp.Data); ok {
		switch {
		case d.B64JSON != "":
			return ai.InlineRef(d.B64JSON, ai.DefaultMIMEType), true
		case d.URL != "":
			return ai.URLRef(d.URL), true
		}
	}
	if resp.Output != nil {
		if c, ok := normalize.First(resp.Output.Choices); ok && c.Image != "" {
			return ai.InlineRef(c.Image, ai.DefaultMIMEType), true
		}
	}
	return ai.ImageRef{}, false
}

// GenerateImage requests one base64-encoded image.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (ai.ImageRef, error) {
	options := ai.ApplyImageOptions(opts...)
	logger := log.FromContextOrDiscard(ctx).With("provider", ai.ProviderTogether)
	start := time.Now()

	payload := generateRequest{
		Model:          c.model,
		Prompt:         prompt,
		Steps:          DefaultSteps,
		N:              1,
		ResponseFormat: "b64_json",
		NegativePrompt: options.NegativePrompt,
		Seed:           options.Seed,
	}
	if options.Model != "" {
		payload.Model = options.Model
	}
	if options.Steps > 0 {
		payload.Steps = options.Steps
	}
	payload.Width, payload.Height = options.Dimensions(0, 0)

	body, err := json.Marshal(payload)
	if err != nil {
		return ai.ImageRef{}, ai.NewConfigurationError(ai.ProviderTogether, "failed to marshal request: "+err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return ai.ImageRef{}, ai.NewTransportError(ai.ProviderTogether, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	logger.Info("generating image", "model", payload.Model, "steps", payload.Steps)
	resp, err := normalize.Read(ai.ProviderTogether, c.httpClient, req)
	if err != nil {
		return ai.ImageRef{}, err
	}

	ref, err := normalize.JSON(ai.ProviderTogether, resp, extractImage)
	if err != nil {
		return ai.ImageRef{}, err
	}
	logger.Info("image created", "seconds", time.Since(start).Seconds())
	return ref, nil
}

var _ ai.ImageProvider = (*Client)(nil)
