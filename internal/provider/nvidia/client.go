// Package nvidia implements NVIDIA's Consistory image generation endpoint.
//
// Consistory takes a prompt decomposed into a subject and a scene rather than
// free text; see [Decompose].
package nvidia

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"time"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/normalize"
)

// DefaultBaseURL is the Consistory invoke URL.
const DefaultBaseURL = "https://ai.api.nvidia.com/v1/genai/nvidia/consistory"

const (
	DefaultCFGScale = 5.0
	maxSubjectSeed  = 1000
)

// Client calls the Consistory endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures the NVIDIA client.
type ClientOption func(*Client)

// WithBaseURL overrides the invoke URL.
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

// New creates an NVIDIA client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type inferRequest struct {
	Mode             string   `json:"mode"`
	SubjectPrompt    string   `json:"subject_prompt"`
	SubjectTokens    []string `json:"subject_tokens"`
	SubjectSeed      int64    `json:"subject_seed"`
	StylePrompt      string   `json:"style_prompt"`
	ScenePrompt1     string   `json:"scene_prompt1"`
	ScenePrompt2     string   `json:"scene_prompt2"`
	NegativePrompt   string   `json:"negative_prompt"`
	CFGScale         float64  `json:"cfg_scale"`
	SameInitialNoise bool     `json:"same_initial_noise"`
}

type inferResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		FinishReason string `json:"finishReason"`
		Seed         int64  `json:"seed"`
	} `json:"artifacts"`
}

func extractArtifact(resp inferResponse) (ai.ImageRef, bool) {
	a, ok := normalize.First(resp.Artifacts)
	if !ok || a.Base64 == "" {
		return ai.ImageRef{}, false
	}
	return ai.InlineRef(a.Base64, "image/jpeg"), true
}

func buildRequest(prompt string, options *ai.ImageOptions) inferRequest {
	comp := Decompose(prompt)

	seed := rand.Int64N(maxSubjectSeed)
	if options.Seed != nil {
		seed = *options.Seed
	}
	cfgScale := DefaultCFGScale
	if options.CFGScale != nil {
		cfgScale = *options.CFGScale
	}
	style := DefaultStylePrompt
	if options.Style != "" {
		style = options.Style
	}

	return inferRequest{
		Mode:           "init",
		SubjectPrompt:  comp.Subject,
		SubjectTokens:  comp.SubjectTokens,
		SubjectSeed:    seed,
		StylePrompt:    style,
		ScenePrompt1:   comp.Scene,
		ScenePrompt2:   comp.AltScene(),
		NegativePrompt: options.NegativePrompt,
		CFGScale:       cfgScale,
	}
}

// GenerateImage decomposes the prompt and returns the first artifact as JPEG.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (ai.ImageRef, error) {
	options := ai.ApplyImageOptions(opts...)
	logger := log.FromContextOrDiscard(ctx).With("provider", ai.ProviderNvidia)
	start := time.Now()

	payload := buildRequest(prompt, options)
	body, err := json.Marshal(payload)
	if err != nil {
		return ai.ImageRef{}, ai.NewConfigurationError(ai.ProviderNvidia, "failed to marshal request: "+err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return ai.ImageRef{}, ai.NewTransportError(ai.ProviderNvidia, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	logger.Info("generating image", "subject", payload.SubjectPrompt, "scene", payload.ScenePrompt1)
	resp, err := normalize.Read(ai.ProviderNvidia, c.httpClient, req)
	if err != nil {
		return ai.ImageRef{}, err
	}

	ref, err := normalize.JSON(ai.ProviderNvidia, resp, extractArtifact)
	if err != nil {
		return ai.ImageRef{}, err
	}
	logger.Info("image created", "seconds", time.Since(start).Seconds())
	return ref, nil
}

var _ ai.ImageProvider = (*Client)(nil)
