// Package replicate implements the Replicate predictions API with run
// semantics: create a prediction, then poll it until it settles.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/normalize"
)

// DefaultBaseURL is the Replicate API root.
const DefaultBaseURL = "https://api.replicate.com/v1"

const (
	DefaultModel          = "recraft-ai/recraft-v3"
	DefaultNegativePrompt = "ugly, disfigured, low quality, blurry, nsfw"
	DefaultSteps          = 50
	DefaultGuidanceScale  = 7.5
	DefaultScheduler      = "DPMSolverMultistep"
	DefaultPollInterval   = time.Second
)

// Prediction states reported by Replicate.
const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
	statusCanceled  = "canceled"
)

// Client runs Replicate models.
type Client struct {
	apiToken     string
	baseURL      string
	model        string
	pollInterval time.Duration
	httpClient   *http.Client
}

// ClientOption configures the Replicate client.
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

// WithModel sets the default model, as owner/name or owner/name:version.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithPollInterval sets how long to wait between prediction polls.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// New creates a Replicate client with the given API token.
func New(apiToken string, opts ...ClientOption) *Client {
	c := &Client{
		apiToken:     apiToken,
		baseURL:      DefaultBaseURL,
		model:        DefaultModel,
		pollInterval: DefaultPollInterval,
		httpClient:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type predictionInput struct {
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
	Scheduler         string  `json:"scheduler"`
	NumOutputs        int     `json:"num_outputs"`
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	Size              string  `json:"size,omitempty"`
	Style             string  `json:"style,omitempty"`
	Seed              *int64  `json:"seed,omitempty"`
}

type predictionRequest struct {
	Version string          `json:"version,omitempty"`
	Input   predictionInput `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
	URLs   struct {
		Get    string `json:"get"`
		Cancel string `json:"cancel"`
	} `json:"urls"`
}

func (p *prediction) settled() bool {
	switch p.Status {
	case statusSucceeded, statusFailed, statusCanceled:
		return true
	}
	return false
}

// firstOutput returns the first URL of an output that is either a list of
// URLs or a single URL.
func firstOutput(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single, single != ""
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		first, ok := normalize.First(list)
		return first, ok && first != ""
	}
	return "", false
}

func extractOutput(p prediction) (ai.ImageRef, bool) {
	u, ok := firstOutput(p.Output)
	if !ok {
		return ai.ImageRef{}, false
	}
	return ai.URLRef(u), true
}

// predictionsURL resolves the create endpoint for a model reference. A
// pinned version goes to the generic endpoint with the version in the body.
func (c *Client) predictionsURL(model string) (string, string, error) {
	ref, version, pinned := strings.Cut(model, ":")
	owner, name, ok := strings.Cut(ref, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid model %q: expected owner/name or owner/name:version", model)
	}
	if pinned {
		if version == "" {
			return "", "", fmt.Errorf("invalid model %q: empty version", model)
		}
		return c.baseURL + "/predictions", version, nil
	}
	return fmt.Sprintf("%s/models/%s/%s/predictions", c.baseURL, owner, name), "", nil
}

func buildInput(prompt string, options *ai.ImageOptions) predictionInput {
	input := predictionInput{
		Prompt:            prompt,
		NegativePrompt:    DefaultNegativePrompt,
		NumInferenceSteps: DefaultSteps,
		GuidanceScale:     DefaultGuidanceScale,
		Scheduler:         DefaultScheduler,
		NumOutputs:        1,
		Size:              string(options.Size),
		Style:             options.Style,
		Seed:              options.Seed,
	}
	if options.NegativePrompt != "" {
		input.NegativePrompt = options.NegativePrompt
	}
	if options.Steps > 0 {
		input.NumInferenceSteps = options.Steps
	}
	if options.CFGScale != nil {
		input.GuidanceScale = *options.CFGScale
	}
	if options.Width > 0 && options.Height > 0 {
		input.Width, input.Height = options.Width, options.Height
	}
	return input
}

// GenerateImage runs the model and returns the first output URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (ai.ImageRef, error) {
	options := ai.ApplyImageOptions(opts...)
	logger := log.FromContextOrDiscard(ctx).With("provider", ai.ProviderReplicate)
	start := time.Now()

	model := c.model
	if options.Model != "" {
		model = options.Model
	}
	endpoint, version, err := c.predictionsURL(model)
	if err != nil {
		return ai.ImageRef{}, ai.NewConfigurationError(ai.ProviderReplicate, err.Error())
	}

	body, err := json.Marshal(predictionRequest{Version: version, Input: buildInput(prompt, options)})
	if err != nil {
		return ai.ImageRef{}, ai.NewConfigurationError(ai.ProviderReplicate, "failed to marshal request: "+err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ai.ImageRef{}, ai.NewTransportError(ai.ProviderReplicate, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Prefer", "wait")

	logger.Info("generating image", "model", model)
	pred, err := c.do(req)
	if err != nil {
		return ai.ImageRef{}, err
	}

	for !pred.settled() {
		logger.Debug("prediction pending", "id", pred.ID, "status", pred.Status)
		if pred.URLs.Get == "" {
			return ai.ImageRef{}, ai.NewMalformedError(ai.ProviderReplicate, 0, errors.New("pending prediction has no poll url"))
		}
		select {
		case <-ctx.Done():
			return ai.ImageRef{}, ai.NewTransportError(ai.ProviderReplicate, ctx.Err())
		case <-time.After(c.pollInterval):
		}
		pred, err = c.poll(ctx, pred.URLs.Get)
		if err != nil {
			return ai.ImageRef{}, err
		}
	}

	if pred.Status != statusSucceeded {
		return ai.ImageRef{}, ai.NewVendorError(ai.ProviderReplicate, 0, predictionError(pred))
	}

	ref, ok := extractOutput(*pred)
	if !ok {
		return ai.ImageRef{}, ai.NewMalformedError(ai.ProviderReplicate, 0, ai.ErrNoImage)
	}
	logger.Info("image created", "id", pred.ID, "seconds", time.Since(start).Seconds())
	return ref, nil
}

func (c *Client) poll(ctx context.Context, getURL string) (*prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, getURL, nil)
	if err != nil {
		return nil, ai.NewTransportError(ai.ProviderReplicate, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*prediction, error) {
	resp, err := normalize.Read(ai.ProviderReplicate, c.httpClient, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, normalize.VendorError(ai.ProviderReplicate, resp)
	}
	var pred prediction
	if err := json.Unmarshal(resp.Body, &pred); err != nil {
		return nil, ai.NewMalformedError(ai.ProviderReplicate, resp.StatusCode, fmt.Errorf("failed to parse prediction: %w", err))
	}
	if pred.Status == "" {
		return nil, ai.NewMalformedError(ai.ProviderReplicate, resp.StatusCode, errors.New("prediction has no status"))
	}
	return &pred, nil
}

func predictionError(p *prediction) string {
	if p.Error != nil {
		raw, err := json.Marshal(p.Error)
		if err == nil {
			if msg := normalize.Message(0, raw); msg != "" {
				return msg
			}
		}
	}
	return "prediction " + p.Status
}

var _ ai.ImageProvider = (*Client)(nil)
