// Package stability implements the Stability AI v2beta stable-image API.
//
// Requests are multipart form uploads, not JSON, and a successful response
// is the encoded image itself.
package stability

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/normalize"
)

// DefaultBaseURL is the stable-image generation root. The model name is
// appended as the final path segment.
const DefaultBaseURL = "https://api.stability.ai/v2beta/stable-image/generate"

// Service names accepted as models.
const (
	ModelCore  = "core"
	ModelUltra = "ultra"
	ModelSD3   = "sd3"

	DefaultModel = ModelCore
)

// Vendor defaults for omitted options.
const (
	DefaultFormat   = ai.FormatWebP
	DefaultWidth    = 1024
	DefaultHeight   = 1024
	DefaultSteps    = 30
	DefaultCFGScale = 7.0
)

// Client calls the Stability AI API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// ClientOption configures the Stability client.
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

// WithModel sets the default service.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// New creates a Stability client with the given API key.
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

// GenerateImage submits the prompt as form fields and returns the image bytes inline.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (ai.ImageRef, error) {
	options := ai.ApplyImageOptions(opts...)
	logger := log.FromContextOrDiscard(ctx).With("provider", ai.ProviderStability)
	start := time.Now()

	model := c.model
	if options.Model != "" {
		model = options.Model
	}
	format := options.Format
	if format == "" {
		format = DefaultFormat
	}

	body, contentType, err := buildForm(prompt, format, options)
	if err != nil {
		return ai.ImageRef{}, ai.NewConfigurationError(ai.ProviderStability, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+model, body)
	if err != nil {
		return ai.ImageRef{}, ai.NewTransportError(ai.ProviderStability, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "image/*")

	logger.Info("generating image", "model", model, "format", format)
	resp, err := normalize.Read(ai.ProviderStability, c.httpClient, req)
	if err != nil {
		return ai.ImageRef{}, err
	}

	ref, err := normalize.Binary(ai.ProviderStability, resp, format.MIMEType())
	if err != nil {
		return ai.ImageRef{}, err
	}
	logger.Info("image created", "seconds", time.Since(start).Seconds())
	return ref, nil
}

func buildForm(prompt string, format ai.OutputFormat, options *ai.ImageOptions) (*bytes.Buffer, string, error) {
	width, height := options.Dimensions(DefaultWidth, DefaultHeight)
	steps := options.Steps
	if steps <= 0 {
		steps = DefaultSteps
	}
	cfgScale := DefaultCFGScale
	if options.CFGScale != nil {
		cfgScale = *options.CFGScale
	}

	fields := [][2]string{
		{"prompt", prompt},
		{"output_format", string(format)},
		{"aspect_ratio", aspectRatio(width, height)},
		{"width", strconv.Itoa(width)},
		{"height", strconv.Itoa(height)},
		{"steps", strconv.Itoa(steps)},
		{"cfg_scale", strconv.FormatFloat(cfgScale, 'f', -1, 64)},
	}
	if options.NegativePrompt != "" {
		fields = append(fields, [2]string{"negative_prompt", options.NegativePrompt})
	}
	if options.Seed != nil {
		fields = append(fields, [2]string{"seed", strconv.FormatInt(*options.Seed, 10)})
	}
	if options.Style != "" {
		fields = append(fields, [2]string{"style_preset", options.Style})
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// aspectRatios are the ratios the stable-image endpoints accept.
var aspectRatios = []struct {
	name  string
	ratio float64
}{
	{"21:9", 21.0 / 9}, {"16:9", 16.0 / 9}, {"3:2", 3.0 / 2}, {"5:4", 5.0 / 4}, {"1:1", 1},
	{"4:5", 4.0 / 5}, {"2:3", 2.0 / 3}, {"9:16", 9.0 / 16}, {"9:21", 9.0 / 21},
}

// aspectRatio picks the accepted ratio closest to width:height. The core
// model sizes images from it and ignores width and height.
func aspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return "1:1"
	}
	r := float64(width) / float64(height)
	best := aspectRatios[0]
	for _, ar := range aspectRatios[1:] {
		if math.Abs(ar.ratio-r) < math.Abs(best.ratio-r) {
			best = ar
		}
	}
	return best.name
}

var _ ai.ImageProvider = (*Client)(nil)
