package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/enhance"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/provider/airforce"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/provider/anthropic"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/provider/google"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/provider/nvidia"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/provider/openai"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/provider/replicate"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/provider/stability"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/provider/together"
	"github.com/google/uuid"
)

// EnhancerBackend selects the chat backend used for prompt enhancement.
type EnhancerBackend string

const (
	EnhancerGroq      EnhancerBackend = "groq"
	EnhancerAnthropic EnhancerBackend = "anthropic"
)

// EnhancerConfig configures prompt enhancement. With no APIKey every
// enhancement falls back to the original prompt.
type EnhancerConfig struct {
	// Backend defaults to EnhancerGroq.
	Backend EnhancerBackend
	APIKey  string
	// BaseURL overrides the backend's API root.
	BaseURL string
	// Model overrides the backend's default chat model.
	Model string
}

// VertexConfig routes the google provider through Vertex AI instead of the
// Gemini API. Authentication uses Application Default Credentials.
type VertexConfig struct {
	Project  string
	Location string
}

// Config holds configuration for creating a Client.
type Config struct {
	// APIKeys holds one credential per provider. Only configure keys for
	// providers you intend to use.
	APIKeys map[ai.Provider]string

	// Endpoints overrides the URL each adapter calls. The value has the
	// same meaning as the adapter's default (an API root for most, the
	// full invoke URL for AirForce and NVIDIA).
	Endpoints map[ai.Provider]string

	// HTTPClient is used for every vendor call. Nil means http.DefaultClient.
	HTTPClient *http.Client

	Enhancer EnhancerConfig

	// Vertex, when set, serves the google provider from Vertex AI and
	// replaces its API key.
	Vertex *VertexConfig

	// Timeout bounds one Generate call, enhancement included. Zero means
	// no deadline beyond the caller's context.
	Timeout time.Duration

	// Events is an optional channel for receiving client operation events.
	Events chan<- Event
}

// Request is one generation request.
type Request struct {
	Provider ai.Provider
	Prompt   string
	// Enhance rewrites the prompt through the enhancer before generating.
	Enhance bool
	Options []ai.ImageOption
}

// Result is the outcome of a successful Generate call.
type Result struct {
	RequestID string
	Provider  ai.Provider

	// Prompt is the prompt sent to the provider.
	Prompt         string
	OriginalPrompt string
	Enhanced       bool
	// EnhanceErr records why enhancement was skipped, if it was requested.
	EnhanceErr error

	Image    ai.ImageRef
	Duration time.Duration
}

// Client dispatches generation requests. It is safe for concurrent use;
// adapters are built per call from the immutable configuration.
type Client struct {
	apiKeys    map[ai.Provider]string
	endpoints  map[ai.Provider]string
	httpClient *http.Client
	enhancer   EnhancerConfig
	vertex     *VertexConfig
	timeout    time.Duration
	events     chan<- Event
}

// New creates a client with the given configuration.
func New(cfg Config) *Client {
	c := &Client{
		apiKeys:    make(map[ai.Provider]string, len(cfg.APIKeys)),
		endpoints:  make(map[ai.Provider]string, len(cfg.Endpoints)),
		httpClient: cfg.HTTPClient,
		enhancer:   cfg.Enhancer,
		vertex:     cfg.Vertex,
		timeout:    cfg.Timeout,
		events:     cfg.Events,
	}
	for p, key := range cfg.APIKeys {
		c.apiKeys[p] = strings.TrimSpace(key)
	}
	for p, u := range cfg.Endpoints {
		c.endpoints[p] = u
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	return c
}

// HasCredential reports whether p can be used: it needs no credential or
// one is configured.
func (c *Client) HasCredential(p ai.Provider) bool {
	if p == ai.ProviderGoogle && c.vertex != nil {
		return true
	}
	return !p.RequiresCredential() || c.apiKeys[p] != ""
}

// ImageProvider returns the adapter for p. It fails with a configuration
// error for unknown providers and for providers missing their credential.
func (c *Client) ImageProvider(ctx context.Context, p ai.Provider) (ai.ImageProvider, error) {
	if !p.Valid() {
		return nil, ai.NewConfigurationError(p, "unknown provider")
	}
	if !c.HasCredential(p) {
		return nil, ai.NewConfigurationError(p, "no API key configured (set "+p.EnvKey()+")")
	}

	key := c.apiKeys[p]
	endpoint, hasEndpoint := c.endpoints[p]

	switch p {
	case ai.ProviderOpenAI:
		opts := []openai.ClientOption{openai.WithHTTPClient(c.httpClient)}
		if hasEndpoint {
			opts = append(opts, openai.WithBaseURL(endpoint))
		}
		return openai.New(key, opts...), nil
	case ai.ProviderStability:
		opts := []stability.ClientOption{stability.WithHTTPClient(c.httpClient)}
		if hasEndpoint {
			opts = append(opts, stability.WithBaseURL(endpoint))
		}
		return stability.New(key, opts...), nil
	case ai.ProviderTogether:
		opts := []together.ClientOption{together.WithHTTPClient(c.httpClient)}
		if hasEndpoint {
			opts = append(opts, together.WithBaseURL(endpoint))
		}
		return together.New(key, opts...), nil
	case ai.ProviderAirForce:
		opts := []airforce.ClientOption{airforce.WithHTTPClient(c.httpClient)}
		if hasEndpoint {
			opts = append(opts, airforce.WithBaseURL(endpoint))
		}
		return airforce.New(opts...), nil
	case ai.ProviderNvidia:
		opts := []nvidia.ClientOption{nvidia.WithHTTPClient(c.httpClient)}
		if hasEndpoint {
			opts = append(opts, nvidia.WithBaseURL(endpoint))
		}
		return nvidia.New(key, opts...), nil
	case ai.ProviderReplicate:
		opts := []replicate.ClientOption{replicate.WithHTTPClient(c.httpClient)}
		if hasEndpoint {
			opts = append(opts, replicate.WithBaseURL(endpoint))
		}
		return replicate.New(key, opts...), nil
	case ai.ProviderGoogle:
		opts := []google.ClientOption{google.WithHTTPClient(c.httpClient)}
		if hasEndpoint {
			opts = append(opts, google.WithBaseURL(endpoint))
		}
		var gc *google.Client
		var err error
		if c.vertex != nil {
			gc, err = google.NewVertex(ctx, c.vertex.Project, c.vertex.Location, opts...)
		} else {
			gc, err = google.New(ctx, key, opts...)
		}
		if err != nil {
			return nil, err
		}
		return gc, nil
	default:
		return nil, ai.NewConfigurationError(p, "unknown provider")
	}
}

// Enhancer returns the prompt enhancer for the configured backend.
func (c *Client) Enhancer() *enhance.Enhancer {
	cfg := c.enhancer
	if cfg.APIKey == "" {
		return enhance.New(nil)
	}

	var opts []enhance.Option
	if cfg.Model != "" {
		opts = append(opts, enhance.WithModel(cfg.Model))
	}

	switch cfg.Backend {
	case EnhancerAnthropic:
		chatOpts := []anthropic.ClientOption{anthropic.WithHTTPClient(c.httpClient)}
		if cfg.BaseURL != "" {
			chatOpts = append(chatOpts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		return enhance.New(anthropic.New(cfg.APIKey, chatOpts...), opts...)
	default:
		chatOpts := []openai.ClientOption{openai.WithHTTPClient(c.httpClient)}
		if cfg.BaseURL != "" {
			chatOpts = append(chatOpts, openai.WithBaseURL(cfg.BaseURL))
		}
		return enhance.New(openai.NewGroq(cfg.APIKey, chatOpts...), opts...)
	}
}

// Generate runs one request: validate, optionally enhance, then generate.
func (c *Client) Generate(ctx context.Context, req Request) (*Result, error) {
	id := uuid.NewString()
	logger := log.FromContextOrDiscard(ctx).With("request_id", id, "provider", req.Provider)
	ctx = log.NewContext(ctx, logger)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ai.ErrEmptyPrompt
	}

	provider, err := c.ImageProvider(ctx, req.Provider)
	if err != nil {
		logger.Error("provider unavailable", "error", err)
		return nil, err
	}

	start := time.Now()
	res := &Result{
		RequestID:      id,
		Provider:       req.Provider,
		Prompt:         req.Prompt,
		OriginalPrompt: req.Prompt,
	}

	if req.Enhance {
		c.enhance(ctx, id, req, res)
	}

	emit(c.events, Event{Type: EventRequestStart, RequestID: id, Operation: OperationGenerate, Provider: req.Provider})
	callStart := time.Now()
	image, err := provider.GenerateImage(ctx, res.Prompt, req.Options...)
	if err != nil {
		emit(c.events, Event{
			Type:      EventRequestError,
			RequestID: id,
			Operation: OperationGenerate,
			Provider:  req.Provider,
			Duration:  time.Since(callStart),
			Error:     err,
		})
		logger.Error("generation failed", "error", err)
		return nil, err
	}
	emit(c.events, Event{
		Type:      EventRequestComplete,
		RequestID: id,
		Operation: OperationGenerate,
		Provider:  req.Provider,
		Duration:  time.Since(callStart),
	})

	res.Image = image
	res.Duration = time.Since(start)
	logger.Info("request complete", "kind", image.Kind().String(), "enhanced", res.Enhanced, "seconds", res.Duration.Seconds())
	return res, nil
}

func (c *Client) enhance(ctx context.Context, id string, req Request, res *Result) {
	emit(c.events, Event{Type: EventRequestStart, RequestID: id, Operation: OperationEnhance, Provider: req.Provider})
	start := time.Now()

	out := c.Enhancer().Enhance(ctx, req.Prompt)
	res.Prompt = out.Prompt
	res.Enhanced = out.Enhanced
	res.EnhanceErr = out.Err

	event := Event{
		Type:      EventRequestComplete,
		RequestID: id,
		Operation: OperationEnhance,
		Provider:  req.Provider,
		Duration:  time.Since(start),
	}
	if out.Err != nil {
		event.Type = EventRequestError
		event.Error = out.Err
	}
	emit(c.events, event)
}
