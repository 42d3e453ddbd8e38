package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/enhance"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const groqCompletion = `{"id":"c1","object":"chat.completion","created":1,"model":"llama3-70b-8192",
	"choices":[{"index":0,"message":{"role":"assistant","content":"\"a red fox in a misty forest at dawn\""},"finish_reason":"stop"}],
	"usage":{"prompt_tokens":10,"completion_tokens":9,"total_tokens":19}}`

// fakeVendor serves an AirForce-style imagine endpoint and a Groq-style
// chat endpoint, counting every request.
type fakeVendor struct {
	*httptest.Server
	hits       atomic.Int32
	chatFails  bool
	lastPrompt atomic.Value
}

func newFakeVendor(t *testing.T) *fakeVendor {
	t.Helper()
	f := &fakeVendor{}
	mux := http.NewServeMux()
	mux.HandleFunc("/imagine", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		f.lastPrompt.Store(r.URL.Query().Get("prompt"))
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	})
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if f.chatFails {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"model overloaded"}}`))
			return
		}
		w.Write([]byte(groqCompletion))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		w.WriteHeader(http.StatusTeapot)
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeVendor) config() Config {
	return Config{
		Endpoints: map[ai.Provider]string{
			ai.ProviderAirForce:  f.URL + "/imagine",
			ai.ProviderOpenAI:    f.URL + "/",
			ai.ProviderStability: f.URL,
			ai.ProviderTogether:  f.URL,
			ai.ProviderNvidia:    f.URL,
			ai.ProviderReplicate: f.URL,
			ai.ProviderGoogle:    f.URL + "/",
		},
		HTTPClient: f.Client(),
		Enhancer:   EnhancerConfig{APIKey: "gsk-test", BaseURL: f.URL + "/"},
	}
}

func TestGenerate(t *testing.T) {
	t.Run("free provider without credential", func(t *testing.T) {
		f := newFakeVendor(t)
		res, err := New(f.config()).Generate(context.Background(), Request{
			Provider: ai.ProviderAirForce,
			Prompt:   "a red fox",
		})
		require.NoError(t, err)

		_, err = uuid.Parse(res.RequestID)
		assert.NoError(t, err)
		assert.Equal(t, ai.ProviderAirForce, res.Provider)
		assert.Equal(t, "a red fox", res.Prompt)
		assert.False(t, res.Enhanced)
		assert.Nil(t, res.EnhanceErr)

		data, err := res.Image.Decode()
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(data))
		assert.Equal(t, int32(1), f.hits.Load())
	})

	t.Run("enhanced prompt is sent to the provider", func(t *testing.T) {
		f := newFakeVendor(t)
		res, err := New(f.config()).Generate(context.Background(), Request{
			Provider: ai.ProviderAirForce,
			Prompt:   "a red fox",
			Enhance:  true,
		})
		require.NoError(t, err)
		assert.True(t, res.Enhanced)
		assert.Equal(t, "a red fox", res.OriginalPrompt)
		assert.Equal(t, "a red fox in a misty forest at dawn", res.Prompt)
		assert.Equal(t, "a red fox in a misty forest at dawn", f.lastPrompt.Load())
		assert.Equal(t, int32(2), f.hits.Load())
	})

	t.Run("failed enhancement falls back to original prompt", func(t *testing.T) {
		f := newFakeVendor(t)
		f.chatFails = true
		events := make(chan Event, 8)
		cfg := f.config()
		cfg.Events = events

		res, err := New(cfg).Generate(context.Background(), Request{
			Provider: ai.ProviderAirForce,
			Prompt:   "a red fox",
			Enhance:  true,
		})
		require.NoError(t, err)
		assert.False(t, res.Enhanced)
		assert.Equal(t, "a red fox", res.Prompt)
		assert.Equal(t, http.StatusInternalServerError, ai.StatusCodeOf(res.EnhanceErr))
		assert.Equal(t, "a red fox", f.lastPrompt.Load())

		close(events)
		var seen []string
		for e := range events {
			assert.Equal(t, res.RequestID, e.RequestID)
			seen = append(seen, e.Operation+":"+string(e.Type))
		}
		assert.Equal(t, []string{
			"enhance:request_start",
			"enhance:request_error",
			"generate:request_start",
			"generate:request_complete",
		}, seen)
	})

	t.Run("enhancement without key falls back", func(t *testing.T) {
		f := newFakeVendor(t)
		cfg := f.config()
		cfg.Enhancer = EnhancerConfig{}

		res, err := New(cfg).Generate(context.Background(), Request{Provider: ai.ProviderAirForce, Prompt: "a fox", Enhance: true})
		require.NoError(t, err)
		assert.ErrorIs(t, res.EnhanceErr, enhance.ErrNoBackend)
		assert.Equal(t, "a fox", res.Prompt)
		assert.Equal(t, int32(1), f.hits.Load())
	})

	t.Run("missing credential makes no request", func(t *testing.T) {
		for _, p := range ai.Providers() {
			if !p.RequiresCredential() {
				continue
			}
			t.Run(string(p), func(t *testing.T) {
				f := newFakeVendor(t)
				_, err := New(f.config()).Generate(context.Background(), Request{Provider: p, Prompt: "a fox", Enhance: true})

				var ge *ai.GenerationError
				require.ErrorAs(t, err, &ge)
				assert.Equal(t, ai.ErrorConfiguration, ge.Kind)
				assert.Equal(t, p, ge.Provider)
				assert.Contains(t, ge.Msg, p.EnvKey())
				assert.Zero(t, f.hits.Load())
			})
		}
	})

	t.Run("blank credential counts as missing", func(t *testing.T) {
		f := newFakeVendor(t)
		cfg := f.config()
		cfg.APIKeys = map[ai.Provider]string{ai.ProviderOpenAI: "   "}
		_, err := New(cfg).Generate(context.Background(), Request{Provider: ai.ProviderOpenAI, Prompt: "x"})
		assert.True(t, ai.IsConfiguration(err))
		assert.Zero(t, f.hits.Load())
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(Config{}).Generate(context.Background(), Request{Provider: "midjourney", Prompt: "x"})
		assert.True(t, ai.IsConfiguration(err))
	})

	t.Run("empty prompt", func(t *testing.T) {
		_, err := New(Config{}).Generate(context.Background(), Request{Provider: ai.ProviderAirForce, Prompt: "  "})
		assert.ErrorIs(t, err, ai.ErrEmptyPrompt)
	})

	t.Run("vendor error is returned unchanged", func(t *testing.T) {
		f := newFakeVendor(t)
		cfg := f.config()
		cfg.APIKeys = map[ai.Provider]string{ai.ProviderTogether: "tg-key"}
		_, err := New(cfg).Generate(context.Background(), Request{Provider: ai.ProviderTogether, Prompt: "x"})
		assert.Equal(t, ai.ErrorVendor, ai.KindOf(err))
		assert.Equal(t, http.StatusTeapot, ai.StatusCodeOf(err))
		assert.Equal(t, int32(1), f.hits.Load())
	})

	t.Run("timeout bounds the call", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		c := New(Config{
			Endpoints: map[ai.Provider]string{ai.ProviderAirForce: server.URL},
			Timeout:   20 * time.Millisecond,
		})
		_, err := c.Generate(context.Background(), Request{Provider: ai.ProviderAirForce, Prompt: "x"})
		assert.Equal(t, ai.ErrorTransport, ai.KindOf(err))
	})
}

func TestImageProvider(t *testing.T) {
	keys := map[ai.Provider]string{}
	for _, p := range ai.Providers() {
		keys[p] = "key-" + string(p)
	}
	c := New(Config{APIKeys: keys})

	for _, p := range ai.Providers() {
		provider, err := c.ImageProvider(context.Background(), p)
		require.NoError(t, err, p)
		assert.NotNil(t, provider, p)
	}
}

func TestHasCredential(t *testing.T) {
	c := New(Config{APIKeys: map[ai.Provider]string{ai.ProviderNvidia: "nvapi"}})
	assert.True(t, c.HasCredential(ai.ProviderAirForce))
	assert.True(t, c.HasCredential(ai.ProviderNvidia))
	assert.False(t, c.HasCredential(ai.ProviderOpenAI))
	assert.False(t, c.HasCredential(ai.ProviderGoogle))
}

func TestVertexReplacesGoogleKey(t *testing.T) {
	c := New(Config{Vertex: &VertexConfig{Location: "us-central1"}})
	assert.True(t, c.HasCredential(ai.ProviderGoogle))

	_, err := c.ImageProvider(context.Background(), ai.ProviderGoogle)
	require.Error(t, err)
	assert.True(t, ai.IsConfiguration(err))
	assert.Contains(t, err.Error(), "vertex project and location are required")
}

func TestEnhancerBackends(t *testing.T) {
	assert.NotNil(t, New(Config{}).Enhancer())
	assert.NotNil(t, New(Config{Enhancer: EnhancerConfig{APIKey: "k"}}).Enhancer())
	assert.NotNil(t, New(Config{Enhancer: EnhancerConfig{Backend: EnhancerAnthropic, APIKey: "k"}}).Enhancer())
}
