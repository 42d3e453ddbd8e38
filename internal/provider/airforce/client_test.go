package airforce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateImage(t *testing.T) {
	t.Run("sends exactly the prompt without credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.Equal(t, map[string][]string{"prompt": {"a cat & a hat"}}, map[string][]string(r.URL.Query()))
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("png-data"))
		}))
		defer server.Close()

		c := New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
		ref, err := c.GenerateImage(context.Background(), "a cat & a hat", ai.WithSteps(99), ai.WithImageModel("ignored"))
		require.NoError(t, err)

		assert.Equal(t, ai.RefInline, ref.Kind())
		assert.Equal(t, "image/png", ref.MIMEType())
		data, err := ref.Decode()
		require.NoError(t, err)
		assert.Equal(t, "png-data", string(data))
	})

	t.Run("non-2xx preserves status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := New(WithBaseURL(server.URL)).GenerateImage(context.Background(), "cat")
		assert.Equal(t, ai.ErrorVendor, ai.KindOf(err))
		assert.Equal(t, http.StatusTooManyRequests, ai.StatusCodeOf(err))
		assert.Contains(t, err.Error(), "too many requests")
	})

	t.Run("unreachable endpoint is a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		_, err := New(WithBaseURL(server.URL)).GenerateImage(context.Background(), "cat")
		assert.Equal(t, ai.ErrorTransport, ai.KindOf(err))
	})
}
