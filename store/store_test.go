package store

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultFilename(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{"A Space cat!!", "a_space_cat"},
		{"a red fox in a snowy forest", "a_red_fox"},
		{"  Neon   city ", "neon_city"},
		{"Café au lait", "caf_au_lait"},
		{"!!! ???", "image"},
		{"", "image"},
		{"one", "one"},
		{"hello/../../etc passwd", "hello_etc_passwd"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultFilename(tt.prompt), tt.prompt)
	}
}

var safeName = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

func TestDefaultFilenameIsSafe(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		prompt := rapid.String().Draw(rt, "prompt")
		name := DefaultFilename(prompt)
		if name != "image" && !safeName.MatchString(name) {
			rt.Fatalf("unsafe name %q for %q", name, prompt)
		}
		if strings.Count(name, "_") > 0 && len(strings.Fields(prompt)) == 0 {
			rt.Fatalf("name %q from blank prompt", name)
		}
	})
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".png", Extension("image/png"))
	assert.Equal(t, ".jpg", Extension("image/jpeg"))
	assert.Equal(t, ".webp", Extension("image/webp"))
	assert.Equal(t, ".gif", Extension("image/gif"))
	assert.Equal(t, ".jpg", Extension("image/JPEG; charset=binary"))
	assert.Equal(t, ".png", Extension("application/octet-stream"))
	assert.Equal(t, ".png", Extension(""))
}

func TestLoad(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		ref := ai.InlineRef(base64.StdEncoding.EncodeToString([]byte("webp-data")), "image/webp")
		data, mt, err := Load(context.Background(), nil, ref)
		require.NoError(t, err)
		assert.Equal(t, "webp-data", string(data))
		assert.Equal(t, "image/webp", mt)
	})

	t.Run("invalid inline data", func(t *testing.T) {
		_, _, err := Load(context.Background(), nil, ai.InlineRef("!!not base64!!", "image/png"))
		var ie *ai.ImageError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "decode", ie.Op)
	})

	t.Run("zero ref", func(t *testing.T) {
		_, _, err := Load(context.Background(), nil, ai.ImageRef{})
		assert.ErrorIs(t, err, ai.ErrNoImage)
	})

	t.Run("url uses content type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("jpeg-data"))
		}))
		defer server.Close()

		data, mt, err := Load(context.Background(), server.Client(), ai.URLRef(server.URL+"/out.bin"))
		require.NoError(t, err)
		assert.Equal(t, "jpeg-data", string(data))
		assert.Equal(t, "image/jpeg", mt)
	})

	t.Run("url falls back to extension", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write([]byte("data"))
		}))
		defer server.Close()

		_, mt, err := Load(context.Background(), nil, ai.URLRef(server.URL+"/out.jpg?sig=abc"))
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", mt)
	})

	t.Run("non-200 is a fetch error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, _, err := Load(context.Background(), nil, ai.URLRef(server.URL+"/expired.png"))
		var ie *ai.ImageError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "fetch", ie.Op)
		assert.Contains(t, err.Error(), "403")
	})
}
