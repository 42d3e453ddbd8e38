package nvidia

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest(t *testing.T) {
	t.Run("random seed stays in range", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			req := buildRequest("a red fox", ai.ApplyImageOptions())
			assert.GreaterOrEqual(t, req.SubjectSeed, int64(0))
			assert.Less(t, req.SubjectSeed, int64(maxSubjectSeed))
		}
	})

	t.Run("options override defaults", func(t *testing.T) {
		req := buildRequest("a red fox", ai.ApplyImageOptions(
			ai.WithSeed(7), ai.WithCFGScale(3), ai.WithStyle("An oil painting of"), ai.WithNegativePrompt("text"),
		))
		assert.Equal(t, int64(7), req.SubjectSeed)
		assert.Equal(t, 3.0, req.CFGScale)
		assert.Equal(t, "An oil painting of", req.StylePrompt)
		assert.Equal(t, "text", req.NegativePrompt)
	})
}

func TestGenerateImage(t *testing.T) {
	t.Run("sends decomposed payload and returns first artifact", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer nvapi-test", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "init", body["mode"])
			assert.Equal(t, "a red fox", body["subject_prompt"])
			assert.Equal(t, []any{"red", "fox"}, body["subject_tokens"])
			assert.Equal(t, "A photo of", body["style_prompt"])
			assert.Equal(t, "a snowy forest", body["scene_prompt1"])
			assert.Equal(t, "in a snowy forest", body["scene_prompt2"])
			assert.Equal(t, "", body["negative_prompt"])
			assert.Equal(t, float64(5), body["cfg_scale"])
			assert.Equal(t, false, body["same_initial_noise"])
			assert.Contains(t, body, "subject_seed")

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"artifacts":[{"base64":"anBlZzE=","finishReason":"SUCCESS","seed":1},{"base64":"anBlZzI="}]}`))
		}))
		defer server.Close()

		c := New("nvapi-test", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
		ref, err := c.GenerateImage(context.Background(), "a red fox in a snowy forest")
		require.NoError(t, err)
		assert.Equal(t, "anBlZzE=", ref.Base64())
		assert.Equal(t, "image/jpeg", ref.MIMEType())
	})

	t.Run("vendor error keeps status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"type":"urn:inference-service:problem-details:validation","title":"Validation Error","status":422,"detail":"subject_tokens must not be empty"}`))
		}))
		defer server.Close()

		_, err := New("k", WithBaseURL(server.URL)).GenerateImage(context.Background(), "the")
		var ge *ai.GenerationError
		require.ErrorAs(t, err, &ge)
		assert.Equal(t, http.StatusUnprocessableEntity, ge.Code)
		assert.Equal(t, "subject_tokens must not be empty", ge.Msg)
	})

	t.Run("empty artifact list is malformed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"artifacts":[]}`))
		}))
		defer server.Close()

		_, err := New("k", WithBaseURL(server.URL)).GenerateImage(context.Background(), "a fox")
		assert.Equal(t, ai.ErrorMalformed, ai.KindOf(err))
	})
}
