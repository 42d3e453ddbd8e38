package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newImagine serves an AirForce-style endpoint returning PNG bytes and
// points the CLI at it.
func newImagine(t *testing.T) (*atomic.Int32, *atomic.Value) {
	t.Helper()
	var hits atomic.Int32
	var prompt atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		prompt.Store(r.URL.Query().Get("prompt"))
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	t.Cleanup(srv.Close)
	t.Setenv(endpointEnv(ai.ProviderAirForce), srv.URL+"/imagine")
	return &hits, &prompt
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewCLI()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestGenerateCommand(t *testing.T) {
	t.Run("saves to the configured directory", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		t.Setenv("IMAGEGEN_SAVE_DIR", dir)
		hits, prompt := newImagine(t)

		out, _, err := execute(t, "generate", "a", "red", "fox")
		require.NoError(t, err)

		file := filepath.Join(dir, "a_red_fox.png")
		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(data))

		assert.Equal(t, int32(1), hits.Load())
		assert.Equal(t, "a red fox", prompt.Load())
		assert.Contains(t, out, "Provider: AirForce (Free)")
		assert.Contains(t, out, "Prompt: a red fox")
		assert.Contains(t, out, "Saved to: "+file)
	})

	t.Run("flags override name and directory", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("IMAGEGEN_SAVE_DIR", t.TempDir())
		newImagine(t)
		dir := filepath.Join(t.TempDir(), "nested")

		out, _, err := execute(t, "generate", "--out", dir, "--name", "fox", "-p", "AirForce", "a red fox")
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "fox.png"))
		assert.Contains(t, out, filepath.Join(dir, "fox.png"))
	})

	t.Run("refuses to overwrite without the flag", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		t.Setenv("IMAGEGEN_SAVE_DIR", dir)
		hits, _ := newImagine(t)
		file := filepath.Join(dir, "a_red_fox.png")
		require.NoError(t, os.WriteFile(file, []byte("old"), 0o644))

		_, _, err := execute(t, "generate", "a red fox")
		require.ErrorIs(t, err, store.ErrExists)
		assert.Zero(t, hits.Load(), "no generation request for an existing file")

		data, _ := os.ReadFile(file)
		assert.Equal(t, "old", string(data))

		_, _, err = execute(t, "generate", "--overwrite", "a red fox")
		require.NoError(t, err)
		data, _ = os.ReadFile(file)
		assert.Equal(t, "png-bytes", string(data))
	})

	t.Run("enhancement without a key falls back", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("IMAGEGEN_SAVE_DIR", t.TempDir())
		_, prompt := newImagine(t)

		out, stderr, err := execute(t, "generate", "--enhance", "a red fox")
		require.NoError(t, err)
		assert.Equal(t, "a red fox", prompt.Load())
		assert.Contains(t, out, "Prompt: a red fox")
		assert.Contains(t, stderr, "Prompt enhancement skipped")
	})

	t.Run("rejected before any request", func(t *testing.T) {
		tests := []struct {
			name    string
			args    []string
			wantErr string
		}{
			{"unknown provider", []string{"generate", "-p", "midjourney", "a fox"}, "unknown provider"},
			{"bad format", []string{"generate", "--format", "bmp", "a fox"}, "unsupported format"},
			{"width without height", []string{"generate", "--width", "512", "a fox"}, "--width and --height"},
			{"missing credential", []string{"generate", "-p", "openai", "a fox"}, "OPENAI_API_KEY"},
			{"no prompt", []string{"generate"}, "requires at least 1 arg"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				clearEnv(t)
				t.Setenv("IMAGEGEN_SAVE_DIR", t.TempDir())
				hits, _ := newImagine(t)

				_, _, err := execute(t, tt.args...)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Zero(t, hits.Load())
			})
		}
	})
}

func TestImageOptions(t *testing.T) {
	cmd := NewGenerateCmd(&app{})
	require.NoError(t, cmd.Flags().Parse([]string{
		"--model", "flux",
		"--size", "1024x1792",
		"--width", "512",
		"--height", "768",
		"--steps", "20",
		"--quality", "hd",
		"--style", "vivid",
		"--format", "jpg",
		"--negative", "blurry",
		"--seed", "0",
	}))

	opts, err := imageOptions(cmd.Flags())
	require.NoError(t, err)
	o := ai.ApplyImageOptions(opts...)

	assert.Equal(t, "flux", o.Model)
	assert.Equal(t, ai.ImageSize1024x1792, o.Size)
	assert.Equal(t, 512, o.Width)
	assert.Equal(t, 768, o.Height)
	assert.Equal(t, 20, o.Steps)
	assert.Equal(t, ai.ImageQualityHD, o.Quality)
	assert.Equal(t, "vivid", o.Style)
	assert.Equal(t, ai.FormatJPEG, o.Format)
	assert.Equal(t, "blurry", o.NegativePrompt)
	require.NotNil(t, o.Seed)
	assert.Equal(t, int64(0), *o.Seed)
}

func TestImageOptionsUnset(t *testing.T) {
	cmd := NewGenerateCmd(&app{})
	require.NoError(t, cmd.Flags().Parse(nil))

	opts, err := imageOptions(cmd.Flags())
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestProvidersCommand(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	out, _, err := execute(t, "providers")
	require.NoError(t, err)

	assert.Contains(t, out, "CONFIGURED")
	configured := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n")[1:] {
		fields := strings.Fields(line)
		require.NotEmpty(t, fields)
		configured[fields[0]] = fields[len(fields)-1]
	}

	assert.Len(t, configured, len(ai.Providers()))
	assert.Equal(t, "yes", configured["openai"])
	assert.Equal(t, "yes", configured["airforce"])
	assert.Equal(t, "no", configured["stability"])
	assert.Equal(t, "no", configured["replicate"])
	assert.Contains(t, out, "REPLICATE_API_TOKEN")
}

func TestSetupUploader(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		u, err := newUploader(Setup(context.Background(), &Config{SaveDir: "out", Overwrite: true}))
		require.NoError(t, err)
		assert.Equal(t, &store.FileUploader{Dir: "out", Overwrite: true}, u)
	})

	t.Run("s3", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing")
		t.Setenv("AWS_REGION", "us-east-1")
		t.Setenv("AWS_PROFILE", "")
		t.Setenv("AWS_CONFIG_FILE", missing)
		t.Setenv("AWS_SHARED_CREDENTIALS_FILE", missing)
		u, err := newUploader(Setup(context.Background(), &Config{SaveDir: "out", S3Bucket: "images"}))
		require.NoError(t, err)
		require.IsType(t, &store.S3Uploader{}, u)
		assert.Equal(t, "s3://images/a.png", u.(*store.S3Uploader).Location("a.png"))
	})
}
