// Package store loads generated images and persists them through an
// Uploader: the local filesystem, S3, or memory.
package store

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"regexp"
	"strings"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/samber/lo"
)

// Load returns the bytes and MIME type of ref, fetching hosted images.
func Load(ctx context.Context, hc *http.Client, ref ai.ImageRef) ([]byte, string, error) {
	switch ref.Kind() {
	case ai.RefInline:
		data, err := ref.Decode()
		if err != nil {
			return nil, "", err
		}
		return data, ref.MIMEType(), nil
	case ai.RefURL:
		return fetch(ctx, hc, ref.URL())
	default:
		return nil, "", ai.ErrNoImage
	}
}

func fetch(ctx context.Context, hc *http.Client, url string) ([]byte, string, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", &ai.ImageError{Op: "fetch", URL: url, Err: err}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, "", &ai.ImageError{Op: "fetch", URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &ai.ImageError{Op: "fetch", URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &ai.ImageError{Op: "fetch", URL: url, Err: err}
	}
	return data, contentType(resp.Header.Get("Content-Type"), url), nil
}

// contentType prefers an image/* Content-Type header, then the URL's
// extension, then PNG.
func contentType(header, url string) string {
	if mt, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mt, "image/") {
		return mt
	}
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	if mt, _, err := mime.ParseMediaType(mime.TypeByExtension(path.Ext(url))); err == nil && strings.HasPrefix(mt, "image/") {
		return mt
	}
	return ai.DefaultMIMEType
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// imageExtensions lists every extension Extension can return.
var imageExtensions = []string{".png", ".jpg", ".webp", ".gif"}

// Extension returns the file extension for a MIME type, defaulting to .png.
func Extension(mimeType string) string {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mt = mimeType
	}
	if ext, ok := extensions[strings.ToLower(mt)]; ok {
		return ext
	}
	return ".png"
}

var (
	unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)
	underscores = regexp.MustCompile(`_+`)
)

// DefaultFilename derives a file name stem from the first three words of
// the prompt: "A Space cat!!" becomes "a_space_cat".
func DefaultFilename(prompt string) string {
	words := strings.Fields(prompt)
	words = words[:min(len(words), 3)]
	name := strings.ToLower(strings.Join(words, "_"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = underscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	return lo.Ternary(name == "", "image", name)
}
