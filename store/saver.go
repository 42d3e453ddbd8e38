package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
	"github.com/samber/lo"
)

// Saver loads images and hands them to an Uploader.
type Saver struct {
	Uploader   Uploader
	HTTPClient *http.Client
}

// NewSaver creates a Saver. A nil HTTP client means http.DefaultClient.
func NewSaver(uploader Uploader, hc *http.Client) *Saver {
	return &Saver{Uploader: uploader, HTTPClient: hc}
}

// Save stores ref under name and returns where it went. The extension
// matching the image's MIME type is appended when name has none; an empty
// name is an error.
func (s *Saver) Save(ctx context.Context, ref ai.ImageRef, name string, meta map[string]string) (string, error) {
	if name == "" {
		return "", errors.New("empty file name")
	}

	data, mimeType, err := Load(ctx, s.HTTPClient, ref)
	if err != nil {
		return "", err
	}
	if filepath.Ext(name) == "" {
		name += Extension(mimeType)
	}

	log.FromContextOrDiscard(ctx).Debug("saving image", "name", name, "content_type", mimeType, "bytes", len(data))
	err = s.Uploader.Upload(ctx, UploadParams{
		Name:        name,
		Data:        data,
		ContentType: mimeType,
		Metadata:    meta,
	})
	if err != nil {
		return "", fmt.Errorf("failed to save %s: %w", name, err)
	}

	return s.location(name), nil
}

// maxSuffix bounds the numbered names UniqueName tries.
const maxSuffix = 999

// Check fails with ErrExists when saving under name would be refused. A
// name without an extension is checked with every image extension, since
// the final one depends on the generated image.
func (s *Saver) Check(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("empty file name")
	}
	c, ok := s.Uploader.(Checker)
	if !ok {
		return nil
	}

	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = lo.Map(imageExtensions, func(ext string, _ int) string { return name + ext })
	}
	for _, candidate := range candidates {
		exists, err := c.Exists(ctx, candidate)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", candidate, err)
		}
		if exists {
			return fmt.Errorf("%s: %w", s.location(candidate), ErrExists)
		}
	}
	return nil
}

// UniqueName returns name when Check accepts it, otherwise the first free
// numbered variant: "a_red_fox" becomes "a_red_fox-1", "fox.png" becomes
// "fox-1.png".
func (s *Saver) UniqueName(ctx context.Context, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 1; ; i++ {
		err := s.Check(ctx, candidate)
		if !errors.Is(err, ErrExists) || i > maxSuffix {
			return candidate, err
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
}

func (s *Saver) location(name string) string {
	if l, ok := s.Uploader.(Locator); ok {
		return l.Location(name)
	}
	return name
}
