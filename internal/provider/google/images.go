package google

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/normalize"
	"google.golang.org/genai"
)

// GenerateImage generates one image with Imagen and returns it inline.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (ai.ImageRef, error) {
	options := ai.ApplyImageOptions(opts...)
	logger := log.FromContextOrDiscard(ctx).With("provider", ai.ProviderGoogle)
	start := time.Now()

	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	config := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    aspectRatio(options.Dimensions(1024, 1024)),
	}
	if options.Format != "" {
		config.OutputMIMEType = options.Format.MIMEType()
	}

	logger.Info("generating image", "model", model, "aspect_ratio", config.AspectRatio)
	resp, err := c.client.Models.GenerateImages(ctx, model, prompt, config)
	if err != nil {
		return ai.ImageRef{}, wrapError(err)
	}

	img, ok := normalize.First(resp.GeneratedImages)
	if !ok || img == nil {
		return ai.ImageRef{}, ai.NewMalformedError(ai.ProviderGoogle, 0, ai.ErrNoImage)
	}
	if img.Image == nil || len(img.Image.ImageBytes) == 0 {
		if img.RAIFilteredReason != "" {
			return ai.ImageRef{}, ai.NewVendorError(ai.ProviderGoogle, 0, img.RAIFilteredReason)
		}
		return ai.ImageRef{}, ai.NewMalformedError(ai.ProviderGoogle, 0, errors.New("generated image has no bytes"))
	}

	logger.Info("image created", "seconds", time.Since(start).Seconds())
	return ai.InlineRef(base64.StdEncoding.EncodeToString(img.Image.ImageBytes), img.Image.MIMEType), nil
}

// aspectRatio picks the closest Imagen aspect ratio for the dimensions.
func aspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return "1:1"
	}
	r := float64(width) / float64(height)
	switch {
	case r >= 1.6:
		return "16:9"
	case r >= 1.2:
		return "4:3"
	case r > 0.85:
		return "1:1"
	case r > 0.65:
		return "3:4"
	default:
		return "9:16"
	}
}
