package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/normalize"
	"github.com/openai/openai-go"
)

// gpt-image models always answer with base64 and reject response_format.
func isGPTImage(model string) bool {
	return strings.HasPrefix(model, "gpt-image")
}

func buildImageParams(prompt, model string, options *ai.ImageOptions) openai.ImageGenerateParams {
	size := string(ai.ImageSize1024x1024)
	if options.Size != "" {
		size = string(options.Size)
	} else if options.Width > 0 && options.Height > 0 {
		size = fmt.Sprintf("%dx%d", options.Width, options.Height)
	}

	params := openai.ImageGenerateParams{
		Model:  openai.ImageModel(model),
		Prompt: prompt,
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize(size),
	}

	if isGPTImage(model) {
		if options.Quality != "" {
			params.Quality = openai.ImageGenerateParamsQuality(options.Quality)
		}
		return params
	}

	quality := ai.ImageQualityStandard
	if options.Quality != "" {
		quality = options.Quality
	}
	params.Quality = openai.ImageGenerateParamsQuality(quality)
	params.ResponseFormat = openai.ImageGenerateParamsResponseFormatURL
	if options.Style != "" {
		params.Style = openai.ImageGenerateParamsStyle(options.Style)
	}
	return params
}

func extractImage(resp *openai.ImagesResponse) (ai.ImageRef, bool) {
	img, ok := normalize.First(resp.Data)
	if !ok {
		return ai.ImageRef{}, false
	}
	switch {
	case img.URL != "":
		return ai.URLRef(img.URL), true
	case img.B64JSON != "":
		return ai.InlineRef(img.B64JSON, ai.DefaultMIMEType), true
	}
	return ai.ImageRef{}, false
}

// GenerateImage generates one image. DALL-E models return a hosted URL;
// gpt-image models return inline PNG data.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...ai.ImageOption) (ai.ImageRef, error) {
	options := ai.ApplyImageOptions(opts...)
	logger := log.FromContextOrDiscard(ctx).With("provider", ai.ProviderOpenAI)
	start := time.Now()

	model := c.imageModel
	if options.Model != "" {
		model = options.Model
	}
	params := buildImageParams(prompt, model, options)

	logger.Info("generating image", "model", model, "size", params.Size)
	resp, err := c.client.Images.Generate(ctx, params)
	if err != nil {
		return ai.ImageRef{}, wrapError(ai.ProviderOpenAI, err)
	}

	ref, ok := extractImage(resp)
	if !ok {
		return ai.ImageRef{}, ai.NewMalformedError(ai.ProviderOpenAI, 0, ai.ErrNoImage)
	}
	logger.Info("image created", "seconds", time.Since(start).Seconds())
	return ref, nil
}
