package imagegen

// ImageOptions contains configuration for an image generation request.
// Each adapter reads the fields its vendor understands and fills vendor
// defaults for the rest.
type ImageOptions struct {
	Model          string
	Size           ImageSize
	Width          int
	Height         int
	Steps          int
	Quality        ImageQuality
	Style          string
	Format         OutputFormat
	NegativePrompt string
	CFGScale       *float64
	Seed           *int64
}

// ImageOption is a functional option for configuring image generation requests.
type ImageOption func(*ImageOptions)

// WithImageModel sets the vendor model to use.
func WithImageModel(model string) ImageOption {
	return func(o *ImageOptions) {
		o.Model = model
	}
}

// WithImageSize sets predefined dimensions for generated images.
func WithImageSize(size ImageSize) ImageOption {
	return func(o *ImageOptions) {
		o.Size = size
	}
}

// WithDimensions sets explicit width and height in pixels.
func WithDimensions(width, height int) ImageOption {
	return func(o *ImageOptions) {
		o.Width = width
		o.Height = height
	}
}

// WithSteps sets the number of inference steps.
func WithSteps(n int) ImageOption {
	return func(o *ImageOptions) {
		o.Steps = n
	}
}

// WithImageQuality sets the quality level for generated images.
// Supported values: "standard", "hd"
// Note: Only supported by DALL-E.
func WithImageQuality(q ImageQuality) ImageOption {
	return func(o *ImageOptions) {
		o.Quality = q
	}
}

// WithStyle sets a vendor style. DALL-E 3 accepts "vivid" and "natural";
// Stability accepts its style presets.
func WithStyle(style string) ImageOption {
	return func(o *ImageOptions) {
		o.Style = style
	}
}

// WithOutputFormat sets the encoded format requested from vendors that let
// the caller choose.
func WithOutputFormat(f OutputFormat) ImageOption {
	return func(o *ImageOptions) {
		o.Format = f
	}
}

// WithNegativePrompt describes what to avoid in the image.
func WithNegativePrompt(s string) ImageOption {
	return func(o *ImageOptions) {
		o.NegativePrompt = s
	}
}

// WithCFGScale sets how strictly the image follows the prompt.
func WithCFGScale(scale float64) ImageOption {
	return func(o *ImageOptions) {
		o.CFGScale = &scale
	}
}

// WithSeed fixes the random seed.
func WithSeed(seed int64) ImageOption {
	return func(o *ImageOptions) {
		o.Seed = &seed
	}
}

// ApplyImageOptions applies functional options to an ImageOptions struct.
func ApplyImageOptions(opts ...ImageOption) *ImageOptions {
	o := &ImageOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Dimensions returns the explicit width and height if set, otherwise the
// parsed Size, otherwise the given fallback.
func (o *ImageOptions) Dimensions(fallbackW, fallbackH int) (int, int) {
	if o.Width > 0 && o.Height > 0 {
		return o.Width, o.Height
	}
	if w, h := o.Size.Dimensions(); w > 0 && h > 0 {
		return w, h
	}
	return fallbackW, fallbackH
}
