package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
)

// ImageProvider defines the interface for image generation adapters.
type ImageProvider interface {
	// GenerateImage creates one image from a text prompt.
	GenerateImage(ctx context.Context, prompt string, opts ...ImageOption) (ImageRef, error)
}

// RefKind tags the variant held by an ImageRef.
type RefKind int

const (
	refInvalid RefKind = iota
	// RefURL is a hosted image the caller must fetch.
	RefURL
	// RefInline is an image already in hand as base64 text.
	RefInline
)

// String returns the variant name.
func (k RefKind) String() string {
	switch k {
	case RefURL:
		return "url"
	case RefInline:
		return "inline"
	default:
		return "invalid"
	}
}

// DefaultMIMEType is used when a vendor does not declare the image format.
const DefaultMIMEType = "image/png"

// ImageRef is the canonical result of a successful generation: either a URL
// or inline base64 data with a MIME type. The zero value is not a valid ref.
type ImageRef struct {
	kind     RefKind
	url      string
	data     string
	mimeType string
}

// URLRef returns a ref to a hosted image.
func URLRef(url string) ImageRef {
	return ImageRef{kind: RefURL, url: url}
}

// InlineRef returns a ref holding base64-encoded image data.
// An empty mimeType defaults to image/png.
func InlineRef(b64, mimeType string) ImageRef {
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}
	return ImageRef{kind: RefInline, data: b64, mimeType: mimeType}
}

// Kind returns the variant held by the ref.
func (r ImageRef) Kind() RefKind { return r.kind }

// IsZero reports whether r is the invalid zero value.
func (r ImageRef) IsZero() bool { return r.kind == refInvalid }

// URL returns the hosted image URL, or "" for inline refs.
func (r ImageRef) URL() string { return r.url }

// Base64 returns the base64 payload, or "" for URL refs.
func (r ImageRef) Base64() string { return r.data }

// MIMEType returns the declared MIME type of inline data.
// URL refs carry no MIME type until fetched.
func (r ImageRef) MIMEType() string { return r.mimeType }

// Decode returns the raw bytes of an inline ref.
func (r ImageRef) Decode() ([]byte, error) {
	if r.kind != RefInline {
		return nil, &ImageError{Op: "decode", URL: r.url, Err: fmt.Errorf("ref is %s, not inline", r.kind)}
	}
	data, err := base64.StdEncoding.DecodeString(r.data)
	if err != nil {
		return nil, &ImageError{Op: "decode", URL: "base64", Err: err}
	}
	return data, nil
}

// DataURI renders an inline ref as a data URI. URL refs return their URL.
func (r ImageRef) DataURI() string {
	if r.kind == RefURL {
		return r.url
	}
	return fmt.Sprintf("data:%s;base64,%s", r.mimeType, r.data)
}

// String describes the ref without dumping the payload.
func (r ImageRef) String() string {
	switch r.kind {
	case RefURL:
		return r.url
	case RefInline:
		return fmt.Sprintf("inline %s (%d base64 bytes)", r.mimeType, len(r.data))
	default:
		return "<no image>"
	}
}

// OutputFormat names an encoded image format accepted by vendors.
type OutputFormat string

const (
	FormatPNG  OutputFormat = "png"
	FormatJPEG OutputFormat = "jpeg"
	FormatWebP OutputFormat = "webp"
)

// MIMEType returns the MIME type for the format, defaulting to image/png.
func (f OutputFormat) MIMEType() string {
	switch f {
	case FormatJPEG, "jpg":
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	case FormatPNG:
		return "image/png"
	default:
		return DefaultMIMEType
	}
}

// ImageSize represents predefined image dimensions.
type ImageSize string

const (
	ImageSize1024x1024 ImageSize = "1024x1024"
	ImageSize1024x1792 ImageSize = "1024x1792" // Portrait
	ImageSize1792x1024 ImageSize = "1792x1024" // Landscape
)

// Dimensions parses the size into width and height. Unknown sizes return 0, 0.
func (s ImageSize) Dimensions() (int, int) {
	var w, h int
	if _, err := fmt.Sscanf(string(s), "%dx%d", &w, &h); err != nil {
		return 0, 0
	}
	return w, h
}

// ImageQuality specifies the quality level for generated images.
// Note: Only supported by DALL-E 3.
type ImageQuality string

const (
	ImageQualityStandard ImageQuality = "standard"
	ImageQualityHD       ImageQuality = "hd"
)
