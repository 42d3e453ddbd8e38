// Package normalize turns vendor HTTP responses into the canonical
// ImageRef or GenerationError.
//
// Vendors return images in three shapes: a raw binary body, a JSON envelope
// holding base64 artifacts, or a JSON envelope holding a hosted URL. Non-2xx
// responses of any shape become a vendor error that keeps the status code.
package normalize

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
)

// maxMessageLen bounds messages lifted from raw response bodies.
const maxMessageLen = 300

// Response is a fully read vendor HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Binary normalizes a response whose body is the encoded image itself.
// An empty mimeType defaults to image/png.
func Binary(p ai.Provider, resp *Response, mimeType string) (ai.ImageRef, error) {
	if !resp.OK() {
		return ai.ImageRef{}, VendorError(p, resp)
	}
	if len(resp.Body) == 0 {
		return ai.ImageRef{}, ai.NewMalformedError(p, resp.StatusCode, ai.ErrNoImage)
	}
	return ai.InlineRef(base64.StdEncoding.EncodeToString(resp.Body), mimeType), nil
}

// JSON normalizes a response whose body is a JSON envelope of type T.
// extract pulls the image out of the decoded envelope and reports false when
// the expected field is missing.
func JSON[T any](p ai.Provider, resp *Response, extract func(T) (ai.ImageRef, bool)) (ai.ImageRef, error) {
	if !resp.OK() {
		return ai.ImageRef{}, VendorError(p, resp)
	}
	var envelope T
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return ai.ImageRef{}, ai.NewMalformedError(p, resp.StatusCode, fmt.Errorf("failed to parse response: %w", err))
	}
	ref, ok := extract(envelope)
	if !ok || ref.IsZero() {
		return ai.ImageRef{}, ai.NewMalformedError(p, resp.StatusCode, ai.ErrNoImage)
	}
	return ref, nil
}

// First returns the first element of a slice, if any.
func First[T any](items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[0], true
}

// VendorError builds the error for a non-success response, lifting a
// best-effort message out of the body.
func VendorError(p ai.Provider, resp *Response) *ai.GenerationError {
	return ai.NewVendorError(p, resp.StatusCode, Message(resp.StatusCode, resp.Body))
}

// Message extracts a human readable error message from a vendor body.
// It understands the common JSON error envelopes and falls back to the
// trimmed body text, then to the status text.
func Message(statusCode int, body []byte) string {
	var payload any
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := messageFrom(payload); msg != "" {
			return truncate(msg)
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && isText(text) {
		return truncate(text)
	}
	return http.StatusText(statusCode)
}

var messageKeys = []string{"message", "error", "detail", "errors", "name", "title"}

func messageFrom(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if msg := messageFrom(item); msg != "" {
				return msg
			}
		}
	case map[string]any:
		for _, key := range messageKeys {
			if inner, ok := t[key]; ok {
				if msg := messageFrom(inner); msg != "" {
					return msg
				}
			}
		}
	}
	return ""
}

func isText(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	cut := maxMessageLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
