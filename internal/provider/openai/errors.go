package openai

import (
	"errors"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/normalize"
	"github.com/openai/openai-go"
)

// wrapError converts an SDK error into a GenerationError, keeping the
// vendor status code when the API answered.
func wrapError(p ai.Provider, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return ai.NewTransportError(p, err)
	}

	msg := apiErr.Message
	if msg == "" {
		msg = normalize.Message(apiErr.StatusCode, []byte(apiErr.RawJSON()))
	}
	ge := ai.NewVendorError(p, apiErr.StatusCode, msg)
	ge.Cause = err
	return ge
}
