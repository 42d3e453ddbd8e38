package google

import (
	"errors"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"google.golang.org/genai"
)

// wrapError converts a GenAI error into a GenerationError, keeping the
// status code of API errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return ai.NewTransportError(ai.ProviderGoogle, err)
	}

	msg := apiErr.Message
	if msg == "" {
		msg = apiErr.Status
	}
	ge := ai.NewVendorError(ai.ProviderGoogle, apiErr.Code, msg)
	ge.Cause = err
	return ge
}
