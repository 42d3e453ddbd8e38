package anthropic

import (
	"errors"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/normalize"
	"github.com/anthropics/anthropic-sdk-go"
)

// Chat errors carry no image provider; the enhancer only records them.
const chatProvider ai.Provider = "anthropic"

func wrapError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return ai.NewTransportError(chatProvider, err)
	}
	ge := ai.NewVendorError(chatProvider, apiErr.StatusCode, normalize.Message(apiErr.StatusCode, []byte(apiErr.RawJSON())))
	ge.Cause = err
	return ge
}
