package normalize

import (
	"io"
	"net/http"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
)

// Read performs req and reads the full response. Any failure before a
// complete response is in hand is reported as a transport error.
func Read(p ai.Provider, client *http.Client, req *http.Request) (*Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, ai.NewTransportError(p, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ai.NewTransportError(p, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
