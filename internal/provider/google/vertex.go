package google

import (
	"context"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"google.golang.org/genai"
)

// NewVertex creates an Imagen client on the Vertex AI backend for the given
// project and location. It authenticates with Application Default
// Credentials, so no API key is involved.
func NewVertex(ctx context.Context, project, location string, opts ...ClientOption) (*Client, error) {
	if project == "" || location == "" {
		return nil, ai.NewConfigurationError(ai.ProviderGoogle, "vertex project and location are required")
	}
	return newClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  project,
		Location: location,
	}, opts)
}
