package imagegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		input    string
		expected Provider
	}{
		{"openai", ProviderOpenAI},
		{"OpenAI DALL-E", ProviderOpenAI},
		{"dalle", ProviderOpenAI},
		{"Stable Diffusion", ProviderStability},
		{"together", ProviderTogether},
		{"AirForce (Free)", ProviderAirForce},
		{"  airforce ", ProviderAirForce},
		{"NVIDIA Consistory", ProviderNvidia},
		{"Replicate", ProviderReplicate},
		{"imagen", ProviderGoogle},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParseProvider(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}

	t.Run("unknown provider", func(t *testing.T) {
		_, err := ParseProvider("midjourney")
		assert.EqualError(t, err, `unknown provider "midjourney"`)
	})
}

func TestProviderMetadata(t *testing.T) {
	for _, p := range Providers() {
		t.Run(p.String(), func(t *testing.T) {
			assert.True(t, p.Valid())
			assert.NotEmpty(t, p.DisplayName())
			if p.RequiresCredential() {
				assert.NotEmpty(t, p.EnvKey())
			} else {
				assert.Empty(t, p.EnvKey())
			}
		})
	}

	assert.False(t, ProviderAirForce.RequiresCredential())
	assert.False(t, Provider("nope").Valid())
	assert.Equal(t, "nope", Provider("nope").DisplayName())
}
