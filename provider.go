package imagegen

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Provider identifies an image generation vendor.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderOpenAI    Provider = "openai"
	ProviderStability Provider = "stability"
	ProviderTogether  Provider = "together"
	ProviderAirForce  Provider = "airforce"
	ProviderNvidia    Provider = "nvidia"
	ProviderReplicate Provider = "replicate"
	ProviderGoogle    Provider = "google"
)

type providerInfo struct {
	display string
	envKey  string
	aliases []string
}

var providerTable = map[Provider]providerInfo{
	ProviderOpenAI:    {"OpenAI DALL-E", "OPENAI_API_KEY", []string{"dall-e", "dalle"}},
	ProviderStability: {"Stable Diffusion", "STABILITY_API_KEY", []string{"stable diffusion", "stability ai"}},
	ProviderTogether:  {"Together AI", "TOGETHER_API_KEY", nil},
	ProviderAirForce:  {"AirForce (Free)", "", nil},
	ProviderNvidia:    {"NVIDIA Consistory", "NVIDIA_API_KEY", []string{"consistory"}},
	ProviderReplicate: {"Replicate", "REPLICATE_API_TOKEN", nil},
	ProviderGoogle:    {"Google Imagen", "GOOGLE_API_KEY", []string{"imagen"}},
}

// Providers returns every supported provider in display order.
func Providers() []Provider {
	return []Provider{
		ProviderOpenAI,
		ProviderStability,
		ProviderTogether,
		ProviderNvidia,
		ProviderReplicate,
		ProviderGoogle,
		ProviderAirForce,
	}
}

// DisplayName returns the human readable provider name.
func (p Provider) DisplayName() string {
	if info, ok := providerTable[p]; ok {
		return info.display
	}
	return string(p)
}

// EnvKey returns the environment variable conventionally holding the
// provider's credential, or "" for providers that need none.
func (p Provider) EnvKey() string {
	return providerTable[p].envKey
}

// RequiresCredential reports whether the provider needs an API key.
// The AirForce endpoint is free and unauthenticated.
func (p Provider) RequiresCredential() bool {
	return p != ProviderAirForce
}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	_, ok := providerTable[p]
	return ok
}

// ParseProvider resolves a provider from its id, display name or alias.
// Matching is case-insensitive.
func ParseProvider(s string) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	p, ok := lo.FindKeyBy(providerTable, func(id Provider, info providerInfo) bool {
		return string(id) == name ||
			strings.ToLower(info.display) == name ||
			lo.Contains(info.aliases, name)
	})
	if !ok {
		return "", fmt.Errorf("unknown provider %q", s)
	}
	return p, nil
}
