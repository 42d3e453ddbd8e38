package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/client"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

const defaultSaveDirName = "AI Generated Images"

// Config holds CLI configuration loaded from the environment.
type Config struct {
	// APIKeys maps each provider to the credential read from its env var.
	APIKeys map[ai.Provider]string
	// Endpoints holds IMAGEGEN_ENDPOINT_<PROVIDER> overrides.
	Endpoints map[ai.Provider]string

	Enhancer     client.EnhancerBackend
	GroqKey      string
	AnthropicKey string

	// VertexProject routes the google provider through Vertex AI.
	VertexProject  string
	VertexLocation string

	SaveDir   string
	Overwrite bool
	S3Bucket  string

	LogLevel string
	Timeout  time.Duration
}

// LoadConfig loads configuration from environment variables.
// It attempts to load a .env file first; a missing file is not an error.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIKeys:        make(map[ai.Provider]string),
		Endpoints:      make(map[ai.Provider]string),
		Enhancer:       client.EnhancerBackend(strings.ToLower(os.Getenv("IMAGEGEN_ENHANCER"))),
		GroqKey:        os.Getenv("GROQ_API_KEY"),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		VertexProject:  os.Getenv("VERTEX_PROJECT"),
		VertexLocation: getEnvOrDefault("VERTEX_LOCATION", "us-central1"),
		SaveDir:        getEnvOrDefault("IMAGEGEN_SAVE_DIR", defaultSaveDir()),
		Overwrite:      getEnvBoolOrDefault("IMAGEGEN_OVERWRITE", false),
		S3Bucket:       os.Getenv("IMAGEGEN_S3_BUCKET"),
		LogLevel:       getEnvOrDefault("IMAGEGEN_LOG_LEVEL", "info"),
		Timeout:        getEnvDurationOrDefault("IMAGEGEN_TIMEOUT", 2*time.Minute),
	}

	for _, p := range ai.Providers() {
		if env := p.EnvKey(); env != "" {
			if key := strings.TrimSpace(os.Getenv(env)); key != "" {
				cfg.APIKeys[p] = key
			}
		}
		if u := os.Getenv(endpointEnv(p)); u != "" {
			cfg.Endpoints[p] = u
		}
	}

	// Prefer Groq, then Anthropic, when no backend is named.
	if cfg.Enhancer == "" {
		cfg.Enhancer = lo.Ternary(cfg.GroqKey == "" && cfg.AnthropicKey != "",
			client.EnhancerAnthropic, client.EnhancerGroq)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Enhancer {
	case client.EnhancerGroq, client.EnhancerAnthropic:
	default:
		return fmt.Errorf("unknown enhancer: %s (must be groq or anthropic)", c.Enhancer)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("IMAGEGEN_TIMEOUT must not be negative")
	}
	if c.SaveDir == "" && c.S3Bucket == "" {
		return fmt.Errorf("IMAGEGEN_SAVE_DIR or IMAGEGEN_S3_BUCKET is required")
	}
	return nil
}

// ClientConfig converts the CLI configuration into a client.Config.
func (c *Config) ClientConfig() client.Config {
	cc := client.Config{
		APIKeys:   c.APIKeys,
		Endpoints: c.Endpoints,
		Enhancer: client.EnhancerConfig{
			Backend: c.Enhancer,
			APIKey:  lo.Ternary(c.Enhancer == client.EnhancerAnthropic, c.AnthropicKey, c.GroqKey),
		},
		Timeout: c.Timeout,
	}
	if c.VertexProject != "" {
		cc.Vertex = &client.VertexConfig{Project: c.VertexProject, Location: c.VertexLocation}
	}
	return cc
}

// endpointEnv names the variable overriding a provider's endpoint,
// e.g. IMAGEGEN_ENDPOINT_AIRFORCE.
func endpointEnv(p ai.Provider) string {
	return "IMAGEGEN_ENDPOINT_" + strings.ToUpper(string(p))
}

func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultSaveDirName
	}
	return filepath.Join(home, defaultSaveDirName)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
