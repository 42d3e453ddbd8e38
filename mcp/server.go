// Package mcp exposes image generation as an MCP (Model Context Protocol)
// tool so assistants such as Claude Desktop can call it.
//
// The server registers one tool, generate_image:
//
//	c := client.New(cfg)
//	if err := mcp.ServeStdio(ctx, c, mcp.WithDefaultProvider(ai.ProviderAirForce)); err != nil {
//	    log.Fatal(err)
//	}
//
// Generation failures are returned as tool errors, not protocol errors.
package mcp

import (
	"context"
	"fmt"
	"io"
	"os"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/client"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/lo"
)

// ToolName is the name of the registered tool.
const ToolName = "generate_image"

// Generator runs one generation request. *client.Client implements it.
type Generator interface {
	Generate(ctx context.Context, req client.Request) (*client.Result, error)
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name            string
	version         string
	defaultProvider ai.Provider
	saver           *store.Saver
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithDefaultProvider sets the provider used when a call names none.
func WithDefaultProvider(p ai.Provider) ServerOption {
	return func(c *serverConfig) {
		c.defaultProvider = p
	}
}

// WithSaver also persists every generated image and reports where.
func WithSaver(s *store.Saver) ServerOption {
	return func(c *serverConfig) {
		c.saver = s
	}
}

// NewServer creates an MCP server exposing the generate_image tool.
func NewServer(gen Generator, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:            "imagegen",
		version:         "1.0.0",
		defaultProvider: ai.ProviderAirForce,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)
	s.AddTool(generateTool(), generateHandler(gen, cfg))
	return s
}

func generateTool() mcp.Tool {
	ids := lo.Map(ai.Providers(), func(p ai.Provider, _ int) string { return string(p) })
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Generate an image from a text prompt with the selected provider."),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("What the image should show."),
		),
		mcp.WithString("provider",
			mcp.Description("Image provider to use."),
			mcp.Enum(ids...),
		),
		mcp.WithBoolean("enhance",
			mcp.Description("Rewrite the prompt with more visual detail before generating."),
		),
	)
}

func generateHandler(gen Generator, cfg *serverConfig) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prompt, err := req.RequireString("prompt")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		provider := cfg.defaultProvider
		if name := req.GetString("provider", ""); name != "" {
			provider, err = ai.ParseProvider(name)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		res, err := gen.Generate(ctx, client.Request{
			Provider: provider,
			Prompt:   prompt,
			Enhance:  req.GetBool("enhance", false),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		text := fmt.Sprintf("Generated with %s.", provider.DisplayName())
		if res.Enhanced {
			text += fmt.Sprintf("\nEnhanced prompt: %s", res.Prompt)
		}
		if cfg.saver != nil {
			// The image is returned even when saving fails.
			loc, err := save(ctx, cfg.saver, prompt, res)
			if err != nil {
				text += "\nImage not saved: " + err.Error()
			} else {
				text += "\nSaved to " + loc
			}
		}

		if res.Image.Kind() == ai.RefInline {
			return mcp.NewToolResultImage(text, res.Image.Base64(), res.Image.MIMEType()), nil
		}
		return mcp.NewToolResultText(text + "\nImage URL: " + res.Image.URL()), nil
	}
}

// save stores the image under a name derived from the prompt, numbering
// it when earlier calls already used that name.
func save(ctx context.Context, saver *store.Saver, prompt string, res *client.Result) (string, error) {
	name, err := saver.UniqueName(ctx, store.DefaultFilename(prompt))
	if err != nil {
		return "", err
	}
	return saver.Save(ctx, res.Image, name, map[string]string{
		"prompt":   res.Prompt,
		"provider": string(res.Provider),
	})
}

// Serve runs the MCP server over r and w until ctx is done or r is
// exhausted. ctx reaches every tool call, so a logger stored in it with
// log.NewContext is used for the generation.
func Serve(ctx context.Context, gen Generator, r io.Reader, w io.Writer, opts ...ServerOption) error {
	return server.NewStdioServer(NewServer(gen, opts...)).Listen(ctx, r, w)
}

// ServeStdio starts an MCP server that communicates over stdin/stdout.
func ServeStdio(ctx context.Context, gen Generator, opts ...ServerOption) error {
	return Serve(ctx, gen, os.Stdin, os.Stdout, opts...)
}
