package main

import (
	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/client"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/mcp"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/store"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

func NewMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the generate_image tool over stdio",
		Args:  cobra.NoArgs,
		RunE:  a.mcpHandler,
	}

	cmd.Flags().StringP("provider", "p", string(ai.ProviderAirForce), "Provider used when the tool call names none")
	cmd.Flags().Bool("save", false, "Also save every generated image")

	return cmd
}

func (a *app) mcpHandler(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("provider")
	provider, err := ai.ParseProvider(name)
	if err != nil {
		return err
	}

	opts := []mcp.ServerOption{mcp.WithDefaultProvider(provider)}
	if save, _ := cmd.Flags().GetBool("save"); save {
		saver, err := do.Invoke[*store.Saver](a.injector)
		if err != nil {
			return err
		}
		opts = append(opts, mcp.WithSaver(saver))
	}

	return mcp.ServeStdio(cmd.Context(), do.MustInvoke[*client.Client](a.injector), opts...)
}
