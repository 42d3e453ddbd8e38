package main

import (
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

// app is the state shared by every subcommand once the root has run its
// pre-run hook.
type app struct {
	cfg      *Config
	injector *do.Injector
}

func NewCLI() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "imagegen",
		Short: "Generate images from text prompts",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(
		NewGenerateCmd(a),
		NewProvidersCmd(a),
		NewMCPCmd(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// Disable usage printing on errors
	cmd.SilenceUsage = true

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}

	logger := log.New(cmd.ErrOrStderr(), cfg.LogLevel)
	ctx := log.NewContext(cmd.Context(), logger)
	cmd.SetContext(ctx)

	a.cfg = cfg
	a.injector = Setup(ctx, cfg)
	return nil
}
