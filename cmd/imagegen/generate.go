package main

import (
	"fmt"
	"strings"

	ai "github.com/Amul-Thantharate/vscode-ai-image-generator"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/client"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/store"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func NewGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate PROMPT...",
		Aliases: []string{"gen"},
		Short:   "Generate an image and save it",
		Args:    cobra.MinimumNArgs(1),
		RunE:    a.generateHandler,
	}

	cmd.Flags().StringP("provider", "p", string(ai.ProviderAirForce), "Image provider")
	cmd.Flags().Bool("enhance", false, "Rewrite the prompt with the enhancer before generating")
	cmd.Flags().String("model", "", "Vendor model override")
	cmd.Flags().String("size", "", "Predefined size, e.g. 1024x1792")
	cmd.Flags().Int("width", 0, "Image width")
	cmd.Flags().Int("height", 0, "Image height")
	cmd.Flags().Int("steps", 0, "Denoising steps")
	cmd.Flags().String("quality", "", "Image quality (standard, hd)")
	cmd.Flags().String("style", "", "Vendor style preset")
	cmd.Flags().String("format", "", "Output format (png, jpeg, webp)")
	cmd.Flags().String("negative", "", "Negative prompt")
	cmd.Flags().Int64("seed", 0, "Random seed")
	cmd.Flags().String("out", "", "Directory to save into (default $IMAGEGEN_SAVE_DIR)")
	cmd.Flags().String("name", "", "File name (default derived from the prompt)")
	cmd.Flags().Bool("overwrite", false, "Replace an existing file")
	cmd.Flags().String("s3-bucket", "", "Save to this S3 bucket instead of disk")

	return cmd
}

func (a *app) generateHandler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	name, _ := flags.GetString("provider")
	provider, err := ai.ParseProvider(name)
	if err != nil {
		return err
	}
	opts, err := imageOptions(flags)
	if err != nil {
		return err
	}
	a.applyStorageFlags(flags)

	prompt := strings.Join(args, " ")
	enhance, _ := flags.GetBool("enhance")

	filename, _ := flags.GetString("name")
	if filename == "" {
		filename = store.DefaultFilename(prompt)
	}
	saver, err := do.Invoke[*store.Saver](a.injector)
	if err != nil {
		return err
	}
	// Refuse before the vendor call so an existing file costs nothing.
	if err := saver.Check(ctx, filename); err != nil {
		return err
	}

	res, err := do.MustInvoke[*client.Client](a.injector).Generate(ctx, client.Request{
		Provider: provider,
		Prompt:   prompt,
		Enhance:  enhance,
		Options:  opts,
	})
	if err != nil {
		return err
	}
	if res.EnhanceErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Prompt enhancement skipped: %v\n", res.EnhanceErr)
	}

	location, err := saver.Save(ctx, res.Image, filename, map[string]string{
		"prompt":   res.Prompt,
		"provider": string(res.Provider),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Provider: %s\n", res.Provider.DisplayName())
	fmt.Fprintf(out, "Prompt: %s\n", res.Prompt)
	fmt.Fprintf(out, "Saved to: %s\n", location)
	return nil
}

// applyStorageFlags lets flags override the storage configuration. It
// must run before the uploader is first resolved.
func (a *app) applyStorageFlags(flags *pflag.FlagSet) {
	if flags.Changed("out") {
		a.cfg.SaveDir, _ = flags.GetString("out")
	}
	if flags.Changed("overwrite") {
		a.cfg.Overwrite, _ = flags.GetBool("overwrite")
	}
	if flags.Changed("s3-bucket") {
		a.cfg.S3Bucket, _ = flags.GetString("s3-bucket")
	}
}

func imageOptions(flags *pflag.FlagSet) ([]ai.ImageOption, error) {
	var opts []ai.ImageOption

	if model, _ := flags.GetString("model"); model != "" {
		opts = append(opts, ai.WithImageModel(model))
	}
	if size, _ := flags.GetString("size"); size != "" {
		opts = append(opts, ai.WithImageSize(ai.ImageSize(size)))
	}

	width, _ := flags.GetInt("width")
	height, _ := flags.GetInt("height")
	if (width > 0) != (height > 0) {
		return nil, fmt.Errorf("--width and --height must be set together")
	}
	if width > 0 {
		opts = append(opts, ai.WithDimensions(width, height))
	}

	if steps, _ := flags.GetInt("steps"); steps > 0 {
		opts = append(opts, ai.WithSteps(steps))
	}
	if quality, _ := flags.GetString("quality"); quality != "" {
		opts = append(opts, ai.WithImageQuality(ai.ImageQuality(quality)))
	}
	if style, _ := flags.GetString("style"); style != "" {
		opts = append(opts, ai.WithStyle(style))
	}
	if format, _ := flags.GetString("format"); format != "" {
		f, err := parseFormat(format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ai.WithOutputFormat(f))
	}
	if negative, _ := flags.GetString("negative"); negative != "" {
		opts = append(opts, ai.WithNegativePrompt(negative))
	}
	if flags.Changed("seed") {
		seed, _ := flags.GetInt64("seed")
		opts = append(opts, ai.WithSeed(seed))
	}

	return opts, nil
}

func parseFormat(s string) (ai.OutputFormat, error) {
	switch strings.ToLower(s) {
	case "png":
		return ai.FormatPNG, nil
	case "jpeg", "jpg":
		return ai.FormatJPEG, nil
	case "webp":
		return ai.FormatWebP, nil
	}
	return "", fmt.Errorf("unsupported format %q (must be png, jpeg or webp)", s)
}
