package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Amul-Thantharate/vscode-ai-image-generator/client"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
	"github.com/Amul-Thantharate/vscode-ai-image-generator/store"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/samber/do"
)

// Setup wires the CLI's services. Providers are lazy: the AWS config is
// only loaded when an S3 bucket is configured and an image is saved.
func Setup(ctx context.Context, cfg *Config) *do.Injector {
	logger := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.ProvideValue[*Config](injector, cfg)
	do.ProvideValue[*http.Client](injector, http.DefaultClient)

	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return awsconfig.LoadDefaultConfig(ctx)
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})

	do.Provide[*client.Client](injector, func(i *do.Injector) (*client.Client, error) {
		cc := do.MustInvoke[*Config](i).ClientConfig()
		cc.HTTPClient = do.MustInvoke[*http.Client](i)
		return client.New(cc), nil
	})
	do.Provide[store.Uploader](injector, newUploader)
	do.Provide[*store.Saver](injector, func(i *do.Injector) (*store.Saver, error) {
		return store.NewSaver(do.MustInvoke[store.Uploader](i), do.MustInvoke[*http.Client](i)), nil
	})

	return injector
}

func newUploader(i *do.Injector) (store.Uploader, error) {
	cfg := do.MustInvoke[*Config](i)
	if cfg.S3Bucket != "" {
		c, err := do.Invoke[*s3.Client](i)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		return store.NewS3Uploader(c, cfg.S3Bucket), nil
	}
	return &store.FileUploader{Dir: cfg.SaveDir, Overwrite: cfg.Overwrite}, nil
}
