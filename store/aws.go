package store

import (
	"bytes"
	"context"

	"github.com/Amul-Thantharate/vscode-ai-image-generator/internal/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// PutObjectAPI is the part of *s3.Client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Uploader struct {
	Client PutObjectAPI
	Bucket string
}

func NewS3Uploader(client PutObjectAPI, bucket string) *S3Uploader {
	return &S3Uploader{Client: client, Bucket: bucket}
}

// Location returns the s3:// URI for name.
func (u *S3Uploader) Location(name string) string {
	return "s3://" + u.Bucket + "/" + name
}

func (u *S3Uploader) Upload(ctx context.Context, params UploadParams) error {
	logger := log.FromContextOrDiscard(ctx).With(
		"name", params.Name,
		"content_type", params.ContentType,
		"bucket", u.Bucket,
	)
	logger.Info("uploading to s3")

	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.Bucket),
		Key:          aws.String(params.Name),
		ContentType:  aws.String(params.ContentType),
		Body:         bytes.NewReader(params.Data),
		Metadata:     params.Metadata,
		StorageClass: s3types.StorageClassIntelligentTiering,
	})
	return err
}
