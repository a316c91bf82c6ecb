package source

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ethpandaops/codebook/pkg/records"
)

// S3Source reads the dataset from a single S3 object (AWS S3 or MinIO)
type S3Source struct {
	client *s3.Client
	bucket string
	key    string
	format Format
}

// NewS3Source creates an S3 source from configuration
func NewS3Source(ctx context.Context, cfg *S3Config, format Format) (*S3Source, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewS3SourceFromClient(client, cfg.Bucket, cfg.Key, format), nil
}

// NewS3SourceFromClient creates an S3 source around an existing client
func NewS3SourceFromClient(client *s3.Client, bucket, key string, format Format) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key, format: format}
}

// Name identifies the source
func (s *S3Source) Name() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// Load downloads and decodes the object
func (s *S3Source) Load(ctx context.Context) ([]records.Record, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &s.key})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	data, err := readPayload(out.Body, maxPayloadBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	return Decode(DetectFormat(s.format, s.key, aws.ToString(out.ContentType)), data)
}
