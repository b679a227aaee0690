package catalog

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
)

// ObjectGetter is the subset of the S3 client the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Loader fetches a YAML catalog object from a bucket.
type S3Loader struct {
	client ObjectGetter
	bucket string
	key    string
	log    *logger.Logger
}

// S3Options configures NewS3Loader. Empty fields fall back to the default
// AWS credential chain and region resolution.
type S3Options struct {
	Region          string
	Endpoint        string // custom endpoint, e.g. MinIO
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Loader builds a loader backed by a real S3 client.
func NewS3Loader(ctx context.Context, bucket, key string, opts S3Options, log *logger.Logger) (*S3Loader, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("catalog: load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3LoaderWithClient(client, bucket, key, log), nil
}

// NewS3LoaderWithClient builds a loader around an existing client.
func NewS3LoaderWithClient(client ObjectGetter, bucket, key string, log *logger.Logger) *S3Loader {
	return &S3Loader{client: client, bucket: bucket, key: key, log: log}
}

// Load downloads and decodes the catalog object.
func (l *S3Loader) Load(ctx context.Context) ([]domain.Recipe, error) {
	l.log.Debug("catalog: fetching s3://%s/%s", l.bucket, l.key)
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: get s3://%s/%s: %w", l.bucket, l.key, err)
	}
	defer out.Body.Close()

	recipes, err := Decode(out.Body)
	if err != nil {
		return nil, err
	}
	l.log.Info("catalog: loaded %d recipes from s3://%s/%s", len(recipes), l.bucket, l.key)
	return recipes, nil
}
