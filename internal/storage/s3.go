package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

// S3Driver stores photos in a public-read bucket.
type S3Driver struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Driver(ctx context.Context, cfg S3Config) (*S3Driver, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.Bucket, region)
	if cfg.Endpoint != "" {
		baseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket + "/"
	}

	return &S3Driver{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

func (d *S3Driver) Upload(ctx context.Context, file io.Reader, key, contentType string) (string, error) {
	key = strings.TrimPrefix(key, "/")

	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", key, err)
	}
	return d.baseURL + key, nil
}

// Delete is idempotent: a key that is already gone is not an error.
func (d *S3Driver) Delete(ctx context.Context, url string) error {
	key, ok := d.keyFromURL(url)
	if !ok {
		return fmt.Errorf("storage: url %s not owned by this bucket", url)
	}

	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil
		}
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (d *S3Driver) Owns(url string) bool {
	_, ok := d.keyFromURL(url)
	return ok
}

func (d *S3Driver) keyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, d.baseURL) {
		return "", false
	}
	key := strings.TrimPrefix(url, d.baseURL)
	if key == "" {
		return "", false
	}
	return key, true
}
