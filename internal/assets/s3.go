package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/vidarr1412/projectFacebook-MarketPlace/config"
)

// S3Store implements Store on any S3-compatible object storage (AWS S3,
// MinIO, Supabase storage's S3 endpoint, ...).
type S3Store struct {
	client       *s3.Client
	bucket       string
	endpoint     string
	usePathStyle bool
	publicBase   string
	cacheControl string
	logger       *logrus.Logger
}

func NewS3Store(cfg *config.AssetsConfig, logger *logrus.Logger) (*S3Store, error) {
	if cfg == nil {
		return nil, errors.New("assets configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("assets bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("assets credentials are required")
	}

	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if endpoint != "" {
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid assets endpoint: %w", err)
		}
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &S3Store{
		client:       client,
		bucket:       cfg.Bucket,
		endpoint:     endpoint,
		usePathStyle: cfg.UsePathStyle,
		publicBase:   strings.TrimRight(cfg.PublicBaseURL, "/"),
		cacheControl: cfg.CacheControl,
		logger:       logger,
	}, nil
}

// Upload stores the asset with cache-control metadata. The conditional
// put makes a key collision fail instead of silently replacing another
// upload; keys are random, so this only guards the pathological case.
func (s *S3Store) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		IfNoneMatch: aws.String("*"),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if s.cacheControl != "" {
		input.CacheControl = aws.String(s.cacheControl)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.WithField("key", key).Debug("Uploaded listing asset")
	return nil
}

// PublicURL resolves the public address of an uploaded key. When a CDN or
// public bucket base URL is configured it takes precedence over the
// storage endpoint.
func (s *S3Store) PublicURL(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	if s.publicBase != "" {
		return s.publicBase + "/" + key, nil
	}
	if s.endpoint == "" {
		return "", errors.New("no public base URL or endpoint configured")
	}
	if s.usePathStyle {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
	}

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid assets endpoint: %w", err)
	}
	return fmt.Sprintf("%s://%s.%s/%s", u.Scheme, s.bucket, u.Host, key), nil
}
