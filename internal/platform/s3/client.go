package s3

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/imamik/psclink/internal/config"
	"github.com/imamik/psclink/internal/provisioning"
)

// Credential environment variables.
const (
	EnvAccessKey = "PSCLINK_S3_ACCESS_KEY"
	EnvSecretKey = "PSCLINK_S3_SECRET_KEY"
)

// DefaultRegion is used when neither the config nor the URL names one.
const DefaultRegion = "us-east-1"

// Options configures NewClient.
type Options struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// Client wraps the S3 client for the state bucket.
type Client struct {
	s3     *s3.Client
	region string
}

var _ provisioning.StateBucket = (*Client)(nil)

// NewClient creates a new S3 client. Empty keys fall back to the default
// AWS credential chain.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	region := opts.Region
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return &Client{s3: client, region: region}, nil
}

// OptionsFromConfig derives client options from the backend configuration.
// Explicit s3 settings win over endpoint and region query parameters of the
// backend URL. Credentials come from PSCLINK_S3_ACCESS_KEY and
// PSCLINK_S3_SECRET_KEY.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		AccessKey: os.Getenv(EnvAccessKey),
		SecretKey: os.Getenv(EnvSecretKey),
	}

	if u, err := url.Parse(cfg.Backend.URL); err == nil {
		q := u.Query()
		opts.Endpoint = q.Get("endpoint")
		opts.Region = q.Get("region")
		opts.UsePathStyle = q.Get("s3ForcePathStyle") == "true" || q.Get("use_path_style") == "true"
	}

	if s := cfg.Backend.S3; s != nil {
		if s.Endpoint != "" {
			opts.Endpoint = s.Endpoint
		}
		if s.Region != "" {
			opts.Region = s.Region
		}
	}

	if opts.Endpoint != "" {
		if u, err := url.Parse(opts.Endpoint); err == nil && u.Scheme == "" {
			opts.Endpoint = "https://" + opts.Endpoint
		}
	}

	return opts
}

// EnsureBucket creates the bucket unless it already exists. It reports
// whether the bucket was created by this call.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) (bool, error) {
	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if c.region != DefaultRegion {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(c.region),
		}
	}

	if _, err := c.s3.CreateBucket(ctx, input); err != nil {
		if isBucketAlreadyOwnedByYou(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return true, nil
}

// BucketExists checks if a bucket exists and is accessible.
func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	return true, nil
}

// DeleteBucket removes every object in the bucket and then the bucket.
// A missing bucket is not an error.
func (c *Client) DeleteBucket(ctx context.Context, bucket string) error {
	p := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			if isNotFoundError(err) {
				return nil
			}
			return fmt.Errorf("failed to list objects in bucket %s: %w", bucket, err)
		}
		for _, obj := range page.Contents {
			if _, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(bucket),
				Key:    obj.Key,
			}); err != nil {
				return fmt.Errorf("failed to delete object %s from bucket %s: %w", aws.ToString(obj.Key), bucket, err)
			}
		}
	}

	if _, err := c.s3.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(bucket),
	}); err != nil {
		if isNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("failed to delete bucket %s: %w", bucket, err)
	}
	return nil
}

// isBucketAlreadyOwnedByYou checks if the error indicates the bucket exists and is owned by us.
func isBucketAlreadyOwnedByYou(err error) bool {
	if err == nil {
		return false
	}

	var baoby *types.BucketAlreadyOwnedByYou
	if errors.As(err, &baoby) {
		return true
	}

	// S3-compatible services do not always return the SDK's typed errors.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "BucketAlreadyOwnedByYou"
	}

	return false
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchBucket" || code == "404"
	}

	return false
}
