package objstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

// Client wraps the S3 client used as the object-storage collaborator for
// report attachments. Durability of the binaries lives here; the core only
// keeps metadata rows.
type Client struct {
	s3Client *s3.Client
	config   *Config
}

// NewClient creates a new object-storage client.
func NewClient(cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("attachment uploads are disabled")
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true // S3-compatible services need path-style URLs
			o.UseAccelerate = false
		}
	})

	client := &Client{
		s3Client: s3Client,
		config:   cfg,
	}

	if err := client.testConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to object storage: %w", err)
	}

	log.Infof("[ObjStore] Successfully initialized S3 client for bucket: %s", cfg.BucketName)
	return client, nil
}

// testConnection checks that the configured bucket is reachable.
func (c *Client) testConnection() error {
	_, err := c.s3Client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(c.config.BucketName),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", c.config.BucketName, err)
	}
	return nil
}

// ObjectKey builds the bucket key for a fresh attachment, dated now.
func (c *Client) ObjectKey(fileID, fileExtension string) string {
	return c.config.ObjectKey(fileID, fileExtension, time.Now())
}

// UploadResult describes a stored attachment.
type UploadResult struct {
	ObjectKey   string
	URL         string
	ContentType string
}

// Upload streams an attachment body into the bucket and returns its key and
// public URL.
func (c *Client) Upload(ctx context.Context, objectKey string, body io.Reader, contentType string, size int64) (*UploadResult, error) {
	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.config.BucketName),
		Key:           aws.String(objectKey),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		Metadata: map[string]string{
			"upload-source": "civiceye-report",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to object storage: %w", err)
	}

	log.Infof("[ObjStore] Uploaded s3://%s/%s", c.config.BucketName, objectKey)

	return &UploadResult{
		ObjectKey:   objectKey,
		URL:         c.config.PublicURL(objectKey),
		ContentType: contentType,
	}, nil
}

// Delete removes an attachment object. Callers treat failures as best-effort;
// the metadata row is already gone.
func (c *Client) Delete(ctx context.Context, objectKey string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", objectKey, err)
	}
	return nil
}
