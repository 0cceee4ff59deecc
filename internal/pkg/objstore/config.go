package objstore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/civiceye/CivicEye/internal/pkg/env"
)

// Config holds the object-storage configuration for report attachments.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	PublicBaseURL   string // Base URL attachments are served from
	Enabled         bool
}

// LoadConfig loads the object-storage configuration from environment variables.
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   env.GetEnv("S3_PUBLIC_BASE_URL", ""),
		Enabled:         env.GetEnv("S3_UPLOADS_ENABLED", "false") == "true",
	}

	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when uploads are enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when uploads are enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when uploads are enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if attachment uploads are enabled.
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// ObjectKey generates a standardized object key for a report attachment.
// Format: reports/YYYY/MM/<fileID><ext>
func (c *Config) ObjectKey(fileID, fileExtension string, at time.Time) string {
	return fmt.Sprintf("reports/%04d/%02d/%s%s", at.Year(), int(at.Month()), fileID, fileExtension)
}

// PublicURL resolves the browser-facing URL of an object key.
func (c *Config) PublicURL(objectKey string) string {
	base := c.PublicBaseURL
	if base == "" {
		if c.EndpointURL != "" {
			base = fmt.Sprintf("%s/%s", strings.TrimSuffix(c.EndpointURL, "/"), c.BucketName)
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.BucketName, c.Region)
		}
	}
	return strings.TrimSuffix(base, "/") + "/" + objectKey
}
