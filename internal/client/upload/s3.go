// Package upload puts draft images on an S3-compatible asset host and hands
// back the public URL referenced by the post. The rest of the client treats
// this as an opaque file → URL step.
package upload

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Settings configures the asset host connection.
type Settings struct {
	Endpoint      string // S3 API endpoint, e.g. http://localhost:9000
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // base of the URLs embedded in posts
}

// Uploader stores images in a single bucket.
type Uploader struct {
	settings Settings
}

func NewUploader(settings Settings) *Uploader {
	return &Uploader{settings: settings}
}

func (u *Uploader) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(u.settings.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.settings.AccessKey,
			u.settings.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(u.settings.Endpoint)
		o.UsePathStyle = true
	})
	return client, nil
}

// storageKey builds a date-sharded object key that keeps the original
// extension, e.g. images/2026/8/30/<uuid>.png.
func storageKey(filename string) string {
	d := time.Now()
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("images/%d/%d/%d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

// Upload stores the file content under a fresh key and returns the public
// URL to embed in the post.
func (u *Uploader) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	client, err := u.getClient(ctx)
	if err != nil {
		return "", err
	}

	key := storageKey(filename)
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.settings.Bucket,
		Key:         &key,
		Body:        content,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}

	return u.PublicURL(key), nil
}

// PublicURL returns the URL under which an uploaded key is served.
func (u *Uploader) PublicURL(key string) string {
	base := strings.TrimRight(u.settings.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(u.settings.Endpoint, "/") + "/" + u.settings.Bucket
	}
	return base + "/" + key
}
