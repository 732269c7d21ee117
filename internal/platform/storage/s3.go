// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage provides object storage for uploaded media.

The only implementation targets S3-compatible services (AWS S3, Cloudflare R2,
MinIO). Objects are written public-read and addressed through [S3Storage.URL],
which prefers the configured CDN prefix.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrInvalidConfig is returned when required settings are missing.
var ErrInvalidConfig = errors.New("storage: bucket, access key and secret key are required")

// Storage is the write side of object storage used by the upload handler.
type Storage interface {
	// Put uploads size bytes from body under key.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error

	// URL returns the public address of key.
	URL(key string) string
}

// Config holds S3-compatible storage settings.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string

	// PublicURL is a CDN prefix. Without it URLs point at the endpoint.
	PublicURL string
}

// S3Storage implements [Storage] on top of aws-sdk-go-v2.
type S3Storage struct {
	client *s3.Client
	cfg    Config
}

// NewS3 builds an [S3Storage]. No request is made until the first upload.
func NewS3(cfg Config) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, ErrInvalidConfig
	}
	if cfg.Region == "" {
		cfg.Region = "auto"
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		},
	}

	// Custom endpoints (R2, MinIO) use path-style addressing
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Storage{client: s3.New(s3.Options{}, opts...), cfg: cfg}, nil
}

// Put implements [Storage].
func (storage *S3Storage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := storage.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(storage.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", key, err)
	}
	return nil
}

// URL implements [Storage].
func (storage *S3Storage) URL(key string) string {
	if storage.cfg.PublicURL != "" {
		return strings.TrimRight(storage.cfg.PublicURL, "/") + "/" + key
	}
	if storage.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(storage.cfg.Endpoint, "/"), storage.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", storage.cfg.Bucket, storage.cfg.Region, key)
}
