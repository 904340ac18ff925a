// Package storage wraps the R2 bucket that holds venue and machine photos.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hk-arcade-map/api-go/config"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo is what a HEAD request tells us about an uploaded object.
type ObjectInfo struct {
	Size        int64
	ContentType string
}

type R2Store struct {
	client     *s3.Client
	bucket     string
	publicURL  string
	presignTTL time.Duration
}

// NewR2Store returns nil when client is nil so callers can treat uploads as disabled.
func NewR2Store(client *s3.Client, cfg config.R2Config) *R2Store {
	if client == nil {
		return nil
	}
	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &R2Store{
		client:     client,
		bucket:     cfg.BucketName,
		publicURL:  strings.TrimRight(cfg.PublicURL, "/"),
		presignTTL: ttl,
	}
}

func (r *R2Store) PresignTTL() time.Duration { return r.presignTTL }

func (r *R2Store) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", r.publicURL, key)
}

// PresignPut returns a URL the client can PUT the file to directly.
func (r *R2Store) PresignPut(ctx context.Context, key, contentType string, size int64) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}
	presigner := s3.NewPresignClient(r.client)
	req, err := presigner.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = r.presignTTL
	})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

func (r *R2Store) Stat(ctx context.Context, key string) (*ObjectInfo, error) {
	out, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *s3types.NotFound
		if errors.As(err, &nf) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("head %s: %w", key, err)
	}
	return &ObjectInfo{
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
	}, nil
}

func (r *R2Store) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
