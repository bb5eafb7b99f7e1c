// Package supabase implements the object store interface on top of Supabase
// Storage buckets.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	storage_go "github.com/supabase-community/storage-go"

	"github.com/wispr-app/wispr-api/internal/core"
)

// Store wraps the Supabase storage client. Buckets are chosen per call, so a
// single Store serves both the photo and the video buckets.
type Store struct {
	client *storage_go.Client
	logger *slog.Logger
}

// StoreOptions contains configuration for creating a Store.
type StoreOptions struct {
	// URL is the storage endpoint, e.g. https://<project>.supabase.co/storage/v1.
	URL string
	// ServiceKey authenticates as the backend service role.
	ServiceKey string
	Logger     *slog.Logger
}

// NewStore creates a Store with the given options.
func NewStore(opts StoreOptions) (*Store, error) {
	if opts.URL == "" {
		return nil, errors.New("storage URL is required")
	}
	if opts.ServiceKey == "" {
		return nil, errors.New("storage service key is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		client: storage_go.NewClient(opts.URL, opts.ServiceKey, nil),
		logger: logger.With("component", "object_store"),
	}, nil
}

// Upload writes the object body to the given bucket and path.
func (s *Store) Upload(ctx context.Context, params core.UploadObjectParams) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if params.Bucket == "" || params.Path == "" {
		return errors.New("bucket and path are required")
	}

	opts := storage_go.FileOptions{}
	if params.ContentType != "" {
		ct := params.ContentType
		opts.ContentType = &ct
	}

	if _, err := s.client.UploadFile(params.Bucket, params.Path, params.Body, opts); err != nil {
		return fmt.Errorf("upload %s/%s: %w", params.Bucket, params.Path, err)
	}

	s.logger.InfoContext(ctx, "object uploaded",
		"bucket", params.Bucket, "path", params.Path, "content_type", params.ContentType)
	return nil
}

// SignedURL returns a time-limited URL for reading the object.
func (s *Store) SignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if bucket == "" || path == "" {
		return "", errors.New("bucket and path are required")
	}

	expiresIn := int(ttl / time.Second)
	if expiresIn <= 0 {
		expiresIn = 60
	}

	resp, err := s.client.CreateSignedUrl(bucket, path, expiresIn)
	if err != nil {
		return "", fmt.Errorf("sign %s/%s: %w", bucket, path, err)
	}
	if resp.SignedURL == "" {
		return "", fmt.Errorf("sign %s/%s: empty signed URL in response", bucket, path)
	}
	return resp.SignedURL, nil
}
