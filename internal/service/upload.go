// Package service implements the application use cases: photo upload and the
// animation job lifecycle.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wispr-app/wispr-api/internal/core"
	"github.com/wispr-app/wispr-api/internal/domain/model"
	apperrors "github.com/wispr-app/wispr-api/internal/errors"
)

// UploadService stores photo files and records their rows.
type UploadService struct {
	photos core.PhotoRepository
	store  core.ObjectStore
	bucket string
	logger *slog.Logger
}

// UploadServiceOptions contains configuration for creating an UploadService.
type UploadServiceOptions struct {
	Photos core.PhotoRepository
	Store  core.ObjectStore
	// Bucket is the object store bucket photos are written to.
	Bucket string
	Logger *slog.Logger
}

// NewUploadService creates a new UploadService with the given options.
func NewUploadService(opts UploadServiceOptions) (*UploadService, error) {
	if opts.Photos == nil {
		return nil, errors.New("photo repository is required")
	}
	if opts.Store == nil {
		return nil, errors.New("object store is required")
	}
	if opts.Bucket == "" {
		return nil, errors.New("photo bucket is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &UploadService{
		photos: opts.Photos,
		store:  opts.Store,
		bucket: opts.Bucket,
		logger: logger.With("component", "upload_service"),
	}, nil
}

// Upload stores the file under `<user_id>/<uuid><ext>` and inserts the photo
// row. The row's status is always "uploaded"; contentType may be empty, in
// which case it is inferred from the file extension.
func (s *UploadService) Upload(
	ctx context.Context,
	req model.UploadPhotoRequest,
	file io.Reader,
	contentType string,
) (*model.Photo, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if file == nil {
		return nil, apperrors.ValidationField("file", "file is required")
	}

	ext := strings.ToLower(filepath.Ext(req.FileName))
	objectPath := req.UserID + "/" + uuid.NewString() + ext

	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}

	err := s.store.Upload(ctx, core.UploadObjectParams{
		Bucket:      s.bucket,
		Path:        objectPath,
		ContentType: contentType,
		Body:        file,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeStorage, "store photo")
	}

	albumID := req.AlbumID
	photo, err := s.photos.Create(ctx, model.CreatePhotoParams{
		UserID:   req.UserID,
		AlbumID:  &albumID,
		FilePath: objectPath,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "photo uploaded",
		"photo_id", photo.ID,
		"user_id", photo.UserID,
		"album_id", albumID,
		"file_path", objectPath)
	return photo, nil
}
