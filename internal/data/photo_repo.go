// Package data provides PostgreSQL and Redis adapters for the photo
// animation pipeline.
package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	apperrors "github.com/wispr-app/wispr-api/internal/errors"
	"github.com/wispr-app/wispr-api/internal/domain/model"
)

// PhotoRepo provides database operations for photo rows.
type PhotoRepo struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewPhotoRepo creates a new PhotoRepo with the given database connection.
func NewPhotoRepo(db *sql.DB, logger *slog.Logger) *PhotoRepo {
	return &PhotoRepo{DB: db, logger: logger}
}

const photoColumns = `id, user_id, file_path, album_id, status, created_at`

// Create inserts a photo row and returns it.
func (r *PhotoRepo) Create(ctx context.Context, params model.CreatePhotoParams) (*model.Photo, error) {
	status := params.Status
	if status == "" {
		status = model.PhotoStatusUploaded
	}

	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO photos (user_id, file_path, album_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+photoColumns,
		params.UserID,
		params.FilePath,
		params.AlbumID,
		status,
	)

	photo, err := scanPhoto(row)
	if err != nil {
		return nil, fmt.Errorf("insert photo: %w", apperrors.MapDBError(err))
	}

	if r.logger != nil {
		r.logger.DebugContext(ctx, "photo created", "id", photo.ID, "user_id", photo.UserID)
	}
	return photo, nil
}

// GetByID returns the photo with the given id, or a NotFound error.
func (r *PhotoRepo) GetByID(ctx context.Context, id string) (*model.Photo, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE id = $1::uuid`, id)

	photo, err := scanPhoto(row)
	if err != nil {
		return nil, fmt.Errorf("get photo %s: %w", id, apperrors.MapDBError(err))
	}
	return photo, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (*model.Photo, error) {
	var (
		photo   model.Photo
		albumID sql.NullString
	)
	if err := row.Scan(
		&photo.ID,
		&photo.UserID,
		&photo.FilePath,
		&albumID,
		&photo.Status,
		&photo.CreatedAt,
	); err != nil {
		return nil, err
	}
	if albumID.Valid {
		photo.AlbumID = &albumID.String
	}
	return &photo, nil
}
