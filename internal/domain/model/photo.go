// Package model defines the core data types shared by the wispr photo
// animation pipeline.
package model

import (
	"errors"
	"strings"
	"time"
)

// PhotoStatusUploaded is the lifecycle status written for freshly stored photos.
// The column is free text; this is the only value this service writes.
const PhotoStatusUploaded = "uploaded"

// Photo represents an uploaded source image. Rows are created by the upload
// handler and only ever read by the animation pipeline.
type Photo struct {
	ID        string    `json:"id"                 db:"id"`
	UserID    string    `json:"user_id"            db:"user_id"`
	AlbumID   *string   `json:"album_id,omitempty" db:"album_id"`
	FilePath  string    `json:"file_path"          db:"file_path"`
	Status    string    `json:"status"             db:"status"`
	CreatedAt time.Time `json:"created_at"         db:"created_at"`
}

// UploadPhotoRequest carries the multipart fields of an upload. The file body
// itself travels separately as a reader.
type UploadPhotoRequest struct {
	AlbumID  string `json:"album_id"`
	UserID   string `json:"user_id"`
	FileName string `json:"file_name"`
}

// Validate validates the UploadPhotoRequest fields.
func (r *UploadPhotoRequest) Validate() error {
	if strings.TrimSpace(r.AlbumID) == "" {
		return errors.New("album_id is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(r.FileName) == "" {
		return errors.New("file is required")
	}
	return nil
}

// CreatePhotoParams groups the columns written when inserting a photo row.
type CreatePhotoParams struct {
	UserID   string
	AlbumID  *string
	FilePath string
	Status   string
}
