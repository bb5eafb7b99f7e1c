package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wispr-app/wispr-api/internal/domain/model"
	apperrors "github.com/wispr-app/wispr-api/internal/errors"
	"github.com/wispr-app/wispr-api/internal/service"
)

// photoResponse is the wire shape of a successful upload.
type photoResponse struct {
	Success bool         `json:"success"`
	Photo   *model.Photo `json:"photo"`
}

// PhotoHandlers serves the photo upload endpoint.
type PhotoHandlers struct {
	upload         *service.UploadService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewPhotoHandlers creates PhotoHandlers backed by the given upload service.
func NewPhotoHandlers(upload *service.UploadService, maxUploadBytes int64, logger *slog.Logger) (*PhotoHandlers, error) {
	if upload == nil {
		return nil, errors.New("upload service is required")
	}
	if maxUploadBytes <= 0 {
		return nil, errors.New("max upload bytes must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PhotoHandlers{
		upload:         upload,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With("component", "photo_handlers"),
	}, nil
}

// Upload handles POST /api/v1/photos. Expects a multipart form with album_id,
// user_id, and file parts; responds 200 with the stored photo row.
func (h *PhotoHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteJSON(w, http.StatusRequestEntityTooLarge,
				envelope{Success: false, Error: "uploaded file is too large"})
			return
		}
		WriteError(w, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid multipart form"))
		return
	}

	req := model.UploadPhotoRequest{
		AlbumID: r.FormValue("album_id"),
		UserID:  r.FormValue("user_id"),
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, apperrors.ValidationField("file", "file is required"))
		return
	}
	defer file.Close()
	req.FileName = header.Filename

	// With token auth enabled, callers may only upload as themselves.
	if authID, ok := UserIDFromContext(r.Context()); ok && authID != req.UserID {
		WriteJSON(w, http.StatusForbidden,
			envelope{Success: false, Error: "user_id does not match the authenticated user"})
		return
	}

	photo, err := h.upload.Upload(r.Context(), req, file, header.Header.Get("Content-Type"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "upload failed", "user_id", req.UserID, "error", err)
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, photoResponse{Success: true, Photo: photo})
}
