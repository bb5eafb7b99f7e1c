package httpx

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/wispr-app/wispr-api/internal/auth"
	"github.com/wispr-app/wispr-api/internal/service"
)

// RouterOptions contains the dependencies for building the API router.
type RouterOptions struct {
	Upload     *service.UploadService
	Animations *service.AnimationService
	// DB feeds the health check. Optional.
	DB *sql.DB
	// Verifier enables bearer token auth on the API routes. Nil disables it.
	Verifier       *auth.Verifier
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// NewRouter builds the HTTP handler with all routes and middleware wired.
func NewRouter(opts RouterOptions) (http.Handler, error) {
	if opts.Upload == nil {
		return nil, errors.New("upload service is required")
	}
	if opts.Animations == nil {
		return nil, errors.New("animation service is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	photoHandlers, err := NewPhotoHandlers(opts.Upload, opts.MaxUploadBytes, logger)
	if err != nil {
		return nil, err
	}
	animationHandlers, err := NewAnimationHandlers(opts.Animations, logger)
	if err != nil {
		return nil, err
	}
	healthHandlers := NewHealthHandlers(opts.DB)

	requireUser := RequireUser(opts.Verifier)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandlers.Health)
	mux.Handle("POST /api/v1/photos", requireUser(http.HandlerFunc(photoHandlers.Upload)))
	mux.Handle("POST /api/v1/animations", requireUser(http.HandlerFunc(animationHandlers.Animate)))
	mux.Handle("POST /api/v1/animations/{id}/resume", requireUser(http.HandlerFunc(animationHandlers.Resume)))

	return Chain(mux, Recover(logger), RequestLogger(logger)), nil
}
