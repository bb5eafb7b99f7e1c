package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/wispr-app/wispr-api/internal/domain/model"
	apperrors "github.com/wispr-app/wispr-api/internal/errors"
	"github.com/wispr-app/wispr-api/internal/service"
)

// animationResponse is the wire shape of a successful animate or resume call:
// a completed animation row, or a pending status with a human-readable message.
type animationResponse struct {
	Success   bool                  `json:"success"`
	Status    model.AnimationStatus `json:"status"`
	Animation *model.Animation      `json:"animation,omitempty"`
	Message   string                `json:"message,omitempty"`
}

func newAnimationResponse(outcome *model.AnimationOutcome) animationResponse {
	return animationResponse{
		Success:   true,
		Status:    outcome.Status,
		Animation: outcome.Animation,
		Message:   outcome.Message,
	}
}

// AnimationHandlers serves the animate and resume endpoints.
type AnimationHandlers struct {
	animations *service.AnimationService
	logger     *slog.Logger
}

// NewAnimationHandlers creates AnimationHandlers backed by the given service.
func NewAnimationHandlers(animations *service.AnimationService, logger *slog.Logger) (*AnimationHandlers, error) {
	if animations == nil {
		return nil, errors.New("animation service is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnimationHandlers{
		animations: animations,
		logger:     logger.With("component", "animation_handlers"),
	}, nil
}

// Animate handles POST /api/v1/animations. The request blocks for the length
// of the polling window; a still-running job answers 200 with a pending
// outcome rather than an error.
func (h *AnimationHandlers) Animate(w http.ResponseWriter, r *http.Request) {
	var req model.AnimateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	outcome, err := h.animations.Animate(r.Context(), req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "animate failed", "photo_id", req.PhotoID, "error", err)
		WriteError(w, err)
		return
	}

	// Pending outcomes stay success-shaped: the client retries later.
	WriteJSON(w, http.StatusOK, newAnimationResponse(outcome))
}

// Resume handles POST /api/v1/animations/{id}/resume. It re-polls a pending
// job a few times and settles the row when the provider has finished.
func (h *AnimationHandlers) Resume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		WriteError(w, apperrors.ValidationField("id", "id must be a valid UUID"))
		return
	}

	outcome, err := h.animations.Resume(r.Context(), id)
	if err != nil {
		h.logger.WarnContext(r.Context(), "resume failed", "animation_id", id, "error", err)
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, newAnimationResponse(outcome))
}
