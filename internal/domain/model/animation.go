package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnimationStatus represents the persisted state of an animation job.
type AnimationStatus string

const (
	// AnimationStatusPending indicates the provider job outlived the request's
	// polling window and is awaiting resume.
	AnimationStatusPending AnimationStatus = "pending"
	// AnimationStatusCompleted indicates the generated video has been stored.
	AnimationStatusCompleted AnimationStatus = "completed"
	// AnimationStatusFailed indicates the provider reported the job as failed
	// after the row was already recorded (resume path only).
	AnimationStatusFailed AnimationStatus = "failed"
)

// Valid returns true if the AnimationStatus is valid.
func (s AnimationStatus) Valid() bool {
	return s == AnimationStatusPending || s == AnimationStatusCompleted || s == AnimationStatusFailed
}

// Animation represents one animation job for one photo. Multiple rows may
// exist per photo across retries, but at most one may be pending at a time.
type Animation struct {
	ID            string          `json:"id"                        db:"id"`
	PhotoID       string          `json:"photo_id"                  db:"photo_id"`
	VideoPath     *string         `json:"video_path,omitempty"      db:"video_path"`
	Model         string          `json:"model"                     db:"model"`
	ProviderJobID *string         `json:"provider_job_id,omitempty" db:"provider_job_id"`
	Status        AnimationStatus `json:"status"                    db:"status"`
	LastError     *string         `json:"last_error,omitempty"      db:"last_error"`
	CreatedAt     time.Time       `json:"created_at"                db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"                db:"updated_at"`
}

// CreateAnimationParams groups the columns written when inserting an animation row.
type CreateAnimationParams struct {
	PhotoID       string
	VideoPath     *string
	Model         string
	ProviderJobID *string
	Status        AnimationStatus
}

// Validate enforces the schema invariants on an insert:
// completed rows carry a video path, pending rows carry a provider job id and
// no video path.
func (p *CreateAnimationParams) Validate() error {
	if _, err := uuid.Parse(p.PhotoID); err != nil {
		return errors.New("photo_id must be a valid UUID")
	}
	if strings.TrimSpace(p.Model) == "" {
		return errors.New("model is required")
	}
	if !p.Status.Valid() {
		return fmt.Errorf("invalid animation status: %q", p.Status)
	}

	switch p.Status {
	case AnimationStatusCompleted:
		if p.VideoPath == nil || *p.VideoPath == "" {
			return errors.New("completed animation requires a video path")
		}
	case AnimationStatusPending:
		if p.ProviderJobID == nil || *p.ProviderJobID == "" {
			return errors.New("pending animation requires a provider job id")
		}
		if p.VideoPath != nil {
			return errors.New("pending animation must not carry a video path")
		}
	case AnimationStatusFailed:
		// Failed rows only exist on the resume path; no shape constraints.
	}
	return nil
}

// AnimateRequest represents a request to animate an uploaded photo.
type AnimateRequest struct {
	PhotoID string `json:"photo_id"`
}

// Validate validates the AnimateRequest fields.
func (r *AnimateRequest) Validate() error {
	if strings.TrimSpace(r.PhotoID) == "" {
		return errors.New("photo_id is required")
	}
	if _, err := uuid.Parse(r.PhotoID); err != nil {
		return errors.New("photo_id must be a valid UUID")
	}
	return nil
}

// AnimationOutcome is the success-shaped result of an animate or resume call:
// either a completed animation row, or a pending marker with a human-readable
// ETA message.
type AnimationOutcome struct {
	Status    AnimationStatus `json:"status"`
	Animation *Animation      `json:"animation,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// Completed returns true when the outcome carries a completed animation.
func (o *AnimationOutcome) Completed() bool {
	return o.Status == AnimationStatusCompleted
}
