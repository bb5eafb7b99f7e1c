// Package core defines the interfaces between services and their adapters
// (repositories, object store, animation provider, submission locker).
package core

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/wispr-app/wispr-api/internal/domain/model"
)

// PhotoRepository provides persistence for photo rows.
type PhotoRepository interface {
	// Create inserts a photo row and returns it.
	Create(ctx context.Context, params model.CreatePhotoParams) (*model.Photo, error)

	// GetByID returns the photo with the given id, or a NotFound error.
	GetByID(ctx context.Context, id string) (*model.Photo, error)
}

// ListPendingOptions narrows ListPending to resumable rows.
type ListPendingOptions struct {
	// OlderThan excludes rows younger than this age. Zero means no floor.
	OlderThan time.Duration
	// Limit caps the number of returned rows.
	Limit int
}

// AnimationRepository provides persistence for animation rows.
type AnimationRepository interface {
	// Create inserts an animation row and returns it. Inserting a second
	// pending row for the same photo yields a Conflict error.
	Create(ctx context.Context, params model.CreateAnimationParams) (*model.Animation, error)

	// GetByID returns the animation with the given id, or a NotFound error.
	GetByID(ctx context.Context, id string) (*model.Animation, error)

	// ListPending returns pending animations, oldest first.
	ListPending(ctx context.Context, opts ListPendingOptions) ([]*model.Animation, error)

	// MarkCompleted transitions a pending row to completed with the stored
	// video path (resume path only).
	MarkCompleted(ctx context.Context, id, videoPath string) (*model.Animation, error)

	// MarkFailed transitions a pending row to failed with the provider's
	// failure detail (resume path only).
	MarkFailed(ctx context.Context, id, lastError string) (*model.Animation, error)
}

// UploadObjectParams groups parameters for ObjectStore.Upload.
type UploadObjectParams struct {
	Bucket      string
	Path        string
	ContentType string
	Body        io.Reader
}

// ObjectStore abstracts the managed object storage backend.
type ObjectStore interface {
	// Upload stores an object. The body is read to completion.
	Upload(ctx context.Context, params UploadObjectParams) error

	// SignedURL returns a time-limited download URL for a stored object.
	SignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)
}

// JobState is the tagged variant over the provider's recognized job states.
type JobState string

const (
	// JobStateCompleted means the provider finished the job and the payload
	// carries the output.
	JobStateCompleted JobState = "completed"
	// JobStateFailed means the provider gave up on the job.
	JobStateFailed JobState = "failed"
	// JobStateRunning covers every non-terminal provider status, including
	// ones this service does not recognize.
	JobStateRunning JobState = "running"
)

// JobStatus is a defensively decoded provider status response.
type JobStatus struct {
	State JobState
	// RawStatus is the provider's literal status string, kept for logs.
	RawStatus string
	// Payload is the full job payload, present when State is Completed.
	Payload json.RawMessage
	// Detail is the provider's failure detail, present when State is Failed.
	Detail string
}

// SubmitJobParams groups parameters for AnimationProvider.Submit.
type SubmitJobParams struct {
	Prompt          string
	ImageURL        string
	DurationSeconds int
	AspectRatio     string
}

// AnimationProvider abstracts the external image-to-video service.
type AnimationProvider interface {
	// Submit sends a job and returns the provider's opaque job identifier.
	Submit(ctx context.Context, params SubmitJobParams) (string, error)

	// Status queries the state of an in-flight job.
	Status(ctx context.Context, jobID string) (JobStatus, error)

	// VideoURL extracts the generated video URL from a completed payload,
	// or a MissingOutput error when absent.
	VideoURL(payload json.RawMessage) (string, error)

	// Fetch downloads the full body behind a provider-hosted URL.
	// The entire video is buffered in memory; callers rely on provider-side
	// size limits.
	Fetch(ctx context.Context, url string) ([]byte, error)

	// Model returns the model identifier recorded on animation rows.
	Model() string
}

// SubmissionLocker guards against duplicate concurrent provider jobs for one photo.
type SubmissionLocker interface {
	// Acquire takes the per-photo submission lock. Returns false when another
	// submission currently holds it.
	Acquire(ctx context.Context, photoID string, ttl time.Duration) (bool, error)

	// Release frees the lock early. Locks also expire with their TTL.
	Release(ctx context.Context, photoID string) error
}
