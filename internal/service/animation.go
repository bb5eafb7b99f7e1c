package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wispr-app/wispr-api/internal/core"
	"github.com/wispr-app/wispr-api/internal/domain/model"
	apperrors "github.com/wispr-app/wispr-api/internal/errors"
)

// pendingMessage is returned when a job outlives the polling window. The
// response stays success-shaped so mobile clients treat it as accepted.
const pendingMessage = "animation is still processing; it will be available shortly"

// AnimationService drives the photo animation lifecycle: submit, poll,
// materialize, and resume.
type AnimationService struct {
	photos     core.PhotoRepository
	animations core.AnimationRepository
	store      core.ObjectStore
	provider   core.AnimationProvider
	locker     core.SubmissionLocker

	photoBucket  string
	videoBucket  string
	signedURLTTL time.Duration

	prompt          string
	durationSeconds int
	aspectRatio     string

	pollInterval       time.Duration
	maxPollAttempts    int
	resumePollAttempts int

	logger *slog.Logger
	now    func() time.Time
}

// AnimationServiceOptions contains configuration for creating an AnimationService.
type AnimationServiceOptions struct {
	Photos     core.PhotoRepository
	Animations core.AnimationRepository
	Store      core.ObjectStore
	Provider   core.AnimationProvider
	Locker     core.SubmissionLocker

	// PhotoBucket holds source images, VideoBucket the generated clips.
	PhotoBucket string
	VideoBucket string
	// SignedURLTTL bounds how long the provider can read the source image.
	SignedURLTTL time.Duration

	Prompt          string
	DurationSeconds int
	AspectRatio     string

	// PollInterval and MaxPollAttempts bound the synchronous polling window.
	PollInterval    time.Duration
	MaxPollAttempts int
	// ResumePollAttempts bounds the shorter window used when resuming a
	// pending row.
	ResumePollAttempts int

	Logger *slog.Logger
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewAnimationService creates a new AnimationService with the given options.
func NewAnimationService(opts AnimationServiceOptions) (*AnimationService, error) {
	if opts.Photos == nil {
		return nil, errors.New("photo repository is required")
	}
	if opts.Animations == nil {
		return nil, errors.New("animation repository is required")
	}
	if opts.Store == nil {
		return nil, errors.New("object store is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("animation provider is required")
	}
	if opts.Locker == nil {
		return nil, errors.New("submission locker is required")
	}
	if opts.PhotoBucket == "" || opts.VideoBucket == "" {
		return nil, errors.New("photo and video buckets are required")
	}

	signedURLTTL := opts.SignedURLTTL
	if signedURLTTL <= 0 {
		signedURLTTL = 15 * time.Minute
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = 4 * time.Second
	}

	maxPollAttempts := opts.MaxPollAttempts
	if maxPollAttempts <= 0 {
		maxPollAttempts = 100
	}

	resumePollAttempts := opts.ResumePollAttempts
	if resumePollAttempts <= 0 {
		resumePollAttempts = 3
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AnimationService{
		photos:             opts.Photos,
		animations:         opts.Animations,
		store:              opts.Store,
		provider:           opts.Provider,
		locker:             opts.Locker,
		photoBucket:        opts.PhotoBucket,
		videoBucket:        opts.VideoBucket,
		signedURLTTL:       signedURLTTL,
		prompt:             opts.Prompt,
		durationSeconds:    opts.DurationSeconds,
		aspectRatio:        opts.AspectRatio,
		pollInterval:       pollInterval,
		maxPollAttempts:    maxPollAttempts,
		resumePollAttempts: resumePollAttempts,
		logger:             logger.With("component", "animation_service"),
		now:                now,
	}, nil
}

// Animate submits the photo to the provider and polls until the job finishes
// or the polling window closes. A finished job yields a completed row; an
// exhausted window yields a pending row for a later resume.
func (s *AnimationService) Animate(ctx context.Context, req model.AnimateRequest) (*model.AnimationOutcome, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	photo, err := s.photos.GetByID(ctx, req.PhotoID)
	if err != nil {
		return nil, err
	}

	// The lock covers submit through row insert; the TTL outlives the
	// polling window so a crashed request cannot wedge the photo forever.
	lockTTL := s.pollInterval*time.Duration(s.maxPollAttempts) + time.Minute
	locked, err := s.locker.Acquire(ctx, photo.ID, lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire submission lock: %w", err)
	}
	if !locked {
		return nil, apperrors.Conflict("an animation for this photo is already in progress")
	}
	defer func() {
		if releaseErr := s.locker.Release(context.WithoutCancel(ctx), photo.ID); releaseErr != nil {
			s.logger.Warn("release submission lock", "photo_id", photo.ID, "error", releaseErr)
		}
	}()

	imageURL, err := s.store.SignedURL(ctx, s.photoBucket, photo.FilePath, s.signedURLTTL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSigning, "sign photo url")
	}

	jobID, err := s.provider.Submit(ctx, core.SubmitJobParams{
		Prompt:          s.prompt,
		ImageURL:        imageURL,
		DurationSeconds: s.durationSeconds,
		AspectRatio:     s.aspectRatio,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "animation job submitted",
		"photo_id", photo.ID, "job_id", jobID, "model", s.provider.Model())

	status, err := s.poll(ctx, jobID, s.maxPollAttempts)
	if err != nil {
		return nil, err
	}

	switch status.State {
	case core.JobStateCompleted:
		videoPath, materializeErr := s.materialize(ctx, photo, status.Payload)
		if materializeErr != nil {
			return nil, materializeErr
		}
		anim, createErr := s.animations.Create(ctx, model.CreateAnimationParams{
			PhotoID:   photo.ID,
			VideoPath: &videoPath,
			Model:     s.provider.Model(),
			Status:    model.AnimationStatusCompleted,
		})
		if createErr != nil {
			return nil, createErr
		}
		return &model.AnimationOutcome{Status: model.AnimationStatusCompleted, Animation: anim}, nil

	case core.JobStateFailed:
		return nil, apperrors.New(apperrors.ErrCodeProviderFailed, status.Detail)

	default:
		// Window exhausted while the job is still running: record a pending
		// row so the job can be resumed, and answer success-shaped.
		anim, createErr := s.animations.Create(ctx, model.CreateAnimationParams{
			PhotoID:       photo.ID,
			Model:         s.provider.Model(),
			ProviderJobID: &jobID,
			Status:        model.AnimationStatusPending,
		})
		if createErr != nil {
			return nil, createErr
		}
		s.logger.InfoContext(ctx, "polling window exhausted, job left pending",
			"photo_id", photo.ID, "job_id", jobID, "animation_id", anim.ID)
		return &model.AnimationOutcome{
			Status:    model.AnimationStatusPending,
			Animation: anim,
			Message:   pendingMessage,
		}, nil
	}
}

// Resume re-polls a pending animation a bounded number of times and settles
// the row if the provider has finished with it.
func (s *AnimationService) Resume(ctx context.Context, animationID string) (*model.AnimationOutcome, error) {
	anim, err := s.animations.GetByID(ctx, animationID)
	if err != nil {
		return nil, err
	}

	switch anim.Status {
	case model.AnimationStatusCompleted:
		// Already settled; resuming is a no-op.
		return &model.AnimationOutcome{Status: model.AnimationStatusCompleted, Animation: anim}, nil
	case model.AnimationStatusFailed:
		return nil, apperrors.Conflict("animation has already failed")
	case model.AnimationStatusPending:
	}

	if anim.ProviderJobID == nil || *anim.ProviderJobID == "" {
		return nil, apperrors.New(apperrors.ErrCodePersistence, "pending animation has no provider job id")
	}
	jobID := *anim.ProviderJobID

	photo, err := s.photos.GetByID(ctx, anim.PhotoID)
	if err != nil {
		return nil, err
	}

	status, err := s.poll(ctx, jobID, s.resumePollAttempts)
	if err != nil {
		return nil, err
	}

	switch status.State {
	case core.JobStateCompleted:
		videoPath, materializeErr := s.materialize(ctx, photo, status.Payload)
		if materializeErr != nil {
			return nil, materializeErr
		}
		updated, markErr := s.animations.MarkCompleted(ctx, anim.ID, videoPath)
		if markErr != nil {
			return nil, markErr
		}
		return &model.AnimationOutcome{Status: model.AnimationStatusCompleted, Animation: updated}, nil

	case core.JobStateFailed:
		updated, markErr := s.animations.MarkFailed(ctx, anim.ID, status.Detail)
		if markErr != nil {
			return nil, markErr
		}
		return &model.AnimationOutcome{
			Status:    model.AnimationStatusFailed,
			Animation: updated,
			Message:   status.Detail,
		}, nil

	default:
		return &model.AnimationOutcome{
			Status:    model.AnimationStatusPending,
			Animation: anim,
			Message:   pendingMessage,
		}, nil
	}
}

// sweepConcurrency bounds how many pending rows a sweep resumes at once.
const sweepConcurrency = 4

// SweepPending resumes pending animations older than the given age. Returns
// the number of rows that settled (completed or failed). Failures on
// individual rows are logged and skipped; each one is retried on a later sweep.
func (s *AnimationService) SweepPending(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	pending, err := s.animations.ListPending(ctx, core.ListPendingOptions{OlderThan: olderThan, Limit: limit})
	if err != nil {
		return 0, err
	}

	var (
		g       errgroup.Group
		settled atomic.Int64
	)
	g.SetLimit(sweepConcurrency)

	for _, anim := range pending {
		g.Go(func() error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			outcome, resumeErr := s.Resume(ctx, anim.ID)
			if resumeErr != nil {
				s.logger.Warn("resume pending animation", "animation_id", anim.ID, "error", resumeErr)
				return nil
			}
			if outcome.Status != model.AnimationStatusPending {
				settled.Add(1)
			}
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return int(settled.Load()), err
	}
	return int(settled.Load()), nil
}

// poll queries the provider until the job leaves the running state or the
// attempt budget runs out. The final running status is returned as-is.
func (s *AnimationService) poll(ctx context.Context, jobID string, attempts int) (core.JobStatus, error) {
	var status core.JobStatus
	for attempt := range attempts {
		var err error
		status, err = s.provider.Status(ctx, jobID)
		if err != nil {
			return core.JobStatus{}, err
		}
		if status.State != core.JobStateRunning {
			return status, nil
		}
		if attempt < attempts-1 {
			if err = sleepCtx(ctx, s.pollInterval); err != nil {
				return core.JobStatus{}, err
			}
		}
	}
	return status, nil
}

// materialize downloads the finished video and stores it under
// `<album>/<photo_id>-<timestamp>.mp4`, returning the object path.
func (s *AnimationService) materialize(ctx context.Context, photo *model.Photo, payload []byte) (string, error) {
	videoURL, err := s.provider.VideoURL(payload)
	if err != nil {
		return "", err
	}

	video, err := s.provider.Fetch(ctx, videoURL)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeProviderFailed, "download generated video")
	}

	album := "unsorted"
	if photo.AlbumID != nil && *photo.AlbumID != "" {
		album = *photo.AlbumID
	}
	videoPath := fmt.Sprintf("%s/%s-%s.mp4", album, photo.ID, s.now().UTC().Format("20060102150405"))

	err = s.store.Upload(ctx, core.UploadObjectParams{
		Bucket:      s.videoBucket,
		Path:        videoPath,
		ContentType: "video/mp4",
		Body:        bytes.NewReader(video),
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeStorage, "store generated video")
	}

	s.logger.InfoContext(ctx, "video materialized",
		"photo_id", photo.ID, "video_path", videoPath, "bytes", len(video))
	return videoPath, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
