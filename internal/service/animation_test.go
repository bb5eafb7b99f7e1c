package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wispr-app/wispr-api/internal/core"
	"github.com/wispr-app/wispr-api/internal/domain/model"
	apperrors "github.com/wispr-app/wispr-api/internal/errors"
	"github.com/wispr-app/wispr-api/internal/mocks"
)

const (
	testPhotoID = "5f0c4f9e-9f9e-4c56-9d7e-2e3a1b7c8d90"
	testModel   = "fal-ai/kling-video/v1/standard/image-to-video"
)

type animationMocks struct {
	photos     *mocks.MockPhotoRepository
	animations *mocks.MockAnimationRepository
	store      *mocks.MockObjectStore
	provider   *mocks.MockAnimationProvider
	locker     *mocks.MockSubmissionLocker
}

func newAnimationService(t *testing.T, ctrl *gomock.Controller, maxPollAttempts int) (*AnimationService, animationMocks) {
	t.Helper()
	m := animationMocks{
		photos:     mocks.NewMockPhotoRepository(ctrl),
		animations: mocks.NewMockAnimationRepository(ctrl),
		store:      mocks.NewMockObjectStore(ctrl),
		provider:   mocks.NewMockAnimationProvider(ctrl),
		locker:     mocks.NewMockSubmissionLocker(ctrl),
	}

	svc, err := NewAnimationService(AnimationServiceOptions{
		Photos:             m.photos,
		Animations:         m.animations,
		Store:              m.store,
		Provider:           m.provider,
		Locker:             m.locker,
		PhotoBucket:        "photos",
		VideoBucket:        "animations",
		SignedURLTTL:       15 * time.Minute,
		Prompt:             "Bring this photo to life with subtle, natural motion",
		DurationSeconds:    5,
		AspectRatio:        "16:9",
		PollInterval:       time.Millisecond,
		MaxPollAttempts:    maxPollAttempts,
		ResumePollAttempts: 2,
		Now: func() time.Time {
			return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
		},
	})
	require.NoError(t, err)
	return svc, m
}

func testPhoto() *model.Photo {
	album := "summer"
	return &model.Photo{
		ID:       testPhotoID,
		UserID:   "user-1",
		AlbumID:  &album,
		FilePath: "user-1/abc.jpg",
		Status:   model.PhotoStatusUploaded,
	}
}

func completedPayload() json.RawMessage {
	return json.RawMessage(`{"video":{"url":"https://cdn/clip.mp4"}}`)
}

func expectSubmission(m animationMocks) {
	m.photos.EXPECT().GetByID(gomock.Any(), testPhotoID).Return(testPhoto(), nil)
	m.locker.EXPECT().Acquire(gomock.Any(), testPhotoID, gomock.Any()).Return(true, nil)
	m.locker.EXPECT().Release(gomock.Any(), testPhotoID).Return(nil)
	m.store.EXPECT().SignedURL(gomock.Any(), "photos", "user-1/abc.jpg", 15*time.Minute).
		Return("https://signed/photo.jpg", nil)
	m.provider.EXPECT().Submit(gomock.Any(), core.SubmitJobParams{
		Prompt:          "Bring this photo to life with subtle, natural motion",
		ImageURL:        "https://signed/photo.jpg",
		DurationSeconds: 5,
		AspectRatio:     "16:9",
	}).Return("job-1", nil)
}

func TestAnimationService_Animate_Completed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newAnimationService(t, ctrl, 100)

	expectSubmission(m)
	m.provider.EXPECT().Status(gomock.Any(), "job-1").
		Return(core.JobStatus{State: core.JobStateCompleted, RawStatus: "COMPLETED", Payload: completedPayload()}, nil)
	m.provider.EXPECT().VideoURL(gomock.Any()).Return("https://cdn/clip.mp4", nil)
	m.provider.EXPECT().Fetch(gomock.Any(), "https://cdn/clip.mp4").Return([]byte("mp4-bytes"), nil)
	m.provider.EXPECT().Model().Return(testModel).AnyTimes()

	wantPath := "summer/" + testPhotoID + "-20260831120000.mp4"
	m.store.EXPECT().Upload(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params core.UploadObjectParams) error {
			assert.Equal(t, "animations", params.Bucket)
			assert.Equal(t, wantPath, params.Path)
			assert.Equal(t, "video/mp4", params.ContentType)
			body, err := io.ReadAll(params.Body)
			require.NoError(t, err)
			assert.True(t, bytes.Equal([]byte("mp4-bytes"), body))
			return nil
		})

	m.animations.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params model.CreateAnimationParams) (*model.Animation, error) {
			assert.Equal(t, testPhotoID, params.PhotoID)
			assert.Equal(t, model.AnimationStatusCompleted, params.Status)
			require.NotNil(t, params.VideoPath)
			assert.Equal(t, wantPath, *params.VideoPath)
			return &model.Animation{ID: "anim-1", PhotoID: params.PhotoID, VideoPath: params.VideoPath, Status: params.Status}, nil
		})

	outcome, err := svc.Animate(context.Background(), model.AnimateRequest{PhotoID: testPhotoID})
	require.NoError(t, err)
	assert.True(t, outcome.Completed())
	require.NotNil(t, outcome.Animation)
	assert.Equal(t, "anim-1", outcome.Animation.ID)
}

func TestAnimationService_Animate_ProviderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newAnimationService(t, ctrl, 100)

	expectSubmission(m)
	m.provider.EXPECT().Model().Return(testModel).AnyTimes()
	m.provider.EXPECT().Status(gomock.Any(), "job-1").
		Return(core.JobStatus{State: core.JobStateFailed, RawStatus: "FAILED", Detail: "nsfw content"}, nil)

	_, err := svc.Animate(context.Background(), model.AnimateRequest{PhotoID: testPhotoID})
	require.Error(t, err)
	assert.True(t, apperrors.IsProviderFailed(err))
	assert.Contains(t, err.Error(), "nsfw content")
}

func TestAnimationService_Animate_WindowExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newAnimationService(t, ctrl, 3)

	expectSubmission(m)
	m.provider.EXPECT().Model().Return(testModel).AnyTimes()
	m.provider.EXPECT().Status(gomock.Any(), "job-1").
		Return(core.JobStatus{State: core.JobStateRunning, RawStatus: "IN_PROGRESS"}, nil).Times(3)

	m.animations.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params model.CreateAnimationParams) (*model.Animation, error) {
			assert.Equal(t, model.AnimationStatusPending, params.Status)
			require.NotNil(t, params.ProviderJobID)
			assert.Equal(t, "job-1", *params.ProviderJobID)
			assert.Nil(t, params.VideoPath)
			return &model.Animation{ID: "anim-1", PhotoID: params.PhotoID, ProviderJobID: params.ProviderJobID, Status: params.Status}, nil
		})

	outcome, err := svc.Animate(context.Background(), model.AnimateRequest{PhotoID: testPhotoID})
	require.NoError(t, err)
	assert.Equal(t, model.AnimationStatusPending, outcome.Status)
	assert.NotEmpty(t, outcome.Message)
}

func TestAnimationService_Animate_DuplicateSubmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newAnimationService(t, ctrl, 100)

	m.photos.EXPECT().GetByID(gomock.Any(), testPhotoID).Return(testPhoto(), nil)
	m.locker.EXPECT().Acquire(gomock.Any(), testPhotoID, gomock.Any()).Return(false, nil)

	_, err := svc.Animate(context.Background(), model.AnimateRequest{PhotoID: testPhotoID})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestAnimationService_Animate_PhotoNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newAnimationService(t, ctrl, 100)

	m.photos.EXPECT().GetByID(gomock.Any(), testPhotoID).
		Return(nil, apperrors.NotFound("photo not found"))

	_, err := svc.Animate(context.Background(), model.AnimateRequest{PhotoID: testPhotoID})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAnimationService_Animate_InvalidRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _ := newAnimationService(t, ctrl, 100)

	for _, photoID := range []string{"", "not-a-uuid"} {
		_, err := svc.Animate(context.Background(), model.AnimateRequest{PhotoID: photoID})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	}
}

func pendingAnimation() *model.Animation {
	jobID := "job-1"
	return &model.Animation{
		ID:            "anim-1",
		PhotoID:       testPhotoID,
		Model:         testModel,
		ProviderJobID: &jobID,
		Status:        model.AnimationStatusPending,
	}
}

func TestAnimationService_Resume_Completed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newAnimationService(t, ctrl, 100)

	m.animations.EXPECT().GetByID(gomock.Any(), "anim-1").Return(pendingAnimation(), nil)
	m.photos.EXPECT().GetByID(gomock.Any(), testPhotoID).Return(testPhoto(), nil)
	m.provider.EXPECT().Status(gomock.Any(), "job-1").
		Return(core.JobStatus{State: core.JobStateCompleted, Payload: completedPayload()}, nil)
	m.provider.EXPECT().VideoURL(gomock.Any()).Return("https://cdn/clip.mp4", nil)
	m.provider.EXPECT().Fetch(gomock.Any(), "https://cdn/clip.mp4").Return([]byte("mp4"), nil)
	m.store.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(nil)

	wantPath := "summer/" + testPhotoID + "-20260831120000.mp4"
	m.animations.EXPECT().MarkCompleted(gomock.Any(), "anim-1", wantPath).
		Return(&model.Animation{ID: "anim-1", Status: model.AnimationStatusCompleted, VideoPath: &wantPath}, nil)

	outcome, err := svc.Resume(context.Background(), "anim-1")
	require.NoError(t, err)
	assert.True(t, outcome.Completed())
}

func TestAnimationService_Resume_Failed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newAnimationService(t, ctrl, 100)

	m.animations.EXPECT().GetByID(gomock.Any(), "anim-1").Return(pendingAnimation(), nil)
	m.photos.EXPECT().GetByID(gomock.Any(), testPhotoID).Return(testPhoto(), nil)
	m.provider.EXPECT().Status(gomock.Any(), "job-1").
		Return(core.JobStatus{State: core.JobStateFailed, Detail: "model error"}, nil)
	lastError := "model error"
	m.animations.EXPECT().MarkFailed(gomock.Any(), "anim-1", "model error").
		Return(&model.Animation{ID: "anim-1", Status: model.AnimationStatusFailed, LastError: &lastError}, nil)

	outcome, err := svc.Resume(context.Background(), "anim-1")
	require.NoError(t, err)
	assert.Equal(t, model.AnimationStatusFailed, outcome.Status)
	assert.Equal(t, "model error", outcome.Message)
}

func TestAnimationService_Resume_StillRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newAnimationService(t, ctrl, 100)

	m.animations.EXPECT().GetByID(gomock.Any(), "anim-1").Return(pendingAnimation(), nil)
	m.photos.EXPECT().GetByID(gomock.Any(), testPhotoID).Return(testPhoto(), nil)
	// ResumePollAttempts is 2 in the test fixture.
	m.provider.EXPECT().Status(gomock.Any(), "job-1").
		Return(core.JobStatus{State: core.JobStateRunning, RawStatus: "IN_PROGRESS"}, nil).Times(2)

	outcome, err := svc.Resume(context.Background(), "anim-1")
	require.NoError(t, err)
	assert.Equal(t, model.AnimationStatusPending, outcome.Status)
	assert.NotEmpty(t, outcome.Message)
}

func TestAnimationService_Resume_AlreadyCompleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newAnimationService(t, ctrl, 100)

	videoPath := "summer/clip.mp4"
	m.animations.EXPECT().GetByID(gomock.Any(), "anim-1").
		Return(&model.Animation{ID: "anim-1", Status: model.AnimationStatusCompleted, VideoPath: &videoPath}, nil)

	outcome, err := svc.Resume(context.Background(), "anim-1")
	require.NoError(t, err)
	assert.True(t, outcome.Completed())
}

func TestAnimationService_Resume_AlreadyFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newAnimationService(t, ctrl, 100)

	m.animations.EXPECT().GetByID(gomock.Any(), "anim-1").
		Return(&model.Animation{ID: "anim-1", Status: model.AnimationStatusFailed}, nil)

	_, err := svc.Resume(context.Background(), "anim-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestAnimationService_SweepPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newAnimationService(t, ctrl, 100)

	settling := pendingAnimation()
	stuck := pendingAnimation()
	stuck.ID = "anim-2"
	stuckJobID := "job-2"
	stuck.ProviderJobID = &stuckJobID

	m.animations.EXPECT().ListPending(gomock.Any(), core.ListPendingOptions{OlderThan: time.Minute, Limit: 10}).
		Return([]*model.Animation{settling, stuck}, nil)

	// First row settles as failed.
	m.animations.EXPECT().GetByID(gomock.Any(), "anim-1").Return(settling, nil)
	m.photos.EXPECT().GetByID(gomock.Any(), testPhotoID).Return(testPhoto(), nil).Times(2)
	m.provider.EXPECT().Status(gomock.Any(), "job-1").
		Return(core.JobStatus{State: core.JobStateFailed, Detail: "expired"}, nil)
	m.animations.EXPECT().MarkFailed(gomock.Any(), "anim-1", "expired").
		Return(&model.Animation{ID: "anim-1", Status: model.AnimationStatusFailed}, nil)

	// Second row is still running after the resume budget.
	m.animations.EXPECT().GetByID(gomock.Any(), "anim-2").Return(stuck, nil)
	m.provider.EXPECT().Status(gomock.Any(), "job-2").
		Return(core.JobStatus{State: core.JobStateRunning}, nil).Times(2)

	settled, err := svc.SweepPending(context.Background(), time.Minute, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, settled)
}

func TestAnimationService_SweepPending_ContinuesOnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newAnimationService(t, ctrl, 100)

	broken := pendingAnimation()
	m.animations.EXPECT().ListPending(gomock.Any(), gomock.Any()).
		Return([]*model.Animation{broken}, nil)
	m.animations.EXPECT().GetByID(gomock.Any(), "anim-1").
		Return(nil, apperrors.NotFound("row vanished"))

	settled, err := svc.SweepPending(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, settled)
}
