package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wispr-app/wispr-api/internal/auth"
	"github.com/wispr-app/wispr-api/internal/core"
	"github.com/wispr-app/wispr-api/internal/domain/model"
	apperrors "github.com/wispr-app/wispr-api/internal/errors"
	"github.com/wispr-app/wispr-api/internal/mocks"
	"github.com/wispr-app/wispr-api/internal/service"
)

const testPhotoID = "5f0c4f9e-9f9e-4c56-9d7e-2e3a1b7c8d90"

type routerMocks struct {
	photos     *mocks.MockPhotoRepository
	animations *mocks.MockAnimationRepository
	store      *mocks.MockObjectStore
	provider   *mocks.MockAnimationProvider
	locker     *mocks.MockSubmissionLocker
}

func newTestRouter(t *testing.T, ctrl *gomock.Controller, verifier *auth.Verifier) (http.Handler, routerMocks) {
	t.Helper()
	m := routerMocks{
		photos:     mocks.NewMockPhotoRepository(ctrl),
		animations: mocks.NewMockAnimationRepository(ctrl),
		store:      mocks.NewMockObjectStore(ctrl),
		provider:   mocks.NewMockAnimationProvider(ctrl),
		locker:     mocks.NewMockSubmissionLocker(ctrl),
	}

	upload, err := service.NewUploadService(service.UploadServiceOptions{
		Photos: m.photos,
		Store:  m.store,
		Bucket: "photos",
	})
	require.NoError(t, err)

	animations, err := service.NewAnimationService(service.AnimationServiceOptions{
		Photos:          m.photos,
		Animations:      m.animations,
		Store:           m.store,
		Provider:        m.provider,
		Locker:          m.locker,
		PhotoBucket:     "photos",
		VideoBucket:     "animations",
		PollInterval:    time.Millisecond,
		MaxPollAttempts: 2,
	})
	require.NoError(t, err)

	router, err := NewRouter(RouterOptions{
		Upload:         upload,
		Animations:     animations,
		Verifier:       verifier,
		MaxUploadBytes: 1 << 20,
	})
	require.NoError(t, err)
	return router, m
}

func multipartUpload(t *testing.T, fields map[string]string, fileName, fileBody string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = io.WriteString(part, fileBody)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

// apiResponse pins the wire shape of every endpoint: errors carry the error
// string, upload carries a photo key, animate and resume carry status,
// animation, and message keys.
type apiResponse struct {
	Success   bool           `json:"success"`
	Error     string         `json:"error"`
	Photo     map[string]any `json:"photo"`
	Status    string         `json:"status"`
	Animation map[string]any `json:"animation"`
	Message   string         `json:"message"`
}

func decodeResponse(t *testing.T, body *bytes.Buffer) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestUploadEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, m := newTestRouter(t, ctrl, nil)

	m.store.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(nil)
	m.photos.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params model.CreatePhotoParams) (*model.Photo, error) {
			return &model.Photo{
				ID:       testPhotoID,
				UserID:   params.UserID,
				AlbumID:  params.AlbumID,
				FilePath: params.FilePath,
				Status:   model.PhotoStatusUploaded,
			}, nil
		})

	body, contentType := multipartUpload(t,
		map[string]string{"album_id": "summer", "user_id": "user-1"},
		"IMG_0001.jpg", "jpeg-bytes")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec.Body)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Photo, "upload responses carry a top-level photo key")
	assert.Equal(t, testPhotoID, resp.Photo["id"])
	assert.Equal(t, "uploaded", resp.Photo["status"])
}

func TestUploadEndpoint_MissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, _ := newTestRouter(t, ctrl, nil)

	body, contentType := multipartUpload(t,
		map[string]string{"album_id": "summer", "user_id": "user-1"}, "", "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec.Body)
	assert.False(t, resp.Success)
	assert.Equal(t, "file is required", resp.Error)
}

func TestUploadEndpoint_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, _ := newTestRouter(t, ctrl, nil)

	body, contentType := multipartUpload(t,
		map[string]string{"user_id": "user-1"}, "a.jpg", "x")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/photos", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec.Body)
	assert.Equal(t, "album_id is required", resp.Error)
}

func TestUploadEndpoint_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, _ := newTestRouter(t, ctrl, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/photos", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAnimateEndpoint_Completed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, m := newTestRouter(t, ctrl, nil)

	album := "summer"
	m.photos.EXPECT().GetByID(gomock.Any(), testPhotoID).
		Return(&model.Photo{ID: testPhotoID, UserID: "user-1", AlbumID: &album, FilePath: "user-1/a.jpg"}, nil)
	m.locker.EXPECT().Acquire(gomock.Any(), testPhotoID, gomock.Any()).Return(true, nil)
	m.locker.EXPECT().Release(gomock.Any(), testPhotoID).Return(nil)
	m.store.EXPECT().SignedURL(gomock.Any(), "photos", "user-1/a.jpg", gomock.Any()).
		Return("https://signed/a.jpg", nil)
	m.provider.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("job-1", nil)
	m.provider.EXPECT().Status(gomock.Any(), "job-1").
		Return(core.JobStatus{State: core.JobStateCompleted, Payload: json.RawMessage(`{}`)}, nil)
	m.provider.EXPECT().VideoURL(gomock.Any()).Return("https://cdn/clip.mp4", nil)
	m.provider.EXPECT().Fetch(gomock.Any(), "https://cdn/clip.mp4").Return([]byte("mp4"), nil)
	m.provider.EXPECT().Model().Return("fal-ai/test-model").AnyTimes()
	m.store.EXPECT().Upload(gomock.Any(), gomock.Any()).Return(nil)
	m.animations.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params model.CreateAnimationParams) (*model.Animation, error) {
			return &model.Animation{ID: "anim-1", PhotoID: params.PhotoID, VideoPath: params.VideoPath, Status: params.Status}, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/animations",
		strings.NewReader(`{"photo_id":"`+testPhotoID+`"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec.Body)
	assert.True(t, resp.Success)
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.Animation, "completed responses carry a top-level animation key")
	assert.Equal(t, "anim-1", resp.Animation["id"])
}

func TestAnimateEndpoint_Pending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, m := newTestRouter(t, ctrl, nil)

	album := "summer"
	m.photos.EXPECT().GetByID(gomock.Any(), testPhotoID).
		Return(&model.Photo{ID: testPhotoID, UserID: "user-1", AlbumID: &album, FilePath: "user-1/a.jpg"}, nil)
	m.locker.EXPECT().Acquire(gomock.Any(), testPhotoID, gomock.Any()).Return(true, nil)
	m.locker.EXPECT().Release(gomock.Any(), testPhotoID).Return(nil)
	m.store.EXPECT().SignedURL(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("https://signed/a.jpg", nil)
	m.provider.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("job-1", nil)
	// MaxPollAttempts is 2 in the test fixture.
	m.provider.EXPECT().Status(gomock.Any(), "job-1").
		Return(core.JobStatus{State: core.JobStateRunning}, nil).Times(2)
	m.provider.EXPECT().Model().Return("fal-ai/test-model").AnyTimes()
	m.animations.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params model.CreateAnimationParams) (*model.Animation, error) {
			return &model.Animation{ID: "anim-1", PhotoID: params.PhotoID, ProviderJobID: params.ProviderJobID, Status: params.Status}, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/animations",
		strings.NewReader(`{"photo_id":"`+testPhotoID+`"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec.Body)
	assert.True(t, resp.Success, "pending outcomes stay success-shaped")
	assert.Equal(t, "pending", resp.Status)
	assert.NotEmpty(t, resp.Message)
}

func TestAnimateEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m routerMocks)
		wantStatus int
	}{
		{
			name:       "invalid json",
			body:       `{"photo_id":`,
			setup:      func(routerMocks) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "photo not found",
			body: `{"photo_id":"` + testPhotoID + `"}`,
			setup: func(m routerMocks) {
				m.photos.EXPECT().GetByID(gomock.Any(), testPhotoID).
					Return(nil, apperrors.NotFound("photo not found"))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "duplicate submission",
			body: `{"photo_id":"` + testPhotoID + `"}`,
			setup: func(m routerMocks) {
				m.photos.EXPECT().GetByID(gomock.Any(), testPhotoID).
					Return(&model.Photo{ID: testPhotoID, FilePath: "u/a.jpg"}, nil)
				m.locker.EXPECT().Acquire(gomock.Any(), testPhotoID, gomock.Any()).Return(false, nil)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "provider failed",
			body: `{"photo_id":"` + testPhotoID + `"}`,
			setup: func(m routerMocks) {
				m.photos.EXPECT().GetByID(gomock.Any(), testPhotoID).
					Return(&model.Photo{ID: testPhotoID, FilePath: "u/a.jpg"}, nil)
				m.locker.EXPECT().Acquire(gomock.Any(), testPhotoID, gomock.Any()).Return(true, nil)
				m.locker.EXPECT().Release(gomock.Any(), testPhotoID).Return(nil)
				m.store.EXPECT().SignedURL(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://signed/a.jpg", nil)
				m.provider.EXPECT().Submit(gomock.Any(), gomock.Any()).Return("job-1", nil)
				m.provider.EXPECT().Model().Return("fal-ai/test-model").AnyTimes()
				m.provider.EXPECT().Status(gomock.Any(), "job-1").
					Return(core.JobStatus{State: core.JobStateFailed, Detail: "bad input"}, nil)
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			router, m := newTestRouter(t, ctrl, nil)
			tt.setup(m)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/animations", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeResponse(t, rec.Body)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestResumeEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, m := newTestRouter(t, ctrl, nil)

	animID := "0d9f7f2a-74e4-4a3d-8f39-4a4c3c6f2b11"
	videoPath := "summer/clip.mp4"
	m.animations.EXPECT().GetByID(gomock.Any(), animID).
		Return(&model.Animation{ID: animID, Status: model.AnimationStatusCompleted, VideoPath: &videoPath}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/animations/"+animID+"/resume", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec.Body)
	assert.True(t, resp.Success)
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.Animation)
	assert.Equal(t, videoPath, resp.Animation["video_path"])
}

func TestResumeEndpoint_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, _ := newTestRouter(t, ctrl, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/animations/not-a-uuid/resume", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, _ := newTestRouter(t, ctrl, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func signTestToken(t *testing.T, secret, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuth_MissingToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	verifier, err := auth.NewVerifier("secret")
	require.NoError(t, err)
	router, _ := newTestRouter(t, ctrl, verifier)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/animations", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_UserMismatchOnUpload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	verifier, err := auth.NewVerifier("secret")
	require.NoError(t, err)
	router, _ := newTestRouter(t, ctrl, verifier)

	body, contentType := multipartUpload(t,
		map[string]string{"album_id": "summer", "user_id": "someone-else"},
		"a.jpg", "x")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/photos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "secret", "user-1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuth_HealthzSkipsAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	verifier, err := auth.NewVerifier("secret")
	require.NoError(t, err)
	router, _ := newTestRouter(t, ctrl, verifier)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
