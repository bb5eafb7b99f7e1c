// Package mocks provides mock implementations for testing the animation pipeline.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the core interfaces. The mocks are generated using go:generate directives.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockPhotoRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(photo, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=photo_repository_mock.go github.com/wispr-app/wispr-api/internal/core PhotoRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=animation_repository_mock.go github.com/wispr-app/wispr-api/internal/core AnimationRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=object_store_mock.go github.com/wispr-app/wispr-api/internal/core ObjectStore

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=animation_provider_mock.go github.com/wispr-app/wispr-api/internal/core AnimationProvider

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=submission_locker_mock.go github.com/wispr-app/wispr-api/internal/core SubmissionLocker
