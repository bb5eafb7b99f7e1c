package config

import "time"

// StorageConfig contains object store configuration. The store holds uploaded
// source photos and generated videos under per-user / per-album path prefixes
// and issues time-limited signed download URLs.
type StorageConfig struct {
	// URL is the storage API endpoint (e.g., "https://xyz.supabase.co/storage/v1").
	URL string `env:"STORAGE_URL"`

	// ServiceKey is the privileged service credential used for server-side
	// uploads and URL signing. Bucket policies still apply to end users.
	ServiceKey string `env:"STORAGE_SERVICE_KEY"`

	// PhotoBucket holds uploaded source photos.
	PhotoBucket string `env:"STORAGE_PHOTO_BUCKET" envDefault:"photos"`

	// VideoBucket holds generated animation videos.
	VideoBucket string `env:"STORAGE_VIDEO_BUCKET" envDefault:"animations"`

	// SignedURLTTL is the validity window for signed download URLs handed to
	// the animation provider.
	SignedURLTTL time.Duration `env:"STORAGE_SIGNED_URL_TTL" envDefault:"15m"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	// Signed URLs must outlive the full polling window, otherwise the provider
	// can lose access to the source image mid-job.
	if s.SignedURLTTL < time.Minute {
		s.SignedURLTTL = time.Minute
	}
}
