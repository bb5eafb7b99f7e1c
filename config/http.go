package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://api.example.com").
	// Used for generating absolute URLs in responses and logs.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// MaxUploadBytes caps the size of multipart photo uploads.
	MaxUploadBytes int64 `env:"HTTP_MAX_UPLOAD_BYTES" envDefault:"26214400"` // 25 MiB
}

const (
	minUploadBytes = 1 << 20  // 1 MiB
	maxUploadBytes = 1 << 30  // 1 GiB
)

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.MaxUploadBytes < minUploadBytes {
		h.MaxUploadBytes = minUploadBytes
	}
	if h.MaxUploadBytes > maxUploadBytes {
		h.MaxUploadBytes = maxUploadBytes
	}
}
