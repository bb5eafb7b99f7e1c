package config

import "time"

// ProviderConfig contains animation provider (image-to-video) configuration.
type ProviderConfig struct {
	// BaseURL is the provider's queue API endpoint.
	BaseURL string `env:"FAL_BASE_URL" envDefault:"https://queue.fal.run"`

	// APIKey is the provider API key.
	APIKey string `env:"FAL_API_KEY"`

	// Model is the model identifier recorded on animation rows and used to
	// build submission URLs.
	Model string `env:"FAL_MODEL" envDefault:"fal-ai/kling-video/v1/standard/image-to-video"`

	// Prompt is the fixed prompt text sent with every animation job.
	Prompt string `env:"FAL_PROMPT" envDefault:"Bring this photo to life with subtle, natural motion"`

	// DurationSeconds is the requested clip length.
	DurationSeconds int `env:"FAL_DURATION_SECONDS" envDefault:"5"`

	// AspectRatio is the requested output aspect ratio.
	AspectRatio string `env:"FAL_ASPECT_RATIO" envDefault:"16:9"`

	// PollInterval is the wait between status queries for an in-flight job.
	PollInterval time.Duration `env:"FAL_POLL_INTERVAL" envDefault:"4s"`

	// MaxPollAttempts bounds the polling loop. With the default interval this
	// yields a wall-clock ceiling of roughly 400 seconds, after which the job
	// is recorded as pending rather than awaited further. The bound exists so
	// the request handler returns a well-formed response instead of being
	// killed by the hosting runtime mid-flight.
	MaxPollAttempts int `env:"FAL_MAX_POLL_ATTEMPTS" envDefault:"100"`

	// ResumePollAttempts bounds the shorter polling window used when resuming
	// a previously recorded pending job.
	ResumePollAttempts int `env:"FAL_RESUME_POLL_ATTEMPTS" envDefault:"3"`
}

// Sanitize applies guardrails to provider configuration values.
func (p *ProviderConfig) Sanitize() {
	if p.DurationSeconds < 1 {
		p.DurationSeconds = 1
	}
	if p.PollInterval < 100*time.Millisecond {
		p.PollInterval = 100 * time.Millisecond
	}
	if p.MaxPollAttempts < 1 {
		p.MaxPollAttempts = 1
	}
	if p.MaxPollAttempts > 1000 {
		p.MaxPollAttempts = 1000
	}
	if p.ResumePollAttempts < 1 {
		p.ResumePollAttempts = 1
	}
}
