package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wispr-app/wispr-api/config"
	"github.com/wispr-app/wispr-api/internal/adapters/sweeper"
	"github.com/wispr-app/wispr-api/internal/auth"
	"github.com/wispr-app/wispr-api/internal/data"
	"github.com/wispr-app/wispr-api/internal/provider/fal"
	"github.com/wispr-app/wispr-api/internal/service"
	"github.com/wispr-app/wispr-api/internal/storage/supabase"
)

const shutdownWaitTimeout = 10 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Upload     *service.UploadService
	Animations *service.AnimationService
	Verifier   *auth.Verifier
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildServices wires repositories, adapters, and services from configuration.
func BuildServices(deps ServiceDeps) (ServiceContainer, error) {
	if deps.Config == nil {
		return ServiceContainer{}, errors.New("config is required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database connection is required")
	}
	if deps.RedisClient == nil {
		return ServiceContainer{}, errors.New("redis client is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	store, err := supabase.NewStore(supabase.StoreOptions{
		URL:        cfg.Storage.URL,
		ServiceKey: cfg.Storage.ServiceKey,
		Logger:     logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build object store: %w", err)
	}

	provider, err := fal.NewClient(fal.Config{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		Model:   cfg.Provider.Model,
		Logger:  logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build animation provider: %w", err)
	}

	photoRepo := data.NewPhotoRepo(deps.DB, logger)
	animationRepo := data.NewAnimationRepo(deps.DB, logger)
	locker := data.NewRedisLockRepo(deps.RedisClient)

	upload, err := service.NewUploadService(service.UploadServiceOptions{
		Photos: photoRepo,
		Store:  store,
		Bucket: cfg.Storage.PhotoBucket,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build upload service: %w", err)
	}

	animations, err := service.NewAnimationService(service.AnimationServiceOptions{
		Photos:             photoRepo,
		Animations:         animationRepo,
		Store:              store,
		Provider:           provider,
		Locker:             locker,
		PhotoBucket:        cfg.Storage.PhotoBucket,
		VideoBucket:        cfg.Storage.VideoBucket,
		SignedURLTTL:       cfg.Storage.SignedURLTTL,
		Prompt:             cfg.Provider.Prompt,
		DurationSeconds:    cfg.Provider.DurationSeconds,
		AspectRatio:        cfg.Provider.AspectRatio,
		PollInterval:       cfg.Provider.PollInterval,
		MaxPollAttempts:    cfg.Provider.MaxPollAttempts,
		ResumePollAttempts: cfg.Provider.ResumePollAttempts,
		Logger:             logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build animation service: %w", err)
	}

	var verifier *auth.Verifier
	if cfg.Auth.OwnershipCheckEnabled() {
		verifier, err = auth.NewVerifier(cfg.Auth.JWTSecret)
		if err != nil {
			return ServiceContainer{}, fmt.Errorf("build token verifier: %w", err)
		}
	} else {
		logger.Warn("ownership check disabled: AUTH_JWT_SECRET is not set")
	}

	return ServiceContainer{
		Upload:     upload,
		Animations: animations,
		Verifier:   verifier,
	}, nil
}

// ServiceOrchestrationConfig groups everything needed to run the enabled services.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	DB       *sql.DB
	Services ServiceContainer
	Logger   *slog.Logger
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	name string
	done <-chan struct{}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 2)

	var httpServer *http.Server
	if cfg.Config.IsHTTPServerEnabled() {
		server, err := StartHTTPServer(HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			DB:       cfg.DB,
			Logger:   logger,
			ErrCh:    errCh,
		})
		if err != nil {
			return fmt.Errorf("start http server: %w", err)
		}
		httpServer = server
	}

	var backgrounds []backgroundServiceHandle
	if cfg.Config.IsSweeperEnabled() {
		handle, err := startSweeper(serviceCtx, cfg, logger, errCh)
		if err != nil {
			return fmt.Errorf("start sweeper: %w", err)
		}
		backgrounds = append(backgrounds, handle)
	}

	return waitForShutdown(shutdownConfig{
		cancel:      cancel,
		errCh:       errCh,
		httpServer:  httpServer,
		backgrounds: backgrounds,
		logger:      logger,
	})
}

func startSweeper(
	ctx context.Context,
	cfg *ServiceOrchestrationConfig,
	logger *slog.Logger,
	errCh chan<- error,
) (backgroundServiceHandle, error) {
	runner, err := sweeper.NewRunner(sweeper.RunnerOptions{
		Animations: cfg.Services.Animations,
		Config:     cfg.Config.Sweeper,
		Logger:     logger,
	})
	if err != nil {
		return backgroundServiceHandle{}, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if runErr := runner.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
			errCh <- fmt.Errorf("sweeper: %w", runErr)
		}
	}()

	return backgroundServiceHandle{name: "sweeper", done: done}, nil
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	cancel      context.CancelFunc
	errCh       <-chan error
	httpServer  *http.Server
	backgrounds []backgroundServiceHandle
	logger      *slog.Logger
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer != nil {
		if err := ShutdownHTTPServer(cfg.httpServer, cfg.logger); err != nil {
			return err
		}
	}

	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
