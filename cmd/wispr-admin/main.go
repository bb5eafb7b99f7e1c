// Command wispr-admin provides operational tooling for the wispr backend:
// migrations, pending-animation inspection, and manual resumes.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/wispr-app/wispr-api/config"
	"github.com/wispr-app/wispr-api/internal/bootstrap"
	"github.com/wispr-app/wispr-api/internal/core"
	"github.com/wispr-app/wispr-api/internal/data"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultCommandTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrate,
		},
		"pending": {
			name:        "pending",
			description: "List pending animations awaiting resume",
			run:         runPending,
		},
		"resume": {
			name:        "resume",
			description: "Resume a pending animation by id: resume <animation-id>",
			run:         runResume,
		},
		"sweep": {
			name:        "sweep",
			description: "Run one sweep over all pending animations",
			run:         runSweep,
		},
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: wispr-admin <command> [args]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "commands:")
	w := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
	for _, cmd := range commands() {
		fmt.Fprintf(w, "  %s\t%s\n", cmd.name, cmd.description)
	}
	_ = w.Flush()
}

func connectDB(ctx *commandContext) (*sql.DB, error) {
	return bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig:    ctx.Config.Postgres,
		RedisConfig: ctx.Config.Redis,
		Logger:      ctx.Logger,
	})
}

func runMigrate(ctx *commandContext, _ []string) error {
	db, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	runCtx, cancel := context.WithTimeout(ctx.Ctx, defaultCommandTimeout)
	defer cancel()

	return bootstrap.RunMigrations(runCtx, db, ctx.Logger)
}

func runPending(ctx *commandContext, _ []string) error {
	db, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	runCtx, cancel := context.WithTimeout(ctx.Ctx, defaultCommandTimeout)
	defer cancel()

	repo := data.NewAnimationRepo(db, ctx.Logger)
	pending, err := repo.ListPending(runCtx, core.ListPendingOptions{Limit: 500})
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		fmt.Println("no pending animations")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPHOTO\tJOB\tAGE")
	for _, anim := range pending {
		jobID := "-"
		if anim.ProviderJobID != nil {
			jobID = *anim.ProviderJobID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			anim.ID, anim.PhotoID, jobID, time.Since(anim.CreatedAt).Round(time.Second))
	}
	return w.Flush()
}

// buildAnimationService wires the full service stack. Resume needs the object
// store and provider, so the admin binary connects everything the API does.
func buildAnimationService(ctx *commandContext, db *sql.DB) (bootstrap.ServiceContainer, func(), error) {
	redisClient, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		DBConfig:    ctx.Config.Postgres,
		RedisConfig: ctx.Config.Redis,
		Logger:      ctx.Logger,
	})
	if err != nil {
		return bootstrap.ServiceContainer{}, nil, fmt.Errorf("connect redis: %w", err)
	}

	services, err := bootstrap.BuildServices(bootstrap.ServiceDeps{
		Config:      &ctx.Config,
		DB:          db,
		RedisClient: redisClient,
		Logger:      ctx.Logger,
	})
	if err != nil {
		_ = redisClient.Close()
		return bootstrap.ServiceContainer{}, nil, err
	}

	cleanup := func() { _ = redisClient.Close() }
	return services, cleanup, nil
}

func runResume(ctx *commandContext, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: resume <animation-id>")
	}
	animationID := args[0]

	db, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	services, cleanup, err := buildAnimationService(ctx, db)
	if err != nil {
		return err
	}
	defer cleanup()

	runCtx, cancel := context.WithTimeout(ctx.Ctx, defaultCommandTimeout)
	defer cancel()

	outcome, err := services.Animations.Resume(runCtx, animationID)
	if err != nil {
		return err
	}

	fmt.Printf("animation %s: %s\n", animationID, outcome.Status)
	if outcome.Animation != nil && outcome.Animation.VideoPath != nil {
		fmt.Printf("video: %s\n", *outcome.Animation.VideoPath)
	}
	return nil
}

func runSweep(ctx *commandContext, _ []string) error {
	db, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	services, cleanup, err := buildAnimationService(ctx, db)
	if err != nil {
		return err
	}
	defer cleanup()

	runCtx, cancel := context.WithTimeout(ctx.Ctx, defaultCommandTimeout)
	defer cancel()

	cfg := ctx.Config.Sweeper
	settled, err := services.Animations.SweepPending(runCtx, cfg.MinPendingAge, cfg.BatchSize)
	if err != nil {
		return err
	}

	fmt.Printf("settled %d animation(s)\n", settled)
	return nil
}
