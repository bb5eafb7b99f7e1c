package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/wispr-app/wispr-api/internal/core"
	"github.com/wispr-app/wispr-api/internal/domain/model"
	apperrors "github.com/wispr-app/wispr-api/internal/errors"
)

// AnimationRepo provides database operations for animation rows.
type AnimationRepo struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewAnimationRepo creates a new AnimationRepo with the given database connection.
func NewAnimationRepo(db *sql.DB, logger *slog.Logger) *AnimationRepo {
	return &AnimationRepo{DB: db, logger: logger}
}

const animationColumns = `id, photo_id, video_path, model, provider_job_id, status, last_error, created_at, updated_at`

// Create inserts an animation row and returns it. The partial unique index on
// pending rows surfaces a duplicate in-flight job as a Conflict error.
func (r *AnimationRepo) Create(
	ctx context.Context,
	params model.CreateAnimationParams,
) (*model.Animation, error) {
	if err := params.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid animation")
	}

	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO animations (photo_id, video_path, model, provider_job_id, status)
		VALUES ($1::uuid, $2, $3, $4, $5)
		RETURNING `+animationColumns,
		params.PhotoID,
		params.VideoPath,
		params.Model,
		params.ProviderJobID,
		params.Status,
	)

	anim, err := scanAnimation(row)
	if err != nil {
		return nil, fmt.Errorf("insert animation: %w", apperrors.MapDBError(err))
	}

	if r.logger != nil {
		r.logger.DebugContext(ctx, "animation created",
			"id", anim.ID, "photo_id", anim.PhotoID, "status", anim.Status)
	}
	return anim, nil
}

// GetByID returns the animation with the given id, or a NotFound error.
func (r *AnimationRepo) GetByID(ctx context.Context, id string) (*model.Animation, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+animationColumns+` FROM animations WHERE id = $1::uuid`, id)

	anim, err := scanAnimation(row)
	if err != nil {
		return nil, fmt.Errorf("get animation %s: %w", id, apperrors.MapDBError(err))
	}
	return anim, nil
}

// ListPending returns pending animations, oldest first.
func (r *AnimationRepo) ListPending(
	ctx context.Context,
	opts core.ListPendingOptions,
) ([]*model.Animation, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	cutoff := time.Now().Add(-opts.OlderThan)

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+animationColumns+`
		FROM animations
		WHERE status = 'pending' AND created_at <= $1
		ORDER BY created_at ASC
		LIMIT $2`,
		cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending animations: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var animations []*model.Animation
	for rows.Next() {
		anim, scanErr := scanAnimation(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan pending animation: %w", scanErr)
		}
		animations = append(animations, anim)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending animations: %w", err)
	}
	return animations, nil
}

// MarkCompleted transitions a pending row to completed with the stored video path.
func (r *AnimationRepo) MarkCompleted(ctx context.Context, id, videoPath string) (*model.Animation, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE animations
		SET status = 'completed', video_path = $2, last_error = NULL, updated_at = now()
		WHERE id = $1::uuid AND status = 'pending'
		RETURNING `+animationColumns,
		id, videoPath)

	anim, err := scanAnimation(row)
	if err != nil {
		return nil, fmt.Errorf("complete animation %s: %w", id, apperrors.MapDBError(err))
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "animation completed", "id", anim.ID, "video_path", videoPath)
	}
	return anim, nil
}

// MarkFailed transitions a pending row to failed with the provider's failure detail.
func (r *AnimationRepo) MarkFailed(ctx context.Context, id, lastError string) (*model.Animation, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE animations
		SET status = 'failed', last_error = $2, updated_at = now()
		WHERE id = $1::uuid AND status = 'pending'
		RETURNING `+animationColumns,
		id, lastError)

	anim, err := scanAnimation(row)
	if err != nil {
		return nil, fmt.Errorf("fail animation %s: %w", id, apperrors.MapDBError(err))
	}

	if r.logger != nil {
		r.logger.InfoContext(ctx, "animation failed", "id", anim.ID, "last_error", lastError)
	}
	return anim, nil
}

func scanAnimation(row rowScanner) (*model.Animation, error) {
	var (
		anim          model.Animation
		videoPath     sql.NullString
		providerJobID sql.NullString
		lastError     sql.NullString
	)
	if err := row.Scan(
		&anim.ID,
		&anim.PhotoID,
		&videoPath,
		&anim.Model,
		&providerJobID,
		&anim.Status,
		&lastError,
		&anim.CreatedAt,
		&anim.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if videoPath.Valid {
		anim.VideoPath = &videoPath.String
	}
	if providerJobID.Valid {
		anim.ProviderJobID = &providerJobID.String
	}
	if lastError.Valid {
		anim.LastError = &lastError.String
	}
	return &anim, nil
}
