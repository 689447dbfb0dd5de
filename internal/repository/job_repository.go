package repository

import (
	"context"
	"fmt"
	"time"

	"swiftcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// jobRepository implements JobRepository using a PostgreSQL job table. The
// table doubles as the outbox: state-changing transactions insert into it via
// EnqueueTx, and the dispatcher drains it out of band.
type jobRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewJobRepository creates a new PostgreSQL-backed notification job repository.
func NewJobRepository(pool *pgxpool.Pool, logger zerolog.Logger) JobRepository {
	return &jobRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "job").Logger(),
	}
}

const jobColumns = `id, job_type, payload, status, attempts, max_attempts, backoff_ms,
	next_attempt_at, last_error, created_at, updated_at`

const insertJobQuery = `
	INSERT INTO notification_jobs (id, job_type, payload, status, attempts, max_attempts,
		backoff_ms, next_attempt_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

func scanJob(row pgx.Row) (*model.NotificationJob, error) {
	var j model.NotificationJob
	err := row.Scan(&j.ID, &j.Type, &j.Payload, &j.Status, &j.Attempts, &j.MaxAttempts,
		&j.BackoffMs, &j.NextAttemptAt, &j.LastError, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Enqueue records a job on its own connection.
func (r *jobRepository) Enqueue(ctx context.Context, job *model.NotificationJob) error {
	_, err := r.pool.Exec(ctx, insertJobQuery, job.ID, job.Type, job.Payload, job.Status,
		job.Attempts, job.MaxAttempts, job.BackoffMs, job.NextAttemptAt, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("job_type", string(job.Type)).Msg("failed to enqueue job")
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	r.logger.Debug().
		Str("job_id", job.ID.String()).
		Str("job_type", string(job.Type)).
		Msg("job enqueued")

	return nil
}

// EnqueueTx records a job within the provided transaction.
func (r *jobRepository) EnqueueTx(ctx context.Context, tx pgx.Tx, job *model.NotificationJob) error {
	_, err := tx.Exec(ctx, insertJobQuery, job.ID, job.Type, job.Payload, job.Status,
		job.Attempts, job.MaxAttempts, job.BackoffMs, job.NextAttemptAt, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("job_type", string(job.Type)).Msg("failed to enqueue job in transaction")
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	r.logger.Debug().
		Str("job_id", job.ID.String()).
		Str("job_type", string(job.Type)).
		Msg("job enqueued in transaction")

	return nil
}

// claimLease bounds how long a claimed job may sit in-flight before another
// claimer takes it over. A dispatcher that dies between claiming and
// finalising leaves the row in-flight; once the lease expires the row is
// claimable again, so the job is redelivered rather than lost.
const claimLease = 5 * time.Minute

// ClaimDue moves up to limit due jobs to in-flight and returns them. Due means
// queued with next_attempt_at in the past, or in-flight with an expired lease.
// SKIP LOCKED keeps concurrent workers from claiming the same row.
func (r *jobRepository) ClaimDue(ctx context.Context, limit int) ([]model.NotificationJob, error) {
	query := `
		UPDATE notification_jobs
		SET status = $1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM notification_jobs
			WHERE (status = $2 AND next_attempt_at <= NOW())
			   OR (status = $1 AND updated_at < NOW() - make_interval(secs => $3))
			ORDER BY next_attempt_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + jobColumns

	rows, err := r.pool.Query(ctx, query, model.JobInFlight, model.JobQueued, claimLease.Seconds(), limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to claim due jobs")
		return nil, fmt.Errorf("failed to claim due jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.NotificationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan job row")
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating job rows")
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	return jobs, nil
}

// MarkSucceeded finalises a delivered job.
func (r *jobRepository) MarkSucceeded(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE notification_jobs
		SET status = $2, attempts = attempts + 1, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, id, model.JobSucceeded); err != nil {
		r.logger.Error().Err(err).Str("job_id", id.String()).Msg("failed to mark job succeeded")
		return fmt.Errorf("failed to mark job succeeded: %w", err)
	}

	r.logger.Debug().Str("job_id", id.String()).Msg("job succeeded")
	return nil
}

// MarkFailed records a failed attempt. The job goes back to the queue with its
// fixed backoff applied to next_attempt_at, or to failed-exhausted once the
// attempt ceiling is reached.
func (r *jobRepository) MarkFailed(ctx context.Context, id uuid.UUID, deliveryErr string) (model.JobStatus, error) {
	query := `
		UPDATE notification_jobs
		SET attempts = attempts + 1,
			last_error = $2,
			status = CASE WHEN attempts + 1 >= max_attempts THEN $3 ELSE $4 END,
			next_attempt_at = NOW() + make_interval(secs => backoff_ms / 1000.0),
			updated_at = NOW()
		WHERE id = $1
		RETURNING status
	`

	var status model.JobStatus
	err := r.pool.QueryRow(ctx, query, id, deliveryErr, model.JobFailedExhausted, model.JobQueued).Scan(&status)
	if err != nil {
		r.logger.Error().Err(err).Str("job_id", id.String()).Msg("failed to mark job failed")
		return "", fmt.Errorf("failed to mark job failed: %w", err)
	}

	if status == model.JobFailedExhausted {
		// Operator-visible: the job will never be retried automatically.
		r.logger.Error().
			Str("job_id", id.String()).
			Str("last_error", deliveryErr).
			Msg("notification job exhausted all attempts")
	} else {
		r.logger.Warn().
			Str("job_id", id.String()).
			Str("last_error", deliveryErr).
			Msg("notification job attempt failed, requeued")
	}

	return status, nil
}

// GetByID retrieves a job by ID.
func (r *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.NotificationJob, error) {
	query := `SELECT ` + jobColumns + ` FROM notification_jobs WHERE id = $1`

	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("job_id", id.String()).Msg("failed to query job")
		return nil, fmt.Errorf("failed to query job: %w", err)
	}

	return job, nil
}

// ListExhausted retrieves failed-exhausted jobs for operator follow-up.
func (r *jobRepository) ListExhausted(ctx context.Context, limit int) ([]model.NotificationJob, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM notification_jobs
		WHERE status = $1
		ORDER BY updated_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, model.JobFailedExhausted, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query exhausted jobs")
		return nil, fmt.Errorf("failed to query exhausted jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.NotificationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan job row")
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating job rows")
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	return jobs, nil
}
