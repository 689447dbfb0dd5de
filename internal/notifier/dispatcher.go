package notifier

import (
	"context"
	"time"

	"swiftcart/internal/config"
	"swiftcart/internal/model"
	"swiftcart/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Dispatcher drains the notification job queue. One poller claims due jobs
// and fans them out to a fixed pool of delivery workers. Claiming is atomic
// at the database level, so multiple dispatcher instances can run against the
// same queue without double delivery.
type Dispatcher struct {
	jobRepo      repository.JobRepository
	mailer       Mailer
	workers      int
	batchSize    int
	pollInterval time.Duration
	logger       zerolog.Logger
}

// NewDispatcher creates a dispatcher with the configured worker pool size and
// polling cadence.
func NewDispatcher(jobRepo repository.JobRepository, mailer Mailer, cfg config.NotifierConfig, logger zerolog.Logger) *Dispatcher {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	batchSize := cfg.BatchSize
	if batchSize < 1 {
		batchSize = 10
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Dispatcher{
		jobRepo:      jobRepo,
		mailer:       mailer,
		workers:      workers,
		batchSize:    batchSize,
		pollInterval: pollInterval,
		logger:       logger.With().Str("component", "notifier").Logger(),
	}
}

// Run polls and delivers until ctx is cancelled. It always returns nil on
// shutdown; delivery failures are handled through the job retry state, not by
// stopping the dispatcher.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info().
		Int("workers", d.workers).
		Int("batch_size", d.batchSize).
		Dur("poll_interval", d.pollInterval).
		Msg("notification dispatcher started")

	jobs := make(chan model.NotificationJob)

	g, gctx := errgroup.WithContext(ctx)

	for range d.workers {
		g.Go(func() error {
			for job := range jobs {
				d.deliver(gctx, &job)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		ticker := time.NewTicker(d.pollInterval)
		defer ticker.Stop()

		for {
			d.drain(gctx, jobs)
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	err := g.Wait()
	d.logger.Info().Msg("notification dispatcher stopped")
	return err
}

// drain claims and hands out due jobs until the queue has no more ready work.
func (d *Dispatcher) drain(ctx context.Context, jobs chan<- model.NotificationJob) {
	for {
		claimed, err := d.jobRepo.ClaimDue(ctx, d.batchSize)
		if err != nil {
			if ctx.Err() == nil {
				d.logger.Error().Err(err).Msg("failed to claim jobs")
			}
			return
		}
		if len(claimed) == 0 {
			return
		}

		d.logger.Debug().Int("count", len(claimed)).Msg("claimed notification jobs")

		for _, job := range claimed {
			select {
			case jobs <- job:
			case <-ctx.Done():
				return
			}
		}

		if len(claimed) < d.batchSize {
			return
		}
	}
}

// deliver renders and sends one job, then finalises its state. A render
// failure counts as a delivery attempt like any other failure; the job's
// retry budget decides when to give up.
func (d *Dispatcher) deliver(ctx context.Context, job *model.NotificationJob) {
	logger := d.logger.With().
		Str("job_id", job.ID.String()).
		Str("job_type", string(job.Type)).
		Int("attempt", job.Attempts+1).
		Logger()

	email, err := Render(job)
	if err == nil {
		err = d.mailer.Send(ctx, email)
	}

	if err == nil {
		if markErr := d.jobRepo.MarkSucceeded(ctx, job.ID); markErr != nil {
			logger.Error().Err(markErr).Msg("failed to finalise delivered job")
			return
		}
		logger.Info().Str("to", email.To).Msg("notification delivered")
		return
	}

	status, markErr := d.jobRepo.MarkFailed(ctx, job.ID, err.Error())
	if markErr != nil {
		logger.Error().Err(markErr).Msg("failed to record delivery failure")
		return
	}

	if status == model.JobFailedExhausted {
		logger.Error().Err(err).Msg("notification failed permanently")
	} else {
		logger.Warn().Err(err).Msg("notification delivery failed, will retry")
	}
}
