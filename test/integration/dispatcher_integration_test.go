package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"swiftcart/internal/config"
	"swiftcart/internal/model"
	"swiftcart/internal/notifier"
	"swiftcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyMailer fails the first failures deliveries, then succeeds.
type flakyMailer struct {
	mu       sync.Mutex
	failures int
	sent     int
}

func newFlakyMailer(failures int) *flakyMailer {
	return &flakyMailer{failures: failures}
}

func (m *flakyMailer) Send(ctx context.Context, email notifier.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errors.New("smtp connection refused")
	}
	m.sent++
	return nil
}

func (m *flakyMailer) Sent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

// runDispatcherUntil runs a dispatcher with a fast poll until done reports
// true or the deadline passes.
func runDispatcherUntil(t *testing.T, jobRepo repository.JobRepository, mailer notifier.Mailer, done func() bool) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := notifier.NewDispatcher(jobRepo, mailer, config.NotifierConfig{
		Workers:      2,
		BatchSize:    10,
		PollInterval: 25 * time.Millisecond,
	}, zerolog.Nop())

	stopped := make(chan error, 1)
	go func() {
		stopped <- dispatcher.Run(ctx)
	}()

	deadline := time.After(10 * time.Second)
	for {
		if done() {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for dispatcher to reach expected state")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not stop after cancellation")
	}
}

func TestNotificationDispatch_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)

	ctx := context.Background()
	logger := zerolog.Nop()
	jobRepo := repository.NewJobRepository(testDB.Pool, logger)

	t.Run("failed delivery is retried after backoff and then succeeds", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		job, err := model.NewJob(model.JobOrderCancel, model.OrderCancelPayload{
			OrderID: uuid.NewString(),
			Name:    "Ada",
			Email:   "ada@example.com",
			Reason:  "changed my mind",
		})
		require.NoError(t, err)
		job.MaxAttempts = 3
		job.BackoffMs = 100
		require.NoError(t, jobRepo.Enqueue(ctx, job))

		mailer := newFlakyMailer(1)
		runDispatcherUntil(t, jobRepo, mailer, func() bool {
			got, err := jobRepo.GetByID(ctx, job.ID)
			require.NoError(t, err)
			return got.Status == model.JobSucceeded
		})

		got, err := jobRepo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobSucceeded, got.Status)
		assert.Equal(t, 2, got.Attempts)
		assert.Equal(t, 1, mailer.Sent())
	})

	t.Run("delivery failures exhaust after max attempts", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		job, err := model.NewJob(model.JobVerifyEmail, model.VerifyEmailPayload{
			Name:  "Ada",
			Email: "ada@example.com",
			Token: "abcdef0123456789abcdef0123456789",
		})
		require.NoError(t, err)
		job.MaxAttempts = 2
		job.BackoffMs = 100
		require.NoError(t, jobRepo.Enqueue(ctx, job))

		mailer := newFlakyMailer(100)
		runDispatcherUntil(t, jobRepo, mailer, func() bool {
			got, err := jobRepo.GetByID(ctx, job.ID)
			require.NoError(t, err)
			return got.Status == model.JobFailedExhausted
		})

		got, err := jobRepo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobFailedExhausted, got.Status)
		assert.Equal(t, 2, got.Attempts)
		require.NotNil(t, got.LastError)

		exhausted, err := jobRepo.ListExhausted(ctx, 10)
		require.NoError(t, err)
		require.Len(t, exhausted, 1)
		assert.Equal(t, job.ID, exhausted[0].ID)
	})
}
