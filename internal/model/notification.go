package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobType identifies which email template a notification job renders.
type JobType string

const (
	JobVerifyEmail       JobType = "verify-email"
	JobOrderStatusUpdate JobType = "order-status-update"
	JobOrderCancel       JobType = "order-cancel"
	JobToggleSuspension  JobType = "toggle-suspension"
)

// Valid reports whether t is a known job type.
func (t JobType) Valid() bool {
	switch t {
	case JobVerifyEmail, JobOrderStatusUpdate, JobOrderCancel, JobToggleSuspension:
		return true
	}
	return false
}

// JobStatus is the delivery state of a notification job.
type JobStatus string

const (
	JobQueued          JobStatus = "queued"
	JobInFlight        JobStatus = "in-flight"
	JobSucceeded       JobStatus = "succeeded"
	JobFailedExhausted JobStatus = "failed-exhausted"
)

// Default retry policy stamped onto newly enqueued jobs. Set once at startup
// from configuration; jobs already in the queue keep the policy they were
// enqueued with.
var (
	DefaultJobMaxAttempts = 3
	DefaultJobBackoffMs   = 5000
)

// NotificationJob is a durable, retryable unit of email delivery work.
// Backoff is encoded as NextAttemptAt so retries survive process restarts.
type NotificationJob struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Type          JobType         `json:"type" db:"job_type"`
	Payload       json.RawMessage `json:"payload" db:"payload"`
	Status        JobStatus       `json:"status" db:"status"`
	Attempts      int             `json:"attempts" db:"attempts"`
	MaxAttempts   int             `json:"maxAttempts" db:"max_attempts"`
	BackoffMs     int             `json:"backoffMs" db:"backoff_ms"`
	NextAttemptAt time.Time       `json:"nextAttemptAt" db:"next_attempt_at"`
	LastError     *string         `json:"lastError,omitempty" db:"last_error"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderStatusPayload is the payload for order-status-update jobs. It carries
// the full current status text so redelivery never depends on prior emails.
type OrderStatusPayload struct {
	OrderID string `json:"orderId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OrderCancelPayload is the payload for order-cancel jobs.
type OrderCancelPayload struct {
	OrderID string `json:"orderId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Reason  string `json:"reason"`
}

// VerifyEmailPayload is the payload for verify-email jobs.
type VerifyEmailPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// SuspensionPayload is the payload for toggle-suspension jobs.
type SuspensionPayload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Suspended bool   `json:"suspended"`
}

// NewJob builds a queued notification job with the default retry policy,
// eligible for immediate delivery.
func NewJob(jobType JobType, payload any) (*NotificationJob, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &NotificationJob{
		ID:            uuid.New(),
		Type:          jobType,
		Payload:       raw,
		Status:        JobQueued,
		Attempts:      0,
		MaxAttempts:   DefaultJobMaxAttempts,
		BackoffMs:     DefaultJobBackoffMs,
		NextAttemptAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
