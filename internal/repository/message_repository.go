package repository

import (
	"context"
	"fmt"

	"swiftcart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// messageRepository implements MessageRepository using PostgreSQL.
type messageRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMessageRepository creates a new PostgreSQL-backed message repository.
func NewMessageRepository(pool *pgxpool.Pool, logger zerolog.Logger) MessageRepository {
	return &messageRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "message").Logger(),
	}
}

// Create inserts an admin-to-user audit message.
func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	query := `
		INSERT INTO messages (id, sender, sender_model, receiver, receiver_model, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query, message.ID, message.Sender, message.SenderModel,
		message.Receiver, message.ReceiverModel, message.Text, message.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("receiver", message.Receiver.String()).
			Msg("failed to create message")
		return fmt.Errorf("failed to create message: %w", err)
	}

	r.logger.Debug().Str("receiver", message.Receiver.String()).Msg("message created")
	return nil
}
