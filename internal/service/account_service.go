package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"swiftcart/internal/model"
	"swiftcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// accountService implements AccountService.
type accountService struct {
	userRepo repository.UserRepository
	jobRepo  repository.JobRepository
	logger   zerolog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(userRepo repository.UserRepository, jobRepo repository.JobRepository, logger zerolog.Logger) AccountService {
	return &accountService{
		userRepo: userRepo,
		jobRepo:  jobRepo,
		logger:   logger.With().Str("service", "account").Logger(),
	}
}

// ToggleSuspension flips the user's suspension flag and queues the
// notification telling them which way it went.
func (s *accountService) ToggleSuspension(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.ToggleSuspension(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to toggle suspension")
		return nil, fmt.Errorf("failed to toggle suspension: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	job, err := model.NewJob(model.JobToggleSuspension, model.SuspensionPayload{
		Name:      user.Name,
		Email:     user.Email,
		Suspended: user.Suspended,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to build notification job")
		return nil, fmt.Errorf("failed to toggle suspension: %w", err)
	}
	if err := s.jobRepo.Enqueue(ctx, job); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to enqueue notification")
		return nil, fmt.Errorf("failed to toggle suspension: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Bool("suspended", user.Suspended).
		Msg("user suspension toggled")
	return user, nil
}

// RequestEmailVerification queues a verify-email notification carrying a
// fresh random token.
func (s *accountService) RequestEmailVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get user")
		return fmt.Errorf("failed to request email verification: %w", err)
	}
	if user == nil {
		return model.ErrUserNotFound
	}

	token, err := verificationToken()
	if err != nil {
		return fmt.Errorf("failed to request email verification: %w", err)
	}

	job, err := model.NewJob(model.JobVerifyEmail, model.VerifyEmailPayload{
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to build notification job")
		return fmt.Errorf("failed to request email verification: %w", err)
	}
	if err := s.jobRepo.Enqueue(ctx, job); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to enqueue notification")
		return fmt.Errorf("failed to request email verification: %w", err)
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("email verification requested")
	return nil
}

func verificationToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
