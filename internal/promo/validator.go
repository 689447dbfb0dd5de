package promo

import (
	"context"
	"fmt"

	"swiftcart/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// validator implements Validator over a list of pre-loaded code sets. Sets
// are read-only after construction so Validate needs no locking.
type validator struct {
	sets     []CodeSet
	minMatch int
	logger   zerolog.Logger
}

// ValidatorConfig holds promo validator settings.
type ValidatorConfig struct {
	// FilePaths lists the promo files to load.
	FilePaths []string

	// MinMatchCount is how many files a code must appear in to be
	// redeemable. Default 2.
	MinMatchCount int
}

// DefaultValidatorConfig returns the default validator configuration.
func DefaultValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{
		FilePaths: []string{
			"data/promos/promobase1.gz",
			"data/promos/promobase2.gz",
			"data/promos/promobase3.gz",
		},
		MinMatchCount: 2,
	}
}

// NewValidator loads every promo file concurrently and returns a validator
// over the resulting sets. Any file failing to load fails construction.
func NewValidator(ctx context.Context, cfg *ValidatorConfig, loader Loader, logger zerolog.Logger) (Validator, error) {
	if cfg == nil {
		cfg = DefaultValidatorConfig()
	}
	minMatch := cfg.MinMatchCount
	if minMatch < 1 {
		minMatch = 2
	}

	logger = logger.With().Str("component", "promo-validator").Logger()
	logger.Info().
		Int("file_count", len(cfg.FilePaths)).
		Int("min_match_count", minMatch).
		Msg("initialising promo validator")

	sets := make([]CodeSet, len(cfg.FilePaths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range cfg.FilePaths {
		g.Go(func() error {
			set, err := loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load promo file %s: %w", path, err)
			}
			sets[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("promo validator initialisation failed")
		return nil, err
	}

	total := 0
	for i, set := range sets {
		logger.Info().Str("file", cfg.FilePaths[i]).Int("size", set.Size()).Msg("promo file ready")
		total += set.Size()
	}
	logger.Info().Int("total_codes", total).Msg("promo validator initialised")

	return &validator{sets: sets, minMatch: minMatch, logger: logger}, nil
}

// Validate checks code length, then counts the sets containing the code,
// stopping as soon as the threshold is met or can no longer be reached.
func (v *validator) Validate(ctx context.Context, promoCode string) error {
	if len(promoCode) < 8 || len(promoCode) > 10 {
		v.logger.Debug().
			Str("promo_code", promoCode).
			Int("length", len(promoCode)).
			Msg("promo code length out of range")
		return model.ErrInvalidPromoLength
	}

	matches := 0
	for i, set := range v.sets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if set.Contains(promoCode) {
			matches++
			if matches >= v.minMatch {
				v.logger.Debug().
					Str("promo_code", promoCode).
					Int("match_count", matches).
					Msg("promo code validated")
				return nil
			}
		}
		// Stop when the remaining sets cannot reach the threshold.
		if matches+len(v.sets)-i-1 < v.minMatch {
			break
		}
	}

	v.logger.Debug().
		Str("promo_code", promoCode).
		Int("match_count", matches).
		Msg("promo code not found in enough files")
	return model.ErrInvalidPromoCode
}

// Close drops the loaded sets so their memory can be reclaimed.
func (v *validator) Close() error {
	v.sets = nil
	v.logger.Info().Msg("promo validator closed")
	return nil
}
