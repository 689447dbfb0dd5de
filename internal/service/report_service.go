package service

import (
	"context"
	"fmt"

	"swiftcart/internal/model"
	"swiftcart/internal/repository"

	"github.com/rs/zerolog"
)

// reportService implements ReportService. All reads run against live
// relational data; nothing is precomputed.
type reportService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	jobRepo   repository.JobRepository
	logger    zerolog.Logger
}

// NewReportService creates a new report service.
func NewReportService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	jobRepo repository.JobRepository,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		jobRepo:   jobRepo,
		logger:    logger.With().Str("service", "report").Logger(),
	}
}

// Dashboard assembles the admin aggregate stats. Total sales counts delivered
// orders only; cancelled and deleted orders never contribute.
func (s *reportService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	totalSales, deliveredCount, err := s.orderRepo.TotalSales(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to compute total sales")
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	_, orderCount, err := s.orderRepo.List(ctx, 1, 0)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count orders")
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	_, userCount, err := s.userRepo.List(ctx, 1, 0)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count users")
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	top, err := s.orderRepo.TopSellingProduct(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to compute top selling product")
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	return &model.DashboardStats{
		TotalSales:        totalSales,
		DeliveredOrders:   deliveredCount,
		TotalOrders:       orderCount,
		TotalUsers:        userCount,
		TopSellingProduct: top,
	}, nil
}

// ListOrders returns a page of all orders together with realized total sales,
// so the admin order table and its revenue header come from one call.
func (s *reportService) ListOrders(ctx context.Context, page, limit int) (*model.OrderPage, float64, error) {
	page, limit = normalizePage(page, limit)
	orders, count, err := s.orderRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	totalSales, _, err := s.orderRepo.TotalSales(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to compute total sales")
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	return &model.OrderPage{
		Orders:     orders,
		Page:       page,
		Limit:      limit,
		TotalCount: count,
		TotalPages: model.TotalPages(count, limit),
	}, totalSales, nil
}

// ListUsers returns a page of user accounts.
func (s *reportService) ListUsers(ctx context.Context, page, limit int) (*model.UserPage, error) {
	page, limit = normalizePage(page, limit)
	users, count, err := s.userRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &model.UserPage{
		Users:      users,
		Page:       page,
		Limit:      limit,
		TotalCount: count,
		TotalPages: model.TotalPages(count, limit),
	}, nil
}

// FailedJobs returns notification jobs that exhausted their retry budget, for
// operator inspection.
func (s *reportService) FailedJobs(ctx context.Context, limit int) ([]model.NotificationJob, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	jobs, err := s.jobRepo.ListExhausted(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list exhausted jobs")
		return nil, fmt.Errorf("failed to list failed jobs: %w", err)
	}
	return jobs, nil
}
