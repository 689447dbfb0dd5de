package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"swiftcart/internal/model"
	"swiftcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	jobRepo     repository.JobRepository
	messageRepo repository.MessageRepository
	codCharge   float64
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	jobRepo repository.JobRepository,
	messageRepo repository.MessageRepository,
	codCharge float64,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		jobRepo:     jobRepo,
		messageRepo: messageRepo,
		codCharge:   codCharge,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// debitedLine records a stock debit that may need to be credited back if the
// rest of the placement fails.
type debitedLine struct {
	productID uuid.UUID
	quantity  int
}

// PlaceOrder creates a new order, debiting stock per line. Stock is the
// authority: a line that cannot be fully covered fails the whole order, and
// any debits already applied are credited back.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *model.PlaceOrderRequest) (*model.Order, error) {
	lines, err := s.validatePlaceOrderRequest(req)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(lines))
	for id := range lines {
		productIDs = append(productIDs, id)
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Int("product_count", len(productIDs)).Msg("failed to load products")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	if len(products) != len(productIDs) {
		s.logger.Warn().
			Int("requested", len(productIDs)).
			Int("found", len(products)).
			Msg("order references unknown products")
		return nil, model.ErrProductNotFound
	}

	byID := make(map[uuid.UUID]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// Debit stock line by line. The conditional update is the oversell
	// guard; a failure here means another order won the remaining units.
	debited := make([]debitedLine, 0, len(lines))
	for _, id := range productIDs {
		if err := s.productRepo.AdjustStock(ctx, id, -lines[id]); err != nil {
			s.logger.Warn().
				Str("product_id", id.String()).
				Int("quantity", lines[id]).
				Err(err).
				Msg("stock debit failed")
			s.creditBack(ctx, debited)
			return nil, err
		}
		debited = append(debited, debitedLine{productID: id, quantity: lines[id]})
	}

	now := time.Now()
	order := &model.Order{
		ID:            uuid.New(),
		UserID:        userID,
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
		CODCharges:    s.codCharge,
		Status:        model.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items := make([]model.OrderItem, 0, len(productIDs))
	var subtotal float64
	for _, id := range productIDs {
		p := byID[id]
		lineTotal := roundCents(p.Price * float64(lines[id]))
		subtotal += lineTotal
		items = append(items, model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: p.ID,
			Title:     p.Title,
			Quantity:  lines[id],
			UnitPrice: p.Price,
			LineTotal: lineTotal,
		})
	}
	order.TotalRevenue = roundCents(subtotal)
	order.Items = items

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		s.creditBack(ctx, debited)
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
			s.creditBack(ctx, debited)
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Int("item_count", len(items)).
		Float64("total_revenue", order.TotalRevenue).
		Msg("order placed")

	return order, nil
}

// GetByID retrieves an order. Non-admin actors can only see their own orders;
// an order owned by someone else looks the same as a missing one.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID, actor Actor) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if !actor.Admin() && order.UserID != actor.ID {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// ListByUser retrieves the user's orders, newest first.
func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*model.OrderPage, error) {
	page, limit = normalizePage(page, limit)
	orders, count, err := s.orderRepo.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return &model.OrderPage{
		Orders:     orders,
		Page:       page,
		Limit:      limit,
		TotalCount: count,
		TotalPages: model.TotalPages(count, limit),
	}, nil
}

// ChangeStatus advances an order along the delivery state machine. Only
// forward transitions are accepted; cancellation must go through Cancel.
func (s *orderService) ChangeStatus(ctx context.Context, orderID uuid.UUID, newStatus model.OrderStatus) error {
	if !newStatus.Valid() || newStatus == model.StatusCancelled {
		return model.ErrIllegalTransition
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to change order status: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to lock order")
		return fmt.Errorf("failed to change order status: %w", err)
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return err
	}
	if !order.Status.CanTransitionTo(newStatus) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("from", string(order.Status)).
			Str("to", string(newStatus)).
			Msg("illegal status transition")
		err = model.ErrIllegalTransition
		return err
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, orderID, newStatus, nil); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to update status")
		return fmt.Errorf("failed to change order status: %w", err)
	}

	user, uerr := s.userRepo.GetByID(ctx, order.UserID)
	if uerr != nil {
		s.logger.Error().Err(uerr).Str("user_id", order.UserID.String()).Msg("failed to load order owner")
		return fmt.Errorf("failed to change order status: %w", uerr)
	}

	// The status write stands even when the owner account is gone; there is
	// simply nobody to notify.
	if user != nil {
		var job *model.NotificationJob
		job, err = model.NewJob(model.JobOrderStatusUpdate, model.OrderStatusPayload{
			OrderID: orderID.String(),
			Name:    user.Name,
			Email:   user.Email,
			Status:  string(newStatus),
			Message: statusMessage(orderID, newStatus),
		})
		if err != nil {
			s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to build notification job")
			return fmt.Errorf("failed to change order status: %w", err)
		}
		if err = s.jobRepo.EnqueueTx(ctx, tx, job); err != nil {
			s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to enqueue notification")
			return fmt.Errorf("failed to change order status: %w", err)
		}
	} else {
		s.logger.Error().
			Str("order_id", orderID.String()).
			Str("user_id", order.UserID.String()).
			Msg("order owner not found, skipping notification")
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to change order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("from", string(order.Status)).
		Str("to", string(newStatus)).
		Msg("order status changed")

	s.recordMessage(ctx, order.UserID, statusMessage(orderID, newStatus))
	return nil
}

// Cancel flips the order to cancelled, enqueues the cancellation
// notification in the same transaction, then credits stock back per line.
func (s *orderService) Cancel(ctx context.Context, orderID uuid.UUID, actor Actor, reason string) error {
	if err := validateReason(reason); err != nil {
		return err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to lock order")
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return err
	}
	if !actor.Admin() && order.UserID != actor.ID {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("actor_id", actor.ID.String()).
			Msg("cancel attempt by non-owner")
		err = model.ErrNotOrderOwner
		return err
	}
	if !order.Status.CanTransitionTo(model.StatusCancelled) {
		err = model.ErrIllegalTransition
		return err
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, orderID, model.StatusCancelled, &reason); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to update status")
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	user, uerr := s.userRepo.GetByID(ctx, order.UserID)
	if uerr != nil {
		s.logger.Error().Err(uerr).Str("user_id", order.UserID.String()).Msg("failed to load order owner")
		return fmt.Errorf("failed to cancel order: %w", uerr)
	}
	if user != nil {
		var job *model.NotificationJob
		job, err = model.NewJob(model.JobOrderCancel, model.OrderCancelPayload{
			OrderID: orderID.String(),
			Name:    user.Name,
			Email:   user.Email,
			Reason:  reason,
		})
		if err != nil {
			s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to build notification job")
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		if err = s.jobRepo.EnqueueTx(ctx, tx, job); err != nil {
			s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to enqueue notification")
			return fmt.Errorf("failed to cancel order: %w", err)
		}
	} else {
		s.logger.Error().
			Str("order_id", orderID.String()).
			Str("user_id", order.UserID.String()).
			Msg("order owner not found, skipping notification")
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("actor_id", actor.ID.String()).
		Msg("order cancelled")

	s.restock(ctx, order)
	s.recordMessage(ctx, order.UserID, fmt.Sprintf("Your order %s has been cancelled. Reason: %s", orderID, reason))
	return nil
}

// HardDelete purges the order record. The owner is still notified of the
// cancellation, and stock is credited back unless the order was already
// cancelled (which already restored it).
func (s *orderService) HardDelete(ctx context.Context, orderID uuid.UUID, reason string) error {
	if err := validateReason(reason); err != nil {
		return err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to delete order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to lock order")
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return err
	}
	wasCancelled := order.Status == model.StatusCancelled

	user, uerr := s.userRepo.GetByID(ctx, order.UserID)
	if uerr != nil {
		s.logger.Error().Err(uerr).Str("user_id", order.UserID.String()).Msg("failed to load order owner")
		return fmt.Errorf("failed to delete order: %w", uerr)
	}

	if err = s.orderRepo.Delete(ctx, tx, orderID); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if user != nil {
		var job *model.NotificationJob
		job, err = model.NewJob(model.JobOrderCancel, model.OrderCancelPayload{
			OrderID: orderID.String(),
			Name:    user.Name,
			Email:   user.Email,
			Reason:  reason,
		})
		if err != nil {
			s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to build notification job")
			return fmt.Errorf("failed to delete order: %w", err)
		}
		if err = s.jobRepo.EnqueueTx(ctx, tx, job); err != nil {
			s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to enqueue notification")
			return fmt.Errorf("failed to delete order: %w", err)
		}
	} else {
		s.logger.Error().
			Str("order_id", orderID.String()).
			Str("user_id", order.UserID.String()).
			Msg("order owner not found, skipping notification")
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.logger.Info().Str("order_id", orderID.String()).Msg("order deleted")

	if !wasCancelled {
		s.restock(ctx, order)
	}
	s.recordMessage(ctx, order.UserID, fmt.Sprintf("Your order %s has been removed. Reason: %s", orderID, reason))
	return nil
}

// restock credits stock back for every line of a cancelled or deleted order.
// Best effort: a failed line is logged and the rest still proceed.
func (s *orderService) restock(ctx context.Context, order *model.Order) {
	for _, item := range order.Items {
		if err := s.productRepo.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("product_id", item.ProductID.String()).
				Int("quantity", item.Quantity).
				Msg("failed to credit stock back")
		}
	}
}

// creditBack reverses stock debits applied before a placement failure.
func (s *orderService) creditBack(ctx context.Context, debited []debitedLine) {
	for _, d := range debited {
		if err := s.productRepo.AdjustStock(ctx, d.productID, d.quantity); err != nil {
			s.logger.Error().
				Err(err).
				Str("product_id", d.productID.String()).
				Int("quantity", d.quantity).
				Msg("failed to reverse stock debit")
		}
	}
}

// recordMessage persists an in-app admin-to-user message. Best effort.
func (s *orderService) recordMessage(ctx context.Context, userID uuid.UUID, text string) {
	msg := &model.Message{
		ID:            uuid.New(),
		Sender:        model.ModelAdmin,
		SenderModel:   model.ModelAdmin,
		Receiver:      userID,
		ReceiverModel: model.ModelUser,
		Text:          text,
		CreatedAt:     time.Now(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to record message")
	}
}

// validatePlaceOrderRequest checks the request and collapses duplicate
// product lines into a single quantity per product.
func (s *orderService) validatePlaceOrderRequest(req *model.PlaceOrderRequest) (map[uuid.UUID]int, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, model.ErrInvalidQuantity
	}
	if !req.Shipping.Complete() {
		return nil, model.ErrInvalidAddress
	}
	if req.PaymentMethod != model.PaymentMethodCOD {
		return nil, model.ErrInvalidPayment
	}

	lines := make(map[uuid.UUID]int, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, model.ErrInvalidQuantity
		}
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, model.ErrProductNotFound
		}
		lines[id] += item.Quantity
	}
	return lines, nil
}

func validateReason(reason string) error {
	if reason == "" || len(reason) > 500 {
		return model.ErrInvalidReason
	}
	return nil
}

func statusMessage(orderID uuid.UUID, status model.OrderStatus) string {
	return fmt.Sprintf("Your order %s is now %s.", orderID, status)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
