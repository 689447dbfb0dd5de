package handler

import (
	"net/http"

	"swiftcart/internal/auth"
	"swiftcart/internal/model"
	"swiftcart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// adminActor builds the acting identity for admin order operations. Admin
// routes sit behind the role gate, so the identity is always present here.
func adminActor(r *http.Request) service.Actor {
	identity, _ := auth.FromContext(r.Context())
	return service.Actor{ID: identity.UserID, Role: identity.Role}
}

// AdminHandler handles the admin management and reporting routes.
type AdminHandler struct {
	products service.ProductService
	orders   service.OrderService
	reports  service.ReportService
	accounts service.AccountService
	logger   zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	products service.ProductService,
	orders service.OrderService,
	reports service.ReportService,
	accounts service.AccountService,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		products: products,
		orders:   orders,
		reports:  reports,
		accounts: accounts,
		logger:   logger.With().Str("handler", "admin").Logger(),
	}
}

// CreateProduct handles POST /api/admin/products.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	product, err := h.products.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, "Product created successfully", product)
}

// UpdateProduct handles PUT /api/admin/products/{id}.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID", h.logger)
		return
	}

	var req model.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	product, err := h.products.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "Product updated successfully", product)
}

// DeleteProduct handles DELETE /api/admin/products/{id}.
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID", h.logger)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "Product deleted successfully", nil)
}

// adjustStockRequest is the payload for a direct stock edit.
type adjustStockRequest struct {
	Delta int `json:"delta"`
}

// AdjustStock handles PATCH /api/admin/products/{id}/stock.
func (h *AdminHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID", h.logger)
		return
	}

	var req adjustStockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	if err := h.products.AdjustStock(r.Context(), id, req.Delta); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "Stock adjusted successfully", nil)
}

// ChangeDeliveryStatus handles PATCH /api/admin/change-delivery-status.
func (h *AdminHandler) ChangeDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	var req model.ChangeStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID", h.logger)
		return
	}

	if err := h.orders.ChangeStatus(r.Context(), orderID, model.OrderStatus(req.Status)); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "Order status updated successfully", nil)
}

// CancelOrder handles DELETE /api/admin/cancel-order.
func (h *AdminHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	identity := adminActor(r)

	var req model.CancelOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID", h.logger)
		return
	}

	if err := h.orders.Cancel(r.Context(), orderID, identity, req.Reason); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "Order cancelled successfully", nil)
}

// DeleteOrder handles DELETE /api/admin/delete-order.
func (h *AdminHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	var req model.CancelOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID", h.logger)
		return
	}

	if err := h.orders.HardDelete(r.Context(), orderID, req.Reason); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "Order deleted successfully", nil)
}

// toggleSuspensionRequest is the payload for a suspension flip.
type toggleSuspensionRequest struct {
	UserID string `json:"userId"`
}

// ToggleSuspension handles PATCH /api/admin/toggle-suspension.
func (h *AdminHandler) ToggleSuspension(w http.ResponseWriter, r *http.Request) {
	var req toggleSuspensionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID", h.logger)
		return
	}

	user, err := h.accounts.ToggleSuspension(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "User suspension toggled successfully", user)
}

// Dashboard handles GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "Dashboard retrieved successfully", stats)
}

// adminOrdersResponse is the order listing plus realized revenue.
type adminOrdersResponse struct {
	*model.OrderPage
	TotalSales float64 `json:"totalSales"`
}

// Orders handles GET /api/admin/orders.
func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	orders, totalSales, err := h.reports.ListOrders(r.Context(), page, limit)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "Orders retrieved successfully", adminOrdersResponse{
		OrderPage:  orders,
		TotalSales: totalSales,
	})
}

// Users handles GET /api/admin/users.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	users, err := h.reports.ListUsers(r.Context(), page, limit)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "Users retrieved successfully", users)
}

// FailedNotifications handles GET /api/admin/failed-notifications.
func (h *AdminHandler) FailedNotifications(w http.ResponseWriter, r *http.Request) {
	_, limit := pagination(r)

	jobs, err := h.reports.FailedJobs(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, "Failed notifications retrieved successfully", jobs)
}
