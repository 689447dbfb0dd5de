package router

import (
	"net/http"

	"swiftcart/internal/handler"
	"swiftcart/internal/middleware"

	"github.com/rs/zerolog"
)

// Config carries the handlers and cross-cutting settings the router wires
// together.
type Config struct {
	Products  *handler.ProductHandler
	Cart      *handler.CartHandler
	Orders    *handler.OrderHandler
	Admin     *handler.AdminHandler
	Accounts  *handler.AccountHandler
	JWTSecret string
	Limiter   *middleware.RateLimiter
	Logger    zerolog.Logger
}

// New creates the HTTP handler with all routes and middleware configured.
func New(cfg Config) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (open)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Public catalogue and cart routes
	mux.HandleFunc("GET /api/products", cfg.Products.List)
	mux.HandleFunc("GET /api/products/{id}", cfg.Products.GetByID)
	mux.HandleFunc("POST /api/cart/quote", cfg.Cart.Quote)

	authed := middleware.Authenticate(cfg.JWTSecret, cfg.Logger)
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireAdmin(cfg.Logger)(h))
	}
	userOnly := func(h http.HandlerFunc) http.Handler {
		return authed(h)
	}

	// User order routes
	mux.Handle("POST /api/order/place-order", userOnly(cfg.Orders.PlaceOrder))
	mux.Handle("DELETE /api/order/cancel-order-by-user", userOnly(cfg.Orders.CancelByUser))
	mux.Handle("GET /api/order/my-orders", userOnly(cfg.Orders.MyOrders))
	mux.Handle("GET /api/order/get-order/{id}", userOnly(cfg.Orders.GetByID))
	mux.Handle("POST /api/account/request-verification", userOnly(cfg.Accounts.RequestEmailVerification))

	// Admin catalogue management
	mux.Handle("POST /api/admin/products", adminOnly(cfg.Admin.CreateProduct))
	mux.Handle("PUT /api/admin/products/{id}", adminOnly(cfg.Admin.UpdateProduct))
	mux.Handle("DELETE /api/admin/products/{id}", adminOnly(cfg.Admin.DeleteProduct))
	mux.Handle("PATCH /api/admin/products/{id}/stock", adminOnly(cfg.Admin.AdjustStock))

	// Admin order lifecycle
	mux.Handle("PATCH /api/admin/change-delivery-status", adminOnly(cfg.Admin.ChangeDeliveryStatus))
	mux.Handle("DELETE /api/admin/cancel-order", adminOnly(cfg.Admin.CancelOrder))
	mux.Handle("DELETE /api/admin/delete-order", adminOnly(cfg.Admin.DeleteOrder))

	// Admin accounts and reporting
	mux.Handle("PATCH /api/admin/toggle-suspension", adminOnly(cfg.Admin.ToggleSuspension))
	mux.Handle("GET /api/admin/dashboard", adminOnly(cfg.Admin.Dashboard))
	mux.Handle("GET /api/admin/orders", adminOnly(cfg.Admin.Orders))
	mux.Handle("GET /api/admin/users", adminOnly(cfg.Admin.Users))
	mux.Handle("GET /api/admin/failed-notifications", adminOnly(cfg.Admin.FailedNotifications))

	// Apply global middleware chain (outermost first: Recovery, Logging, CORS, rate limit)
	var h http.Handler = mux
	if cfg.Limiter != nil {
		h = cfg.Limiter.Middleware(h)
	}
	h = middleware.CORS(h)
	h = middleware.Logging(cfg.Logger)(h)
	h = middleware.Recovery(cfg.Logger)(h)

	return h
}
