package model

// Envelope is the uniform response body for every endpoint. Clients treat
// Success as authoritative regardless of HTTP status nuance.
type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

// DashboardStats is the admin dashboard aggregate payload.
type DashboardStats struct {
	TotalSales        float64            `json:"totalSales"`
	DeliveredOrders   int                `json:"deliveredOrders"`
	TotalOrders       int                `json:"totalOrders"`
	TotalUsers        int                `json:"totalUsers"`
	TopSellingProduct *TopProductSummary `json:"topSellingProduct,omitempty"`
}

// TopProductSummary is the highest-revenue product over delivered orders.
// Ties break toward the lowest product id.
type TopProductSummary struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// TotalPages computes the page count for offset pagination.
func TotalPages(count, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := count / limit
	if count%limit != 0 {
		pages++
	}
	return pages
}
