package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	_ "github.com/AlexZinkM/qcc-wallet/docs" // registers the swagger spec
	"github.com/AlexZinkM/qcc-wallet/internal/config"
	"github.com/AlexZinkM/qcc-wallet/internal/handler"
)

// SetupRouter sets up router with handlers
func SetupRouter(h *handler.QCCHandler, limiter *rate.Limiter) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// QCC endpoints
	mux.HandleFunc("/qcc/generate", h.Generate)
	mux.HandleFunc("/qcc/restore", h.Restore)
	mux.HandleFunc("/qcc/import", h.Import)
	mux.HandleFunc("/qcc/address", h.Address)
	mux.HandleFunc("/qcc/state", h.State)
	mux.HandleFunc("/qcc/balance", h.GetBalance)
	mux.HandleFunc("/qcc/pay", h.Pay)
	mux.HandleFunc("/qcc/receive", h.Receive)
	mux.HandleFunc("/qcc/scan", h.Scan)
	mux.HandleFunc("/qcc/transactions/{hash}", h.Transaction)

	return RequestID(AccessLog(RateLimit(limiter, mux)))
}

// NewLimiterFromConfig returns the request limiter configured by
// RATE_LIMIT_INTERVAL and RATE_LIMIT_BURST.
func NewLimiterFromConfig() *rate.Limiter {
	c := config.Get()
	return rate.NewLimiter(rate.Every(c.RateLimitInterval), c.RateLimitBurst)
}
