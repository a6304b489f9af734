// internal/api/router.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wakala-ledger/internal/api/handler"
)

// Handlers groups the HTTP handlers the router dispatches to.
type Handlers struct {
	Users       *handler.UserHandler
	Groups      *handler.GroupHandler
	Memberships *handler.MembershipHandler
	Loans       *handler.LoanHandler
	Investments *handler.InvestmentHandler
}

// NewRouter sets up and returns a new HTTP router. Metrics in gatherer are
// served on /metrics.
func NewRouter(h Handlers, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)                       // Add a request ID to the context
	r.Use(middleware.RealIP)                          // Use the real IP address
	r.Use(middleware.Logger)                          // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Set a default timeout for requests

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.Users.Register)
		r.Get("/{userID}", h.Users.Get)
	})

	r.Route("/groups", func(r chi.Router) {
		r.Post("/", h.Groups.Create)
		r.Route("/{groupID}", func(r chi.Router) {
			r.Get("/", h.Groups.Get)
			r.Delete("/", h.Groups.Delete)
			r.Post("/members", h.Groups.Join)
			r.Get("/members", h.Groups.ListMembers)
			r.Get("/headroom", h.Groups.Headroom)
			r.Get("/analytics", h.Groups.Analytics)
			r.Get("/transactions", h.Groups.Transactions)
			r.Post("/investments", h.Investments.Purchase)
			r.Get("/investments", h.Investments.List)
		})
	})

	r.Route("/memberships/{membershipID}", func(r chi.Router) {
		r.Get("/", h.Memberships.Get)
		r.Post("/contributions", h.Memberships.Contribute)
		r.Get("/eligibility", h.Memberships.Eligibility)
	})

	r.Route("/loans", func(r chi.Router) {
		r.Post("/", h.Loans.Apply)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/", h.Loans.Get)
			r.Post("/approve", h.Loans.Approve)
			r.Post("/reject", h.Loans.Reject)
			r.Post("/pay", h.Loans.Pay)
			r.Get("/repayment", h.Loans.Repayment)
		})
	})

	return r
}
