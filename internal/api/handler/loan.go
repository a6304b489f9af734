// internal/api/handler/loan.go
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"wakala-ledger/internal/service"
)

// LoanHandler handles the loan lifecycle.
type LoanHandler struct {
	responder
	service service.LoanService
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(svc service.LoanService, logger *slog.Logger) *LoanHandler {
	return &LoanHandler{responder: newResponder(logger), service: svc}
}

// ApplyLoanRequest represents the request body for a loan application.
// A missing start_date means now.
type ApplyLoanRequest struct {
	MembershipID string          `json:"membership_id" validate:"required"`
	Principal    decimal.Decimal `json:"principal"`
	Rate         decimal.Decimal `json:"rate"`
	StartDate    time.Time       `json:"start_date"`
	DueDate      time.Time       `json:"due_date"`
}

// Apply records a pending loan application.
// POST /loans
func (h *LoanHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyLoanRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, err := h.service.Apply(r.Context(), req.MembershipID, req.Principal, req.Rate, req.StartDate, req.DueDate)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, loan)
}

// Get returns a loan.
// GET /loans/{loanID}
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.GetLoan(r.Context(), chi.URLParam(r, "loanID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, loan)
}

// Approve disburses a pending loan from the group balance.
// POST /loans/{loanID}/approve
func (h *LoanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	group, loan, record, err := h.service.Approve(r.Context(), chi.URLParam(r, "loanID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"loan":           loan,
		"group_id":       group.ID,
		"new_balance":    group.Balance,
		"transaction_id": record.ID,
	})
}

// Reject declines a pending loan.
// POST /loans/{loanID}/reject
func (h *LoanHandler) Reject(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.Reject(r.Context(), chi.URLParam(r, "loanID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, loan)
}

// Pay marks an approved loan as repaid.
// POST /loans/{loanID}/pay
func (h *LoanHandler) Pay(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.MarkPaid(r.Context(), chi.URLParam(r, "loanID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, loan)
}

// Repayment quotes interest and total repayment over the loan term.
// GET /loans/{loanID}/repayment
func (h *LoanHandler) Repayment(w http.ResponseWriter, r *http.Request) {
	quote, err := h.service.RepaymentQuote(r.Context(), chi.URLParam(r, "loanID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, quote)
}
