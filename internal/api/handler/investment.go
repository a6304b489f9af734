// internal/api/handler/investment.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/service"
)

// InvestmentHandler handles group investments.
type InvestmentHandler struct {
	responder
	service service.InvestmentService
}

// NewInvestmentHandler creates a new InvestmentHandler.
func NewInvestmentHandler(svc service.InvestmentService, logger *slog.Logger) *InvestmentHandler {
	return &InvestmentHandler{responder: newResponder(logger), service: svc}
}

// PurchaseRequest represents the request body for an investment purchase.
type PurchaseRequest struct {
	PurchasedBy      string          `json:"purchased_by" validate:"required"`
	Kind             string          `json:"kind" validate:"required,oneof=UNIT_TRUST BOND SHARES"`
	Principal        decimal.Decimal `json:"principal"`
	AnnualReturnRate decimal.Decimal `json:"annual_return_rate"`
	Provider         string          `json:"provider" validate:"required,max=100"`
}

// Purchase buys an investment with group funds.
// POST /groups/{groupID}/investments
func (h *InvestmentHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if !h.decode(w, r, &req) {
		return
	}

	group, investment, record, err := h.service.Purchase(r.Context(), service.PurchaseRequest{
		GroupID:          chi.URLParam(r, "groupID"),
		PurchasedBy:      req.PurchasedBy,
		Kind:             domain.InvestmentKind(req.Kind),
		Principal:        req.Principal,
		AnnualReturnRate: req.AnnualReturnRate,
		Provider:         req.Provider,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"investment":     investment,
		"new_balance":    group.Balance,
		"transaction_id": record.ID,
	})
}

// List returns the group's investments.
// GET /groups/{groupID}/investments
func (h *InvestmentHandler) List(w http.ResponseWriter, r *http.Request) {
	investments, err := h.service.ListInvestments(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": investments})
}
