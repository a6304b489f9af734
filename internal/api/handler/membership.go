// internal/api/handler/membership.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/service"
)

// MembershipHandler handles member-level ledger operations.
type MembershipHandler struct {
	responder
	groups      service.GroupService
	ledger      service.LedgerService
	eligibility service.EligibilityService
}

// NewMembershipHandler creates a new MembershipHandler.
func NewMembershipHandler(groups service.GroupService, ledger service.LedgerService, eligibility service.EligibilityService, logger *slog.Logger) *MembershipHandler {
	return &MembershipHandler{
		responder:   newResponder(logger),
		groups:      groups,
		ledger:      ledger,
		eligibility: eligibility,
	}
}

// ContributionRequest represents the request body for a deposit or withdrawal.
type ContributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Kind   string          `json:"kind" validate:"required,oneof=DEPOSIT WITHDRAWAL"`
}

// Get returns a membership.
// GET /memberships/{membershipID}
func (h *MembershipHandler) Get(w http.ResponseWriter, r *http.Request) {
	membership, err := h.groups.GetMembership(r.Context(), chi.URLParam(r, "membershipID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, membership)
}

// Contribute applies a deposit or withdrawal to the member's group.
// POST /memberships/{membershipID}/contributions
func (h *MembershipHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	var req ContributionRequest
	if !h.decode(w, r, &req) {
		return
	}

	group, contribution, record, err := h.ledger.ApplyContribution(r.Context(), chi.URLParam(r, "membershipID"), req.Amount, domain.ContributionKind(req.Kind))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"group_id":       group.ID,
		"new_balance":    group.Balance,
		"contribution":   contribution,
		"transaction_id": record.ID,
	})
}

// Eligibility returns the member's borrowing capacity.
// GET /memberships/{membershipID}/eligibility
func (h *MembershipHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	membershipID := chi.URLParam(r, "membershipID")
	capacity, err := h.eligibility.LoanEligibility(r.Context(), membershipID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"membership_id":    membershipID,
		"loan_eligibility": capacity,
	})
}
