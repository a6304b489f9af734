// internal/api/handler/group.go
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"wakala-ledger/internal/api/types"
	"wakala-ledger/internal/domain"
	"wakala-ledger/internal/service"
	"wakala-ledger/internal/util"
)

// GroupHandler handles group membership and the group's read models.
type GroupHandler struct {
	responder
	groups      service.GroupService
	ledger      service.LedgerService
	eligibility service.EligibilityService
	analytics   service.AnalyticsService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(
	groups service.GroupService,
	ledger service.LedgerService,
	eligibility service.EligibilityService,
	analytics service.AnalyticsService,
	logger *slog.Logger,
) *GroupHandler {
	return &GroupHandler{
		responder:   newResponder(logger),
		groups:      groups,
		ledger:      ledger,
		eligibility: eligibility,
		analytics:   analytics,
	}
}

// CreateGroupRequest represents the request body for group creation.
type CreateGroupRequest struct {
	CreatorID         string          `json:"creator_id" validate:"required"`
	Name              string          `json:"name" validate:"required,max=100"`
	RiskTolerance     string          `json:"risk_tolerance" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	ContributionLimit decimal.Decimal `json:"contribution_limit"`
}

// Create handles group creation. The creator becomes its admin.
// POST /groups
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if !h.decode(w, r, &req) {
		return
	}

	group, admin, err := h.groups.CreateGroup(r.Context(), req.CreatorID, req.Name, domain.RiskTolerance(req.RiskTolerance), req.ContributionLimit)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"group":      group,
		"membership": admin,
	})
}

// Get returns a group with its current balance.
// GET /groups/{groupID}
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, err := h.ledger.GetGroupBalance(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, group)
}

// Delete removes a group. Its ledger records are kept.
// DELETE /groups/{groupID}
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.DeleteGroup(r.Context(), chi.URLParam(r, "groupID")); err != nil {
		h.respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// JoinGroupRequest represents the request body for joining a group.
type JoinGroupRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// Join adds a user to a group as a regular member.
// POST /groups/{groupID}/members
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinGroupRequest
	if !h.decode(w, r, &req) {
		return
	}

	membership, err := h.groups.JoinGroup(r.Context(), chi.URLParam(r, "groupID"), req.UserID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, membership)
}

// ListMembers returns a group's memberships.
// GET /groups/{groupID}/members
func (h *GroupHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.groups.ListMembers(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": members})
}

// Headroom reports how much more the group may invest.
// GET /groups/{groupID}/headroom
func (h *GroupHandler) Headroom(w http.ResponseWriter, r *http.Request) {
	headroom, err := h.eligibility.InvestmentHeadroom(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, headroom)
}

// Analytics returns the group's dashboard figures. An optional as_of query
// parameter (RFC 3339) fixes the evaluation time.
// GET /groups/{groupID}/analytics
func (h *GroupHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	var asOf time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.respondWithError(w, util.ErrInvalidInput)
			return
		}
		asOf = parsed.UTC()
	}

	stats, err := h.analytics.GroupAnalytics(r.Context(), chi.URLParam(r, "groupID"), asOf)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, stats)
}

// Transactions returns the group's ledger records, newest first.
// GET /groups/{groupID}/transactions
func (h *GroupHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	records, total, err := h.ledger.GetTransactionHistory(r.Context(), chi.URLParam(r, "groupID"), limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.TransactionRecord]{
		Data:       records,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}
