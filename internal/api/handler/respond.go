// internal/api/handler/respond.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"wakala-ledger/internal/util" // For custom errors
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// Default and maximum page sizes for list endpoints.
const (
	defaultLimit = 10
	maxLimit     = 100
)

// responder holds the pieces every handler shares.
type responder struct {
	logger   *slog.Logger
	validate *validator.Validate
}

func newResponder(logger *slog.Logger) responder {
	return responder{logger: logger, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Helper function to send JSON responses.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// statusFor maps a service error to its HTTP status. Client errors expose
// their message; anything unmapped is a 500.
func statusFor(err error) (int, bool) {
	switch {
	case util.IsError(err, util.ErrInvalidInput),
		util.IsError(err, util.ErrInvalidAmount),
		util.IsError(err, util.ErrInvariantViolation):
		return http.StatusBadRequest, true
	case util.IsError(err, util.ErrNotFound):
		return http.StatusNotFound, true
	case util.IsError(err, util.ErrInsufficientFunds):
		return http.StatusPaymentRequired, true // 402 Payment Required
	case util.IsError(err, util.ErrInvalidTransition),
		util.IsError(err, util.ErrDuplicateEntry),
		util.IsError(err, util.ErrAlreadyMember):
		return http.StatusConflict, true
	case util.IsError(err, util.ErrLoanLimitExceeded),
		util.IsError(err, util.ErrInvestmentLimitReached):
		return http.StatusUnprocessableEntity, true
	case util.IsError(err, util.ErrLockTimeout):
		return http.StatusServiceUnavailable, true
	default:
		return http.StatusInternalServerError, false
	}
}

// Helper function to send error responses.
func (h responder) respondWithError(w http.ResponseWriter, err error) {
	statusCode, known := statusFor(err)
	message := "Internal server error"
	if known {
		message = err.Error()
	} else {
		h.logger.Error("Unhandled service error", "error", err)
	}
	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

// decode reads the JSON body into dst and runs its validate tags.
// It writes the 400 response itself and reports whether the caller may continue.
func (h responder) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondWithError(w, fmt.Errorf("malformed request body: %w", util.ErrInvalidInput))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			h.respondWithError(w, fmt.Errorf("%v: %w", err, util.ErrInvalidInput))
			return false
		}
		fields := make([]map[string]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, map[string]string{
				"field":   strings.ToLower(fe.Field()),
				"message": validationMessage(fe),
			})
		}
		h.respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": fields,
		})
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "invalid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed '%s' validation", field, fe.Tag())
	}
}

// pagination parses limit and offset, falling back to defaults on bad input.
func pagination(r *http.Request) (limit, offset int) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset, err = strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
