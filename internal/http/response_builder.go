package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"budget/internal/core"
	ledgerlog "budget/internal/log"
)

// errorBody is the shape of every error response.
type errorBody struct {
	Detail string `json:"detail"`
}

// statusResponse is returned by the delete endpoints.
type statusResponse struct {
	Status              string `json:"status"`
	ID                  string `json:"id,omitempty"`
	AccountID           string `json:"account_id,omitempty"`
	DeletedTransactions *int64 `json:"deleted_transactions,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// errorStatus maps a ledger error onto its HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errMalformedBody), errors.Is(err, core.ErrInvalidIdentifier):
		return http.StatusBadRequest
	case core.IsValidation(err):
		return http.StatusUnprocessableEntity
	case core.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorDetail is the client-facing message. Storage failures are not
// described beyond their class.
func errorDetail(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidIdentifier):
		return "Invalid identifier"
	case errors.Is(err, core.ErrAccountNotFound):
		return "Account not found"
	case errors.Is(err, core.ErrTransactionNotFound):
		return "Transaction not found"
	case errorStatus(err) == http.StatusInternalServerError:
		return "Internal server error"
	default:
		return err.Error()
	}
}

// writeError logs err at a level matching its class and writes the mapped
// response.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := errorStatus(err)
	logger := ledgerlog.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed",
			ledgerlog.FieldOperation, op,
			ledgerlog.FieldStatusCode, status,
			ledgerlog.FieldError, err)
	} else {
		logger.DebugContext(r.Context(), "Request rejected",
			ledgerlog.FieldOperation, op,
			ledgerlog.FieldStatusCode, status,
			ledgerlog.FieldError, err)
	}
	writeDetail(w, status, errorDetail(err))
}

func writeRateLimited(w http.ResponseWriter, r *http.Request) {
	ledgerlog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		ledgerlog.FieldComponent, ledgerlog.ComponentRateLimit,
		ledgerlog.FieldClientIP, extractClientIP(r),
		ledgerlog.FieldPath, r.URL.Path)
	writeDetail(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
}

func writePanic(w http.ResponseWriter, _ *http.Request) {
	writeDetail(w, http.StatusInternalServerError, "Internal server error")
}
