package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"budget/internal/core"
)

func TestErrorStatus(t *testing.T) {
	storageFailure := fmt.Errorf("list accounts: %w: %w", core.ErrStorageUnavailable, errors.New("disk I/O error"))

	tests := []struct {
		err        error
		wantStatus int
		wantDetail string
	}{
		{core.ErrInvalidIdentifier, http.StatusBadRequest, "Invalid identifier"},
		{fmt.Errorf("%w: unexpected EOF", errMalformedBody), http.StatusBadRequest, "malformed request body: unexpected EOF"},
		{core.ErrInvalidMonth, http.StatusUnprocessableEntity, core.ErrInvalidMonth.Error()},
		{core.ErrCategoryTooLong, http.StatusUnprocessableEntity, core.ErrCategoryTooLong.Error()},
		{core.ErrAccountNotFound, http.StatusNotFound, "Account not found"},
		{core.ErrTransactionNotFound, http.StatusNotFound, "Transaction not found"},
		{storageFailure, http.StatusInternalServerError, "Internal server error"},
		{errors.New("anything else"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		if got := errorStatus(tt.err); got != tt.wantStatus {
			t.Errorf("errorStatus(%v) = %d, want %d", tt.err, got, tt.wantStatus)
		}
		if got := errorDetail(tt.err); got != tt.wantDetail {
			t.Errorf("errorDetail(%v) = %q, want %q", tt.err, got, tt.wantDetail)
		}
	}
}
