package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"budget/internal/core"
)

// maxBodyBytes bounds request bodies. Raw SMS text is the largest field.
const maxBodyBytes = 64 << 10

var errMalformedBody = errors.New("malformed request body")

type createAccountRequest struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	Currency string     `json:"currency"`
	Balance  core.Money `json:"balance"`
	Last4    *string    `json:"last4"`
}

func (req createAccountRequest) toNewAccount() (core.NewAccount, error) {
	typ, err := core.ParseAccountType(req.Type)
	if err != nil {
		return core.NewAccount{}, err
	}
	in := core.NewAccount{
		Name:     sanitizeInput(req.Name),
		Type:     typ,
		Currency: req.Currency,
		Balance:  req.Balance,
	}
	if req.Last4 != nil {
		in.Last4 = strings.TrimSpace(*req.Last4)
	}
	return in, nil
}

// createTransactionRequest also accepts raw_sms, the field name used by
// older mobile clients.
type createTransactionRequest struct {
	AccountID   string      `json:"account_id"`
	Amount      *core.Money `json:"amount"`
	Currency    string      `json:"currency"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Source      string      `json:"source"`
	Timestamp   *time.Time  `json:"timestamp"`
	RawSource   *string     `json:"raw_source"`
	RawSMS      *string     `json:"raw_sms"`
}

func (req createTransactionRequest) toNewTransaction() (core.NewTransaction, error) {
	if req.Amount == nil {
		return core.NewTransaction{}, core.ErrInvalidAmount
	}
	src, err := core.ParseSource(req.Source)
	if err != nil {
		return core.NewTransaction{}, err
	}
	in := core.NewTransaction{
		AccountID:   req.AccountID,
		Amount:      *req.Amount,
		Currency:    req.Currency,
		Category:    sanitizeInput(req.Category),
		Description: sanitizeInput(req.Description),
		Source:      src,
	}
	if req.Timestamp != nil {
		in.Timestamp = *req.Timestamp
	}
	switch {
	case req.RawSource != nil:
		in.RawSource = *req.RawSource
	case req.RawSMS != nil:
		in.RawSource = *req.RawSMS
	}
	return in, nil
}

// decodeJSON reads one JSON object from the body into dst. Validation errors
// raised while decoding typed fields (amounts) pass through unchanged; every
// other decoding problem is errMalformedBody.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if core.IsValidation(err) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errMalformedBody)
		}
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", errMalformedBody)
	}
	return nil
}

// monthKind reads the month and kind query parameters of the stats routes.
func monthKind(r *http.Request) (string, core.Kind, error) {
	q := r.URL.Query()
	month, err := core.ParseMonth(q.Get("month"))
	if err != nil {
		return "", "", err
	}
	kind, err := core.ParseKind(q.Get("kind"))
	if err != nil {
		return "", "", err
	}
	return month, kind, nil
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
