package core

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
)

const (
	Cash AccountType = "cash"
	Bank AccountType = "bank"
	Card AccountType = "card"

	Manual Source = "manual"
	SMS    Source = "sms"

	Expense Kind = "expense"
	Income  Kind = "income"

	// DefaultCurrency is applied when a caller leaves currency empty.
	DefaultCurrency = "INR"

	// UncategorizedLabel replaces an empty category at aggregation time.
	UncategorizedLabel = "Uncategorized"
)

type (
	AccountType string
	Source      string
	Kind        string

	Account struct {
		ID             string      `json:"id"`
		Name           string      `json:"name"`
		Type           AccountType `json:"type"`
		Currency       string      `json:"currency"`
		Balance        Money       `json:"balance"`
		OpeningBalance Money       `json:"opening_balance"`
		Last4          string      `json:"last4,omitempty"`
	}

	Transaction struct {
		ID          string    `json:"id"`
		AccountID   string    `json:"account_id"`
		Amount      Money     `json:"amount"`
		Currency    string    `json:"currency"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Source      Source    `json:"source"`
		Timestamp   time.Time `json:"timestamp"`
		Day         string    `json:"day"`
		Month       string    `json:"month"`
		RawSource   string    `json:"raw_source,omitempty"`
	}

	// NewAccount is the caller-supplied part of an account.
	NewAccount struct {
		Name     string
		Type     AccountType
		Currency string
		Balance  Money
		Last4    string
	}

	// NewTransaction is the caller-supplied part of a transaction. A zero
	// Timestamp means "now".
	NewTransaction struct {
		AccountID   string
		Amount      Money
		Currency    string
		Category    string
		Description string
		Source      Source
		Timestamp   time.Time
		RawSource   string
	}
)

func (t AccountType) Valid() bool {
	switch t {
	case Cash, Bank, Card:
		return true
	}
	return false
}

func (s Source) Valid() bool {
	switch s {
	case Manual, SMS:
		return true
	}
	return false
}

func (k Kind) Valid() bool {
	switch k {
	case Expense, Income:
		return true
	}
	return false
}

// ParseAccountType maps free text onto the closed set; empty means cash.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return Cash, nil
	}
	if !t.Valid() {
		return "", ErrInvalidAccountType
	}
	return t, nil
}

// ParseSource maps free text onto the closed set; empty means manual.
func ParseSource(s string) (Source, error) {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	if src == "" {
		return Manual, nil
	}
	if !src.Valid() {
		return "", ErrInvalidSource
	}
	return src, nil
}

// ParseKind maps free text onto the closed set; empty means expense.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return Expense, nil
	}
	if !k.Valid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

// ParseID checks that a caller-supplied identifier is a well-formed token
// and returns its canonical form.
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", ErrInvalidIdentifier
	}
	return id.String(), nil
}

// NewID returns a fresh store identifier.
func NewID() string {
	return uuid.NewString()
}

// NormalizeCurrency upper-cases the code, applies the default and checks it
// against the ISO 4217 table.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency, nil
	}
	if money.GetCurrency(code) == nil {
		return "", ErrInvalidCurrency
	}
	return code, nil
}

// ParseMonth validates an optional YYYY-MM filter. Empty is allowed.
func ParseMonth(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(MonthLayout, s)
	if err != nil || t.Format(MonthLayout) != s {
		return "", ErrInvalidMonth
	}
	return s, nil
}

func (a NewAccount) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if len(a.Name) > 120 {
		return ErrNameTooLong
	}
	if !a.Type.Valid() {
		return ErrInvalidAccountType
	}
	if a.Last4 != "" {
		if len(a.Last4) != 4 {
			return ErrInvalidLast4
		}
		for _, r := range a.Last4 {
			if r < '0' || r > '9' {
				return ErrInvalidLast4
			}
		}
	}
	return a.Balance.Validate()
}

func (t NewTransaction) Validate() error {
	if !t.Source.Valid() {
		return ErrInvalidSource
	}
	if len(t.Description) > 500 {
		return ErrDescriptionTooLong
	}
	if len(t.Category) > 255 {
		return ErrCategoryTooLong
	}
	if !t.Timestamp.IsZero() && !ValidTimestamp(t.Timestamp) {
		return ErrInvalidTimestamp
	}
	return t.Amount.Validate()
}

// CategoryLabel is the label a transaction is aggregated under.
func (t Transaction) CategoryLabel() string {
	if strings.TrimSpace(t.Category) == "" {
		return UncategorizedLabel
	}
	return t.Category
}
