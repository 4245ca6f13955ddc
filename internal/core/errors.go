package core

import "errors"

var (
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrStorageUnavailable  = errors.New("storage unavailable")

	ErrEmptyName          = errors.New("empty account name")
	ErrNameTooLong        = errors.New("account name too long (max 120 characters)")
	ErrInvalidAccountType = errors.New("invalid account type (want cash, bank or card)")
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidLast4       = errors.New("last4 must be exactly four digits")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidSource      = errors.New("invalid source (want manual or sms)")
	ErrInvalidKind        = errors.New("invalid kind (want expense or income)")
	ErrInvalidMonth       = errors.New("invalid month (want YYYY-MM)")
	ErrDescriptionTooLong = errors.New("description too long (max 500 characters)")
	ErrCategoryTooLong    = errors.New("category too long (max 255 characters)")
	ErrInvalidTimestamp   = errors.New("timestamp out of range (1677-09-21 to 2262-04-11)")
	ErrAmountOutOfRange   = errors.New("amount out of range")
)

// IsNotFound reports whether err is one of the not-found outcomes.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrTransactionNotFound)
}

// IsValidation reports whether err was raised by boundary validation.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrEmptyName, ErrNameTooLong, ErrInvalidAccountType, ErrInvalidCurrency,
		ErrInvalidLast4, ErrInvalidAmount, ErrInvalidSource, ErrInvalidKind,
		ErrInvalidMonth, ErrDescriptionTooLong, ErrCategoryTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
