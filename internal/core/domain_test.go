package core

import (
	"errors"
	"strings"
	"testing"
)

func TestParseEnums(t *testing.T) {
	if typ, err := ParseAccountType(""); err != nil || typ != Cash {
		t.Fatalf("empty type: %v %v", typ, err)
	}
	if typ, err := ParseAccountType(" Card "); err != nil || typ != Card {
		t.Fatalf("card: %v %v", typ, err)
	}
	if _, err := ParseAccountType("crypto"); !errors.Is(err, ErrInvalidAccountType) {
		t.Fatalf("expected ErrInvalidAccountType, got %v", err)
	}
	if src, err := ParseSource(""); err != nil || src != Manual {
		t.Fatalf("empty source: %v %v", src, err)
	}
	if _, err := ParseSource("email"); !errors.Is(err, ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v", err)
	}
	if k, err := ParseKind("INCOME"); err != nil || k != Income {
		t.Fatalf("income: %v %v", k, err)
	}
	if _, err := ParseKind("transfer"); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestParseID(t *testing.T) {
	id := NewID()
	got, err := ParseID(strings.ToUpper(id))
	if err != nil || got != id {
		t.Fatalf("ParseID(%q) = %q, %v", id, got, err)
	}
	for _, bad := range []string{"", "123", "not-a-uuid", "6553f1a2b3c4d5e6f7a8b9c0"} {
		if _, err := ParseID(bad); !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("ParseID(%q) expected ErrInvalidIdentifier, got %v", bad, err)
		}
	}
}

func TestNormalizeCurrency(t *testing.T) {
	if c, err := NormalizeCurrency(""); err != nil || c != "INR" {
		t.Fatalf("default currency: %q %v", c, err)
	}
	if c, err := NormalizeCurrency("eur"); err != nil || c != "EUR" {
		t.Fatalf("eur: %q %v", c, err)
	}
	if _, err := NormalizeCurrency("XYZ1"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestParseMonth(t *testing.T) {
	if m, err := ParseMonth(""); err != nil || m != "" {
		t.Fatalf("empty month: %q %v", m, err)
	}
	if m, err := ParseMonth("2025-11"); err != nil || m != "2025-11" {
		t.Fatalf("2025-11: %q %v", m, err)
	}
	for _, bad := range []string{"2025-13", "2025-1", "11-2025", "2025/11"} {
		if _, err := ParseMonth(bad); !errors.Is(err, ErrInvalidMonth) {
			t.Errorf("ParseMonth(%q) expected ErrInvalidMonth, got %v", bad, err)
		}
	}
}

func TestNewAccountValidate(t *testing.T) {
	good := NewAccount{Name: "Wallet", Type: Cash, Currency: "INR", Last4: "1234"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []NewAccount{
		{Name: "", Type: Cash},
		{Name: "  ", Type: Cash},
		{Name: "x", Type: "crypto"},
		{Name: "x", Type: Bank, Last4: "12a4"},
		{Name: "x", Type: Bank, Last4: "123"},
		{Name: strings.Repeat("x", 121), Type: Bank},
	}
	for i, a := range bads {
		if err := a.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		} else if !IsValidation(err) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := (Transaction{}).CategoryLabel(); got != UncategorizedLabel {
		t.Fatalf("empty category label = %q", got)
	}
	if got := (Transaction{Category: "Food"}).CategoryLabel(); got != "Food" {
		t.Fatalf("label = %q", got)
	}
}
