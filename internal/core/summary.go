package core

// NetWorth splits account balances into assets (>= 0) and liabilities (< 0,
// kept negative).
type NetWorth struct {
	Assets      Money `json:"assets"`
	Liabilities Money `json:"liabilities"`
	Total       Money `json:"total"`
}

// CategoryTotal is one row of the category breakdown.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    Money  `json:"total"`
}

// BalanceDrift reports an account whose stored balance differs from its
// opening balance plus the sum of its transactions.
type BalanceDrift struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Stored    Money  `json:"stored"`
	Expected  Money  `json:"expected"`
}

// Delta is Stored minus Expected.
func (d BalanceDrift) Delta() Money {
	return Money{Cents: d.Stored.Cents - d.Expected.Cents}
}
