package http

import (
	"net/http"

	"budget/internal/core"
)

// handleCategoryStats returns [{category, total}] for one kind, optionally
// within one month.
func (s *Server) handleCategoryStats(w http.ResponseWriter, r *http.Request) {
	month, kind, err := monthKind(r)
	if err != nil {
		writeError(w, r, "category stats", err)
		return
	}
	totals, err := s.categoryStats(r.Context(), month, kind)
	if err != nil {
		writeError(w, r, "category stats", err)
		return
	}
	if totals == nil {
		totals = []core.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.ledger.Aggregator.Dashboard(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, r, "dashboard", err)
		return
	}
	if d.Expenses == nil {
		d.Expenses = []core.CategoryTotal{}
	}
	if d.Income == nil {
		d.Income = []core.CategoryTotal{}
	}
	writeJSON(w, http.StatusOK, d)
}
