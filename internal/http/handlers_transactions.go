package http

import (
	"net/http"
	"sync/atomic"

	"budget/internal/core"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "create transaction", err)
		return
	}
	in, err := req.toNewTransaction()
	if err != nil {
		writeError(w, r, "create transaction", err)
		return
	}

	t, err := s.ledger.Transactions.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, "create transaction", err)
		return
	}
	s.invalidateStats()
	atomic.AddInt64(&s.appMetrics.transactions, 1)
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.Transactions.List(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, r, "list transactions", err)
		return
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.ledger.Transactions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, "get transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.ledger.Transactions.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, "delete transaction", err)
		return
	}
	s.invalidateStats()
	writeJSON(w, http.StatusOK, statusResponse{Status: "deleted", ID: t.ID})
}
