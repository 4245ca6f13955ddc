package http

import (
	"net/http"

	"budget/internal/core"
)

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "create account", err)
		return
	}
	in, err := req.toNewAccount()
	if err != nil {
		writeError(w, r, "create account", err)
		return
	}

	account, err := s.ledger.Accounts.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, "create account", err)
		return
	}
	s.invalidateStats()
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.ledger.Accounts.List(r.Context())
	if err != nil {
		writeError(w, r, "list accounts", err)
		return
	}
	if accounts == nil {
		accounts = []core.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleAccountsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ledger.Aggregator.Summary(r.Context())
	if err != nil {
		writeError(w, r, "accounts summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.ledger.Accounts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, "get account", err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, "delete account", err)
		return
	}
	deleted, err := s.ledger.Accounts.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, "delete account", err)
		return
	}
	s.invalidateStats()
	writeJSON(w, http.StatusOK, statusResponse{
		Status:              "deleted",
		AccountID:           id,
		DeletedTransactions: &deleted,
	})
}
