package http

import (
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.svc.Ledger.ListAccounts(r.Context())
	if err != nil {
		writeError(w, r, "list_accounts", err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "get_account", err)
		return
	}
	account, err := s.svc.Ledger.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, r, "get_account", err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var in core.AccountInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, "create_account", err)
		return
	}
	account, err := s.svc.Ledger.CreateAccount(r.Context(), in)
	if err != nil {
		writeError(w, r, "create_account", err)
		return
	}
	s.invalidateDashboard()
	writeJSON(w, http.StatusCreated, account)
}
