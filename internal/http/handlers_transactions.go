package http

import (
	"net/http"

	"fintrack/internal/core"
)

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	var (
		items []core.Income
		err   error
	)
	if q := r.URL.Query(); q.Has("month") {
		items, err = s.svc.Recorder.ListIncomeByMonth(r.Context(), q.Get("month"))
	} else {
		items, err = s.svc.Recorder.ListIncome(r.Context())
	}
	if err != nil {
		writeError(w, r, "list_income", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleRecordIncome(w http.ResponseWriter, r *http.Request) {
	var in core.IncomeInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, "record_income", err)
		return
	}
	income, err := s.svc.Recorder.RecordIncome(r.Context(), in)
	if err != nil {
		writeError(w, r, "record_income", err)
		return
	}
	s.invalidateDashboard()
	writeJSON(w, http.StatusCreated, income)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	var (
		items []core.Expense
		err   error
	)
	if q := r.URL.Query(); q.Has("month") {
		items, err = s.svc.Recorder.ListExpensesByMonth(r.Context(), q.Get("month"))
	} else {
		items, err = s.svc.Recorder.ListExpenses(r.Context())
	}
	if err != nil {
		writeError(w, r, "list_expenses", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	var in core.ExpenseInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, "record_expense", err)
		return
	}
	expense, err := s.svc.Recorder.RecordExpense(r.Context(), in)
	if err != nil {
		writeError(w, r, "record_expense", err)
		return
	}
	s.invalidateDashboard()
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Recorder.ListTransfers(r.Context())
	if err != nil {
		writeError(w, r, "list_transfers", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleRecordTransfer(w http.ResponseWriter, r *http.Request) {
	var in core.TransferInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, "record_transfer", err)
		return
	}
	transfer, err := s.svc.Recorder.RecordTransfer(r.Context(), in)
	if err != nil {
		writeError(w, r, "record_transfer", err)
		return
	}
	s.invalidateDashboard()
	writeJSON(w, http.StatusCreated, transfer)
}
