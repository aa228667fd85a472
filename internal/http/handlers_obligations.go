package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
)

// obligationRequest is the body for creating a receivable or payable. The
// counterparty is customerName for receivables and vendorName for payables.
type obligationRequest struct {
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	CustomerName string `json:"customerName,omitempty"`
	VendorName   string `json:"vendorName,omitempty"`
	Description  string `json:"description,omitempty"`
	DueDate      string `json:"dueDate"`
	Status       string `json:"status,omitempty"`
}

type obligationResponse struct {
	ID           int64                 `json:"id"`
	Date         string                `json:"date"`
	Amount       core.Money            `json:"amount"`
	CustomerName string                `json:"customerName,omitempty"`
	VendorName   string                `json:"vendorName,omitempty"`
	Description  string                `json:"description,omitempty"`
	DueDate      string                `json:"dueDate"`
	Status       core.ObligationStatus `json:"status"`
	CreatedAt    time.Time             `json:"createdAt"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func toObligationResponse(o core.Obligation) obligationResponse {
	resp := obligationResponse{
		ID:          o.ID,
		Date:        o.Date,
		Amount:      o.Amount,
		Description: o.Description,
		DueDate:     o.DueDate,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
	}
	if o.Kind == core.Payable {
		resp.VendorName = o.Counterparty
	} else {
		resp.CustomerName = o.Counterparty
	}
	return resp
}

func (req obligationRequest) input(kind core.ObligationKind) core.ObligationInput {
	counterparty := req.CustomerName
	if kind == core.Payable {
		counterparty = req.VendorName
	}
	return core.ObligationInput{
		Kind:         kind,
		Date:         req.Date,
		Amount:       req.Amount,
		Counterparty: counterparty,
		Description:  req.Description,
		DueDate:      req.DueDate,
		Status:       req.Status,
	}
}

func (s *Server) handleListObligations(kind core.ObligationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list := s.svc.Obligations.ListReceivables
		if kind == core.Payable {
			list = s.svc.Obligations.ListPayables
		}
		items, err := list(r.Context())
		if err != nil {
			writeError(w, r, "list_"+string(kind)+"s", err)
			return
		}
		out := make([]obligationResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toObligationResponse(o))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) handleCreateObligation(kind core.ObligationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op := "create_" + string(kind)
		var req obligationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, op, err)
			return
		}
		create := s.svc.Obligations.CreateReceivable
		if kind == core.Payable {
			create = s.svc.Obligations.CreatePayable
		}
		o, err := create(r.Context(), req.input(kind))
		if err != nil {
			writeError(w, r, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, toObligationResponse(o))
	}
}

func (s *Server) handleUpdateObligationStatus(kind core.ObligationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		op := "update_" + string(kind) + "_status"
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, op, err)
			return
		}
		var req statusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, op, err)
			return
		}
		update := s.svc.Obligations.UpdateReceivableStatus
		if kind == core.Payable {
			update = s.svc.Obligations.UpdatePayableStatus
		}
		o, err := update(r.Context(), id, req.Status)
		if err != nil {
			writeError(w, r, op, err)
			return
		}
		s.invalidateDashboard()
		writeJSON(w, http.StatusOK, toObligationResponse(o))
	}
}
