package http

import (
	"encoding/json"
	"net/http"
	"time"

	"vencehoje/internal/core"
)

type billRequest struct {
	Name               string `json:"name"`
	Amount             string `json:"amount"` // decimal, "0" or empty = variable
	DueDate            string `json:"due_date"`
	CategoryID         int64  `json:"category_id"`
	Unit               string `json:"unit"`
	Interval           int    `json:"interval"`
	TotalInstallments  int    `json:"total_installments"`
	CurrentInstallment int    `json:"current_installment"`
	IsAutomatic        bool   `json:"is_automatic"`
}

type billResponse struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Amount             string `json:"amount"`
	PaidAmount         string `json:"paid_amount,omitempty"`
	DueDate            string `json:"due_date"`
	PaymentDate        string `json:"payment_date,omitempty"`
	CategoryID         int64  `json:"category_id"`
	ProfileID          int64  `json:"profile_id"`
	Unit               string `json:"unit"`
	Interval           int    `json:"interval"`
	TotalInstallments  int    `json:"total_installments"`
	CurrentInstallment int    `json:"current_installment"`
	IsPaid             bool   `json:"is_paid"`
	IsAutomatic        bool   `json:"is_automatic"`
	DaysRemaining      int    `json:"days_remaining"`
	NeedsConfirmation  bool   `json:"needs_confirmation"`
}

func toBillResponse(b core.Bill, now time.Time) billResponse {
	resp := billResponse{
		ID:                 b.ID,
		Name:               b.Name,
		Amount:             b.Amount.String(),
		DueDate:            b.DueDate,
		PaymentDate:        b.PaymentDate,
		CategoryID:         b.CategoryID,
		ProfileID:          b.ProfileID,
		Unit:               string(b.Unit),
		Interval:           b.Interval,
		TotalInstallments:  b.TotalInstallments,
		CurrentInstallment: b.CurrentInstallment,
		IsPaid:             b.IsPaid,
		IsAutomatic:        b.IsAutomatic,
	}
	if b.PaidAmount != nil {
		resp.PaidAmount = b.PaidAmount.String()
	}
	if !b.IsPaid {
		resp.DaysRemaining = core.DaysRemaining(b.DueDate, now)
		resp.NeedsConfirmation = core.RequiresConfirmation(b, now)
	}
	return resp
}

func (req billRequest) toBill(profileID int64) (core.Bill, error) {
	amount := core.Money{}
	if req.Amount != "" {
		cents, err := core.ParseDecimalToCents(req.Amount)
		if err != nil {
			return core.Bill{}, err
		}
		amount = core.Money{Cents: cents}
	}

	interval := req.Interval
	if interval == 0 {
		interval = 1
	}
	current := req.CurrentInstallment
	if current == 0 {
		current = 1
	}
	unit := core.RecurrenceUnit(req.Unit)
	if req.Unit == "" {
		unit = core.Month
	}

	return core.Bill{
		Name:               sanitizeInput(req.Name),
		Amount:             amount,
		DueDate:            sanitizeInput(req.DueDate),
		CategoryID:         req.CategoryID,
		ProfileID:          profileID,
		Unit:               unit,
		Interval:           interval,
		TotalInstallments:  req.TotalInstallments,
		CurrentInstallment: current,
		IsAutomatic:        req.IsAutomatic,
	}, nil
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	bills, err := s.storage.ListBills(r.Context(), profileID)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	now := time.Now()
	out := make([]billResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, toBillResponse(b, now))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	var req billRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bill, err := req.toBill(profileID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return
	}

	created, err := s.bills.CreateBill(r.Context(), bill)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toBillResponse(created, time.Now()))
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bill id")
		return
	}

	bill, err := s.storage.GetBill(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBillResponse(bill, time.Now()))
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bill id")
		return
	}

	existing, err := s.storage.GetBill(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	var req billRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bill, err := req.toBill(existing.ProfileID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
		return
	}
	// Payment history fields are not editable through this endpoint and
	// must survive the update untouched.
	bill.ID = id
	bill.IsPaid = existing.IsPaid
	bill.PaymentDate = existing.PaymentDate
	bill.PaidAmount = existing.PaidAmount

	if err := s.bills.UpdateBill(r.Context(), bill); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toBillResponse(bill, time.Now()))
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bill id")
		return
	}

	if err := s.bills.DeleteBill(r.Context(), id); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type payRequest struct {
	Amount      string `json:"amount"`       // empty = base amount
	PaymentDate string `json:"payment_date"` // dd/MM/yyyy, empty = today
}

func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bill id")
		return
	}

	var req payRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	bill, err := s.storage.GetBill(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	amount := bill.Amount
	if req.Amount != "" {
		cents, err := core.ParseDecimalToCents(req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid amount: "+err.Error())
			return
		}
		amount = core.Money{Cents: cents}
	}
	if amount.IsZero() {
		// Variable bills need the actual amount at payment time
		writeError(w, http.StatusBadRequest, "amount is required for variable bills")
		return
	}

	var paymentDate time.Time
	if req.PaymentDate != "" {
		paymentDate, err = core.ParseDate(req.PaymentDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid payment date: expected dd/MM/yyyy")
			return
		}
	}

	archived, err := s.bills.PayBill(r.Context(), id, amount, paymentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toBillResponse(archived, time.Now()))
}
