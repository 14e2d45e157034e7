package http

import (
	"net/http"

	"vencehoje/internal/core"
)

type bucketResponse struct {
	Name    string  `json:"name"`
	Amount  string  `json:"amount"`
	Percent float64 `json:"percent"`
}

type dashboardResponse struct {
	Year    int              `json:"year"`
	Month   int              `json:"month"`
	Mode    string           `json:"mode"`
	Buckets []bucketResponse `json:"buckets"`
	Total   string           `json:"total"`
}

// handleDashboard aggregates one month of a profile's bills by category.
// Query parameters: year, month (default: current), mode (paid or pending,
// default paid).
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	year, month := parseYearMonth(r)
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	mode := core.AggregatePaid
	switch r.URL.Query().Get("mode") {
	case "", "paid":
	case "pending":
		mode = core.AggregatePending
	default:
		writeError(w, http.StatusBadRequest, "mode must be paid or pending")
		return
	}

	bills, err := s.storage.ListBills(r.Context(), profileID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	categories, err := s.storage.ListCategories(r.Context(), profileID)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	breakdown := core.Aggregate(bills, categories, month, year, mode)

	out := dashboardResponse{
		Year:    breakdown.Year,
		Month:   breakdown.Month,
		Mode:    string(breakdown.Mode),
		Buckets: make([]bucketResponse, 0, len(breakdown.Buckets)),
		Total:   breakdown.Total.String(),
	}
	for _, b := range breakdown.Buckets {
		out.Buckets = append(out.Buckets, bucketResponse{
			Name:    b.Name,
			Amount:  b.Amount.String(),
			Percent: breakdown.Percent(b.Name),
		})
	}

	writeJSON(w, http.StatusOK, out)
}
