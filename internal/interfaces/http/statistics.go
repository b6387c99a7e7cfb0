package http

import (
	"encoding/json"
	"net/http"

	"tripledger/internal/domain/stats"
)

type StatisticsHandler struct {
	service *stats.Service
}

func NewStatisticsHandler(service *stats.Service) *StatisticsHandler {
	return &StatisticsHandler{service: service}
}

// HandleDailyStatistics returns the budget statistics for one day of a
// trip. The date query parameter is required and must fall inside the
// trip's date range.
func (h *StatisticsHandler) HandleDailyStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tripID := r.PathValue("id")
	if tripID == "" {
		http.Error(w, "Trip ID is required", http.StatusBadRequest)
		return
	}

	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		http.Error(w, "date query parameter is required", http.StatusBadRequest)
		return
	}
	date, err := parseDate(dateParam)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	result, err := h.service.DailyStatistics(r.Context(), tripID, uid, date)
	if err != nil {
		respondError(w, err, "Failed to compute daily statistics")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
